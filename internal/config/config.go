package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	IsTestMode bool `env:"TEST_MODE"`

	// Secret peppers password hashes, TokenPepper keys the token HMAC.
	// They are separate so that either can be rotated on its own.
	Secret      string `env:"SECRET,required"`
	TokenPepper string `env:"TOKEN_PEPPER,required"`

	// OperatorToken unlocks response diagnostics in production. Empty
	// means diagnostics are test-mode only.
	OperatorToken string `env:"OPERATOR_TOKEN"`

	HTTPAddress    string   `env:"HTTP_ADDRESS" envDefault:"0.0.0.0:8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	PostgresqlURL string `env:"POSTGRESQL_URL,required"`
	RedisURL      string `env:"REDIS_URL,required"`
	RabbitmqURL   string `env:"RABBITMQ_URL,required"`

	ResetEmailExchange   string `env:"RESET_EMAIL_EXCHANGE" envDefault:"resetme"`
	ResetEmailRoutingKey string `env:"RESET_EMAIL_ROUTING_KEY" envDefault:"reset-email"`
	ResetEmailQueue      string `env:"RESET_EMAIL_QUEUE" envDefault:"reset-email"`

	BcryptHasherCost           int           `env:"BCRYPT_HASHER_COST" envDefault:"10"`
	PasswordMinLength          int           `env:"PASSWORD_MIN_LENGTH" envDefault:"8"`
	PasswordResetValidDuration time.Duration `env:"PASSWORD_RESET_VALID_DURATION" envDefault:"60m"`

	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	IssueRateLimit  uint16        `env:"ISSUE_RATE_LIMIT" envDefault:"3"`
	VerifyRateLimit uint16        `env:"VERIFY_RATE_LIMIT" envDefault:"10"`
	ResetRateLimit  uint16        `env:"RESET_RATE_LIMIT" envDefault:"5"`

	AwsRegion                     string `env:"AWS_REGION" envDefault:"us-east-1"`
	AwsAccessKey                  string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey                  string `env:"AWS_SECRET_KEY"`
	AwsEmailSender                string `env:"AWS_EMAIL_SENDER"`
	AwsEmailPasswordResetTemplate string `env:"AWS_EMAIL_PASSWORD_RESET_TEMPLATE" envDefault:"ResetmePasswordReset"`

	PasswordResetBaseURLRaw string `env:"PASSWORD_RESET_BASE_URL" envDefault:"https://localhost:3000/reset-password"`
	passwordResetBaseURL    url.URL
}

func Load() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.PasswordResetBaseURLRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid PASSWORD_RESET_BASE_URL value: %w", err)
	}
	config.passwordResetBaseURL = *baseURL

	return config, nil
}

func (c *Config) PasswordResetBaseURL() url.URL {
	return c.passwordResetBaseURL
}
