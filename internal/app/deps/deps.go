package deps

import (
	"context"
	"resetme/internal/config"
	dl "resetme/internal/core/domain/logging"
	drl "resetme/internal/core/domain/rate_limiter"
	dtoken "resetme/internal/core/domain/token"
	duow "resetme/internal/core/domain/unit_of_work"
	"resetme/internal/core/domain/user"
	dbtoken "resetme/internal/db/token"
	uow "resetme/internal/db/unit_of_work"
	dbuser "resetme/internal/db/user"
	"resetme/internal/implementations/email"
	"resetme/internal/implementations/logging"
	passwordhasher "resetme/internal/implementations/password_hasher"
	passwordpolicy "resetme/internal/implementations/password_policy"
	ratelimiter "resetme/internal/implementations/rate_limiter"
	tokencodec "resetme/internal/implementations/token_codec"
	"resetme/internal/rabbitmq"
	resetemail "resetme/internal/rabbitmq/publishers/reset_email"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB       *pgxpool.Pool
	Redis    *redis.Client
	Rabbitmq *rabbitmq.Connection

	Now func() time.Time

	UnitOfWork      duow.UnitOfWork
	UserRepository  user.UserRepository
	TokenRepository dtoken.TokenRepository

	RateLimiter drl.RateLimiter

	TokenCodec       dtoken.Codec
	TokenVerifier    *dtoken.Verifier
	ConsistencyGuard *dtoken.ConsistencyGuard

	PasswordHasher user.PasswordHasher
	PasswordPolicy user.PasswordPolicy

	// EmailSender talks to SES directly; ResetTokenSender is what the
	// issue flow uses and goes through RabbitMQ.
	EmailSender      *email.EmailSender
	ResetTokenSender dtoken.ResetTokenSender
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()

	closeLogger := deps.initLogger()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()
	closeRabbitmqConn := deps.initRabbitmqConnection()

	deps.Now = func() time.Time { return time.Now().UTC() }

	deps.UnitOfWork = uow.NewPgxUnitOfWork(deps.DB)
	deps.UserRepository = dbuser.NewPgxRepository(deps.DB)
	deps.TokenRepository = dbtoken.NewPgxRepository(deps.DB)

	deps.RateLimiter = ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)

	deps.TokenCodec = tokencodec.NewHMAC(deps.Config.TokenPepper)
	deps.TokenVerifier = dtoken.NewVerifier(deps.TokenCodec, deps.TokenRepository, deps.Now)
	deps.ConsistencyGuard = dtoken.NewConsistencyGuard(deps.Logger, deps.Config.IsTestMode)

	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)
	deps.PasswordPolicy = passwordpolicy.New(deps.Config.PasswordMinLength)

	deps.EmailSender = email.NewEmailSender(
		deps.AwsConfig,
		deps.Config.AwsEmailSender,
		deps.Config.AwsEmailPasswordResetTemplate,
		deps.Config.PasswordResetBaseURL(),
		deps.Now,
	)

	closeResetEmailPublisher := deps.initRabbitmqResetEmailPublisher()

	return deps, func() {
		closeFuncs := []func(){
			closeResetEmailPublisher,
			closeRabbitmqConn,
			closeRedisClient,
			closePgxPool,
			closeLogger,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger()
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initPgxPool() func() {
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initRabbitmqConnection() func() {
	rabbitmqConnection, err := rabbitmq.Dial(deps.Config.RabbitmqURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}

func (deps *Deps) initRabbitmqResetEmailPublisher() func() {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	if err := DeclareResetEmailSchema(rabbitmqChannel, deps.Config); err != nil {
		deps.Logger.Error(context.Background(), "Could not declare RabbitMQ schema.", dl.Entry("err", err))
		panic(err)
	}

	deps.ResetTokenSender = resetemail.NewRabbitMQ(
		deps.Logger,
		rabbitmqChannel,
		deps.Config.ResetEmailExchange,
		deps.Config.ResetEmailRoutingKey,
	)

	return func() {
		deps.Logger.Info(context.Background(), "Shutting down reset email publisher.")
		rabbitmqChannel.Close()
		deps.Logger.Info(context.Background(), "Reset email publisher shut down.")
	}
}

// DeclareResetEmailSchema declares the exchange, the queue and the binding
// used for reset email delivery. Both the API server and the worker call
// it, whichever starts first creates the schema.
func DeclareResetEmailSchema(channel *rabbitmq.Channel, config *config.Config) error {
	if err := channel.ExchangeDeclare(
		config.ResetEmailExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return err
	}
	if _, err := channel.QueueDeclare(config.ResetEmailQueue, true, false, false, false, nil); err != nil {
		return err
	}
	return channel.QueueBind(
		config.ResetEmailQueue,
		config.ResetEmailRoutingKey,
		config.ResetEmailExchange,
		false,
		nil,
	)
}
