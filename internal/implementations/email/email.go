package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"time"

	"resetme/internal/core/domain/token"
	"resetme/internal/core/domain/user"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/golang-module/carbon/v2"
)

type EmailSender struct {
	ses *ses.Client
	// This address must be verified with Amazon SES.
	sender                string
	passwordResetTemplate string
	passwordResetBaseUrl  url.URL
	now                   func() time.Time
}

func NewEmailSender(
	awsConfig aws.Config,
	sender string,
	passwordResetTemplate string,
	passwordResetBaseUrl url.URL,
	now func() time.Time,
) *EmailSender {
	return &EmailSender{
		ses:                   ses.NewFromConfig(awsConfig),
		sender:                sender,
		passwordResetTemplate: passwordResetTemplate,
		passwordResetBaseUrl:  passwordResetBaseUrl,
		now:                   now,
	}
}

func (s *EmailSender) SendResetToken(
	ctx context.Context,
	u user.User,
	t token.RawToken,
	expiresAt time.Time,
) error {
	if u.Email == "" {
		return errors.New("user email is not defined")
	}

	resetUrl := s.passwordResetBaseUrl
	query := resetUrl.Query()
	query.Set("token", string(t))
	resetUrl.RawQuery = query.Encode()

	templateParamsBytes, err := json.Marshal(
		passwordResetTemplateParams{
			DisplayName:      u.DisplayName,
			PasswordResetUrl: resetUrl.String(),
			ExpiresIn:        carbon.Time2Carbon(expiresAt).SetTimezone(carbon.UTC).DiffForHumans(carbon.Time2Carbon(s.now()).SetTimezone(carbon.UTC)),
		},
	)
	if err != nil {
		return err
	}
	templateParams := string(templateParamsBytes)

	email := string(u.Email)
	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{email},
			},
			Template:     &s.passwordResetTemplate,
			TemplateData: &templateParams,
		},
	)
	return err
}

type passwordResetTemplateParams struct {
	DisplayName      string `json:"displayName"`
	PasswordResetUrl string `json:"passwordResetUrl"`
	ExpiresIn        string `json:"expiresIn"`
}
