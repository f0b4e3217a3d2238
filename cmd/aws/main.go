package main

import (
	"context"
	"fmt"
	"os"
	"resetme/internal/config"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const passwordResetSubject = "Reset your password"

const passwordResetHtml = `<p>Hi {{displayName}},</p>
<p>We received a request to reset the password for your account.
Follow the link below to pick a new one. The link is valid for {{expiresIn}}
and can be used only once.</p>
<p><a href="{{passwordResetUrl}}">Reset password</a></p>
<p>If you did not request a reset, you can safely ignore this email.</p>`

const passwordResetText = `Hi {{displayName}},

We received a request to reset the password for your account. Open the
link below to pick a new one. The link is valid for {{expiresIn}} and can
be used only once.

{{passwordResetUrl}}

If you did not request a reset, you can safely ignore this email.`

// Manages the SES template used for reset emails:
//
//	go run ./cmd/aws create
//	go run ./cmd/aws delete
//	go run ./cmd/aws send <to> <template-args-json>
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: aws create|delete|send")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	svc := sesClient(cfg)

	switch os.Args[1] {
	case "create":
		createEmailTemplate(svc, cfg.AwsEmailPasswordResetTemplate)
	case "delete":
		deleteEmailTemplate(svc, cfg.AwsEmailPasswordResetTemplate)
	case "send":
		if len(os.Args) != 4 {
			fmt.Fprintln(os.Stderr, "usage: aws send <to> <template-args-json>")
			os.Exit(2)
		}
		sendEmailTemplate(svc, cfg, os.Args[2], os.Args[3])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		os.Exit(2)
	}
}

func sesClient(cfg *config.Config) *ses.Client {
	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(cfg.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AwsAccessKey,
				cfg.AwsSecretKey,
				"",
			),
		),
	)
	if err != nil {
		fatal(err)
	}
	return ses.NewFromConfig(awsCfg)
}

func createEmailTemplate(svc *ses.Client, name string) {
	subject := passwordResetSubject
	htmlPart := passwordResetHtml
	textPart := passwordResetText
	result, err := svc.CreateTemplate(context.Background(), &ses.CreateTemplateInput{
		Template: &types.Template{
			SubjectPart:  &subject,
			HtmlPart:     &htmlPart,
			TextPart:     &textPart,
			TemplateName: &name,
		},
	})
	if err != nil {
		fatal(err)
	}

	fmt.Println("Success:")
	fmt.Println(result)
}

func deleteEmailTemplate(svc *ses.Client, name string) {
	result, err := svc.DeleteTemplate(
		context.Background(),
		&ses.DeleteTemplateInput{
			TemplateName: &name,
		},
	)
	if err != nil {
		fatal(err)
	}

	fmt.Println("Success:")
	fmt.Println(result)
}

func sendEmailTemplate(svc *ses.Client, cfg *config.Config, to string, args string) {
	name := cfg.AwsEmailPasswordResetTemplate
	result, err := svc.SendTemplatedEmail(
		context.Background(),
		&ses.SendTemplatedEmailInput{
			Source: &cfg.AwsEmailSender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{to},
			},
			Template:     &name,
			TemplateData: &args,
		},
	)
	if err != nil {
		fatal(err)
	}

	fmt.Println("Success:")
	fmt.Println(result)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
