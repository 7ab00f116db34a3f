// Package ses delivers messages through the AWS SES v2 API as raw MIME.
package ses

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/zostay/sysmail/transport"
)

// Name is reported by Transport.Name.
const Name = "ses"

// Config holds the settings for the SES client. Credentials fall back to the
// default AWS chain when the static keys are empty.
type Config struct {
	Region           string `toml:"region" env:"REGION"`
	AccessKeyID      string `toml:"access_key_id" env:"ACCESS_KEY_ID"`
	SecretAccessKey  string `toml:"secret_access_key" env:"SECRET_ACCESS_KEY"`
	ConfigurationSet string `toml:"configuration_set" env:"CONFIGURATION_SET"`
}

// SendEmailAPI is the part of the SES v2 client used here.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Transport sends each message with a single SendEmail call.
type Transport struct {
	client           SendEmailAPI
	configurationSet string
	logger           *slog.Logger
}

// New loads the AWS configuration and returns a Transport.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Transport, error) {
	var opts []func(*awsconfig.LoadOptions) error

	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	t := NewWithClient(sesv2.NewFromConfig(awsCfg), logger)
	t.configurationSet = cfg.ConfigurationSet
	return t, nil
}

// NewWithClient returns a Transport using the given client.
func NewWithClient(client SendEmailAPI, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{client: client, logger: logger}
}

// Name implements transport.Transport.
func (t *Transport) Name() string {
	return Name
}

// Send implements transport.Transport.
func (t *Transport) Send(ctx context.Context, env transport.Envelope, src transport.Source) error {
	raw, err := transport.ReadAll(src)
	if err != nil {
		return transport.Fail(Name, err)
	}

	input := &sesv2.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: env.To,
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{
				Data: raw,
			},
		},
	}
	if env.From != "" {
		input.FromEmailAddress = aws.String(env.From)
	}
	if t.configurationSet != "" {
		input.ConfigurationSetName = aws.String(t.configurationSet)
	}

	out, err := t.client.SendEmail(ctx, input)
	if err != nil {
		return transport.Fail(Name, err)
	}

	t.logger.DebugContext(ctx, "sent message through SES",
		"message_id", aws.ToString(out.MessageId),
		"recipients", len(env.To))

	return nil
}
