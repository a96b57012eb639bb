// Package secrets reads JSON secrets from AWS Secrets Manager.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
)

// TelegramTokenKey is the field of the secret holding the bot token.
const TelegramTokenKey = "TELEGRAM_BOT_TOKEN"

// Provider resolves named fields of one JSON secret.
type Provider struct {
	client secretsmanageriface.SecretsManagerAPI
	name   string
	logger *slog.Logger
}

// NewProvider constructs the provider for the secret name.
func NewProvider(client secretsmanageriface.SecretsManagerAPI, name string, logger *slog.Logger) *Provider {
	return &Provider{
		client: client,
		name:   name,
		logger: logger.With("component", "secrets.provider"),
	}
}

// Values fetches and decodes the secret string. Binary secrets are not supported.
func (p *Provider) Values(ctx context.Context) (map[string]string, error) {
	out, err := p.client.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(p.name),
	})
	if err != nil {
		return nil, fmt.Errorf("get secret %s: %w", p.name, err)
	}
	raw := aws.StringValue(out.SecretString)
	if raw == "" {
		return map[string]string{}, nil
	}
	var values map[string]string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decode secret %s: %w", p.name, err)
	}
	return values, nil
}

// Lookup returns one field, or "" when the secret or field is unavailable.
// Failures are logged and never fatal.
func (p *Provider) Lookup(ctx context.Context, key string) string {
	values, err := p.Values(ctx)
	if err != nil {
		p.logger.Error("secret unavailable", "secret", p.name, "error", err)
		return ""
	}
	value, ok := values[key]
	if !ok {
		p.logger.Warn("secret field missing", "secret", p.name, "key", key)
	}
	return value
}
