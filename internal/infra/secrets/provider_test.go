package secrets

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"github.com/stretchr/testify/require"
)

type fakeSecretsManager struct {
	secretsmanageriface.SecretsManagerAPI
	secret *string
	err    error
	asked  string
}

func (f *fakeSecretsManager) GetSecretValueWithContext(_ aws.Context, input *secretsmanager.GetSecretValueInput, _ ...request.Option) (*secretsmanager.GetSecretValueOutput, error) {
	f.asked = aws.StringValue(input.SecretId)
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: f.secret}, nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLookupReadsJSONField(t *testing.T) {
	fake := &fakeSecretsManager{secret: aws.String(`{"TELEGRAM_BOT_TOKEN":"123:abc"}`)}
	provider := NewProvider(fake, "shopbot/prod", newTestLogger())

	require.Equal(t, "123:abc", provider.Lookup(context.Background(), TelegramTokenKey))
	require.Equal(t, "shopbot/prod", fake.asked)
	require.Empty(t, provider.Lookup(context.Background(), "OTHER"))
}

func TestLookupDegradesToEmpty(t *testing.T) {
	provider := NewProvider(&fakeSecretsManager{err: errors.New("access denied")}, "x", newTestLogger())
	require.Empty(t, provider.Lookup(context.Background(), TelegramTokenKey))

	provider = NewProvider(&fakeSecretsManager{secret: aws.String("not json")}, "x", newTestLogger())
	_, err := provider.Values(context.Background())
	require.Error(t, err)

	provider = NewProvider(&fakeSecretsManager{}, "x", newTestLogger())
	values, err := provider.Values(context.Background())
	require.NoError(t, err)
	require.Empty(t, values)
}
