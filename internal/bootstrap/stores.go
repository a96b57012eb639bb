package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/shopbot/internal/domain/dialog"
	"github.com/yanqian/shopbot/internal/domain/faq"
	"github.com/yanqian/shopbot/internal/infra/awsclient"
	"github.com/yanqian/shopbot/internal/infra/config"
	"github.com/yanqian/shopbot/internal/infra/faqrepo"
	"github.com/yanqian/shopbot/internal/infra/orderrepo"
	"github.com/yanqian/shopbot/internal/infra/secrets"
	"github.com/yanqian/shopbot/internal/infra/sessionstore"
	"github.com/yanqian/shopbot/internal/infra/telegram"
)

// AWSSession returns nil when no configured component talks to AWS.
func AWSSession(cfg *config.Config) (*session.Session, error) {
	if !cfg.UsesAWS() {
		return nil, nil
	}
	sess, err := awsclient.NewSession(awsclient.Options{
		Region:          cfg.AWS.Region,
		Endpoint:        cfg.AWS.Endpoint,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
	})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return sess, nil
}

// KnowledgeBase builds the configured FAQ store. Remote stores connect
// lazily so an outage at startup surfaces as a failed cache load, which is
// retried on the next query.
func KnowledgeBase(cfg *config.Config, sess *session.Session, logger *slog.Logger) (faq.KnowledgeBase, func(), error) {
	noop := func() {}
	switch cfg.FAQ.Source {
	case config.SourceDynamoDB:
		if sess == nil {
			return nil, noop, fmt.Errorf("dynamodb knowledge base requires an aws session")
		}
		logger.Info("faq dynamodb repository enabled", "table", cfg.FAQ.DynamoDB.Table)
		return faqrepo.NewDynamoRepository(dynamodb.New(sess), cfg.FAQ.DynamoDB.Table, cfg.FAQ.PageSize), noop, nil
	case config.SourcePostgres:
		pool, err := postgresPool(cfg.FAQ.Postgres)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("faq postgres repository enabled")
		return faqrepo.NewPostgresRepository(pool, cfg.FAQ.PageSize), pool.Close, nil
	case config.SourceObjectStore:
		repo, err := ObjectRepository(cfg, logger)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("faq object store repository enabled", "bucket", cfg.FAQ.ObjectStore.Bucket)
		return repo, noop, nil
	default:
		logger.Info("faq memory repository enabled", "entries", len(faqrepo.SeedEntries()))
		return faqrepo.NewSeededMemoryRepository(cfg.FAQ.PageSize), noop, nil
	}
}

// ObjectRepository builds the S3-compatible page store from config.
func ObjectRepository(cfg *config.Config, logger *slog.Logger) (*faqrepo.ObjectRepository, error) {
	store := cfg.FAQ.ObjectStore
	return faqrepo.NewObjectRepository(faqrepo.ObjectStoreOptions{
		Endpoint:  store.Endpoint,
		AccessKey: store.AccessKey,
		SecretKey: store.SecretKey,
		Bucket:    store.Bucket,
		Region:    store.Region,
		Prefix:    store.Prefix,
	}, logger)
}

func postgresPool(pg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(pg.DSN))
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if pg.MaxConns > 0 {
		poolConfig.MaxConns = pg.MaxConns
	}
	if pg.MinConns > 0 {
		poolConfig.MinConns = pg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("init postgres pool: %w", err)
	}
	return pool, nil
}

// OrderRepository builds the order lookup store.
func OrderRepository(cfg *config.Config, sess *session.Session, logger *slog.Logger) (dialog.OrderRepository, error) {
	if cfg.Orders.Source != config.SourceDynamoDB {
		logger.Info("order memory repository enabled")
		return orderrepo.NewMemoryRepository(), nil
	}
	if sess == nil {
		return nil, fmt.Errorf("dynamodb order repository requires an aws session")
	}
	logger.Info("order dynamodb repository enabled", "table", cfg.Orders.Table)
	return orderrepo.NewDynamoRepository(dynamodb.New(sess), cfg.Orders.Table), nil
}

// SessionStore prefers valkey and falls back to process memory when it is
// disabled or unreachable.
func SessionStore(cfg *config.Config, logger *slog.Logger) (dialog.SessionStore, func()) {
	memory := func() (dialog.SessionStore, func()) {
		return sessionstore.NewMemoryStore(cfg.Session.TTL), func() {}
	}
	if !cfg.Session.Valkey.Enabled {
		return memory()
	}
	opt, err := valkeyOptions(cfg.Session.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return memory()
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return memory()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return memory()
	}
	logger.Info("session valkey store enabled", "addr", cfg.Session.Valkey.Addr)
	return sessionstore.NewValkeyStore(client, cfg.Session.Prefix, cfg.Session.TTL), client.Close
}

func valkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

// TelegramClient resolves the bot token from Secrets Manager when a secret
// is named, otherwise from config. A missing token still yields a client;
// replies are then computed but not sent.
func TelegramClient(cfg *config.Config, sess *session.Session, logger *slog.Logger) *telegram.Client {
	token := cfg.Telegram.BotToken
	if cfg.Secrets.Name != "" && sess != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		provider := secrets.NewProvider(secretsmanager.New(sess), cfg.Secrets.Name, logger)
		if value := provider.Lookup(ctx, secrets.TelegramTokenKey); value != "" {
			token = value
		}
	}
	client := telegram.NewClient(cfg.Telegram.APIBaseURL, token)
	if !client.HasToken() {
		logger.Warn("telegram bot token not configured")
	}
	return client
}
