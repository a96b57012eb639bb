package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Knowledge-base and order store backends.
const (
	SourceMemory      = "memory"
	SourcePostgres    = "postgres"
	SourceDynamoDB    = "dynamodb"
	SourceObjectStore = "objectstore"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Hours    HoursConfig    `yaml:"hours"`
	FAQ      FAQConfig      `yaml:"faq"`
	Orders   OrdersConfig   `yaml:"orders"`
	Session  SessionConfig  `yaml:"session"`
	AWS      AWSConfig      `yaml:"aws"`
	Telegram TelegramConfig `yaml:"telegram"`
	Secrets  SecretsConfig  `yaml:"secrets"`
	Admin    AdminConfig    `yaml:"admin"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	CORSOrigins  []string        `yaml:"corsOrigins"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// HoursConfig selects the zone the weekly schedule is read in.
type HoursConfig struct {
	TimeZone string `yaml:"timeZone"`
}

// FAQConfig selects and configures the knowledge-base store.
type FAQConfig struct {
	Source      string            `yaml:"source"`
	PageSize    int               `yaml:"pageSize"`
	DynamoDB    DynamoDBConfig    `yaml:"dynamodb"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	ObjectStore ObjectStoreConfig `yaml:"objectStore"`
}

// DynamoDBConfig names a table.
type DynamoDBConfig struct {
	Table string `yaml:"table"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ObjectStoreConfig points at an S3-compatible bucket holding exported pages.
type ObjectStoreConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
}

// OrdersConfig selects the order store.
type OrdersConfig struct {
	Source string `yaml:"source"`
	Table  string `yaml:"table"`
}

// SessionConfig controls where dialog state lives.
type SessionConfig struct {
	TTL    time.Duration `yaml:"ttl"`
	Prefix string        `yaml:"prefix"`
	Valkey ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for session storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// AWSConfig is shared by the DynamoDB and Secrets Manager clients.
type AWSConfig struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyId"`
	SecretAccessKey string `yaml:"secretAccessKey"`
}

// TelegramConfig configures the Bot API client and webhook check.
type TelegramConfig struct {
	BotToken      string `yaml:"botToken"`
	APIBaseURL    string `yaml:"apiBaseUrl"`
	WebhookSecret string `yaml:"webhookSecret"`
}

// SecretsConfig names the Secrets Manager secret holding the bot token.
type SecretsConfig struct {
	Name string `yaml:"name"`
}

// AdminConfig protects the admin API.
type AdminConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
	Issuer    string `yaml:"issuer"`
}

// UsesAWS reports whether any component needs an AWS session.
func (c *Config) UsesAWS() bool {
	return c.FAQ.Source == SourceDynamoDB || c.Orders.Source == SourceDynamoDB || c.Secrets.Name != ""
}

// Load reads configuration from .env, a YAML file and environment variables.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv never overrides variables already set in the environment.
func loadDotEnv() error {
	path := os.Getenv("DOTENV_PATH")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString("HTTP_ADDRESS", &cfg.HTTP.Address)
	setDuration("HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout)
	setDuration("HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout)
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitList(v)
	}
	setBool("HTTP_RATE_LIMIT_ENABLED", &cfg.HTTP.RateLimit.Enabled)
	setInt("HTTP_RATE_LIMIT_RPM", &cfg.HTTP.RateLimit.RequestsPerMinute)
	setInt("HTTP_RATE_LIMIT_BURST", &cfg.HTTP.RateLimit.Burst)

	setString("TIME_ZONE", &cfg.Hours.TimeZone)

	// TABLE_NAME alone selects the DynamoDB knowledge base.
	if v := os.Getenv("TABLE_NAME"); v != "" {
		cfg.FAQ.DynamoDB.Table = v
		if os.Getenv("FAQ_SOURCE") == "" {
			cfg.FAQ.Source = SourceDynamoDB
		}
	}
	setString("FAQ_SOURCE", &cfg.FAQ.Source)
	setInt("FAQ_PAGE_SIZE", &cfg.FAQ.PageSize)
	setString("FAQ_POSTGRES_DSN", &cfg.FAQ.Postgres.DSN)
	if v := os.Getenv("FAQ_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("FAQ_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.Postgres.MinConns = int32(parsed)
		}
	}
	setString("FAQ_OBJECT_ENDPOINT", &cfg.FAQ.ObjectStore.Endpoint)
	setString("FAQ_OBJECT_ACCESS_KEY", &cfg.FAQ.ObjectStore.AccessKey)
	setString("FAQ_OBJECT_SECRET_KEY", &cfg.FAQ.ObjectStore.SecretKey)
	setString("FAQ_OBJECT_BUCKET", &cfg.FAQ.ObjectStore.Bucket)
	setString("FAQ_OBJECT_REGION", &cfg.FAQ.ObjectStore.Region)
	setString("FAQ_OBJECT_PREFIX", &cfg.FAQ.ObjectStore.Prefix)

	setString("ORDERS_SOURCE", &cfg.Orders.Source)
	setString("ORDERS_TABLE", &cfg.Orders.Table)

	setDuration("SESSION_TTL", &cfg.Session.TTL)
	setBool("SESSION_VALKEY_ENABLED", &cfg.Session.Valkey.Enabled)
	setString("SESSION_VALKEY_ADDR", &cfg.Session.Valkey.Addr)

	setString("REGION_NAME", &cfg.AWS.Region)
	setString("AWS_REGION", &cfg.AWS.Region)
	setString("AWS_ENDPOINT", &cfg.AWS.Endpoint)
	setString("AWS_ACCESS_KEY_ID", &cfg.AWS.AccessKeyID)
	setString("AWS_SECRET_ACCESS_KEY", &cfg.AWS.SecretAccessKey)

	setString("TELEGRAM_BOT_TOKEN", &cfg.Telegram.BotToken)
	setString("TELEGRAM_API_BASE_URL", &cfg.Telegram.APIBaseURL)
	setString("TELEGRAM_WEBHOOK_SECRET", &cfg.Telegram.WebhookSecret)

	setString("SECRET_NAME", &cfg.Secrets.Name)

	setString("ADMIN_JWT_SECRET", &cfg.Admin.JWTSecret)
	setString("ADMIN_JWT_ISSUER", &cfg.Admin.Issuer)
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			CORSOrigins:  []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		FAQ: FAQConfig{
			Source:   SourceMemory,
			PageSize: 100,
			Postgres: PostgresConfig{
				MaxConns: 4,
				MinConns: 0,
			},
			ObjectStore: ObjectStoreConfig{
				Prefix: "faq/",
			},
		},
		Orders: OrdersConfig{
			Source: SourceMemory,
			Table:  "Orders",
		},
		Session: SessionConfig{
			TTL:    30 * time.Minute,
			Prefix: "shopbot",
		},
		Admin: AdminConfig{
			Issuer: "shopbot",
		},
	}
}

// Validate ensures the configuration is safe to use. A missing time zone is
// not an error; the hours clock falls back to UTC.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.FAQ.PageSize < 0 {
		return errors.New("faq.pageSize cannot be negative")
	}
	switch c.FAQ.Source {
	case SourceMemory:
	case SourceDynamoDB:
		if strings.TrimSpace(c.FAQ.DynamoDB.Table) == "" {
			return errors.New("faq.dynamodb.table cannot be empty when faq.source is dynamodb")
		}
	case SourcePostgres:
		if strings.TrimSpace(c.FAQ.Postgres.DSN) == "" {
			return errors.New("faq.postgres.dsn cannot be empty when faq.source is postgres")
		}
	case SourceObjectStore:
		if strings.TrimSpace(c.FAQ.ObjectStore.Endpoint) == "" || strings.TrimSpace(c.FAQ.ObjectStore.Bucket) == "" {
			return errors.New("faq.objectStore.endpoint and bucket are required when faq.source is objectstore")
		}
	default:
		return fmt.Errorf("faq.source %q is not supported", c.FAQ.Source)
	}
	switch c.Orders.Source {
	case SourceMemory:
	case SourceDynamoDB:
		if strings.TrimSpace(c.Orders.Table) == "" {
			return errors.New("orders.table cannot be empty when orders.source is dynamodb")
		}
	default:
		return fmt.Errorf("orders.source %q is not supported", c.Orders.Source)
	}
	if c.Session.TTL < 0 {
		return errors.New("session.ttl cannot be negative")
	}
	if c.Session.Valkey.Enabled && strings.TrimSpace(c.Session.Valkey.Addr) == "" {
		return errors.New("session.valkey.addr cannot be empty when valkey is enabled")
	}
	return nil
}
