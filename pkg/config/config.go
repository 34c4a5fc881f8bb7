package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is the envconfig prefix shared by every binary.
	EnvPrefix = "FORNADA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	JWT    JWTConfig
	GCP    GCPConfig
	PubSub PubSubConfig
	Outbox OutboxConfig

	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FORNADA_APP_ENV" required:"true"`
	Port         string `envconfig:"FORNADA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FORNADA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FORNADA_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"FORNADA_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"FORNADA_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"FORNADA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FORNADA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FORNADA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FORNADA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FORNADA_REDIS_URL"`
	Address      string        `envconfig:"FORNADA_REDIS_ADDR"`
	Password     string        `envconfig:"FORNADA_REDIS_PASSWORD"`
	DB           int           `envconfig:"FORNADA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FORNADA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FORNADA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FORNADA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FORNADA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FORNADA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FORNADA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FORNADA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FORNADA_JWT_EXPIRATION_MINUTES" default:"480"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"FORNADA_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	WorkflowTopic string `envconfig:"FORNADA_PUBSUB_WORKFLOW_TOPIC" default:"fornada-workflow-events"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FORNADA_FEATURE_AUTO_MIGRATE" default:"false"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"FORNADA_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"FORNADA_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"FORNADA_OUTBOX_MAX_ATTEMPTS" default:"10"`
}
