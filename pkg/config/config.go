package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "clothstore"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Sendgrid SendgridConfig
	Outbox   OutboxConfig
	Migrate  MigrateConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CLOTHSTORE_APP_ENV" required:"true"`
	Port         string `envconfig:"CLOTHSTORE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CLOTHSTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CLOTHSTORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CLOTHSTORE_DB_DSN"`
	Driver string `envconfig:"CLOTHSTORE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CLOTHSTORE_DB_HOST"`
	LegacyPort     int    `envconfig:"CLOTHSTORE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CLOTHSTORE_DB_USER"`
	LegacyPassword string `envconfig:"CLOTHSTORE_DB_PASSWORD"`
	LegacyName     string `envconfig:"CLOTHSTORE_DB_NAME"`
	LegacySSLMode  string `envconfig:"CLOTHSTORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CLOTHSTORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CLOTHSTORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CLOTHSTORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CLOTHSTORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a postgres DSN from legacy host/user vars when DSN is unset.
func (d *DBConfig) ensureDSN() error {
	if strings.TrimSpace(d.DSN) != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("either CLOTHSTORE_DB_DSN or CLOTHSTORE_DB_HOST/USER/NAME must be set")
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:   d.LegacyName,
	}
	if d.LegacyPassword != "" {
		u.User = url.UserPassword(d.LegacyUser, d.LegacyPassword)
	} else {
		u.User = url.User(d.LegacyUser)
	}
	q := u.Query()
	q.Set("sslmode", d.LegacySSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"CLOTHSTORE_REDIS_URL" required:"true"`
	Password     string        `envconfig:"CLOTHSTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"CLOTHSTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CLOTHSTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CLOTHSTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CLOTHSTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CLOTHSTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CLOTHSTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CLOTHSTORE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CLOTHSTORE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CLOTHSTORE_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CLOTHSTORE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CLOTHSTORE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CLOTHSTORE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CLOTHSTORE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CLOTHSTORE_ARGON_KEY_LEN" default:"32"`
}

type SendgridConfig struct {
	APIKey    string `envconfig:"CLOTHSTORE_SENDGRID_API_KEY"`
	FromEmail string `envconfig:"CLOTHSTORE_SENDGRID_FROM_EMAIL" default:"orders@clothstore.example"`
	FromName  string `envconfig:"CLOTHSTORE_SENDGRID_FROM_NAME" default:"ClothStore"`
}

type OutboxConfig struct {
	PollInterval time.Duration `envconfig:"CLOTHSTORE_OUTBOX_POLL_INTERVAL" default:"5s"`
	BatchSize    int           `envconfig:"CLOTHSTORE_OUTBOX_BATCH_SIZE" default:"25"`
	MaxAttempts  int           `envconfig:"CLOTHSTORE_OUTBOX_MAX_ATTEMPTS" default:"5"`
}

type MigrateConfig struct {
	AutoRun bool   `envconfig:"CLOTHSTORE_MIGRATE_AUTORUN" default:"false"`
	Dir     string `envconfig:"CLOTHSTORE_MIGRATE_DIR" default:"pkg/migrate/migrations"`
}
