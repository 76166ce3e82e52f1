package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "AMAZINGSTOR"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "AMAZINGSTOR_DB_DSN"
	EnvDBHost = "AMAZINGSTOR_DB_HOST"
	EnvDBUser = "AMAZINGSTOR_DB_USER"
	EnvDBName = "AMAZINGSTOR_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"AMAZINGSTOR_APP_ENV" required:"true"`
	Port         string `envconfig:"AMAZINGSTOR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AMAZINGSTOR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AMAZINGSTOR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"AMAZINGSTOR_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"AMAZINGSTOR_DB_DSN"`
	Driver string `envconfig:"AMAZINGSTOR_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AMAZINGSTOR_DB_HOST"`
	LegacyPort     int    `envconfig:"AMAZINGSTOR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AMAZINGSTOR_DB_USER"`
	LegacyPassword string `envconfig:"AMAZINGSTOR_DB_PASSWORD"`
	LegacyName     string `envconfig:"AMAZINGSTOR_DB_NAME"`
	LegacySSLMode  string `envconfig:"AMAZINGSTOR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AMAZINGSTOR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AMAZINGSTOR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AMAZINGSTOR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AMAZINGSTOR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AMAZINGSTOR_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AMAZINGSTOR_REDIS_ADDR"`
	Password     string        `envconfig:"AMAZINGSTOR_REDIS_PASSWORD"`
	DB           int           `envconfig:"AMAZINGSTOR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AMAZINGSTOR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AMAZINGSTOR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AMAZINGSTOR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AMAZINGSTOR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AMAZINGSTOR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"AMAZINGSTOR_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AMAZINGSTOR_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"AMAZINGSTOR_JWT_EXPIRATION_MINUTES" required:"true"`
}

// CronConfig controls the sweep cadence of the cron worker. The cart
// life-span itself lives in the server_settings table, not here.
type CronConfig struct {
	Interval time.Duration `envconfig:"AMAZINGSTOR_CRON_INTERVAL" default:"1m"`
	LockTTL  time.Duration `envconfig:"AMAZINGSTOR_CRON_LOCK_TTL" default:"5m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"AMAZINGSTOR_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
