package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Desking      DeskingConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if strings.EqualFold(cfg.DB.Driver, DBDriverSQLite) && cfg.DB.DSN == "" {
		cfg.DB.DSN = DefaultSQLiteDSN
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PULSE_APP_ENV" required:"true"`
	Port         string `envconfig:"PULSE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PULSE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PULSE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PULSE_DB_DSN"`
	Driver string `envconfig:"PULSE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PULSE_DB_HOST"`
	LegacyPort     int    `envconfig:"PULSE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PULSE_DB_USER"`
	LegacyPassword string `envconfig:"PULSE_DB_PASSWORD"`
	LegacyName     string `envconfig:"PULSE_DB_NAME"`
	LegacySSLMode  string `envconfig:"PULSE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PULSE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PULSE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PULSE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PULSE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PULSE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PULSE_REDIS_ADDR"`
	Password     string        `envconfig:"PULSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"PULSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PULSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PULSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PULSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PULSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PULSE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PULSE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PULSE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PULSE_JWT_EXPIRATION_MINUTES" required:"true"`
}

// DeskingConfig carries the environment-tunable engine knobs. The pricing
// tables themselves are plain structs built in code (see internal/desking) so
// tests and tenants can swap them without touching process state.
type DeskingConfig struct {
	DefaultState       string  `envconfig:"PULSE_DESKING_DEFAULT_STATE" default:"CA"`
	DefaultTermMonths  int     `envconfig:"PULSE_DESKING_DEFAULT_TERM_MONTHS" default:"60"`
	FinanceReserveRate float64 `envconfig:"PULSE_DESKING_FINANCE_RESERVE_RATE" default:"0.015"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PULSE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PULSE_AUTO_MIGRATE" default:"false"`
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
