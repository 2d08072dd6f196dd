package config

// EnvPrefix is the envconfig prefix shared by every PULSE_* variable.
const EnvPrefix = "PULSE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Supported database drivers. UseSQLite forces the sqlite driver for local
// development without a postgres instance.
const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	DefaultSQLiteDSN = "file:pulse_dev.db?cache=shared"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv     = "PULSE_APP_ENV"
	EnvPort       = "PULSE_APP_PORT"
	EnvDBDSN      = "PULSE_DB_DSN"
	EnvDBHost     = "PULSE_DB_HOST"
	EnvDBUser     = "PULSE_DB_USER"
	EnvDBName     = "PULSE_DB_NAME"
	EnvRedisURL   = "PULSE_REDIS_URL"
	EnvJWTSecret  = "PULSE_JWT_SECRET"
	EnvJWTIssuer  = "PULSE_JWT_ISSUER"
	EnvJWTExpMins = "PULSE_JWT_EXPIRATION_MINUTES"
	EnvUseSQLite  = "PULSE_USE_SQLITE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
