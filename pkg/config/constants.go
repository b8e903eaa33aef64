package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// SALESBOARD_* names so the prefix stays informational.
const EnvPrefix = "salesboard"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Env var names referenced outside struct tags (error messages, tests).
const (
	EnvAppEnv         = "SALESBOARD_APP_ENV"
	EnvPort           = "SALESBOARD_APP_PORT"
	EnvDBDSN          = "SALESBOARD_DB_DSN"
	EnvDBHost         = "SALESBOARD_DB_HOST"
	EnvDBUser         = "SALESBOARD_DB_USER"
	EnvDBName         = "SALESBOARD_DB_NAME"
	EnvRedisURL       = "SALESBOARD_REDIS_URL"
	EnvReportTimezone = "SALESBOARD_REPORT_TIMEZONE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
