package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	Report ReportConfig
	CORS   CORSConfig
	Flags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Report.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SALESBOARD_APP_ENV" required:"true"`
	Port         string `envconfig:"SALESBOARD_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SALESBOARD_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SALESBOARD_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SALESBOARD_DB_DSN"`
	Driver string `envconfig:"SALESBOARD_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SALESBOARD_DB_HOST"`
	LegacyPort     int    `envconfig:"SALESBOARD_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SALESBOARD_DB_USER"`
	LegacyPassword string `envconfig:"SALESBOARD_DB_PASSWORD"`
	LegacyName     string `envconfig:"SALESBOARD_DB_NAME"`
	LegacySSLMode  string `envconfig:"SALESBOARD_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SALESBOARD_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SALESBOARD_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SALESBOARD_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SALESBOARD_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional: when URL and Address are both empty the monthly
// sales cache is disabled and every query is served from the database.
type RedisConfig struct {
	URL          string        `envconfig:"SALESBOARD_REDIS_URL"`
	Address      string        `envconfig:"SALESBOARD_REDIS_ADDR"`
	Password     string        `envconfig:"SALESBOARD_REDIS_PASSWORD"`
	DB           int           `envconfig:"SALESBOARD_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SALESBOARD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SALESBOARD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SALESBOARD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SALESBOARD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SALESBOARD_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// ReportConfig pins the calendar used on both sides of the aggregation:
// month-window construction and payment-date bucketing read the same
// location, so month boundaries cannot drift apart.
type ReportConfig struct {
	Timezone       string        `envconfig:"SALESBOARD_REPORT_TIMEZONE" default:"UTC"`
	ChartMonths    int           `envconfig:"SALESBOARD_REPORT_CHART_MONTHS" default:"4"`
	ChartMaxMonths int           `envconfig:"SALESBOARD_REPORT_CHART_MAX_MONTHS" default:"24"`
	CacheTTL       time.Duration `envconfig:"SALESBOARD_REPORT_CACHE_TTL" default:"5m"`
}

// Location resolves the configured report timezone.
func (r ReportConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid report timezone %q: %w", r.Timezone, err)
	}
	return loc, nil
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SALESBOARD_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SALESBOARD_AUTO_MIGRATE" default:"false"`
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
