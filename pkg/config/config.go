package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "CARLOT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Catalog       CatalogConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CARLOT_APP_ENV" default:"dev"`
	Port         string `envconfig:"CARLOT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CARLOT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARLOT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CARLOT_DB_DSN"`
	Driver string `envconfig:"CARLOT_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"CARLOT_DB_HOST"`
	Port     int    `envconfig:"CARLOT_DB_PORT" default:"5432"`
	User     string `envconfig:"CARLOT_DB_USER"`
	Password string `envconfig:"CARLOT_DB_PASSWORD"`
	Name     string `envconfig:"CARLOT_DB_NAME"`
	SSLMode  string `envconfig:"CARLOT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CARLOT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CARLOT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CARLOT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CARLOT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CARLOT_REDIS_URL"`
	Address      string        `envconfig:"CARLOT_REDIS_ADDR"`
	Password     string        `envconfig:"CARLOT_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARLOT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARLOT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARLOT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARLOT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARLOT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARLOT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CARLOT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CARLOT_JWT_ISSUER" default:"carlot"`
	ExpirationMinutes int    `envconfig:"CARLOT_JWT_EXPIRATION_MINUTES" default:"60"`
	SessionTTLMinutes int    `envconfig:"CARLOT_SESSION_TTL_MINUTES" default:"1440"`
}

// SessionTTL returns the server-side session lifetime.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CARLOT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CARLOT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CARLOT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CARLOT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CARLOT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CARLOT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"CARLOT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"CARLOT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"CARLOT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"CARLOT_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"CARLOT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// CatalogConfig tunes the listing defaults served by the query engine.
type CatalogConfig struct {
	DefaultLimit  int     `envconfig:"CARLOT_CATALOG_DEFAULT_LIMIT" default:"10"`
	MaxLimit      int     `envconfig:"CARLOT_CATALOG_MAX_LIMIT" default:"100"`
	PriceSpanMin  float64 `envconfig:"CARLOT_CATALOG_PRICE_SPAN_MIN" default:"0"`
	PriceSpanMax  float64 `envconfig:"CARLOT_CATALOG_PRICE_SPAN_MAX" default:"100000"`
	SeedWhenEmpty bool    `envconfig:"CARLOT_CATALOG_SEED_WHEN_EMPTY" default:"true"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CARLOT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CARLOT_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		if db.DSN == "" {
			db.DSN = "file::memory:?cache=shared"
		}
		db.Driver = "sqlite"
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		"CARLOT_DB_HOST": db.Host,
		"CARLOT_DB_USER": db.User,
		"CARLOT_DB_NAME": db.Name,
	}
	for _, key := range []string{"CARLOT_DB_HOST", "CARLOT_DB_USER", "CARLOT_DB_NAME"} {
		if legacyValues[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either CARLOT_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
