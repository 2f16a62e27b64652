package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Site          SiteConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Site.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PARKLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"PARKLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PARKLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PARKLINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PARKLINE_DB_DSN"`
	Driver string `envconfig:"PARKLINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PARKLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"PARKLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PARKLINE_DB_USER"`
	LegacyPassword string `envconfig:"PARKLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"PARKLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"PARKLINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PARKLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PARKLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PARKLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PARKLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PARKLINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PARKLINE_REDIS_ADDR"`
	Password     string        `envconfig:"PARKLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"PARKLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PARKLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PARKLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PARKLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PARKLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PARKLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PARKLINE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PARKLINE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PARKLINE_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PARKLINE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PARKLINE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PARKLINE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PARKLINE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PARKLINE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PARKLINE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"PARKLINE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"PARKLINE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"PARKLINE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"PARKLINE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"PARKLINE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PARKLINE_AUTO_MIGRATE" default:"false"`
}

// SiteConfig describes the single physical site the system serves.
type SiteConfig struct {
	Name          string `envconfig:"PARKLINE_SITE_NAME" default:"Inorbit Mall - Malad"`
	SpotCapacity  int    `envconfig:"PARKLINE_SITE_SPOT_CAPACITY" default:"50"`
	SpotPrefix    string `envconfig:"PARKLINE_SITE_SPOT_PREFIX" default:"A-"`
	FlatFeeAmount string `envconfig:"PARKLINE_SITE_FLAT_FEE" default:"150"`
}

func (s SiteConfig) validate() error {
	if s.SpotCapacity <= 0 {
		return fmt.Errorf("site spot capacity must be positive, got %d", s.SpotCapacity)
	}
	if _, err := decimal.NewFromString(s.FlatFeeAmount); err != nil {
		return fmt.Errorf("invalid flat fee %q: %w", s.FlatFeeAmount, err)
	}
	return nil
}

// FlatFee returns the per-ticket charge as a decimal amount.
func (s SiteConfig) FlatFee() decimal.Decimal {
	fee, err := decimal.NewFromString(s.FlatFeeAmount)
	if err != nil {
		return decimal.Zero
	}
	return fee
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
