package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/angelmondragon/tieredpricing-backend/pkg/enums"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Pricing      PricingConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.App.IsProd() && cfg.FeatureFlags.UseSQLite {
		return nil, fmt.Errorf("%s cannot be enabled in %s", EnvUseSQLite, AppEnvProd)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TIERPRICE_APP_ENV" required:"true"`
	Port         string `envconfig:"TIERPRICE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TIERPRICE_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"TIERPRICE_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"TIERPRICE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TIERPRICE_DB_DSN"`
	Driver string `envconfig:"TIERPRICE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TIERPRICE_DB_HOST"`
	LegacyPort     int    `envconfig:"TIERPRICE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TIERPRICE_DB_USER"`
	LegacyPassword string `envconfig:"TIERPRICE_DB_PASSWORD"`
	LegacyName     string `envconfig:"TIERPRICE_DB_NAME"`
	LegacySSLMode  string `envconfig:"TIERPRICE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TIERPRICE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TIERPRICE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TIERPRICE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TIERPRICE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TIERPRICE_REDIS_URL"`
	Address      string        `envconfig:"TIERPRICE_REDIS_ADDR"`
	Password     string        `envconfig:"TIERPRICE_REDIS_PASSWORD"`
	DB           int           `envconfig:"TIERPRICE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TIERPRICE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TIERPRICE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TIERPRICE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TIERPRICE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TIERPRICE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

// PricingConfig controls how tier writes are persisted and how previews are served.
type PricingConfig struct {
	WritePolicy      enums.WritePolicy `envconfig:"TIERPRICE_TIERED_PRICING_WRITE_POLICY" default:"replace_by_shape"`
	StrictValidation bool              `envconfig:"TIERPRICE_TIERED_PRICING_STRICT_VALIDATION" default:"false"`
	DefaultCurrency  string            `envconfig:"TIERPRICE_TIERED_PRICING_DEFAULT_CURRENCY" default:"ron"`
	PreviewCacheTTL  time.Duration     `envconfig:"TIERPRICE_TIERED_PRICING_PREVIEW_CACHE_TTL" default:"5m"`
}

func (p *PricingConfig) validate() error {
	policy, err := enums.ParseWritePolicy(string(p.WritePolicy))
	if err != nil {
		return fmt.Errorf("%s: %w", EnvPricingWritePolicy, err)
	}
	p.WritePolicy = policy
	p.DefaultCurrency = strings.ToLower(strings.TrimSpace(p.DefaultCurrency))
	if p.DefaultCurrency == "" {
		return fmt.Errorf("%s cannot be empty", EnvPricingDefaultCurrency)
	}
	if p.PreviewCacheTTL < 0 {
		return fmt.Errorf("%s cannot be negative", EnvPricingPreviewCacheTTL)
	}
	return nil
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TIERPRICE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TIERPRICE_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"TIERPRICE_CORS_ALLOWED_ORIGINS" default:"http://localhost:8000,http://localhost:9000"`
}

func (db *DBConfig) ensureDSN(sqlite bool) error {
	if db.DSN != "" {
		return nil
	}
	if sqlite {
		db.DSN = "file:tierprice.db?cache=shared"
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
