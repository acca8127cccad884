package config

const (
	EnvPrefix = "TIERPRICE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv       = "TIERPRICE_APP_ENV"
	EnvPort         = "TIERPRICE_APP_PORT"
	EnvLogLevel     = "TIERPRICE_LOG_LEVEL"
	EnvLogWarnStack = "TIERPRICE_LOG_WARN_STACK"
	EnvLogFormat    = "TIERPRICE_LOG_FORMAT"

	EnvDBDSN     = "TIERPRICE_DB_DSN"
	EnvDBDriver  = "TIERPRICE_DB_DRIVER"
	EnvDBHost    = "TIERPRICE_DB_HOST"
	EnvDBPort    = "TIERPRICE_DB_PORT"
	EnvDBUser    = "TIERPRICE_DB_USER"
	EnvDBPass    = "TIERPRICE_DB_PASSWORD"
	EnvDBName    = "TIERPRICE_DB_NAME"
	EnvDBSSLMode = "TIERPRICE_DB_SSLMODE"

	EnvRedisURL  = "TIERPRICE_REDIS_URL"
	EnvRedisAddr = "TIERPRICE_REDIS_ADDR"

	EnvPricingWritePolicy      = "TIERPRICE_TIERED_PRICING_WRITE_POLICY"
	EnvPricingStrictValidation = "TIERPRICE_TIERED_PRICING_STRICT_VALIDATION"
	EnvPricingDefaultCurrency  = "TIERPRICE_TIERED_PRICING_DEFAULT_CURRENCY"
	EnvPricingPreviewCacheTTL  = "TIERPRICE_TIERED_PRICING_PREVIEW_CACHE_TTL"

	EnvUseSQLite   = "TIERPRICE_USE_SQLITE"
	EnvAutoMigrate = "TIERPRICE_AUTO_MIGRATE"

	EnvCORSAllowedOrigins = "TIERPRICE_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
