package config

// EnvPrefix is passed to envconfig; individual fields carry the full name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv      = "PARKLINE_APP_ENV"
	EnvPort        = "PARKLINE_APP_PORT"
	EnvDBDSN       = "PARKLINE_DB_DSN"
	EnvDBHost      = "PARKLINE_DB_HOST"
	EnvDBUser      = "PARKLINE_DB_USER"
	EnvDBName      = "PARKLINE_DB_NAME"
	EnvRedisURL    = "PARKLINE_REDIS_URL"
	EnvJWTSecret   = "PARKLINE_JWT_SECRET"
	EnvJWTIssuer   = "PARKLINE_JWT_ISSUER"
	EnvJWTExpMins  = "PARKLINE_JWT_EXPIRATION_MINUTES"
	EnvSiteName    = "PARKLINE_SITE_NAME"
	EnvSpotCap     = "PARKLINE_SITE_SPOT_CAPACITY"
	EnvSpotPrefix  = "PARKLINE_SITE_SPOT_PREFIX"
	EnvSiteFlatFee = "PARKLINE_SITE_FLAT_FEE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
