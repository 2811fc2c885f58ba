package config

const EnvPrefix = "ROBOLAB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "ROBOLAB_APP_ENV"
	EnvPort       = "ROBOLAB_APP_PORT"
	EnvDBDSN      = "ROBOLAB_DB_DSN"
	EnvDBHost     = "ROBOLAB_DB_HOST"
	EnvDBUser     = "ROBOLAB_DB_USER"
	EnvDBName     = "ROBOLAB_DB_NAME"
	EnvRedisURL   = "ROBOLAB_REDIS_URL"
	EnvJWTSecret  = "ROBOLAB_JWT_SECRET"
	EnvJWTIssuer  = "ROBOLAB_JWT_ISSUER"
	EnvJWTExpMins = "ROBOLAB_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
