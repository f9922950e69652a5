package config

const (
	EnvPrefix = "AUTOVISTA"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "AUTOVISTA_APP_ENV"
	EnvDBDSN  = "AUTOVISTA_DB_DSN"
	EnvDBHost = "AUTOVISTA_DB_HOST"
	EnvDBUser = "AUTOVISTA_DB_USER"
	EnvDBName = "AUTOVISTA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
