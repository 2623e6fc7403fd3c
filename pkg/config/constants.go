package config

const (
	// EnvPrefix scopes every environment variable read by envconfig.
	EnvPrefix = "procure"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "PROCURE_DB_DSN"
	EnvDBHost = "PROCURE_DB_HOST"
	EnvDBUser = "PROCURE_DB_USER"
	EnvDBName = "PROCURE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
