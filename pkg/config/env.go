package config

const EnvPrefix = "EAG"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DefaultPort      = "5000"
	DefaultSQLiteDSN = "file:storefront.db?cache=shared&_foreign_keys=on"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	MediaProviderGCS  = "gcs"
	MediaProviderS3   = "s3"
	MediaProviderNone = "none"
)

const (
	EnvAppEnv      = "EAG_APP_ENV"
	EnvPort        = "EAG_APP_PORT"
	EnvLogLevel    = "EAG_LOG_LEVEL"
	EnvAutoMigrate = "EAG_AUTO_MIGRATE"
	EnvProxyHops   = "EAG_TRUSTED_PROXY_HOPS"

	// Variables set by hosting platforms.
	EnvPlatformPort        = "PORT"
	EnvPlatformDatabaseURL = "DATABASE_URL"

	EnvDBDSN    = "EAG_DB_DSN"
	EnvDBDriver = "EAG_DB_DRIVER"
	EnvDBHost   = "EAG_DB_HOST"
	EnvDBPort   = "EAG_DB_PORT"
	EnvDBUser   = "EAG_DB_USER"
	EnvDBPass   = "EAG_DB_PASSWORD"
	EnvDBName   = "EAG_DB_NAME"

	EnvRedisURL = "EAG_REDIS_URL"

	EnvCORSAllowedOrigins = "EAG_CORS_ALLOWED_ORIGINS"

	EnvMediaProvider   = "EAG_MEDIA_PROVIDER"
	EnvMediaFolder     = "EAG_MEDIA_FOLDER"
	EnvMaxUploadMB     = "EAG_MAX_UPLOAD_MB"
	EnvGCSBucket       = "EAG_GCS_BUCKET_NAME"
	EnvGCPProjectID    = "EAG_GCP_PROJECT_ID"
	EnvS3Endpoint      = "EAG_S3_ENDPOINT"
	EnvS3Bucket        = "EAG_S3_BUCKET"
	EnvSeedOnBoot      = "EAG_SEED_ON_BOOT"
	EnvRateLimitWindow = "EAG_RATE_LIMIT_WINDOW"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
