package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Media     MediaConfig
	GCP       GCPConfig
	GCS       GCSConfig
	S3        S3Config
	Seed      SeedConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.App.ensurePort()
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Media.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string        `envconfig:"EAG_APP_ENV" default:"dev"`
	Port         string        `envconfig:"EAG_APP_PORT"`
	LogLevel     string        `envconfig:"EAG_LOG_LEVEL" default:"info"`
	LogWarnStack bool          `envconfig:"EAG_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool          `envconfig:"EAG_AUTO_MIGRATE" default:"true"`
	ShutdownWait time.Duration `envconfig:"EAG_SHUTDOWN_TIMEOUT" default:"15s"`

	// TrustedProxyHops is how many reverse proxies append to X-Forwarded-For
	// in front of the service. Zero ignores the header.
	TrustedProxyHops int `envconfig:"EAG_TRUSTED_PROXY_HOPS" default:"0"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ensurePort falls back to the platform PORT variable and then to the default listen port.
func (a *AppConfig) ensurePort() {
	if strings.TrimSpace(a.Port) != "" {
		return
	}
	if port := strings.TrimSpace(os.Getenv(EnvPlatformPort)); port != "" {
		a.Port = port
		return
	}
	a.Port = DefaultPort
}

type DBConfig struct {
	DSN    string `envconfig:"EAG_DB_DSN"`
	Driver string `envconfig:"EAG_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"EAG_DB_HOST"`
	LegacyPort     int    `envconfig:"EAG_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"EAG_DB_USER"`
	LegacyPassword string `envconfig:"EAG_DB_PASSWORD"`
	LegacyName     string `envconfig:"EAG_DB_NAME"`
	LegacySSLMode  string `envconfig:"EAG_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"EAG_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EAG_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EAG_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EAG_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

// RedisConfig is optional; an empty URL and address disables idempotency replay and rate limiting.
type RedisConfig struct {
	URL          string        `envconfig:"EAG_REDIS_URL"`
	Address      string        `envconfig:"EAG_REDIS_ADDR"`
	Password     string        `envconfig:"EAG_REDIS_PASSWORD"`
	DB           int           `envconfig:"EAG_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EAG_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EAG_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EAG_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EAG_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EAG_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"EAG_CORS_ALLOWED_ORIGINS" default:"*"`
}

type RateLimitConfig struct {
	Window         time.Duration `envconfig:"EAG_RATE_LIMIT_WINDOW" default:"1m"`
	MessageIPLimit int           `envconfig:"EAG_RATE_LIMIT_MESSAGE_IP_LIMIT" default:"10"`
	ReviewIPLimit  int           `envconfig:"EAG_RATE_LIMIT_REVIEW_IP_LIMIT" default:"10"`
}

type MediaConfig struct {
	Provider      string `envconfig:"EAG_MEDIA_PROVIDER" default:"gcs"`
	Folder        string `envconfig:"EAG_MEDIA_FOLDER" default:"educate_a_girl"`
	MaxUploadMB   int    `envconfig:"EAG_MAX_UPLOAD_MB" default:"10"`
	PublicBaseURL string `envconfig:"EAG_MEDIA_PUBLIC_BASE_URL"`
}

// MaxUploadBytes returns the configured upload ceiling in bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	if m.MaxUploadMB <= 0 {
		return 0
	}
	return int64(m.MaxUploadMB) << 20
}

func (m MediaConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(m.Provider)) {
	case MediaProviderGCS, MediaProviderS3, MediaProviderNone:
		return nil
	default:
		return fmt.Errorf("%s must be one of %s, %s, %s", EnvMediaProvider, MediaProviderGCS, MediaProviderS3, MediaProviderNone)
	}
}

type GCPConfig struct {
	ProjectID              string `envconfig:"EAG_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"EAG_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"EAG_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"EAG_GCS_BUCKET_NAME"`
}

type S3Config struct {
	Endpoint  string `envconfig:"EAG_S3_ENDPOINT"`
	AccessKey string `envconfig:"EAG_S3_ACCESS_KEY"`
	SecretKey string `envconfig:"EAG_S3_SECRET_KEY"`
	Bucket    string `envconfig:"EAG_S3_BUCKET"`
	Region    string `envconfig:"EAG_S3_REGION" default:"us-east-1"`
	UseSSL    bool   `envconfig:"EAG_S3_USE_SSL" default:"true"`
}

type SeedConfig struct {
	OnBoot bool `envconfig:"EAG_SEED_ON_BOOT" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if dsn := strings.TrimSpace(os.Getenv(EnvPlatformDatabaseURL)); dsn != "" {
		db.DSN = dsn
		return nil
	}
	if db.IsSQLite() {
		db.DSN = DefaultSQLiteDSN
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
