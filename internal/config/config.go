package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	JWT      JWTConfig
	Storage  StorageConfig
	S3       S3Config
	MinIO    MinIOConfig
	Redis    RedisConfig
	Tracker  TrackerConfig
	Analysis AnalysisConfig
	Upload   UploadConfig
	Reaper   ReaperConfig
	Log      LogConfig
	CORS     CORSConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`

	// MaxLifetime bounds how long a pooled connection is reused.
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds the settings used to verify identity provider tokens.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// StorageConfig selects the blob store and holds settings shared by providers.
type StorageConfig struct {
	Provider      string `mapstructure:"provider"` // "s3" or "minio"
	Bucket        string `mapstructure:"bucket"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// MinIOConfig holds MinIO settings.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// RedisConfig holds the set details cache settings. An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Enabled reports whether a Redis address is configured.
func (r *RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// TrackerConfig holds the endpoints of the document provider and analysis engine.
type TrackerConfig struct {
	ProviderURL string `mapstructure:"provider_url"`
	EngineURL   string `mapstructure:"engine_url"`
	APIKey      string `mapstructure:"api_key"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// AnalysisConfig holds orchestrator settings.
type AnalysisConfig struct {
	DownloadConcurrency int  `mapstructure:"download_concurrency"`
	OpaqueOwnership     bool `mapstructure:"opaque_ownership"`
}

// UploadConfig holds upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxBytes returns the upload limit in bytes.
func (u *UploadConfig) MaxBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// ReaperConfig holds stale session reaper settings.
type ReaperConfig struct {
	PollIntervalSecs int           `mapstructure:"poll_interval_secs"`
	StaleAfter       time.Duration `mapstructure:"stale_after"`
}

// LogConfig holds logging settings. Level is one of debug, info, warn or
// error and sets which request lines the access log writes.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// MinRequestStatus returns the lowest response status the access log records.
func (l *LogConfig) MinRequestStatus() int {
	switch l.Level {
	case "warn":
		return 400
	case "error":
		return 500
	default:
		return 0
	}
}

// reaperMargin is the slack between the longest request an analysis can
// hold open and the age at which the reaper fails its session.
const reaperMargin = 2 * time.Minute

// Timeout returns the upstream call timeout.
func (t *TrackerConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSecs) * time.Second
}

// Load reads configuration from environment variables with the DOCCOMPARE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCCOMPARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "330s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "doccompare")
	v.SetDefault("db.password", "doccompare_secret")
	v.SetDefault("db.name", "doccompare_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.max_lifetime", "30m")

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "")

	// Storage defaults
	v.SetDefault("storage.provider", "s3")
	v.SetDefault("storage.bucket", "doccompare-uploads")
	v.SetDefault("storage.presign_expiry", 3600)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.use_ssl", false)

	// Redis defaults
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "15m")

	// Tracker defaults
	v.SetDefault("tracker.provider_url", "http://localhost:4000")
	v.SetDefault("tracker.engine_url", "http://localhost:5000")
	v.SetDefault("tracker.timeout_secs", 300)

	// Analysis defaults
	v.SetDefault("analysis.download_concurrency", 1)
	v.SetDefault("analysis.opaque_ownership", false)

	v.SetDefault("upload.max_file_size_mb", 10)

	// Reaper defaults
	v.SetDefault("reaper.poll_interval_secs", 60)
	v.SetDefault("reaper.stale_after", "15m")

	// Log defaults
	v.SetDefault("log.level", "debug")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "DOCCOMPARE_SERVER_PORT",
		"server.read_timeout":           "DOCCOMPARE_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "DOCCOMPARE_SERVER_WRITE_TIMEOUT",
		"server.environment":            "DOCCOMPARE_SERVER_ENVIRONMENT",
		"db.host":                       "DOCCOMPARE_DB_HOST",
		"db.port":                       "DOCCOMPARE_DB_PORT",
		"db.user":                       "DOCCOMPARE_DB_USER",
		"db.password":                   "DOCCOMPARE_DB_PASSWORD",
		"db.name":                       "DOCCOMPARE_DB_NAME",
		"db.sslmode":                    "DOCCOMPARE_DB_SSLMODE",
		"db.max_open":                   "DOCCOMPARE_DB_MAX_OPEN",
		"db.max_idle":                   "DOCCOMPARE_DB_MAX_IDLE",
		"db.max_lifetime":               "DOCCOMPARE_DB_MAX_LIFETIME",
		"jwt.secret":                    "DOCCOMPARE_JWT_SECRET",
		"jwt.issuer":                    "DOCCOMPARE_JWT_ISSUER",
		"storage.provider":              "DOCCOMPARE_STORAGE_PROVIDER",
		"storage.bucket":                "DOCCOMPARE_STORAGE_BUCKET",
		"storage.presign_expiry":        "DOCCOMPARE_STORAGE_PRESIGN_EXPIRY",
		"s3.region":                     "DOCCOMPARE_S3_REGION",
		"s3.endpoint":                   "DOCCOMPARE_S3_ENDPOINT",
		"s3.access_key":                 "DOCCOMPARE_S3_ACCESS_KEY",
		"s3.secret_key":                 "DOCCOMPARE_S3_SECRET_KEY",
		"minio.endpoint":                "DOCCOMPARE_MINIO_ENDPOINT",
		"minio.access_key":              "DOCCOMPARE_MINIO_ACCESS_KEY",
		"minio.secret_key":              "DOCCOMPARE_MINIO_SECRET_KEY",
		"minio.use_ssl":                 "DOCCOMPARE_MINIO_USE_SSL",
		"redis.addr":                    "DOCCOMPARE_REDIS_ADDR",
		"redis.password":                "DOCCOMPARE_REDIS_PASSWORD",
		"redis.db":                      "DOCCOMPARE_REDIS_DB",
		"redis.ttl":                     "DOCCOMPARE_REDIS_TTL",
		"tracker.provider_url":          "DOCCOMPARE_TRACKER_PROVIDER_URL",
		"tracker.engine_url":            "DOCCOMPARE_TRACKER_ENGINE_URL",
		"tracker.api_key":               "DOCCOMPARE_TRACKER_API_KEY",
		"tracker.timeout_secs":          "DOCCOMPARE_TRACKER_TIMEOUT_SECS",
		"analysis.download_concurrency": "DOCCOMPARE_ANALYSIS_DOWNLOAD_CONCURRENCY",
		"analysis.opaque_ownership":     "DOCCOMPARE_ANALYSIS_OPAQUE_OWNERSHIP",
		"upload.max_file_size_mb":       "DOCCOMPARE_UPLOAD_MAX_FILE_SIZE_MB",
		"reaper.poll_interval_secs":     "DOCCOMPARE_REAPER_POLL_INTERVAL_SECS",
		"reaper.stale_after":            "DOCCOMPARE_REAPER_STALE_AFTER",
		"log.level":                     "DOCCOMPARE_LOG_LEVEL",
		"cors.allowed_origins":          "DOCCOMPARE_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if DOCCOMPARE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCCOMPARE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),

		MaxLifetime: v.GetDuration("db.max_lifetime"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.Storage = StorageConfig{
		Provider:      strings.ToLower(v.GetString("storage.provider")),
		Bucket:        v.GetString("storage.bucket"),
		PresignExpiry: v.GetInt64("storage.presign_expiry"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.MinIO = MinIOConfig{
		Endpoint:  v.GetString("minio.endpoint"),
		AccessKey: v.GetString("minio.access_key"),
		SecretKey: v.GetString("minio.secret_key"),
		UseSSL:    v.GetBool("minio.use_ssl"),
	}
	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
		TTL:      v.GetDuration("redis.ttl"),
	}
	cfg.Tracker = TrackerConfig{
		ProviderURL: strings.TrimRight(v.GetString("tracker.provider_url"), "/"),
		EngineURL:   strings.TrimRight(v.GetString("tracker.engine_url"), "/"),
		APIKey:      v.GetString("tracker.api_key"),
		TimeoutSecs: v.GetInt("tracker.timeout_secs"),
	}
	cfg.Analysis = AnalysisConfig{
		DownloadConcurrency: v.GetInt("analysis.download_concurrency"),
		OpaqueOwnership:     v.GetBool("analysis.opaque_ownership"),
	}
	if cfg.Analysis.DownloadConcurrency < 1 {
		cfg.Analysis.DownloadConcurrency = 1
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.Reaper = ReaperConfig{
		PollIntervalSecs: v.GetInt("reaper.poll_interval_secs"),
		StaleAfter:       v.GetDuration("reaper.stale_after"),
	}
	cfg.Log = LogConfig{
		Level: strings.ToLower(v.GetString("log.level")),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	switch cfg.Storage.Provider {
	case "s3", "minio":
	default:
		return nil, fmt.Errorf("config: unknown storage provider %q", cfg.Storage.Provider)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("config: unknown log level %q", cfg.Log.Level)
	}

	// An analysis may legitimately run for as long as the request is held
	// open. The reaper must not fail it before then.
	longest := cfg.Tracker.Timeout()
	if cfg.Server.WriteTimeout > longest {
		longest = cfg.Server.WriteTimeout
	}
	if cfg.Reaper.StaleAfter <= longest+reaperMargin {
		return nil, fmt.Errorf("config: reaper.stale_after (%s) must exceed the longest analysis request (%s) by more than %s",
			cfg.Reaper.StaleAfter, longest, reaperMargin)
	}

	return cfg, nil
}
