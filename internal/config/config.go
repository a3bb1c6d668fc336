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
	Server     ServerConfig
	DB         DBConfig
	JWT        JWTConfig
	S3         S3Config
	Log        LogConfig
	OCR        OCRConfig
	CORS       CORSConfig
	Queue      QueueConfig
	Extraction ExtractionConfig
	Client     ClientConfig
}

// ClientConfig holds settings for the laytimectl HTTP client.
type ClientConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	CachePath string        `mapstructure:"cache_path"`
}

// ExtractionConfig holds Statement of Facts pipeline settings.
type ExtractionConfig struct {
	Threshold    float64 `mapstructure:"threshold"`
	PatternsPath string  `mapstructure:"patterns_path"`
	OntologyPath string  `mapstructure:"ontology_path"`
	SampleLines  int     `mapstructure:"sample_lines"`
}

// QueueConfig holds extraction queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OCRProviderConfig holds settings for a single OCR transcription provider.
type OCRProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// OCRConfig holds the ordered OCR provider chain used for scanned PDFs.
type OCRConfig struct {
	Primary   OCRProviderConfig `mapstructure:"primary"`
	Secondary OCRProviderConfig `mapstructure:"secondary"`
}

// Providers returns the configured providers in fallback order.
func (o *OCRConfig) Providers() []*OCRProviderConfig {
	var out []*OCRProviderConfig
	if o.Primary.Provider != "" {
		out = append(out, &o.Primary)
	}
	if o.Secondary.Provider != "" {
		out = append(out, &o.Secondary)
	}
	return out
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
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// MaxFileSizeBytes returns the upload ceiling in bytes.
func (s *S3Config) MaxFileSizeBytes() int64 {
	return s.MaxFileSizeMB * 1024 * 1024
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the MARITHON_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MARITHON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8000")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "marithon")
	v.SetDefault("db.password", "marithon_secret")
	v.SetDefault("db.name", "marithon_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "30m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "marithon")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "marithon-sof")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5500,http://127.0.0.1:5500")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 5)
	v.SetDefault("queue.max_retries", 3)
	v.SetDefault("queue.concurrency", 4)

	// Extraction defaults
	v.SetDefault("extraction.threshold", 0.45)
	v.SetDefault("extraction.patterns_path", "")
	v.SetDefault("extraction.ontology_path", "")
	v.SetDefault("extraction.sample_lines", 20)

	// OCR defaults
	v.SetDefault("ocr.primary.provider", "")
	v.SetDefault("ocr.primary.api_key", "")
	v.SetDefault("ocr.primary.default_model", "")
	v.SetDefault("ocr.primary.timeout_secs", 120)
	v.SetDefault("ocr.secondary.provider", "")
	v.SetDefault("ocr.secondary.api_key", "")
	v.SetDefault("ocr.secondary.default_model", "")
	v.SetDefault("ocr.secondary.timeout_secs", 120)

	// Client defaults
	v.SetDefault("client.base_url", "http://localhost:8000")
	v.SetDefault("client.timeout", "90s")
	v.SetDefault("client.cache_path", defaultCachePath())

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "MARITHON_SERVER_PORT",
		"server.read_timeout":         "MARITHON_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "MARITHON_SERVER_WRITE_TIMEOUT",
		"server.environment":          "MARITHON_SERVER_ENVIRONMENT",
		"db.host":                     "MARITHON_DB_HOST",
		"db.port":                     "MARITHON_DB_PORT",
		"db.user":                     "MARITHON_DB_USER",
		"db.password":                 "MARITHON_DB_PASSWORD",
		"db.name":                     "MARITHON_DB_NAME",
		"db.sslmode":                  "MARITHON_DB_SSLMODE",
		"db.max_open":                 "MARITHON_DB_MAX_OPEN",
		"db.max_idle":                 "MARITHON_DB_MAX_IDLE",
		"jwt.secret":                  "MARITHON_JWT_SECRET",
		"jwt.access_expiry":           "MARITHON_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":          "MARITHON_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                  "MARITHON_JWT_ISSUER",
		"s3.region":                   "MARITHON_S3_REGION",
		"s3.bucket":                   "MARITHON_S3_BUCKET",
		"s3.endpoint":                 "MARITHON_S3_ENDPOINT",
		"s3.access_key":               "MARITHON_S3_ACCESS_KEY",
		"s3.secret_key":               "MARITHON_S3_SECRET_KEY",
		"s3.max_file_size_mb":         "MARITHON_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":           "MARITHON_S3_PRESIGN_EXPIRY",
		"log.level":                   "MARITHON_LOG_LEVEL",
		"log.format":                  "MARITHON_LOG_FORMAT",
		"cors.allowed_origins":        "MARITHON_CORS_ALLOWED_ORIGINS",
		"queue.poll_interval_secs":    "MARITHON_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_retries":           "MARITHON_QUEUE_MAX_RETRIES",
		"queue.concurrency":           "MARITHON_QUEUE_CONCURRENCY",
		"extraction.threshold":        "MARITHON_EXTRACTION_THRESHOLD",
		"extraction.patterns_path":    "MARITHON_EXTRACTION_PATTERNS_PATH",
		"extraction.ontology_path":    "MARITHON_EXTRACTION_ONTOLOGY_PATH",
		"extraction.sample_lines":     "MARITHON_EXTRACTION_SAMPLE_LINES",
		"ocr.primary.provider":        "MARITHON_OCR_PRIMARY_PROVIDER",
		"ocr.primary.api_key":         "MARITHON_OCR_PRIMARY_API_KEY",
		"ocr.primary.default_model":   "MARITHON_OCR_PRIMARY_DEFAULT_MODEL",
		"ocr.primary.timeout_secs":    "MARITHON_OCR_PRIMARY_TIMEOUT_SECS",
		"ocr.secondary.provider":      "MARITHON_OCR_SECONDARY_PROVIDER",
		"ocr.secondary.api_key":       "MARITHON_OCR_SECONDARY_API_KEY",
		"ocr.secondary.default_model": "MARITHON_OCR_SECONDARY_DEFAULT_MODEL",
		"ocr.secondary.timeout_secs":  "MARITHON_OCR_SECONDARY_TIMEOUT_SECS",
		"client.base_url":             "MARITHON_CLIENT_BASE_URL",
		"client.timeout":              "MARITHON_CLIENT_TIMEOUT",
		"client.cache_path":           "MARITHON_CLIENT_CACHE_PATH",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it unless MARITHON_SERVER_PORT is set explicitly.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("MARITHON_SERVER_PORT") == "" {
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
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitCSV(v.GetString("cors.allowed_origins")),
	}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		MaxRetries:       v.GetInt("queue.max_retries"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}
	cfg.Extraction = ExtractionConfig{
		Threshold:    v.GetFloat64("extraction.threshold"),
		PatternsPath: v.GetString("extraction.patterns_path"),
		OntologyPath: v.GetString("extraction.ontology_path"),
		SampleLines:  v.GetInt("extraction.sample_lines"),
	}
	cfg.OCR = OCRConfig{
		Primary: OCRProviderConfig{
			Provider:     v.GetString("ocr.primary.provider"),
			APIKey:       v.GetString("ocr.primary.api_key"),
			DefaultModel: v.GetString("ocr.primary.default_model"),
			TimeoutSecs:  v.GetInt("ocr.primary.timeout_secs"),
		},
		Secondary: OCRProviderConfig{
			Provider:     v.GetString("ocr.secondary.provider"),
			APIKey:       v.GetString("ocr.secondary.api_key"),
			DefaultModel: v.GetString("ocr.secondary.default_model"),
			TimeoutSecs:  v.GetInt("ocr.secondary.timeout_secs"),
		},
	}
	cfg.Client = ClientConfig{
		BaseURL:   strings.TrimRight(v.GetString("client.base_url"), "/"),
		Timeout:   v.GetDuration("client.timeout"),
		CachePath: v.GetString("client.cache_path"),
	}

	return cfg, nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

func defaultCachePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "laytimectl.db"
	}
	return dir + string(os.PathSeparator) + "marithon" + string(os.PathSeparator) + "laytimectl.db"
}
