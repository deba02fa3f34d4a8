package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultSessionSecret is only acceptable outside production.
const DefaultSessionSecret = "super_secret_key_for_rrr_construction_2025"

// Config holds all configuration for the application
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Session  SessionConfig  `mapstructure:"session"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Security SecurityConfig `mapstructure:"security"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig holds the on-disk layout for JSON documents and uploads
type StorageConfig struct {
	DataDir       string `mapstructure:"data_dir"`
	UploadsDir    string `mapstructure:"uploads_dir"`
	MaxUploadSize string `mapstructure:"max_upload_size"`
}

// AdminConfig holds the credentials seeded when no admin document exists
type AdminConfig struct {
	DefaultUsername string `mapstructure:"default_username"`
	DefaultPassword string `mapstructure:"default_password"`
}

// SessionConfig holds admin session cookie configuration
type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	TTL        time.Duration `mapstructure:"ttl"`
	CookieName string        `mapstructure:"cookie_name"`
	Secure     bool          `mapstructure:"secure"`
	Issuer     string        `mapstructure:"issuer"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load loads configuration from various sources
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "RRR Construction")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)

	// Server defaults
	v.SetDefault("server.port", 5003)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Storage defaults
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("storage.uploads_dir", "static/uploads")
	v.SetDefault("storage.max_upload_size", "2M")

	// Admin defaults
	v.SetDefault("admin.default_username", "admin")
	v.SetDefault("admin.default_password", "rrr2024")

	// Session defaults
	v.SetDefault("session.secret", DefaultSessionSecret)
	v.SetDefault("session.ttl", "12h")
	v.SetDefault("session.cookie_name", "rrr_session")
	v.SetDefault("session.secure", false)
	v.SetDefault("session.issuer", "rrr-portfolio")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.filename", "")

	// Security defaults
	v.SetDefault("security.cors_allowed_origins", "*")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "APP_NAME")
	v.BindEnv("app.version", "APP_VERSION")
	v.BindEnv("app.environment", "APP_ENVIRONMENT")
	v.BindEnv("app.debug", "APP_DEBUG")

	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.host", "SERVER_HOST")
	v.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	v.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")
	v.BindEnv("server.idle_timeout", "SERVER_IDLE_TIMEOUT")
	v.BindEnv("server.request_timeout", "SERVER_REQUEST_TIMEOUT")
	v.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")

	// Storage
	v.BindEnv("storage.data_dir", "DATA_DIR")
	v.BindEnv("storage.uploads_dir", "UPLOADS_DIR")
	v.BindEnv("storage.max_upload_size", "MAX_UPLOAD_SIZE")

	// Admin
	v.BindEnv("admin.default_username", "ADMIN_DEFAULT_USERNAME")
	v.BindEnv("admin.default_password", "ADMIN_DEFAULT_PASSWORD")

	// Session
	v.BindEnv("session.secret", "SESSION_SECRET")
	v.BindEnv("session.ttl", "SESSION_TTL")
	v.BindEnv("session.cookie_name", "SESSION_COOKIE_NAME")
	v.BindEnv("session.secure", "SESSION_SECURE")
	v.BindEnv("session.issuer", "SESSION_ISSUER")

	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.format", "LOG_FORMAT")
	v.BindEnv("logger.output", "LOG_OUTPUT")
	v.BindEnv("logger.filename", "LOG_FILENAME")

	// Security
	v.BindEnv("security.cors_allowed_origins", "CORS_ALLOWED_ORIGINS")

	// Metrics
	v.BindEnv("metrics.enabled", "ENABLE_METRICS")
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	if cfg.Storage.DataDir == "" {
		return fmt.Errorf("storage data dir is required")
	}

	if cfg.Storage.UploadsDir == "" {
		return fmt.Errorf("storage uploads dir is required")
	}

	if cfg.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}

	if cfg.App.IsProduction() && cfg.Session.Secret == DefaultSessionSecret {
		return fmt.Errorf("session secret must not use the default value in production")
	}

	if cfg.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}

	if cfg.Admin.DefaultUsername == "" || cfg.Admin.DefaultPassword == "" {
		return fmt.Errorf("default admin username and password are required")
	}

	return nil
}

// GetAddr returns the address the HTTP server listens on
func (cfg *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// IsDevelopment returns true if the environment is development
func (cfg *AppConfig) IsDevelopment() bool {
	return cfg.Environment == "development"
}

// IsProduction returns true if the environment is production
func (cfg *AppConfig) IsProduction() bool {
	return cfg.Environment == "production"
}
