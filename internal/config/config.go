package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

const (
	QuizBackendFile     = "file"
	QuizBackendPostgres = "postgres"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env      string  `mapstructure:"env"`       // current application environment (local, dev, production etc)
	LogLevel string  `mapstructure:"log_level"` // overrides the environment's default level when set
	HTTP     HTTP    `mapstructure:"http"`      // CMS HTTP server
	Storage  Storage `mapstructure:"storage"`   // where quizzes and per-user lists live
	DB       DB      `mapstructure:"database"`  // database configuration section
	Auth     Auth    `mapstructure:"auth"`      // CMS login
	AI       AI      `mapstructure:"ai"`        // quiz generation
	Jobs     Jobs    `mapstructure:"jobs"`      // background jobs
	Bot      Bot     `mapstructure:"bot"`       // Telegram client
}

// HTTP contains CMS server parameters.
type HTTP struct {
	Addr           string        `mapstructure:"addr"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Storage selects the storage backends.
type Storage struct {
	QuizBackend  string `mapstructure:"quiz_backend"`   // "file" or "postgres"
	QuizFilePath string `mapstructure:"quiz_file_path"` // JSON file used by the file backend
	SQLitePath   string `mapstructure:"sqlite_path"`    // CMS key-value database for reviews, history and settings
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Auth holds the single CMS account and the token signing secret.
type Auth struct {
	JWTSecret     string        `mapstructure:"-"`
	AdminUser     string        `mapstructure:"admin_user"`
	AdminPassHash string        `mapstructure:"-"` // bcrypt hash
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
}

// AI configures the Gemini client.
type AI struct {
	GeminiAPIKey string        `mapstructure:"-"`
	Model        string        `mapstructure:"model"`
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// Jobs holds cron specs. An empty spec disables the job.
type Jobs struct {
	ExportCron    string `mapstructure:"export_cron"`
	ExportPath    string `mapstructure:"export_path"`
	ReconcileCron string `mapstructure:"reconcile_cron"`
}

// Bot configures the Telegram client.
type Bot struct {
	TelegramAPIToken string `mapstructure:"-"`            // Telegram API token loaded from environment
	DatasetPath      string `mapstructure:"dataset_path"` // export JSON served when no CMS feed is used
	SQLitePath       string `mapstructure:"sqlite_path"`  // bot's own key-value database
}

// Load reads configuration from .env, config files and environment variables.
func Load() (*Config, error) {
	// Values already present in the environment win over .env.
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("log_level", "")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("http.request_timeout", "30s")
	v.SetDefault("storage.quiz_backend", QuizBackendFile)
	v.SetDefault("storage.quiz_file_path", "data/quizzes.json")
	v.SetDefault("storage.sqlite_path", "data/cms.db")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("auth.admin_user", "admin")
	v.SetDefault("auth.token_ttl", "8h")
	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("ai.base_url", "https://generativelanguage.googleapis.com/")
	v.SetDefault("ai.timeout", "60s")
	v.SetDefault("jobs.export_cron", "0 * * * *")
	v.SetDefault("jobs.export_path", "data/export/quizzes.json")
	v.SetDefault("jobs.reconcile_cron", "30 3 * * *")
	v.SetDefault("bot.dataset_path", "data/export/quizzes.json")
	v.SetDefault("bot.sqlite_path", "data/bot.db")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("admin_password_hash", "ADMIN_PASSWORD_HASH")
	_ = v.BindEnv("gemini_api_key", "GEMINI_API_KEY")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.Bot.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")
	cfg.Auth.JWTSecret = v.GetString("jwt_secret")
	cfg.Auth.AdminPassHash = v.GetString("admin_password_hash")
	cfg.AI.GeminiAPIKey = v.GetString("gemini_api_key")

	switch cfg.Storage.QuizBackend {
	case QuizBackendFile:
	case QuizBackendPostgres:
		if cfg.DB.URL == "" {
			return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
		}
	default:
		return nil, fmt.Errorf("unknown quiz backend %q", cfg.Storage.QuizBackend)
	}

	return &cfg, nil
}

// RequireCMS checks the secrets the CMS server cannot start without.
func (c *Config) RequireCMS() error {
	if c.Auth.JWTSecret == "" || c.Auth.AdminPassHash == "" {
		return fmt.Errorf("%w: JWT_SECRET, ADMIN_PASSWORD_HASH", ErrMissingEnvironmentVariables)
	}
	return nil
}

// RequireBot checks the secrets the Telegram client cannot start without.
func (c *Config) RequireBot() error {
	if c.Bot.TelegramAPIToken == "" {
		return fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}
	return nil
}
