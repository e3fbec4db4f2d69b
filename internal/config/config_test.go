package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$hash")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Env != "production" {
		t.Errorf("Env = %q", cfg.Env)
	}
	if cfg.HTTP.Addr != ":8080" || cfg.HTTP.RequestTimeout != 30*time.Second {
		t.Errorf("HTTP = %+v", cfg.HTTP)
	}
	if cfg.Storage.QuizBackend != QuizBackendFile {
		t.Errorf("QuizBackend = %q", cfg.Storage.QuizBackend)
	}
	if cfg.Storage.SQLitePath == cfg.Bot.SQLitePath {
		t.Errorf("cms and bot share the sqlite file %q", cfg.Bot.SQLitePath)
	}
	if cfg.AI.BaseURL != "https://generativelanguage.googleapis.com/" {
		t.Errorf("AI.BaseURL = %q", cfg.AI.BaseURL)
	}
	if cfg.Auth.TokenTTL != 8*time.Hour || cfg.Auth.AdminUser != "admin" {
		t.Errorf("Auth = %+v", cfg.Auth)
	}
	if err := cfg.RequireCMS(); err != nil {
		t.Errorf("RequireCMS: %v", err)
	}
	if err := cfg.RequireBot(); !errors.Is(err, ErrMissingEnvironmentVariables) {
		t.Errorf("RequireBot err = %v", err)
	}
}

func TestLoad_BotSQLitePathFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BOT_SQLITE_PATH", "/var/lib/trivia/bot.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Bot.SQLitePath != "/var/lib/trivia/bot.db" {
		t.Fatalf("Bot.SQLitePath = %q", cfg.Bot.SQLitePath)
	}
	if cfg.Storage.SQLitePath != "data/cms.db" {
		t.Fatalf("Storage.SQLitePath = %q", cfg.Storage.SQLitePath)
	}
}

func TestLoad_PostgresNeedsURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_QUIZ_BACKEND", QuizBackendPostgres)
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); !errors.Is(err, ErrMissingEnvironmentVariables) {
		t.Fatalf("err = %v, want ErrMissingEnvironmentVariables", err)
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/trivia")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	dsn, err := cfg.DB.DSN()
	if err != nil || dsn != "postgres://localhost/trivia" {
		t.Fatalf("DSN = %q, %v", dsn, err)
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_QUIZ_BACKEND", "s3")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
