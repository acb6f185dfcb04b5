package infra

import (
	"testing"
	"time"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "PORT", "LOG_LEVEL", "DATABASE_URL", "SQLITE_PATH", "IMAGES_DIR", "GEOIP_DB_PATH",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_IMAGE_MODEL", "OPENAI_HTTP_TIMEOUT_SECONDS",
		"CORS_ALLOWED_ORIGINS", "HTTP_READ_TIMEOUT_SECONDS", "HTTP_WRITE_TIMEOUT_SECONDS", "HTTP_IDLE_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.SQLitePath != "genie.db" || cfg.ImagesDir != "images" {
		t.Fatalf("unexpected store defaults: %q %q", cfg.SQLitePath, cfg.ImagesDir)
	}
	if cfg.OpenAIBaseURL != "https://api.openai.com/v1" || cfg.OpenAIImageModel != "dall-e-3" {
		t.Fatalf("unexpected provider defaults: %q %q", cfg.OpenAIBaseURL, cfg.OpenAIImageModel)
	}
	if cfg.OpenAIHTTPTimeout != 0 {
		t.Fatalf("provider timeout should default to none, got %s", cfg.OpenAIHTTPTimeout)
	}
	if cfg.UsePostgres() {
		t.Fatal("expected sqlite store by default")
	}
	if err := cfg.RequireAPIKey(); err == nil {
		t.Fatal("expected missing api key error")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DATABASE_URL", "postgres://genie@localhost/genie")
	t.Setenv("OPENAI_API_KEY", " sk-test ")
	t.Setenv("OPENAI_HTTP_TIMEOUT_SECONDS", "90")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if !cfg.UsePostgres() {
		t.Fatal("expected postgres store")
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Fatalf("api key not trimmed: %q", cfg.OpenAIAPIKey)
	}
	if cfg.OpenAIHTTPTimeout != 90*time.Second {
		t.Fatalf("timeout = %s", cfg.OpenAIHTTPTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.test" {
		t.Fatalf("origins = %#v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigRejectsForeignDatabaseURL(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DATABASE_URL", "mysql://root@localhost/genie")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for non-postgres url")
	}
}
