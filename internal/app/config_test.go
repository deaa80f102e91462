package app

import (
	"testing"
	"time"
)

func TestEnvKey(t *testing.T) {
	cases := map[string]string{
		"HTTP_PORT":           "http.port",
		"LLM_API_KEY":         "llm.apikey",
		"RAZORPAY_KEY_SECRET": "razorpay.keysecret",
		"WORKER_MAX_ATTEMPTS": "worker.maxattempts",
		"OTEL_SAMPLE_RATIO":   "otel.sampleratio",
		"PORT":                "http.port",
		"HOME":                "",
		"GOPATH":              "",
		"LLM":                 "",
		"LLM_":                "",
	}
	for in, want := range cases {
		if got := envKey(in); got != want {
			t.Fatalf("envKey(%q): want=%q got=%q", in, want, got)
		}
	}
}

func TestLoadConfigDefaultsAndOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("HTTP_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("WORKER_RETRY_DELAY", "45s")
	t.Setenv("LLM_API_KEY", "your_api_key")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTP.Port != 9090 || cfg.DB.Driver != "sqlite" || cfg.Auth.JWTSecret != "s3cret" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if got := cfg.HTTP.Origins(); len(got) != 2 || got[1] != "https://b.example" {
		t.Fatalf("origins: %v", got)
	}
	if cfg.Worker.RetryDelay != 45*time.Second || cfg.Worker.Concurrency != 2 || !cfg.Worker.Enabled {
		t.Fatalf("worker config: %+v", cfg.Worker)
	}
	if cfg.LLM.APIKey != "" {
		t.Fatalf("placeholder api key should be dropped, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Timeout != 90*time.Second || cfg.Cron.Expiry != "5 0 * * *" || !cfg.DB.AutoMigrate {
		t.Fatalf("defaults not applied: llm=%+v cron=%+v", cfg.LLM, cfg.Cron)
	}
}
