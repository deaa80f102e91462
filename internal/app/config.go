package app

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/yungbote/tutorialhub-backend/internal/clients/llm"
	"github.com/yungbote/tutorialhub-backend/internal/clients/pexels"
	"github.com/yungbote/tutorialhub-backend/internal/clients/razorpay"
	"github.com/yungbote/tutorialhub-backend/internal/clients/youtube"
	"github.com/yungbote/tutorialhub-backend/internal/data/db"
	httpMW "github.com/yungbote/tutorialhub-backend/internal/http/middleware"
	"github.com/yungbote/tutorialhub-backend/internal/jobs/worker"
	"github.com/yungbote/tutorialhub-backend/internal/observability"
	"github.com/yungbote/tutorialhub-backend/internal/realtime/bus"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type HTTPConfig struct {
	Port          int           `koanf:"port"`
	CORSOrigins   string        `koanf:"corsorigins"`
	ShutdownGrace time.Duration `koanf:"shutdowngrace"`
}

// Origins splits the comma-separated CORS list.
func (c HTTPConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

type LogConfig struct {
	Mode  string `koanf:"mode"`
	Level string `koanf:"level"`
}

type DBConfig struct {
	db.Config   `koanf:",squash"`
	AutoMigrate bool `koanf:"automigrate"`
}

type WorkerConfig struct {
	worker.Config `koanf:",squash"`
	Enabled       bool `koanf:"enabled"`
}

type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

type CronConfig struct {
	Enabled bool   `koanf:"enabled"`
	Expiry  string `koanf:"expiry"`
}

type Config struct {
	HTTP     HTTPConfig               `koanf:"http"`
	Log      LogConfig                `koanf:"log"`
	DB       DBConfig                 `koanf:"db"`
	Redis    bus.Config               `koanf:"redis"`
	LLM      llm.Config               `koanf:"llm"`
	YouTube  youtube.Config           `koanf:"youtube"`
	Pexels   pexels.Config            `koanf:"pexels"`
	Razorpay razorpay.Config          `koanf:"razorpay"`
	Auth     httpMW.AuthConfig        `koanf:"auth"`
	Worker   WorkerConfig             `koanf:"worker"`
	Otel     observability.OtelConfig `koanf:"otel"`
	Metrics  MetricsConfig            `koanf:"metrics"`
	Cron     CronConfig               `koanf:"cron"`
}

var sections = map[string]bool{
	"http": true, "log": true, "db": true, "redis": true, "llm": true, "youtube": true,
	"pexels": true, "razorpay": true, "auth": true, "worker": true, "otel": true,
	"metrics": true, "cron": true,
}

// Unprefixed names common in hosting environments.
var envAliases = map[string]string{
	"PORT":           "http.port",
	"OPENAI_API_KEY": "llm.apikey",
	"JWT_SECRET_KEY": "auth.jwtsecret",
}

// envKey maps SECTION_FIELD_NAME to section.fieldname. Variables outside the
// known sections are ignored.
func envKey(name string) string {
	if alias, ok := envAliases[name]; ok {
		return alias
	}
	lower := strings.ToLower(name)
	section, field, ok := strings.Cut(lower, "_")
	if !ok || !sections[section] || field == "" {
		return ""
	}
	return section + "." + strings.ReplaceAll(field, "_", "")
}

// LoadConfig layers embedded defaults, then .env files, then the process environment.
func LoadConfig() (Config, error) {
	// Missing files are fine; earlier files win.
	for _, f := range []string{".env.local", ".env"} {
		_ = godotenv.Load(f)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load default config: %w", err)
	}
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load env config: %w", err)
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if !llm.ValidAPIKey(cfg.LLM.APIKey) {
		cfg.LLM.APIKey = ""
	}
	return cfg, nil
}
