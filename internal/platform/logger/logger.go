package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

// New builds a logger for the given mode: "production", "development" or "test".
// Test mode discards everything so package tests stay quiet.
func New(mode string) (*Logger, error) {
	return NewWithLevel(mode, "")
}

func NewWithLevel(mode string, level string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "test", "nop":
		return &Logger{SugaredLogger: zap.NewNop().Sugar()}, nil
	case "prod", "production":
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	if lvl := strings.TrimSpace(level); lvl != "" {
		parsed, err := zapcore.ParseLevel(lvl)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", lvl, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}
	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Debugw(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Infow(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Warnw(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Fatalw(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(sanitizeKVs(keysAndValues)...)}
}

var (
	redactMu         sync.RWMutex
	redactLoaded     bool
	redactionEnabled bool
	hashSalt         string
)

// SetRedaction overrides the LOG_REDACTION_ENABLED / LOG_HASH_SALT environment defaults.
func SetRedaction(enabled bool, salt string) {
	redactMu.Lock()
	defer redactMu.Unlock()
	redactLoaded = true
	redactionEnabled = enabled
	hashSalt = strings.TrimSpace(salt)
}

func sanitizeKVs(kv []interface{}) []interface{} {
	if len(kv) == 0 || !redactionOn() {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := strings.TrimSpace(strings.ToLower(toString(kv[i])))
		out = append(out, toString(kv[i]), sanitizeValue(key, kv[i+1]))
	}
	return out
}

func sanitizeValue(key string, val interface{}) interface{} {
	if key != "" {
		if isRedactKey(key) {
			return "[REDACTED]"
		}
		if isHashKey(key) {
			return hashValue(val)
		}
	}
	switch v := val.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, inner := range v {
			out[k] = sanitizeValue(strings.TrimSpace(strings.ToLower(k)), inner)
		}
		return out
	case []interface{}:
		out := make([]interface{}, 0, len(v))
		for _, inner := range v {
			out = append(out, sanitizeValue("", inner))
		}
		return out
	case string:
		if looksLikeJWT(v) {
			return "[REDACTED]"
		}
		return v
	default:
		return val
	}
}

var redactFragments = []string{
	"token",
	"authorization",
	"password",
	"secret",
	"signature",
	"cookie",
	"api_key",
	"apikey",
	"email",
}

func isRedactKey(key string) bool {
	for _, frag := range redactFragments {
		if strings.Contains(key, frag) {
			return true
		}
	}
	return false
}

func isHashKey(key string) bool {
	return strings.Contains(key, "user_id") || strings.Contains(key, "session_id")
}

func hashValue(val interface{}) string {
	raw := toString(val)
	if raw == "" {
		return ""
	}
	h := sha256.New()
	if salt := currentSalt(); salt != "" {
		_, _ = h.Write([]byte(salt))
	}
	_, _ = h.Write([]byte(raw))
	sum := hex.EncodeToString(h.Sum(nil))
	return "hash:" + sum[:12]
}

func looksLikeJWT(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func loadRedactionFromEnv() {
	if redactLoaded {
		return
	}
	redactLoaded = true
	switch strings.TrimSpace(strings.ToLower(os.Getenv("LOG_REDACTION_ENABLED"))) {
	case "0", "false", "no", "off":
		redactionEnabled = false
	default:
		redactionEnabled = true
	}
	hashSalt = strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))
}

func redactionOn() bool {
	redactMu.RLock()
	if redactLoaded {
		on := redactionEnabled
		redactMu.RUnlock()
		return on
	}
	redactMu.RUnlock()

	redactMu.Lock()
	defer redactMu.Unlock()
	loadRedactionFromEnv()
	return redactionEnabled
}

func currentSalt() string {
	redactMu.RLock()
	defer redactMu.RUnlock()
	return hashSalt
}
