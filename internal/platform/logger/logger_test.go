package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	SetRedaction(true, "")
	t.Cleanup(func() { SetRedaction(true, "") })

	out := sanitizeKVs([]interface{}{
		"razorpay_signature", "abc",
		"api_key", "sk-live",
		"user_id", "user_123",
		"course_id", "c-1",
	})
	if len(out) != 8 {
		t.Fatalf("len: want=8 got=%d", len(out))
	}
	if out[1] != "[REDACTED]" || out[3] != "[REDACTED]" {
		t.Fatalf("secrets not redacted: %v", out)
	}
	hashed, _ := out[5].(string)
	if !strings.HasPrefix(hashed, "hash:") || hashed == "hash:" {
		t.Fatalf("user_id not hashed: %v", out[5])
	}
	if out[7] != "c-1" {
		t.Fatalf("course_id should pass through: %v", out[7])
	}
}

func TestSanitizeKVsDisabled(t *testing.T) {
	SetRedaction(false, "")
	t.Cleanup(func() { SetRedaction(true, "") })

	out := sanitizeKVs([]interface{}{"token", "abc"})
	if out[1] != "abc" {
		t.Fatalf("redaction disabled but value changed: %v", out[1])
	}
}

func TestSanitizeKVsNestedAndJWT(t *testing.T) {
	SetRedaction(true, "salt")
	t.Cleanup(func() { SetRedaction(true, "") })

	jwtLike := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ1c2VyXzEyMyJ9.sig"
	out := sanitizeKVs([]interface{}{
		"payload", map[string]interface{}{"password": "pw", "name": "x"},
		"raw", jwtLike,
		"dangling",
	})
	nested, ok := out[1].(map[string]interface{})
	if !ok {
		t.Fatalf("nested map lost: %T", out[1])
	}
	if nested["password"] != "[REDACTED]" || nested["name"] != "x" {
		t.Fatalf("nested map not sanitized: %v", nested)
	}
	if out[3] != "[REDACTED]" {
		t.Fatalf("jwt-looking value not redacted: %v", out[3])
	}
	if out[4] != "dangling" {
		t.Fatalf("odd trailing key dropped: %v", out)
	}
}

func TestNewTestModeIsQuiet(t *testing.T) {
	log, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.With("component", "x").Info("hello", "k", "v")
	log.Sync()
}

func TestNewWithLevelRejectsGarbage(t *testing.T) {
	if _, err := NewWithLevel("development", "loud"); err == nil {
		t.Fatalf("expected error for bad level")
	}
}
