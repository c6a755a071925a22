package logger

import (
	"strings"
	"testing"
)

func TestRedactorScrubsSecretsAndHashesIDs(t *testing.T) {
	r := &redactor{enabled: true}
	out := r.kvs([]interface{}{
		"access_token", "abc",
		"user_id", "6f1c7f7e-0000-4000-8000-000000000001",
		"path", "/api/chat",
		"dangling",
	})
	if len(out) != 7 {
		t.Fatalf("unexpected kv length: %d", len(out))
	}
	if out[1] != redacted {
		t.Fatalf("token not redacted: %v", out[1])
	}
	if s, _ := out[3].(string); !strings.HasPrefix(s, "hash:") || len(s) != len("hash:")+12 {
		t.Fatalf("user id not hashed: %v", out[3])
	}
	if out[5] != "/api/chat" {
		t.Fatalf("plain value changed: %v", out[5])
	}
	if out[6] != "dangling" {
		t.Fatalf("dangling key dropped: %v", out[6])
	}
}

func TestRedactorNestedMapsAndJWTValues(t *testing.T) {
	r := &redactor{enabled: true}
	jwtLike := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig"
	out := r.kvs([]interface{}{"meta", map[string]interface{}{"password": "pw", "mood": "ok"}, "raw", jwtLike})

	meta, ok := out[1].(map[string]interface{})
	if !ok {
		t.Fatalf("expected map, got %T", out[1])
	}
	if meta["password"] != redacted || meta["mood"] != "ok" {
		t.Fatalf("unexpected nested map: %+v", meta)
	}
	if out[3] != redacted {
		t.Fatalf("jwt-looking value not redacted: %v", out[3])
	}
}

func TestRedactorDisabledPassesThrough(t *testing.T) {
	r := &redactor{enabled: false}
	in := []interface{}{"api_key", "sk-123"}
	out := r.kvs(in)
	if out[1] != "sk-123" {
		t.Fatalf("expected passthrough, got %v", out[1])
	}
}
