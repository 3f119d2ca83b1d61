package extract

import (
	"encoding/json"
	"errors"
	"testing"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestToken(t *testing.T) {
	tok := Token("$.access")

	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{"present", `{"access":"abc123","refresh":"r"}`, "abc123", true},
		{"absent", `{"refresh":"r"}`, "", false},
		{"empty", `{"access":""}`, "", false},
		{"blank", `{"access":"   "}`, "", false},
		{"null", `{"access":null}`, "", false},
		{"array body", `[1,2]`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tok(decode(t, tt.body))
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("Token() = (%q,%v), want (%q,%v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestToken_NilBody(t *testing.T) {
	if got, ok := Token("$.access")(nil); ok || got != "" {
		t.Fatalf("expected no token, got (%q,%v)", got, ok)
	}
}

func TestValue_Nested(t *testing.T) {
	doc := decode(t, `{"user":{"id":7,"username":"demo_user"}}`)

	id, err := Value("$.user.id", doc)
	if err != nil || id != "7" {
		t.Fatalf("expected 7, got %q err=%v", id, err)
	}
	name, err := Value("$.user.username", doc)
	if err != nil || name != "demo_user" {
		t.Fatalf("expected demo_user, got %q err=%v", name, err)
	}
}

func TestValue_MissingKeyIsNoValue(t *testing.T) {
	_, err := Value("$.missing", decode(t, `{"a":1}`))
	if !errors.Is(err, ErrNoValue) {
		t.Fatalf("expected ErrNoValue, got %v", err)
	}
}

func TestValue_EmptyExpression(t *testing.T) {
	if _, err := Value("  ", decode(t, `{"a":1}`)); err == nil {
		t.Fatalf("expected error")
	}
}
