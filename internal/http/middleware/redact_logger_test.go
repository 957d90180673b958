package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedactor_Redact(t *testing.T) {
	rd := newRedactor(RedactOptions{})
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"topic=cats&sort_by=votes", "topic=cats&sort_by=votes"},
		{"email=a.b+tag@example.com", "email=[REDACTED:email]"},
		{"id=123e4567-e89b-12d3-a456-426614174000", "id=[REDACTED:id]"},
		{"phone=555-123-4567", "phone=[REDACTED:phone]"},
	}
	for _, tt := range tests {
		if got := rd.redact(tt.in); got != tt.want {
			t.Errorf("redact(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestRedactor_Headers(t *testing.T) {
	rd := newRedactor(RedactOptions{MaskHeaders: []string{" X-Api-Key ", ""}})
	h := http.Header{}
	h.Set("Authorization", "Bearer secret")
	h.Set("Cookie", "sid=topsecret")
	h.Set("Idempotency-Key", "retry-1")
	h.Set("X-Api-Key", "shhh")
	h.Set("X-Request-ID", "123e4567-e89b-12d3-a456-426614174000")
	h.Set("X-Custom", "email a@b.com id=123e4567-e89b-12d3-a456-426614174000")

	got := rd.headers(h)
	for _, k := range []string{"Authorization", "Cookie", "Idempotency-Key", "X-Api-Key"} {
		if got[k] != "[REDACTED]" {
			t.Errorf("%s = %q; want masked", k, got[k])
		}
	}
	if got["X-Request-Id"] != "123e4567-e89b-12d3-a456-426614174000" {
		t.Errorf("request id must be kept verbatim, got %q", got["X-Request-Id"])
	}
	if got["X-Custom"] != "email [REDACTED:email] id=[REDACTED:id]" {
		t.Errorf("X-Custom = %q", got["X-Custom"])
	}
}

func TestLogger_RedactsQueryAndWarnHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID())
	r.Use(Logger(RedactOptions{MaskHeaders: []string{"X-Api-Key"}}))
	r.GET("/api/articles", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/api/articles?topic=a@b.com", nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("X-Api-Key", "shhh")
	r.ServeHTTP(httptest.NewRecorder(), req)

	logs := buf.String()
	if !strings.Contains(logs, `"query":"topic=[REDACTED:email]"`) {
		t.Fatalf("expected redacted query, got: %s", logs)
	}
	if !strings.Contains(logs, `"Authorization":"[REDACTED]"`) || !strings.Contains(logs, `"X-Api-Key":"[REDACTED]"`) {
		t.Fatalf("expected masked headers on 4xx log, got: %s", logs)
	}
	if strings.Contains(logs, "secret") || strings.Contains(logs, "shhh") {
		t.Fatalf("secret leaked: %s", logs)
	}
}

func TestRedactor_Headers_RequestIDAnyCase(t *testing.T) {
	rd := newRedactor(RedactOptions{})
	const rid = "123e4567-e89b-12d3-a456-426614174000"
	for _, k := range []string{"X-Request-Id", "x-request-id", "X-REQUEST-ID"} {
		got := rd.headers(http.Header{k: {rid}})
		if got[k] != rid {
			t.Errorf("%s = %q; want verbatim id", k, got[k])
		}
	}
}
