package server

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conneroisu/termfolio/internal/config"
	"github.com/conneroisu/termfolio/internal/terminal"
)

func TestCheckOrigin(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = 8080
	cfg.Server.AllowedOrigins = []string{"https://portfolio.example/"}
	srv := New(cfg, terminal.NewResolver(terminal.NewRegistry(nil, nil), nil), nil)
	defer srv.Shutdown(context.Background())

	tests := []struct {
		name   string
		host   string
		origin string
		want   bool
	}{
		{"same host", "term.example:9000", "http://term.example:9000", true},
		{"configured origin", "term.example", "https://portfolio.example", true},
		{"localhost on configured port", "0.0.0.0:8080", "http://localhost:8080", true},
		{"loopback on configured port", "0.0.0.0:8080", "http://127.0.0.1:8080", true},
		{"localhost on other port", "0.0.0.0:8080", "http://localhost:9999", false},
		{"foreign origin", "term.example", "https://evil.example", false},
		{"missing origin", "term.example", "", false},
		{"non-http scheme", "term.example", "file://term.example", false},
		{"unparseable", "term.example", "http://%zz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/ws", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, srv.checkOrigin(r))
		})
	}
}

func TestCheckOriginProductionSkipsLocalhost(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = 8080
	cfg.Server.Environment = "production"
	srv := New(cfg, terminal.NewResolver(terminal.NewRegistry(nil, nil), nil), nil)
	defer srv.Shutdown(context.Background())

	r := httptest.NewRequest("GET", "/ws", nil)
	r.Host = "term.example"
	r.Header.Set("Origin", "http://localhost:8080")
	assert.False(t, srv.checkOrigin(r))
}

func TestSecurityConfigFromAppConfig(t *testing.T) {
	cfg := config.Default()
	sc := SecurityConfigFromAppConfig(cfg)
	assert.False(t, sc.HSTS)
	assert.False(t, sc.TrustProxy)
	assert.Equal(t, DefaultCSP, sc.CSP)

	cfg.Server.Environment = "production"
	sc = SecurityConfigFromAppConfig(cfg)
	assert.True(t, sc.HSTS)
	assert.True(t, sc.TrustProxy)
}

func TestApplySecurityHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	applySecurityHeaders(w, r, &SecurityConfig{CSP: "default-src 'none'", HSTS: true})

	assert.Equal(t, "default-src 'none'", w.Header().Get("Content-Security-Policy"))
	assert.Empty(t, w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"), "HSTS only over TLS")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestOriginPatterns(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		want   []string
	}{
		{name: "missing", origin: "", want: nil},
		{name: "malformed", origin: "http://[::1", want: nil},
		{name: "no host", origin: "null", want: nil},
		{name: "valid", origin: "https://portfolio.example", want: []string{"portfolio.example"}},
		{name: "with port", origin: "http://localhost:8080", want: []string{"localhost:8080"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, originPatterns(r))
		})
	}
}
