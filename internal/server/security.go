package server

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/conneroisu/termfolio/internal/config"
)

// SecurityConfig holds the response headers applied to every request.
type SecurityConfig struct {
	CSP            string
	XFrameOptions  string
	ReferrerPolicy string
	HSTS           bool
	TrustProxy     bool
	AllowedOrigins []string
}

// DefaultCSP allows only same-origin scripts. Inline styles are needed for
// the column spacing rules the client injects.
const DefaultCSP = "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data:; connect-src 'self' ws: wss:; object-src 'none'; " +
	"frame-ancestors 'none'; base-uri 'self'; form-action 'self'"

// SecurityConfigFromAppConfig derives header settings from the application
// config. Production trusts X-Forwarded-For and sends HSTS.
func SecurityConfigFromAppConfig(cfg *config.Config) *SecurityConfig {
	production := cfg.Server.Environment == "production"
	return &SecurityConfig{
		CSP:            DefaultCSP,
		XFrameOptions:  "DENY",
		ReferrerPolicy: "strict-origin-when-cross-origin",
		HSTS:           production,
		TrustProxy:     production,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
}

func applySecurityHeaders(w http.ResponseWriter, r *http.Request, sc *SecurityConfig) {
	h := w.Header()
	if sc.CSP != "" {
		h.Set("Content-Security-Policy", sc.CSP)
	}
	if sc.XFrameOptions != "" {
		h.Set("X-Frame-Options", sc.XFrameOptions)
	}
	if sc.ReferrerPolicy != "" {
		h.Set("Referrer-Policy", sc.ReferrerPolicy)
	}
	if sc.HSTS && r.TLS != nil {
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	}
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
}

// statusRecorder captures the status code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack hands the connection over for the WebSocket upgrade.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func (s *Server) addMiddleware(handler http.Handler) http.Handler {
	sc := SecurityConfigFromAppConfig(s.config)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		applySecurityHeaders(w, r, sc)

		origin := r.Header.Get("Origin")
		if s.isAllowedOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		} else if s.config.Server.Environment == "development" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		handler.ServeHTTP(rec, r)
		s.logger.Debug(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"ip", getClientIP(r, sc.TrustProxy))
	})
}

// isAllowedOrigin reports whether origin is listed in server.allowed_origins.
func (s *Server) isAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}
	for _, allowed := range s.config.Server.AllowedOrigins {
		if strings.EqualFold(strings.TrimRight(allowed, "/"), origin) {
			return true
		}
	}
	return false
}

// checkOrigin validates the Origin of a WebSocket handshake. Same-origin
// requests and configured origins pass; in development localhost on the
// configured port passes too.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if originURL.Scheme != "http" && originURL.Scheme != "https" {
		return false
	}

	if strings.EqualFold(originURL.Host, r.Host) || s.isAllowedOrigin(origin) {
		return true
	}

	if s.config.Server.Environment == "development" {
		host, port, err := net.SplitHostPort(originURL.Host)
		if err == nil && (host == "localhost" || host == "127.0.0.1") && port == strconv.Itoa(s.config.Server.Port) {
			return true
		}
	}
	return false
}

// getClientIP returns the client address. Forwarding headers are honoured
// only when trustProxy is set.
func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			return strings.TrimSpace(strings.Split(xff, ",")[0])
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
