package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/conneroisu/termfolio/internal/config"
	"github.com/conneroisu/termfolio/internal/display"
	"github.com/conneroisu/termfolio/internal/prefs"
	"github.com/conneroisu/termfolio/internal/terminal"
	"github.com/conneroisu/termfolio/internal/version"
)

// maxCommandBody bounds the JSON body of a command request.
const maxCommandBody = 4 << 10

// themeFor returns requested if it is a known theme, otherwise the default.
func (s *Server) themeFor(requested string) string {
	if config.IsTheme(requested) {
		return requested
	}
	return s.config.Terminal.DefaultTheme
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	theme := s.config.Terminal.DefaultTheme
	if cookie, err := r.Cookie(prefs.ThemeKey); err == nil {
		theme = s.themeFor(cookie.Value)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := Page(PageData{Title: "Terminal Portfolio", Theme: theme, Prompt: s.prompt})
	if err := page.Render(r.Context(), w); err != nil {
		s.logger.Error(r.Context(), err, "render page failed")
	}
}

// CommandRequest is the body of POST /api/command.
type CommandRequest struct {
	Input string `json:"input"`
	Theme string `json:"theme"`
}

// CommandResponse lists the messages a session would have received.
type CommandResponse struct {
	Outcome  string            `json:"outcome"`
	Messages []display.Message `json:"messages"`
}

// handleCommand resolves one line without a session. The caller supplies the
// active theme and receives any preference changes as messages.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ip := getClientIP(r, s.config.Server.Environment == "production")
	if !s.limiter.Allow("ip:" + ip) {
		w.Header().Set("Retry-After", "1")
		http.Error(w, "Too many requests", http.StatusTooManyRequests)
		return
	}

	var req CommandRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCommandBody))
	if err := decoder.Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	collector := &display.Collector{}
	sink := collector.Sink()
	theme := s.themeFor(req.Theme)
	env := &terminal.Env{
		Display: display.NewHTMLDisplay(s.prompt, theme, sink, s.logger),
		Prefs: prefs.NewMemory(map[string]string{prefs.ThemeKey: theme}, func(key, value string) {
			sink(display.Message{Type: display.MessagePreference, Key: key, Value: value})
		}),
		Logger: s.logger.With("ip", ip),
	}

	outcome := s.resolver.Resolve(r.Context(), env, req.Input)

	messages := collector.Messages()
	if messages == nil {
		messages = []display.Message{}
	}
	if err := writeJSON(w, http.StatusOK, CommandResponse{Outcome: outcome.String(), Messages: messages}); err != nil {
		s.logger.Error(r.Context(), err, "encode command response failed")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	build := version.Build()
	health := map[string]interface{}{
		"status":     "healthy",
		"timestamp":  time.Now().UTC(),
		"version":    build.Short(),
		"build_info": build,
		"sessions":   s.SessionCount(),
		"commands":   len(s.resolver.Registry().Names()),
	}

	if err := writeJSON(w, http.StatusOK, health); err != nil {
		s.logger.Error(r.Context(), err, "encode health response failed")
	}
}
