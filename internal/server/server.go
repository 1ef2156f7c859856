// Package server serves the browser terminal: the page, a WebSocket per
// visitor session, a stateless command endpoint and a health check.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/termfolio/internal/config"
	"github.com/conneroisu/termfolio/internal/display"
	"github.com/conneroisu/termfolio/internal/errors"
	"github.com/conneroisu/termfolio/internal/logging"
	"github.com/conneroisu/termfolio/internal/terminal"
)

// Server is the HTTP front end of the terminal.
type Server struct {
	config   *config.Config
	resolver *terminal.Resolver
	logger   logging.Logger
	prompt   display.Prompt
	limiter  *RateLimiter

	httpServer  *http.Server
	listener    net.Listener
	serverMutex sync.RWMutex

	clients      map[string]*Client
	clientsMutex sync.RWMutex

	shutdownOnce  sync.Once
	isShutdown    bool
	shutdownMutex sync.RWMutex
}

// New creates a server that resolves commands with resolver.
func New(cfg *config.Config, resolver *terminal.Resolver, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.WithComponent("server")

	return &Server{
		config:   cfg,
		resolver: resolver,
		logger:   logger,
		prompt:   display.Prompt{User: cfg.Terminal.PromptUser, Host: cfg.Terminal.PromptHost},
		limiter:  NewRateLimiter(cfg.Terminal.RateLimit, cfg.Terminal.RateBurst),
		clients:  make(map[string]*Client),
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFiles()))))
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/api/command", s.handleCommand)
	mux.HandleFunc("/health", s.handleHealth)

	return s.addMiddleware(mux)
}

// Listen binds the configured address. It is separate from Serve so callers
// can learn the bound address before serving.
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.config.Server.Host, fmt.Sprint(s.config.Server.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.ServerError("BIND", "cannot listen on "+addr, err).WithContext("port", s.config.Server.Port)
	}

	s.serverMutex.Lock()
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.serverMutex.Unlock()
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.serverMutex.RLock()
	defer s.serverMutex.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until Shutdown. It returns nil after a clean
// shutdown.
func (s *Server) Serve(ctx context.Context) error {
	s.serverMutex.RLock()
	server, ln := s.httpServer, s.listener
	s.serverMutex.RUnlock()
	if server == nil {
		return errors.NewInternalError("ERR_SERVER_NOT_LISTENING", "Serve called before Listen", nil)
	}

	address := "http://" + ln.Addr().String()
	s.logger.Info(ctx, "terminal server listening", "url", address)
	if s.config.Server.Open {
		go s.openBrowser(ctx, address)
	}

	if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return errors.ServerError("SERVE", "server stopped unexpectedly", err)
	}
	return nil
}

// Start listens and serves.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

func (s *Server) openBrowser(ctx context.Context, target string) {
	time.Sleep(100 * time.Millisecond)

	if u, err := url.Parse(target); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		s.logger.Warn(ctx, err, "refusing to open browser for invalid URL", "url", target)
		return
	}

	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", target).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", target).Start()
	case "darwin":
		err = exec.Command("open", target).Start()
	default:
		err = fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
	if err != nil {
		s.logger.Warn(ctx, err, "failed to open browser")
	}
}

// SessionCount returns the number of connected WebSocket sessions.
func (s *Server) SessionCount() int {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	return len(s.clients)
}

func (s *Server) register(client *Client) bool {
	s.shutdownMutex.RLock()
	defer s.shutdownMutex.RUnlock()
	if s.isShutdown {
		return false
	}

	s.clientsMutex.Lock()
	s.clients[client.id] = client
	count := len(s.clients)
	s.clientsMutex.Unlock()

	client.logger.Debug(context.Background(), "session connected", "sessions", count)
	return true
}

func (s *Server) unregister(client *Client) {
	s.clientsMutex.Lock()
	_, ok := s.clients[client.id]
	delete(s.clients, client.id)
	count := len(s.clients)
	s.clientsMutex.Unlock()

	if ok {
		client.logger.Debug(context.Background(), "session disconnected", "sessions", count)
	}
}

// Shutdown closes every session and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "shutting down server")

		s.shutdownMutex.Lock()
		s.isShutdown = true
		s.shutdownMutex.Unlock()

		s.clientsMutex.Lock()
		clients := make([]*Client, 0, len(s.clients))
		for _, client := range s.clients {
			clients = append(clients, client)
		}
		s.clients = make(map[string]*Client)
		s.clientsMutex.Unlock()

		var wg sync.WaitGroup
		for _, client := range clients {
			wg.Add(1)
			go func(c *Client) {
				defer wg.Done()
				c.close(websocket.StatusGoingAway, "server shutting down")
			}(client)
		}
		wg.Wait()

		s.limiter.Stop()

		s.serverMutex.RLock()
		server := s.httpServer
		s.serverMutex.RUnlock()
		if server != nil {
			shutdownErr = server.Shutdown(ctx)
		}
	})

	return shutdownErr
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
