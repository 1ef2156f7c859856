package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/conneroisu/termfolio/internal/display"
	"github.com/conneroisu/termfolio/internal/errors"
	"github.com/conneroisu/termfolio/internal/logging"
	"github.com/conneroisu/termfolio/internal/prefs"
	"github.com/conneroisu/termfolio/internal/terminal"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// A session with no incoming message for this long is closed.
	idleTimeout = 15 * time.Minute

	// Send pings to peer with this period.
	pingPeriod = 30 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Outgoing messages buffered per session.
	sendBuffer = 256
)

// Incoming message types.
const (
	clientHello   = "hello"
	clientCommand = "command"
)

// ClientMessage is a message from the browser.
type ClientMessage struct {
	Type  string `json:"type"`
	Input string `json:"input,omitempty"`
	Theme string `json:"theme,omitempty"`
}

// Client is one connected browser tab.
type Client struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	server  *Server
	logger  logging.Logger
	session *terminal.Session

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.checkOrigin(r) {
		s.logger.Warn(r.Context(), nil, "websocket origin rejected", "origin", r.Header.Get("Origin"))
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(r),
	})
	if err != nil {
		s.logger.Warn(r.Context(), errors.WebSocketError("UPGRADE", "", "upgrade failed", err), "websocket upgrade failed")
		return
	}
	conn.SetReadLimit(maxMessageSize)

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		server: s,
		logger: s.logger.With("session_id", id),
		ctx:    ctx,
		cancel: cancel,
	}

	if !s.register(client) {
		cancel()
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	go client.writePump()
	go client.readPump()
}

// originPatterns lists the request's own Origin host for the upgrade, so a
// handshake that passed checkOrigin is accepted. A missing or malformed
// Origin yields no patterns.
func originPatterns(r *http.Request) []string {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return nil
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Host}
}

// startSession creates the terminal session on first contact.
func (c *Client) startSession(theme string) {
	if c.session != nil {
		return
	}
	theme = c.server.themeFor(theme)

	d := display.NewHTMLDisplay(c.server.prompt, theme, c.emit, c.logger)
	store := prefs.NewMemory(map[string]string{prefs.ThemeKey: theme}, func(key, value string) {
		c.emit(display.Message{Type: display.MessagePreference, Key: key, Value: value})
	})
	env := &terminal.Env{Display: d, Prefs: store, Logger: c.logger}
	c.session = terminal.NewSession(c.id, c.server.resolver, env)

	c.emit(display.Message{Type: display.MessageTheme, Theme: theme})
	c.logger.Info(c.ctx, "session started", "theme", theme)
}

// emit queues a message for the browser, waiting if the buffer is full.
func (c *Client) emit(m display.Message) {
	data, err := json.Marshal(m)
	if err != nil {
		c.logger.Error(c.ctx, err, "marshal message failed", "type", m.Type)
		return
	}
	select {
	case c.send <- data:
	case <-c.ctx.Done():
	}
}

func (c *Client) handle(msg ClientMessage) {
	switch msg.Type {
	case clientHello:
		c.startSession(msg.Theme)
	case clientCommand:
		c.startSession("")
		if !c.server.limiter.Allow(c.id) {
			c.emit(rateLimitedMessage())
			return
		}
		outcome := c.session.Resolve(c.ctx, msg.Input)
		c.logger.Debug(c.ctx, "command handled", "outcome", outcome.String())
	default:
		c.logger.Debug(c.ctx, "ignoring unknown message", "type", logging.SanitizeInput(msg.Type))
	}
}

func rateLimitedMessage() display.Message {
	html, _ := display.RenderString(context.Background(), display.LineView(terminal.Line{
		terminal.Styled("error", "Slow down"),
		terminal.Text(": too many commands. Try again in a moment."),
	}))
	return display.Message{Type: display.MessageLine, HTML: html}
}

// readPump reads client messages and resolves commands one at a time.
func (c *Client) readPump() {
	defer func() {
		c.server.unregister(c)
		c.server.limiter.Forget(c.id)
		c.close(websocket.StatusNormalClosure, "")
	}()

	for {
		readCtx, readCancel := context.WithTimeout(c.ctx, idleTimeout)
		typ, data, err := c.conn.Read(readCtx)
		readCancel()

		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && c.ctx.Err() == nil {
				c.logger.Debug(c.ctx, "websocket read ended", "error", err.Error())
			}
			return
		}
		if typ != websocket.MessageText {
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Debug(c.ctx, "ignoring malformed message", "error", err.Error())
			continue
		}
		c.handle(msg)
	}
}

// writePump writes queued messages and keeps the connection alive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case message := <-c.send:
			writeCtx, cancel := context.WithTimeout(c.ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.logger.Debug(c.ctx, "websocket write failed", "error", err.Error())
				c.close(websocket.StatusInternalError, "write failed")
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(c.ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				c.close(websocket.StatusGoingAway, "ping failed")
				return
			}
		}
	}
}

// close ends the session. Queued messages that were not yet written are
// dropped.
func (c *Client) close(code websocket.StatusCode, reason string) {
	c.closeOnce.Do(func() {
		_ = c.conn.Close(code, reason)
		c.cancel()
	})
}
