package display

import (
	"context"
	"sync"

	"github.com/conneroisu/termfolio/internal/logging"
	"github.com/conneroisu/termfolio/internal/terminal"
)

// Message types sent to the browser.
const (
	MessageLine       = "line"
	MessageEcho       = "echo"
	MessageClear      = "clear"
	MessageScroll     = "scroll"
	MessageSpacing    = "spacing"
	MessageTheme      = "theme"
	MessagePreference = "preference"
)

// Message is one instruction for the browser terminal.
type Message struct {
	Type  string `json:"type"`
	HTML  string `json:"html,omitempty"`
	Class string `json:"class,omitempty"`
	Chars int    `json:"chars,omitempty"`
	Theme string `json:"theme,omitempty"`
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`
}

// Sink receives messages in the order the display produced them.
type Sink func(Message)

// HTMLDisplay renders into browser messages.
type HTMLDisplay struct {
	prompt Prompt
	sink   Sink
	logger logging.Logger

	mu    sync.RWMutex
	theme string
}

var _ terminal.Display = (*HTMLDisplay)(nil)

// NewHTMLDisplay creates a display starting in theme that sends every
// message to sink.
func NewHTMLDisplay(prompt Prompt, theme string, sink Sink, logger logging.Logger) *HTMLDisplay {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &HTMLDisplay{prompt: prompt, sink: sink, logger: logger, theme: theme}
}

func (d *HTMLDisplay) RenderLine(line terminal.Line) {
	html, err := RenderString(context.Background(), LineView(line))
	if err != nil {
		d.logger.Error(context.Background(), err, "render line failed")
		return
	}
	d.sink(Message{Type: MessageLine, HTML: html})
}

func (d *HTMLDisplay) RenderPromptEcho(command string) {
	html, err := RenderString(context.Background(), EchoView(d.prompt, command))
	if err != nil {
		d.logger.Error(context.Background(), err, "render echo failed")
		return
	}
	d.sink(Message{Type: MessageEcho, HTML: html})
}

func (d *HTMLDisplay) ClearAllOutput() {
	d.sink(Message{Type: MessageClear})
}

func (d *HTMLDisplay) ScrollToLatest() {
	d.sink(Message{Type: MessageScroll})
}

func (d *HTMLDisplay) SetElementMinWidth(class string, chars int) {
	d.sink(Message{Type: MessageSpacing, Class: class, Chars: chars + 2})
}

func (d *HTMLDisplay) Theme() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.theme
}

func (d *HTMLDisplay) ApplyTheme(theme string) {
	d.mu.Lock()
	d.theme = theme
	d.mu.Unlock()
	d.sink(Message{Type: MessageTheme, Theme: theme})
}

// Collector is a Sink that keeps every message, for one-shot requests.
type Collector struct {
	mu       sync.Mutex
	messages []Message
}

// Sink returns the function that appends to c.
func (c *Collector) Sink() Sink {
	return func(m Message) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.messages = append(c.messages, m)
	}
}

// Messages returns a copy of the collected messages.
func (c *Collector) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}
