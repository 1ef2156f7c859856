package terminal

import (
	"context"

	"github.com/conneroisu/termfolio/internal/logging"
)

// Span is a run of text drawn with an optional style class. When Href is set
// the span is a link.
type Span struct {
	Class string `json:"class,omitempty"`
	Text  string `json:"text"`
	Href  string `json:"href,omitempty"`
}

// Line is one row of terminal output.
type Line []Span

// Text returns an unstyled span.
func Text(text string) Span {
	return Span{Text: text}
}

// Styled returns a span drawn with class.
func Styled(class, text string) Span {
	return Span{Class: class, Text: text}
}

// Link returns a span that points at href.
func Link(class, label, href string) Span {
	return Span{Class: class, Text: label, Href: href}
}

// Plain concatenates the text of every span, ignoring styles.
func (l Line) Plain() string {
	n := 0
	for _, span := range l {
		n += len(span.Text)
	}
	buf := make([]byte, 0, n)
	for _, span := range l {
		buf = append(buf, span.Text...)
	}
	return string(buf)
}

// Display is the rendering side of a terminal session.
type Display interface {
	// RenderLine appends a line of output.
	RenderLine(line Line)
	// RenderPromptEcho appends the prompt followed by the command as typed.
	RenderPromptEcho(command string)
	// ClearAllOutput removes every line rendered so far.
	ClearAllOutput()
	// ScrollToLatest brings the newest output into view.
	ScrollToLatest()
	// SetElementMinWidth pads every span of class to at least chars + 2
	// character cells so that columns line up.
	SetElementMinWidth(class string, chars int)
	// Theme returns the active theme.
	Theme() string
	// ApplyTheme switches the active theme.
	ApplyTheme(theme string)
}

// Preferences persists visitor preferences such as the theme.
type Preferences interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Env is what an action gets to work with.
type Env struct {
	Display Display
	Prefs   Preferences
	Logger  logging.Logger
}

// Action is the behaviour bound to a command.
type Action interface {
	Invoke(ctx context.Context, env *Env, args []string)
}

// ActionFunc adapts an ordinary function to Action.
type ActionFunc func(ctx context.Context, env *Env, args []string)

// Invoke calls f(ctx, env, args).
func (f ActionFunc) Invoke(ctx context.Context, env *Env, args []string) {
	f(ctx, env, args)
}

// Outcome reports how a line was resolved.
type Outcome int

const (
	// OutcomeIgnored means the line was blank and nothing happened.
	OutcomeIgnored Outcome = iota
	// OutcomeMatched means an action ran.
	OutcomeMatched
	// OutcomeUnmatched means the not-found message was rendered.
	OutcomeUnmatched
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeMatched:
		return "matched"
	case OutcomeUnmatched:
		return "unmatched"
	default:
		return "unknown"
	}
}
