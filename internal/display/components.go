package display

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/termfolio/internal/terminal"
)

// Prompt is the user@host part drawn before an echoed command.
type Prompt struct {
	User string
	Host string
}

// DefaultPrompt is visitor@portfolio.jekdev.net.
var DefaultPrompt = Prompt{User: "visitor", Host: "portfolio.jekdev.net"}

// String renders the prompt as plain text, e.g. "visitor@host:~$".
func (p Prompt) String() string {
	return p.User + "@" + p.Host + ":~$"
}

// LineView renders one output line. Span text is always escaped. Links open
// in a new tab and their href is sanitised.
func LineView(line terminal.Line) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="line">`)
		for _, span := range line {
			writeSpan(&b, span)
		}
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// EchoView renders the prompt followed by the command as typed.
func EchoView(prompt Prompt, command string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<p class="command-line"><span class="prompt no-select">`+
			`<span class="accent">`+templ.EscapeString(prompt.User)+`</span>@`+
			`<span class="link">`+templ.EscapeString(prompt.Host)+`</span>:~$ </span>`+
			`<span>`+templ.EscapeString(command)+`</span></p>`)
		return err
	})
}

func writeSpan(b *strings.Builder, span terminal.Span) {
	text := templ.EscapeString(span.Text)

	if span.Href != "" {
		b.WriteString(`<a`)
		writeClass(b, span.Class)
		b.WriteString(` href="`)
		b.WriteString(templ.EscapeString(string(templ.URL(span.Href))))
		b.WriteString(`" target="_blank" rel="noopener noreferrer">`)
		b.WriteString(text)
		b.WriteString(`</a>`)
		return
	}

	if span.Class == "" {
		b.WriteString(text)
		return
	}
	b.WriteString(`<span`)
	writeClass(b, span.Class)
	b.WriteString(`>`)
	b.WriteString(text)
	b.WriteString(`</span>`)
}

func writeClass(b *strings.Builder, class string) {
	if class == "" {
		return
	}
	b.WriteString(` class="`)
	b.WriteString(templ.EscapeString(class))
	b.WriteString(`"`)
}

// RenderString renders c to a string.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var b strings.Builder
	if err := c.Render(ctx, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}
