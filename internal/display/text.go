package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/conneroisu/termfolio/internal/terminal"
)

// Palette is the set of colours one theme uses.
type Palette struct {
	Accent  lipgloss.Color
	Link    lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color
	Command lipgloss.Color
}

// Palettes by theme name.
var Palettes = map[string]Palette{
	"dark": {
		Accent:  lipgloss.Color("#E5C07B"),
		Link:    lipgloss.Color("#61AFEF"),
		Error:   lipgloss.Color("#E06C75"),
		Muted:   lipgloss.Color("#7F848E"),
		Command: lipgloss.Color("#98C379"),
	},
	"light": {
		Accent:  lipgloss.Color("#B76B01"),
		Link:    lipgloss.Color("#0184BC"),
		Error:   lipgloss.Color("#E45649"),
		Muted:   lipgloss.Color("#A0A1A7"),
		Command: lipgloss.Color("#50A14F"),
	},
}

// TextOptions configures a TextDisplay.
type TextOptions struct {
	Prompt Prompt
	Theme  string
	// Color enables ANSI styling. See ColorEnabled.
	Color bool
	// Echo writes the prompt and command before the output. An interactive
	// shell leaves this off because the line editor already shows it.
	Echo bool
}

// TextDisplay draws output lines to a terminal.
type TextDisplay struct {
	out      io.Writer
	opts     TextOptions
	renderer *lipgloss.Renderer

	mu     sync.Mutex
	theme  string
	widths map[string]int
	styles map[string]lipgloss.Style
}

var _ terminal.Display = (*TextDisplay)(nil)

// NewTextDisplay creates a display writing to out.
func NewTextDisplay(out io.Writer, opts TextOptions) *TextDisplay {
	if _, ok := Palettes[opts.Theme]; !ok {
		opts.Theme = "dark"
	}
	d := &TextDisplay{
		out:      out,
		opts:     opts,
		renderer: lipgloss.NewRenderer(out),
		theme:    opts.Theme,
		widths:   make(map[string]int),
	}
	d.styles = d.buildStyles(Palettes[d.theme])
	return d
}

// ColorEnabled reports whether w is a terminal that should get colour.
// NO_COLOR disables colour regardless.
func ColorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (d *TextDisplay) buildStyles(p Palette) map[string]lipgloss.Style {
	style := d.renderer.NewStyle
	return map[string]lipgloss.Style{
		"error":        style().Foreground(p.Error).Bold(true),
		"accent":       style().Foreground(p.Accent),
		"link":         style().Foreground(p.Link).Underline(true),
		"muted":        style().Foreground(p.Muted),
		"command":      style().Foreground(p.Command).Bold(true),
		"cmd-name":     style().Foreground(p.Command),
		"project-name": style().Bold(true),
		"social-name":  style().Foreground(p.Accent),
	}
}

// classOrder decides which style wins when a span has several classes.
var classOrder = []string{"error", "command", "link", "accent", "muted", "cmd-name", "project-name", "social-name"}

func (d *TextDisplay) styleFor(class string) (lipgloss.Style, bool) {
	classes := strings.Fields(class)
	for _, name := range classOrder {
		for _, c := range classes {
			if c == name {
				return d.styles[name], true
			}
		}
	}
	return lipgloss.Style{}, false
}

func (d *TextDisplay) widthFor(class string) int {
	width := 0
	for _, c := range strings.Fields(class) {
		width = max(width, d.widths[c])
	}
	return width
}

func (d *TextDisplay) paint(class, text string) string {
	if !d.opts.Color {
		return text
	}
	if style, ok := d.styleFor(class); ok {
		return style.Render(text)
	}
	return text
}

func (d *TextDisplay) formatSpan(span terminal.Span) string {
	text := span.Text
	if span.Href != "" && !linkShowsTarget(span) {
		text += " <" + span.Href + ">"
	}
	painted := d.paint(span.Class, text)

	if width := d.widthFor(span.Class); width > 0 {
		if pad := width - lipgloss.Width(text); pad > 0 {
			painted += strings.Repeat(" ", pad)
		}
	}
	return painted
}

// linkShowsTarget reports whether a link's label already tells the reader
// where it goes.
func linkShowsTarget(span terminal.Span) bool {
	target := strings.TrimPrefix(span.Href, "mailto:")
	return span.Text == span.Href || span.Text == target
}

// FormatLine renders line as it would be written, without a newline.
func (d *TextDisplay) FormatLine(line terminal.Line) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	for _, span := range line {
		b.WriteString(d.formatSpan(span))
	}
	return b.String()
}

func (d *TextDisplay) RenderLine(line terminal.Line) {
	fmt.Fprintln(d.out, d.FormatLine(line))
}

func (d *TextDisplay) RenderPromptEcho(command string) {
	if !d.opts.Echo {
		return
	}
	d.mu.Lock()
	prompt := d.paint("accent", d.opts.Prompt.User) + "@" + d.paint("link", d.opts.Prompt.Host) + ":~$ "
	d.mu.Unlock()
	fmt.Fprintln(d.out, prompt+command)
}

func (d *TextDisplay) ClearAllOutput() {
	if d.opts.Color {
		fmt.Fprint(d.out, "\x1b[H\x1b[2J")
	}
	d.mu.Lock()
	clear(d.widths)
	d.mu.Unlock()
}

// ScrollToLatest is a no-op; a terminal always shows the newest line.
func (d *TextDisplay) ScrollToLatest() {}

func (d *TextDisplay) SetElementMinWidth(class string, chars int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.widths[class] = chars + 2
}

func (d *TextDisplay) Theme() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.theme
}

func (d *TextDisplay) ApplyTheme(theme string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	palette, ok := Palettes[theme]
	if !ok {
		return
	}
	d.theme = theme
	d.styles = d.buildStyles(palette)
}
