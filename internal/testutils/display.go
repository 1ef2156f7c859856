// Package testutils provides test doubles shared by the terminal and commands
// tests.
package testutils

import (
	"strings"
	"sync"

	"github.com/conneroisu/termfolio/internal/logging"
	"github.com/conneroisu/termfolio/internal/prefs"
	"github.com/conneroisu/termfolio/internal/terminal"
)

// Event kinds recorded by RecordingDisplay.
const (
	EventLine    = "line"
	EventEcho    = "echo"
	EventClear   = "clear"
	EventScroll  = "scroll"
	EventSpacing = "spacing"
	EventTheme   = "theme"
)

// DisplayEvent is one call made on a RecordingDisplay.
type DisplayEvent struct {
	Kind  string
	Line  terminal.Line
	Text  string
	Class string
	Chars int
}

// RecordingDisplay records every call made on it.
type RecordingDisplay struct {
	mu     sync.Mutex
	theme  string
	events []DisplayEvent
}

// NewRecordingDisplay creates a display whose active theme is theme.
func NewRecordingDisplay(theme string) *RecordingDisplay {
	return &RecordingDisplay{theme: theme}
}

func (d *RecordingDisplay) record(event DisplayEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *RecordingDisplay) RenderLine(line terminal.Line) {
	d.record(DisplayEvent{Kind: EventLine, Line: line, Text: line.Plain()})
}

func (d *RecordingDisplay) RenderPromptEcho(command string) {
	d.record(DisplayEvent{Kind: EventEcho, Text: command})
}

func (d *RecordingDisplay) ClearAllOutput() {
	d.record(DisplayEvent{Kind: EventClear})
}

func (d *RecordingDisplay) ScrollToLatest() {
	d.record(DisplayEvent{Kind: EventScroll})
}

func (d *RecordingDisplay) SetElementMinWidth(class string, chars int) {
	d.record(DisplayEvent{Kind: EventSpacing, Class: class, Chars: chars})
}

func (d *RecordingDisplay) Theme() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.theme
}

func (d *RecordingDisplay) ApplyTheme(theme string) {
	d.mu.Lock()
	d.theme = theme
	d.mu.Unlock()
	d.record(DisplayEvent{Kind: EventTheme, Text: theme})
}

// Events returns a copy of every recorded call.
func (d *RecordingDisplay) Events() []DisplayEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DisplayEvent, len(d.events))
	copy(out, d.events)
	return out
}

// Kinds returns the kind of every recorded call, in order.
func (d *RecordingDisplay) Kinds() []string {
	events := d.Events()
	kinds := make([]string, len(events))
	for i, event := range events {
		kinds[i] = event.Kind
	}
	return kinds
}

// Lines returns the plain text of every rendered line.
func (d *RecordingDisplay) Lines() []string {
	var lines []string
	for _, event := range d.Events() {
		if event.Kind == EventLine {
			lines = append(lines, event.Text)
		}
	}
	return lines
}

// Output joins Lines with newlines.
func (d *RecordingDisplay) Output() string {
	return strings.Join(d.Lines(), "\n")
}

// Count returns how many calls of kind were recorded.
func (d *RecordingDisplay) Count(kind string) int {
	n := 0
	for _, event := range d.Events() {
		if event.Kind == kind {
			n++
		}
	}
	return n
}

// Reset forgets every recorded call.
func (d *RecordingDisplay) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = nil
}

// CountingPreferences wraps an in-memory store and counts writes.
type CountingPreferences struct {
	*prefs.Memory
	mu     sync.Mutex
	writes int
}

// NewCountingPreferences creates an empty counting store.
func NewCountingPreferences() *CountingPreferences {
	return &CountingPreferences{Memory: prefs.NewMemory(nil, nil)}
}

func (p *CountingPreferences) Set(key, value string) error {
	p.mu.Lock()
	p.writes++
	p.mu.Unlock()
	return p.Memory.Set(key, value)
}

// Writes returns how many times Set was called.
func (p *CountingPreferences) Writes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writes
}

// NewEnv returns an Env over a recording display with theme and a counting
// preference store.
func NewEnv(theme string) (*terminal.Env, *RecordingDisplay, *CountingPreferences) {
	display := NewRecordingDisplay(theme)
	preferences := NewCountingPreferences()
	return &terminal.Env{
		Display: display,
		Prefs:   preferences,
		Logger:  logging.NewNopLogger(),
	}, display, preferences
}
