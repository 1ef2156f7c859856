package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/termfolio/internal/commands"
	"github.com/conneroisu/termfolio/internal/display"
	"github.com/conneroisu/termfolio/internal/prefs"
	"github.com/conneroisu/termfolio/internal/terminal"
)

type scriptedReader struct {
	lines   []string
	end     error
	prompts []string
	history []string
	closed  bool
}

func (r *scriptedReader) Prompt(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.lines) == 0 {
		return "", r.end
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptedReader) AppendHistory(item string) { r.history = append(r.history, item) }

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

func newShell(reader LineReader, store terminal.Preferences) (*Shell, *bytes.Buffer, *display.TextDisplay) {
	out := &bytes.Buffer{}
	prompt := display.Prompt{User: "visitor", Host: "portfolio.test"}
	d := display.NewTextDisplay(out, display.TextOptions{Prompt: prompt, Theme: "dark"})
	resolver := terminal.NewResolver(commands.NewRegistry(commands.Deps{}), nil)
	return New(Options{
		Reader:   reader,
		Out:      out,
		Resolver: resolver,
		Display:  d,
		Prefs:    store,
		Prompt:   prompt,
	}), out, d
}

func TestRunResolvesUntilEOF(t *testing.T) {
	reader := &scriptedReader{lines: []string{"sudo", "   ", "nope"}, end: io.EOF}
	sh, out, _ := newShell(reader, prefs.NewMemory(nil, nil))

	require.NoError(t, sh.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Type 'help' for options")
	assert.Contains(t, text, "Permission denied, you’re not root.")
	assert.Contains(t, text, "Command not found: 'nope'. Type 'help' for options.")
	assert.Equal(t, []string{"sudo", "nope"}, reader.history)
	assert.Len(t, reader.prompts, 4)
	assert.Equal(t, "visitor@portfolio.test:~$ ", reader.prompts[0])
}

func TestRunExitCommands(t *testing.T) {
	for _, exit := range []string{".exit", ".quit", "  .exit  "} {
		reader := &scriptedReader{lines: []string{exit, "sudo"}, end: io.EOF}
		sh, out, _ := newShell(reader, prefs.NewMemory(nil, nil))

		require.NoError(t, sh.Run(context.Background()))
		assert.NotContains(t, out.String(), "Permission denied")
		assert.NotContains(t, out.String(), "Command not found")
	}
}

func TestRunAbortedAndErrors(t *testing.T) {
	reader := &scriptedReader{end: ErrAborted}
	sh, _, _ := newShell(reader, prefs.NewMemory(nil, nil))
	assert.NoError(t, sh.Run(context.Background()))

	boom := errors.New("tty gone")
	reader = &scriptedReader{end: boom}
	sh, _, _ = newShell(reader, prefs.NewMemory(nil, nil))
	assert.ErrorIs(t, sh.Run(context.Background()), boom)
}

func TestRunStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := &scriptedReader{lines: []string{"sudo"}, end: io.EOF}
	sh, _, _ := newShell(reader, prefs.NewMemory(nil, nil))
	require.NoError(t, sh.Run(ctx))
	assert.Empty(t, reader.prompts)
}

func TestThemePersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	store, err := prefs.OpenFile(path)
	require.NoError(t, err)

	reader := &scriptedReader{lines: []string{"theme light"}, end: io.EOF}
	sh, out, d := newShell(reader, store)
	require.NoError(t, sh.Run(context.Background()))

	assert.Contains(t, out.String(), "Switched to light theme.")
	assert.Equal(t, "light", d.Theme())

	reopened, err := prefs.OpenFile(path)
	require.NoError(t, err)
	theme, ok := reopened.Get(prefs.ThemeKey)
	assert.True(t, ok)
	assert.Equal(t, "light", theme)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
