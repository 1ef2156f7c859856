package shell

import (
	"os"
	"path/filepath"

	"github.com/peterh/liner"

	"github.com/conneroisu/termfolio/internal/errors"
)

// LineReader reads one edited line at a time.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// ErrAborted is returned by a LineReader when the user presses Ctrl+C.
var ErrAborted = liner.ErrPromptAborted

// Liner is a LineReader backed by liner with a history file.
type Liner struct {
	state       *liner.State
	historyFile string
}

var _ LineReader = (*Liner)(nil)

// NewLiner puts the terminal into raw mode and loads history from
// historyFile when it exists. complete supplies tab completions.
func NewLiner(historyFile string, complete func(prefix string) []string) *Liner {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetTabCompletionStyle(liner.TabPrints)
	if complete != nil {
		state.SetCompleter(liner.Completer(complete))
	}

	l := &Liner{state: state, historyFile: historyFile}
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			_, _ = state.ReadHistory(f)
			f.Close()
		}
	}
	return l
}

func (l *Liner) Prompt(prompt string) (string, error) {
	return l.state.Prompt(prompt)
}

func (l *Liner) AppendHistory(item string) {
	l.state.AppendHistory(item)
}

// SaveHistory writes the history file with owner-only permissions.
func (l *Liner) SaveHistory() error {
	if l.historyFile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.historyFile), 0o700); err != nil {
		return errors.FileOperationError("MKDIR", filepath.Dir(l.historyFile), "cannot create history directory", err)
	}

	f, err := os.OpenFile(l.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return errors.FileOperationError("WRITE", l.historyFile, "cannot write history", err)
	}
	defer f.Close()

	if _, err := l.state.WriteHistory(f); err != nil {
		return errors.FileOperationError("WRITE", l.historyFile, "cannot write history", err)
	}
	return nil
}

// Close saves history and restores the terminal.
func (l *Liner) Close() error {
	saveErr := l.SaveHistory()
	if err := l.state.Close(); err != nil {
		return err
	}
	return saveErr
}
