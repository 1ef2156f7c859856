// Package shell runs the terminal vocabulary as a local interactive prompt.
package shell

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/conneroisu/termfolio/internal/display"
	"github.com/conneroisu/termfolio/internal/logging"
	"github.com/conneroisu/termfolio/internal/terminal"
)

// Lines that leave the shell. They are checked before resolution so they
// never reach the not-found message.
var exitCommands = map[string]bool{".exit": true, ".quit": true}

// Options configures a Shell.
type Options struct {
	Reader   LineReader
	Out      io.Writer
	Resolver *terminal.Resolver
	Display  terminal.Display
	Prefs    terminal.Preferences
	Prompt   display.Prompt
	Logger   logging.Logger
}

// Shell is a read-resolve loop over a single terminal session.
type Shell struct {
	reader  LineReader
	out     io.Writer
	prompt  string
	session *terminal.Session
	logger  logging.Logger
}

// New creates a shell. The session ID is "local".
func New(opts Options) *Shell {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.WithComponent("shell")

	env := &terminal.Env{Display: opts.Display, Prefs: opts.Prefs, Logger: logger}
	return &Shell{
		reader:  opts.Reader,
		out:     opts.Out,
		prompt:  opts.Prompt.String() + " ",
		session: terminal.NewSession("local", opts.Resolver, env),
		logger:  logger,
	}
}

// Run reads lines until EOF, Ctrl+C, an exit command or ctx ends.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Type 'help' for options, '.exit' to leave.")

	for {
		if ctx.Err() != nil {
			return nil
		}

		input, err := s.reader.Prompt(s.prompt)
		if err != nil {
			if err == ErrAborted || err == io.EOF {
				fmt.Fprintln(s.out)
				return nil
			}
			return err
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		s.reader.AppendHistory(trimmed)
		if exitCommands[trimmed] {
			return nil
		}

		outcome := s.session.Resolve(ctx, input)
		s.logger.Debug(ctx, "command handled", "outcome", outcome.String())
	}
}
