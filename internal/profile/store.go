package profile

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/conneroisu/termfolio/internal/logging"
	"github.com/conneroisu/termfolio/internal/watcher"
)

// DefaultReloadDelay is how long the profile file must be quiet before it is
// reloaded.
const DefaultReloadDelay = 250 * time.Millisecond

// Store hands out the current profile. Commands read it on every
// invocation, so a reload is visible to the next command in every session.
type Store struct {
	current atomic.Pointer[Profile]
	path    string
	logger  logging.Logger
}

// NewStore loads the profile at path (or the built-in one when path is
// empty) and returns a store holding it.
func NewStore(path string, logger logging.Logger) (*Store, error) {
	p, err := Load(path)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Store{path: path, logger: logger.WithComponent("profile")}
	s.current.Store(p)
	return s, nil
}

// StaticStore returns a store that always holds p.
func StaticStore(p *Profile) *Store {
	s := &Store{logger: logging.NewNopLogger()}
	s.current.Store(p)
	return s
}

// Profile returns the current profile.
func (s *Store) Profile() *Profile {
	return s.current.Load()
}

// Replace swaps in p.
func (s *Store) Replace(p *Profile) {
	s.current.Store(p)
}

// Reload re-reads the profile file. On failure the current profile is kept.
func (s *Store) Reload(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	p, err := Load(s.path)
	if err != nil {
		s.logger.Warn(ctx, err, "profile reload failed, keeping previous profile", "path", s.path)
		return err
	}
	s.current.Store(p)
	s.logger.Info(ctx, "profile reloaded", "path", s.path)
	return nil
}

// Watch reloads the profile whenever its file changes, until ctx is done.
// The returned function stops watching early. Watching a store without a
// file is a no-op.
func (s *Store) Watch(ctx context.Context, delay time.Duration) (func() error, error) {
	if s.path == "" {
		return func() error { return nil }, nil
	}

	fw, err := watcher.NewFileWatcher(delay, s.logger)
	if err != nil {
		return nil, err
	}
	fw.AddFilter(watcher.SameFile(s.path))
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		for _, event := range events {
			if event.Type == watcher.EventTypeDeleted {
				s.logger.Warn(ctx, nil, "profile file removed, keeping previous profile", "path", s.path)
				return nil
			}
		}
		return s.Reload(ctx)
	})

	if err := fw.AddPath(filepath.Dir(s.path)); err != nil {
		_ = fw.Stop()
		return nil, err
	}
	fw.Start(ctx)
	s.logger.Info(ctx, "watching profile for changes", "path", s.path)

	go func() {
		<-ctx.Done()
		_ = fw.Stop()
	}()
	return fw.Stop, nil
}
