package prefs

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/conneroisu/termfolio/internal/errors"
)

// File is a preference store persisted as a YAML mapping. Every Set rewrites
// the file.
type File struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// OpenFile loads the store at path. A missing file yields an empty store; the
// file is created on the first Set.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, errors.FileOperationError("READ", path, "cannot read preferences", err)
	}

	if err := yaml.Unmarshal(data, &f.values); err != nil {
		return nil, errors.ParseError("PREFERENCES", path, err)
	}
	if f.values == nil {
		f.values = make(map[string]string)
	}
	return f, nil
}

// Path returns the file backing the store.
func (f *File) Path() string {
	return f.path
}

// Get returns the value stored under key.
func (f *File) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[key]
	return value, ok
}

// Set stores value under key and writes the file.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := maps.Clone(f.values)
	next[key] = value
	if err := f.write(next); err != nil {
		return err
	}
	f.values = next
	return nil
}

func (f *File) write(values map[string]string) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return errors.NewInternalError("ERR_PREFS_ENCODE", "cannot encode preferences", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.FileOperationError("MKDIR", filepath.Dir(f.path), "cannot create directory", err)
	}

	// Write to a sibling file and rename so a crash never leaves half a file.
	tmp := fmt.Sprintf("%s.tmp", f.path)
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.FileOperationError("WRITE", tmp, "cannot write preferences", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return errors.FileOperationError("RENAME", f.path, "cannot replace preferences", err)
	}
	return nil
}
