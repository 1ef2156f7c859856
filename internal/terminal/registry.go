package terminal

import (
	"fmt"
	"slices"
	"strings"
)

// Entry is a visible command, listed by help.
type Entry struct {
	Name        string
	Description Line
	Aliases     []string
	Action      Action
}

// SecretEntry is a hidden command. It is reachable only by typing its name
// and is never listed.
type SecretEntry struct {
	Name    string
	Aliases []string
	Action  Action
}

// Registry holds the visible and hidden commands. It is built once and never
// modified, so it is safe to share between sessions.
type Registry struct {
	visible []Entry
	byName  map[string]int
	hidden  map[string]SecretEntry
}

// NewRegistry builds a registry. Visible entries keep the given order, which
// is the order help lists them in and the order aliases are scanned in.
// A name registered twice within the same group panics. A name present in
// both groups is allowed; the visible entry shadows the hidden one.
func NewRegistry(visible []Entry, hidden []SecretEntry) *Registry {
	r := &Registry{
		visible: make([]Entry, 0, len(visible)),
		byName:  make(map[string]int, len(visible)),
		hidden:  make(map[string]SecretEntry, len(hidden)),
	}

	for _, entry := range visible {
		if entry.Name == "" || entry.Action == nil {
			panic(fmt.Sprintf("terminal: command %q needs a name and an action", entry.Name))
		}
		if _, exists := r.byName[entry.Name]; exists {
			panic(fmt.Sprintf("terminal: command %s already registered", entry.Name))
		}
		entry.Aliases = slices.Clone(entry.Aliases)
		entry.Description = slices.Clone(entry.Description)
		r.byName[entry.Name] = len(r.visible)
		r.visible = append(r.visible, entry)
	}

	for _, entry := range hidden {
		if entry.Name == "" || entry.Action == nil {
			panic(fmt.Sprintf("terminal: hidden command %q needs a name and an action", entry.Name))
		}
		if _, exists := r.hidden[entry.Name]; exists {
			panic(fmt.Sprintf("terminal: hidden command %s already registered", entry.Name))
		}
		entry.Aliases = slices.Clone(entry.Aliases)
		r.hidden[entry.Name] = entry
	}

	return r
}

// Lookup returns the visible command called name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Entry{}, false
	}
	return r.visible[i], true
}

// AliasOwner returns the first visible command, in registration order, that
// lists alias among its aliases.
func (r *Registry) AliasOwner(alias string) (Entry, bool) {
	for _, entry := range r.visible {
		if slices.Contains(entry.Aliases, alias) {
			return entry, true
		}
	}
	return Entry{}, false
}

// Hidden returns the hidden command called name.
func (r *Registry) Hidden(name string) (SecretEntry, bool) {
	entry, ok := r.hidden[name]
	return entry, ok
}

// Entries returns the visible commands in registration order.
func (r *Registry) Entries() []Entry {
	return slices.Clone(r.visible)
}

// Names returns the visible command names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.visible))
	for i, entry := range r.visible {
		names[i] = entry.Name
	}
	return names
}

// LongestName returns the length of the longest visible command name.
func (r *Registry) LongestName() int {
	longest := 0
	for _, entry := range r.visible {
		longest = max(longest, len(entry.Name))
	}
	return longest
}

// Completions returns every visible name and alias starting with prefix, in
// registration order. Hidden commands are never offered.
func (r *Registry) Completions(prefix string) []string {
	var out []string
	for _, entry := range r.visible {
		if strings.HasPrefix(entry.Name, prefix) {
			out = append(out, entry.Name)
		}
		for _, alias := range entry.Aliases {
			if strings.HasPrefix(alias, prefix) {
				out = append(out, alias)
			}
		}
	}
	return out
}

