package commands_test

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/termfolio/internal/commands"
	"github.com/conneroisu/termfolio/internal/prefs"
	"github.com/conneroisu/termfolio/internal/profile"
	"github.com/conneroisu/termfolio/internal/terminal"
	"github.com/conneroisu/termfolio/internal/testutils"
	"github.com/conneroisu/termfolio/internal/version"
)

type fixedVersion struct {
	value string
	calls atomic.Int32
}

func (v *fixedVersion) Get(context.Context) string {
	v.calls.Add(1)
	return v.value
}

var fixedNow = time.Date(2025, time.March, 23, 12, 0, 0, 0, time.UTC)

func newResolver(deps commands.Deps) *terminal.Resolver {
	if deps.Now == nil {
		deps.Now = func() time.Time { return fixedNow }
	}
	return terminal.NewResolver(commands.NewRegistry(deps), nil)
}

func run(t *testing.T, resolver *terminal.Resolver, theme, input string) (*testutils.RecordingDisplay, *testutils.CountingPreferences) {
	t.Helper()
	env, display, preferences := testutils.NewEnv(theme)
	resolver.Resolve(context.Background(), env, input)
	return display, preferences
}

func TestRegistryListing(t *testing.T) {
	registry := commands.NewRegistry(commands.Deps{})

	assert.Equal(t,
		[]string{"help", "whoami", "skills", "projects", "contact", "clear", "theme", "version"},
		registry.Names())

	_, ok := registry.Hidden("sudo")
	assert.True(t, ok)
	_, ok = registry.Hidden("rm")
	assert.True(t, ok)
}

func TestHelp(t *testing.T) {
	resolver := newResolver(commands.Deps{})
	display, _ := run(t, resolver, "dark", "help")

	lines := display.Lines()
	require.Len(t, lines, 9)
	assert.Equal(t, "Available commands:", lines[0])
	assert.Equal(t, "helpShow a list of available commands (aliases: h, hlp)", lines[1])
	assert.Equal(t, "themeSwitch between dark and light mode (usage: theme [dark|light]) (aliases: theme-light, theme-dark)", lines[7])

	for _, line := range lines {
		assert.NotContains(t, line, "sudo")
		assert.NotContains(t, line, "rm -rf")
	}

	var spacing []testutils.DisplayEvent
	for _, event := range display.Events() {
		if event.Kind == testutils.EventSpacing {
			spacing = append(spacing, event)
		}
	}
	require.Len(t, spacing, 1)
	assert.Equal(t, commands.ClassCommandName, spacing[0].Class)
	assert.Equal(t, len("projects"), spacing[0].Chars)

	row := display.Events()[3].Line
	assert.Equal(t, terminal.Span{Class: "command command-name", Text: "help"}, row[0])
	assert.Equal(t, terminal.Span{Class: "muted", Text: "(aliases: h, hlp)"}, row[len(row)-1])
}

func TestWhoami(t *testing.T) {
	resolver := newResolver(commands.Deps{})
	display, _ := run(t, resolver, "dark", "me")

	assert.Equal(t,
		[]string{"Hi! I'm Jacco Dammer, a 25-year-old Software Engineer @ APG based in The Netherlands 🇳🇱."},
		display.Lines())

	resolver = newResolver(commands.Deps{Now: func() time.Time { return fixedNow.AddDate(0, 0, 1) }})
	display, _ = run(t, resolver, "dark", "whoami")
	assert.Contains(t, display.Output(), "a 26-year-old")
}

func TestSkills(t *testing.T) {
	resolver := newResolver(commands.Deps{})
	display, _ := run(t, resolver, "dark", "stack")

	assert.Equal(t, []string{
		"LanguagesJava, JavaScript, SQL, HTML, CSS, Python, C#",
		"FrameworksSpring, Spring Boot",
		"ToolsGit, Maven",
		"DatabasesOracle, PostgreSQL, MongoDB",
		"OtherREST APIs, Microservices, Linux",
	}, display.Lines())

	events := display.Events()
	assert.Equal(t, testutils.EventSpacing, events[1].Kind)
	assert.Equal(t, commands.ClassCategoryName, events[1].Class)
	assert.Equal(t, 10, events[1].Chars)
	assert.Equal(t, "category-name accent", events[2].Line[0].Class)
}

func TestProjects(t *testing.T) {
	resolver := newResolver(commands.Deps{})
	display, _ := run(t, resolver, "dark", "proj")

	assert.Equal(t, []string{"Dummy project — Dummy project to fill in the space"}, display.Lines())
}

func TestProjectsWithLink(t *testing.T) {
	p := profile.Default()
	p.Projects = []profile.Project{{Name: "termfolio", Summary: "this site", URL: "https://github.com/x/termfolio"}}
	resolver := newResolver(commands.Deps{Profiles: profile.StaticStore(p)})

	display, _ := run(t, resolver, "dark", "projects")
	line := display.Events()[1].Line
	last := line[len(line)-1]
	assert.Equal(t, "https://github.com/x/termfolio", last.Href)
}

func TestContact(t *testing.T) {
	resolver := newResolver(commands.Deps{})
	display, _ := run(t, resolver, "dark", "soc")

	var rows []terminal.Line
	for _, event := range display.Events() {
		if event.Kind == testutils.EventLine {
			rows = append(rows, event.Line)
		}
	}
	require.Len(t, rows, 3)
	assert.Equal(t, terminal.Line{
		{Class: "social-name", Text: "GitHub"},
		{Class: "hover link", Text: "github/JaccoDammer", Href: "https://github.com/JaccoDammer"},
	}, rows[1])
	assert.Equal(t, 1, display.Count(testutils.EventSpacing))
}

func TestClear(t *testing.T) {
	resolver := newResolver(commands.Deps{})
	display, _ := run(t, resolver, "dark", "cls")

	assert.Equal(t, []string{testutils.EventEcho, testutils.EventClear, testutils.EventScroll}, display.Kinds())
}

func TestTheme(t *testing.T) {
	tests := []struct {
		name      string
		active    string
		input     string
		wantTheme string
		wantLines []string
		wantSaved string
	}{
		{"usage", "dark", "theme", "dark", []string{"Usage: theme [dark|light]"}, ""},
		{"empty hyphen arg", "dark", "theme-", "dark", []string{"Usage: theme [dark|light]"}, ""},
		{"switch by arg", "dark", "theme light", "light", []string{"Switched to light theme."}, "light"},
		{"switch by alias", "dark", "theme-light", "light", []string{"Switched to light theme."}, "light"},
		{"upper case", "light", "theme DARK", "dark", []string{"Switched to dark theme."}, "dark"},
		{"already active", "dark", "theme dark", "dark", nil, ""},
		{"already active alias", "light", "theme-light", "light", nil, ""},
		{"unknown", "dark", "theme banana", "dark", []string{"Unknown theme: 'banana'. Use 'dark' or 'light'."}, ""},
		{"unknown by hyphen", "dark", "theme-Solarized", "dark", []string{"Unknown theme: 'solarized'. Use 'dark' or 'light'."}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := newResolver(commands.Deps{})
			display, preferences := run(t, resolver, tt.active, tt.input)

			assert.Equal(t, tt.wantTheme, display.Theme())
			assert.Equal(t, tt.wantLines, display.Lines())

			saved, ok := preferences.Get(prefs.ThemeKey)
			if tt.wantSaved == "" {
				assert.False(t, ok)
				assert.Equal(t, 0, preferences.Writes())
			} else {
				assert.True(t, ok)
				assert.Equal(t, tt.wantSaved, saved)
				assert.Equal(t, 1, preferences.Writes())
			}
		})
	}
}

func TestThemeAliasDoesNotScroll(t *testing.T) {
	resolver := newResolver(commands.Deps{})
	display, _ := run(t, resolver, "dark", "theme-light")
	assert.Equal(t, 0, display.Count(testutils.EventScroll))

	display, _ = run(t, resolver, "dark", "theme light")
	assert.Equal(t, 1, display.Count(testutils.EventScroll))
}

func TestThemeRepeatedIsIdempotent(t *testing.T) {
	resolver := newResolver(commands.Deps{})
	env, display, preferences := testutils.NewEnv("dark")

	resolver.Resolve(context.Background(), env, "theme light")
	resolver.Resolve(context.Background(), env, "theme-light")
	resolver.Resolve(context.Background(), env, "theme light")

	assert.Equal(t, "light", display.Theme())
	assert.Equal(t, 1, preferences.Writes())
	assert.Equal(t, 1, display.Count(testutils.EventTheme))
}

func TestVersion(t *testing.T) {
	source := &fixedVersion{value: "1.0.3"}
	resolver := newResolver(commands.Deps{Version: source})

	display, _ := run(t, resolver, "dark", "v")
	assert.Equal(t, []string{"Terminal Portfolio v1.0.3"}, display.Lines())
	assert.Equal(t, terminal.Span{Class: "link", Text: "v1.0.3"}, display.Events()[1].Line[1])
}

func TestVersionFetchedOnceAcrossInvocations(t *testing.T) {
	var fetches atomic.Int32
	cache := version.NewCache(version.SourceFunc(func(context.Context) (version.Descriptor, error) {
		fetches.Add(1)
		return version.Descriptor{}, assert.AnError
	}), time.Second, nil)
	resolver := newResolver(commands.Deps{Version: cache})

	for i := 0; i < 3; i++ {
		display, _ := run(t, resolver, "dark", "version")
		assert.Equal(t, []string{"Terminal Portfolio vunknown"}, display.Lines())
	}
	assert.Equal(t, int32(1), fetches.Load())
}

func TestVersionWithoutSource(t *testing.T) {
	resolver := newResolver(commands.Deps{})
	display, _ := run(t, resolver, "dark", "version")
	assert.Equal(t, []string{"Terminal Portfolio vunknown"}, display.Lines())
}

func TestHiddenCommands(t *testing.T) {
	resolver := newResolver(commands.Deps{})

	display, _ := run(t, resolver, "dark", "sudo")
	assert.Equal(t, []string{"Permission denied, you’re not root."}, display.Lines())

	display, _ = run(t, resolver, "dark", "rm -rf /")
	assert.Equal(t, []string{"Nice try, Hacker."}, display.Lines())
	assert.Equal(t, 1, display.Count(testutils.EventScroll))
}

func TestNotFound(t *testing.T) {
	resolver := newResolver(commands.Deps{})
	display, _ := run(t, resolver, "dark", "ls -la")

	assert.Equal(t, []string{"Command not found: 'ls -la'. Type 'help' for options."}, display.Lines())
}

func TestAliasesDispatchWithArguments(t *testing.T) {
	registry := commands.NewRegistry(commands.Deps{})
	for _, entry := range registry.Entries() {
		for _, alias := range entry.Aliases {
			if strings.HasPrefix(alias, "theme-") {
				continue
			}
			direct, _ := run(t, newResolver(commands.Deps{}), "dark", entry.Name+" x y")
			aliased, _ := run(t, newResolver(commands.Deps{}), "dark", alias+" x y")
			assert.Equal(t, direct.Lines(), aliased.Lines(), "alias %s of %s", alias, entry.Name)
		}
	}
}
