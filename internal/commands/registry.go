// Package commands defines the portfolio's command vocabulary and builds the
// registry the resolver dispatches into.
package commands

import (
	"context"
	"time"

	"github.com/conneroisu/termfolio/internal/profile"
	"github.com/conneroisu/termfolio/internal/terminal"
)

// VersionSource provides the portfolio version string.
type VersionSource interface {
	Get(ctx context.Context) string
}

// Deps are the collaborators the commands read from.
type Deps struct {
	Profiles *profile.Store
	Version  VersionSource
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewRegistry returns the registry of every visible and hidden command.
func NewRegistry(deps Deps) *terminal.Registry {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Profiles == nil {
		deps.Profiles = profile.StaticStore(profile.Default())
	}

	var registry *terminal.Registry
	help := helpAction(func() *terminal.Registry { return registry })

	registry = terminal.NewRegistry([]terminal.Entry{
		{
			Name:        "help",
			Description: terminal.Line{terminal.Text("Show a list of available commands")},
			Aliases:     []string{"h", "hlp"},
			Action:      help,
		},
		{
			Name:        "whoami",
			Description: terminal.Line{terminal.Text("Information about me")},
			Aliases:     []string{"who", "id", "me"},
			Action:      whoamiAction(deps),
		},
		{
			Name:        "skills",
			Description: terminal.Line{terminal.Text("Show my technical skill set")},
			Aliases:     []string{"stack", "tech"},
			Action:      skillsAction(deps),
		},
		{
			Name:        "projects",
			Description: terminal.Line{terminal.Text("Show sample projects")},
			Aliases:     []string{"proj"},
			Action:      projectsAction(deps),
		},
		{
			Name:        "contact",
			Description: terminal.Line{terminal.Text("Links to my social profiles")},
			Aliases:     []string{"socials", "soc", "con"},
			Action:      contactAction(deps),
		},
		{
			Name:        "clear",
			Description: terminal.Line{terminal.Text("Clear the terminal output")},
			Aliases:     []string{"cls", "clr"},
			Action:      terminal.ActionFunc(clearAction),
		},
		{
			Name:        terminal.ThemeCommand,
			Description: terminal.Line{terminal.Text("Switch between dark and light mode (usage: theme [dark|light])")},
			Aliases:     []string{"theme-light", "theme-dark"},
			Action:      terminal.ActionFunc(themeAction),
		},
		{
			Name:        "version",
			Description: terminal.Line{terminal.Text("Shows version")},
			Aliases:     []string{"v"},
			Action:      versionAction(deps),
		},
	}, []terminal.SecretEntry{
		{Name: "sudo", Action: say("Permission denied, you’re not root.")},
		{Name: "rm", Aliases: []string{"rm -rf /"}, Action: say("Nice try, Hacker.")},
	})

	return registry
}

func clearAction(_ context.Context, env *terminal.Env, _ []string) {
	env.Display.ClearAllOutput()
}

// say returns an action that prints a fixed line.
func say(text string) terminal.Action {
	return terminal.ActionFunc(func(_ context.Context, env *terminal.Env, _ []string) {
		env.Display.RenderLine(terminal.Line{terminal.Text(text)})
	})
}
