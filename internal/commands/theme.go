package commands

import (
	"context"
	"strings"

	"github.com/conneroisu/termfolio/internal/config"
	"github.com/conneroisu/termfolio/internal/prefs"
	"github.com/conneroisu/termfolio/internal/terminal"
)

func themeAction(ctx context.Context, env *terminal.Env, args []string) {
	if len(args) == 0 || args[0] == "" {
		env.Display.RenderLine(terminal.Line{terminal.Text("Usage: theme [dark|light]")})
		return
	}

	theme := strings.ToLower(args[0])
	if !config.IsTheme(theme) {
		env.Display.RenderLine(UnknownThemeLine(theme))
		return
	}

	if theme == env.Display.Theme() {
		return
	}

	env.Display.ApplyTheme(theme)
	if err := env.Prefs.Set(prefs.ThemeKey, theme); err != nil && env.Logger != nil {
		env.Logger.Warn(ctx, err, "could not persist theme", "theme", theme)
	}
	env.Display.RenderLine(terminal.Line{
		terminal.Text("Switched to "),
		terminal.Styled("command", theme),
		terminal.Text(" theme."),
	})
}

// UnknownThemeLine is rendered for a theme name that does not exist.
func UnknownThemeLine(theme string) terminal.Line {
	return terminal.Line{
		terminal.Styled("error", "Unknown theme:"),
		terminal.Text(" '"),
		terminal.Styled("accent", theme),
		terminal.Text("'. Use '"),
		terminal.Styled("command", "dark"),
		terminal.Text("' or '"),
		terminal.Styled("command", "light"),
		terminal.Text("'."),
	}
}
