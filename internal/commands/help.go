package commands

import (
	"context"
	"strings"

	"github.com/conneroisu/termfolio/internal/terminal"
)

// Classes shared with the displays.
const (
	ClassCommandName  = "command-name"
	ClassCategoryName = "category-name"
	ClassSocialName   = "social-name"
)

func helpAction(registry func() *terminal.Registry) terminal.Action {
	return terminal.ActionFunc(func(_ context.Context, env *terminal.Env, _ []string) {
		reg := registry()
		env.Display.RenderLine(terminal.Line{terminal.Text("Available commands:")})
		env.Display.SetElementMinWidth(ClassCommandName, reg.LongestName())

		for _, entry := range reg.Entries() {
			line := terminal.Line{terminal.Styled("command "+ClassCommandName, entry.Name)}
			line = append(line, entry.Description...)
			if len(entry.Aliases) > 0 {
				line = append(line,
					terminal.Text(" "),
					terminal.Styled("muted", "(aliases: "+strings.Join(entry.Aliases, ", ")+")"),
				)
			}
			env.Display.RenderLine(line)
		}
	})
}
