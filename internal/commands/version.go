package commands

import (
	"context"

	"github.com/conneroisu/termfolio/internal/terminal"
	"github.com/conneroisu/termfolio/internal/version"
)

func versionAction(deps Deps) terminal.Action {
	return terminal.ActionFunc(func(ctx context.Context, env *terminal.Env, _ []string) {
		v := version.Placeholder
		if deps.Version != nil {
			v = deps.Version.Get(ctx)
		}
		env.Display.RenderLine(terminal.Line{
			terminal.Text("Terminal Portfolio "),
			terminal.Styled("link", "v"+v),
		})
	})
}
