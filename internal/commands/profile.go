package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/conneroisu/termfolio/internal/terminal"
)

func whoamiAction(deps Deps) terminal.Action {
	return terminal.ActionFunc(func(_ context.Context, env *terminal.Env, _ []string) {
		p := deps.Profiles.Profile()
		text := fmt.Sprintf("Hi! I'm %s, a %d-year-old %s @ %s based in %s",
			p.Name, p.Age(deps.Now()), p.Role, p.Employer, p.Location)
		if p.Flag != "" {
			text += " " + p.Flag
		}
		env.Display.RenderLine(terminal.Line{terminal.Text(text + ".")})
	})
}

func skillsAction(deps Deps) terminal.Action {
	return terminal.ActionFunc(func(_ context.Context, env *terminal.Env, _ []string) {
		p := deps.Profiles.Profile()
		env.Display.SetElementMinWidth(ClassCategoryName, p.LongestCategory())
		for _, group := range p.Skills {
			env.Display.RenderLine(terminal.Line{
				terminal.Styled(ClassCategoryName+" accent", group.Category),
				terminal.Text(strings.Join(group.Items, ", ")),
			})
		}
	})
}

func projectsAction(deps Deps) terminal.Action {
	return terminal.ActionFunc(func(_ context.Context, env *terminal.Env, _ []string) {
		for _, project := range deps.Profiles.Profile().Projects {
			line := terminal.Line{
				terminal.Styled("project-name", project.Name),
				terminal.Text(" — " + project.Summary),
			}
			if project.URL != "" {
				line = append(line, terminal.Text(" "), terminal.Link("hover link", project.URL, project.URL))
			}
			env.Display.RenderLine(line)
		}
	})
}

func contactAction(deps Deps) terminal.Action {
	return terminal.ActionFunc(func(_ context.Context, env *terminal.Env, _ []string) {
		p := deps.Profiles.Profile()
		env.Display.SetElementMinWidth(ClassSocialName, p.LongestSocial())
		for _, social := range p.Socials {
			env.Display.RenderLine(terminal.Line{
				terminal.Styled(ClassSocialName, social.Name),
				terminal.Link("hover link", social.Label, social.URL),
			})
		}
	})
}
