package terminal

import (
	"context"
	"fmt"
	"strings"

	"github.com/conneroisu/termfolio/internal/logging"
)

const (
	// ThemeCommand is the command that theme-X aliases are routed to.
	ThemeCommand = "theme"
	// HelpCommand is the command the not-found message points at.
	HelpCommand = "help"

	themeAliasPrefix = ThemeCommand + "-"
)

// Resolver maps typed lines onto registry actions.
type Resolver struct {
	registry *Registry
	logger   logging.Logger
}

// NewResolver creates a resolver over registry.
func NewResolver(registry *Registry, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Resolver{
		registry: registry,
		logger:   logger.WithComponent("resolver"),
	}
}

// Registry returns the registry the resolver dispatches into.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Resolve handles one line of input. Blank input is ignored. Anything else is
// echoed, then dispatched to the first matching command; when nothing matches
// a not-found line is rendered. Resolve never panics on behalf of an action.
func (r *Resolver) Resolve(ctx context.Context, env *Env, raw string) Outcome {
	full := strings.TrimSpace(raw)
	if full == "" {
		return OutcomeIgnored
	}

	env.Display.RenderPromptEcho(full)

	fields := strings.Fields(full)
	name, args := fields[0], fields[1:]

	if entry, ok := r.registry.Lookup(name); ok {
		r.invoke(ctx, env, entry.Name, entry.Action, args)
		env.Display.ScrollToLatest()
		return r.matched(ctx, name, entry.Name, "direct")
	}

	if owner, ok := r.registry.AliasOwner(name); ok {
		if strings.HasPrefix(name, themeAliasPrefix) {
			if theme, ok := r.registry.Lookup(ThemeCommand); ok {
				// Routed to theme whichever entry owns the alias. This branch
				// does not scroll.
				themeArg := strings.Split(name, "-")[1]
				r.invoke(ctx, env, theme.Name, theme.Action, []string{themeArg})
				return r.matched(ctx, name, theme.Name, "theme-alias")
			}
		}

		r.invoke(ctx, env, owner.Name, owner.Action, args)
		env.Display.ScrollToLatest()
		return r.matched(ctx, name, owner.Name, "alias")
	}

	if strings.Contains(name, "-") {
		parts := strings.Split(name, "-")
		if entry, ok := r.registry.Lookup(parts[0]); ok {
			hyphenArgs := make([]string, 0, len(parts)-1+len(args))
			hyphenArgs = append(hyphenArgs, parts[1:]...)
			hyphenArgs = append(hyphenArgs, args...)
			r.invoke(ctx, env, entry.Name, entry.Action, hyphenArgs)
			env.Display.ScrollToLatest()
			return r.matched(ctx, name, entry.Name, "hyphen")
		}
	}

	if secret, ok := r.registry.Hidden(name); ok {
		r.invoke(ctx, env, secret.Name, secret.Action, args)
		env.Display.ScrollToLatest()
		return r.matched(ctx, name, secret.Name, "hidden")
	}

	env.Display.RenderLine(NotFoundLine(full))
	env.Display.ScrollToLatest()
	r.logger.Info(ctx, "command not found", "input", logging.SanitizeInput(full))
	return OutcomeUnmatched
}

// NotFoundLine is the line rendered for input that matches nothing.
func NotFoundLine(input string) Line {
	return Line{
		Styled("error", "Command not found"),
		Text(": '"),
		Styled("cmd-name", input),
		Text("'. Type '"),
		Styled("cmd-name", HelpCommand),
		Text("' for options."),
	}
}

func (r *Resolver) matched(ctx context.Context, typed, command, step string) Outcome {
	r.logger.Debug(ctx, "command resolved", "typed", logging.SanitizeInput(typed), "command", command, "step", step)
	return OutcomeMatched
}

func (r *Resolver) invoke(ctx context.Context, env *Env, name string, action Action, args []string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error(ctx, fmt.Errorf("%v", rec), "command panicked", "command", name)
			env.Display.RenderLine(Line{
				Styled("error", "Command failed"),
				Text(": '"),
				Styled("cmd-name", name),
				Text("'."),
			})
		}
	}()
	action.Invoke(ctx, env, args)
}
