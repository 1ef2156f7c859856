package cmd

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/termfolio/internal/display"
	"github.com/conneroisu/termfolio/internal/prefs"
	"github.com/conneroisu/termfolio/internal/terminal"
)

var runCmd = &cobra.Command{
	Use:   "run <command> [args...]",
	Short: "Run one terminal command and print the result",
	Long: `Resolve a single line exactly as the web terminal would and print the
output as plain text. Theme changes are not saved.

Examples:
  termfolio run whoami
  termfolio run theme-light
  termfolio run help --color`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Flags stop at the first word so input like "rm -rf /" reaches the resolver.
	runCmd.Flags().SetInterspersed(false)
	runCmd.Flags().Bool("color", false, "Style output with ANSI colors")
	runCmd.Flags().Var(newThemeValue(), "theme", "Theme to render with (dark, light)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg, os.Stderr)
	if err != nil {
		return err
	}

	theme := cfg.Terminal.DefaultTheme
	if flagTheme, ok := themeFlag(cmd.Flags()); ok {
		theme = flagTheme
	}
	color, _ := cmd.Flags().GetBool("color")

	runOnce(cmd.Context(), a, cmd.OutOrStdout(), display.TextOptions{
		Prompt: display.Prompt{User: cfg.Terminal.PromptUser, Host: cfg.Terminal.PromptHost},
		Theme:  theme,
		Color:  color,
		Echo:   true,
	}, strings.Join(args, " "))
	return nil
}

// runOnce resolves input against a throwaway session writing to out.
func runOnce(ctx context.Context, a *app, out io.Writer, opts display.TextOptions, input string) terminal.Outcome {
	env := &terminal.Env{
		Display: display.NewTextDisplay(out, opts),
		Prefs:   prefs.NewMemory(map[string]string{prefs.ThemeKey: opts.Theme}, nil),
		Logger:  a.logger,
	}
	return terminal.NewSession("run", a.resolver, env).Resolve(ctx, input)
}
