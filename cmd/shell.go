package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/termfolio/internal/config"
	"github.com/conneroisu/termfolio/internal/display"
	"github.com/conneroisu/termfolio/internal/errors"
	"github.com/conneroisu/termfolio/internal/prefs"
	"github.com/conneroisu/termfolio/internal/shell"
)

var shellCmd = &cobra.Command{
	Use:     "shell",
	Aliases: []string{"sh"},
	Short:   "Use the terminal portfolio from this terminal",
	Long: `Start an interactive prompt with the same commands as the web terminal.
History and the chosen theme are kept between runs.

Type .exit or press Ctrl+D to leave.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)

	shellCmd.Flags().Var(newThemeValue(), "theme", "Theme for this run (dark, light); saved themes are used otherwise")
	shellCmd.Flags().Bool("no-color", false, "Disable colored output")
	shellCmd.Flags().String("history-file", "", "Command history file")
	shellCmd.Flags().String("preferences-file", "", "Saved preferences file")

	viper.BindPFlag("shell.history_file", shellCmd.Flags().Lookup("history-file"))
	viper.BindPFlag("shell.preferences_file", shellCmd.Flags().Lookup("preferences-file"))
}

// shellPaths fills in the history and preferences files under the user
// config directory when they are not configured.
func shellPaths(cfg config.ShellConfig) (config.ShellConfig, error) {
	if cfg.HistoryFile != "" && cfg.PreferencesFile != "" {
		return cfg, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return cfg, errors.FileOperationError("LOCATE", "", "cannot find the user config directory; set shell.history_file and shell.preferences_file", err)
	}
	dir = filepath.Join(dir, "termfolio")

	if cfg.HistoryFile == "" {
		cfg.HistoryFile = filepath.Join(dir, "history")
	}
	if cfg.PreferencesFile == "" {
		cfg.PreferencesFile = filepath.Join(dir, "preferences.yaml")
	}
	return cfg, nil
}

// initialTheme picks the flag, then the saved preference, then the default.
func initialTheme(flagTheme string, flagSet bool, store *prefs.File, fallback string) string {
	if flagSet {
		return flagTheme
	}
	if saved, ok := store.Get(prefs.ThemeKey); ok && config.IsTheme(saved) {
		return saved
	}
	return fallback
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg, os.Stderr)
	if err != nil {
		return err
	}

	paths, err := shellPaths(cfg.Shell)
	if err != nil {
		return err
	}

	store, err := prefs.OpenFile(paths.PreferencesFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	stopWatch, err := a.watchProfile(ctx)
	if err != nil {
		a.logger.Warn(ctx, err, "profile hot reload disabled")
		stopWatch = func() error { return nil }
	}
	defer stopWatch()

	noColor, _ := cmd.Flags().GetBool("no-color")
	flagTheme, flagSet := themeFlag(cmd.Flags())
	out := cmd.OutOrStdout()
	prompt := display.Prompt{User: cfg.Terminal.PromptUser, Host: cfg.Terminal.PromptHost}

	d := display.NewTextDisplay(out, display.TextOptions{
		Prompt: prompt,
		Theme:  initialTheme(flagTheme, flagSet, store, cfg.Terminal.DefaultTheme),
		Color:  !noColor && display.ColorEnabled(out),
	})

	reader := shell.NewLiner(paths.HistoryFile, a.resolver.Registry().Completions)
	defer func() {
		if err := reader.Close(); err != nil {
			a.logger.Warn(ctx, err, "could not save shell history", "path", paths.HistoryFile)
		}
	}()

	return shell.New(shell.Options{
		Reader:   reader,
		Out:      out,
		Resolver: a.resolver,
		Display:  d,
		Prefs:    store,
		Prompt:   prompt,
		Logger:   a.logger,
	}).Run(ctx)
}
