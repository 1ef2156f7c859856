package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/conneroisu/termfolio/internal/version"
)

var (
	versionFormat    string
	versionShort     bool
	versionPortfolio bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for termfolio including:

- Semantic version number
- Git commit hash
- Build timestamp
- Go version used for compilation
- Target platform (OS/architecture)

With --portfolio the portfolio version shown by the terminal's version
command is fetched from version.source as well.

Examples:
  termfolio version                # Show version and build details
  termfolio version --short        # Show the version only
  termfolio version --format json  # Output as JSON`,
	Args: cobra.NoArgs,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
	versionCmd.Flags().BoolVar(&versionPortfolio, "portfolio", false, "Also show the portfolio version")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	info := version.Build()

	portfolio := ""
	if versionPortfolio {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(cfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		portfolio = a.version.Get(cmd.Context())
	}

	out := cmd.OutOrStdout()
	switch versionFormat {
	case "json":
		return outputVersionJSON(out, info, portfolio)
	case "text":
		if versionShort {
			fmt.Fprintln(out, info.Short())
			return nil
		}
		outputVersionText(out, info, portfolio)
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", versionFormat)
	}
}

func outputVersionText(out io.Writer, info version.BuildInfo, portfolio string) {
	fmt.Fprintf(out, "termfolio %s", info.Short())
	if info.Dirty {
		fmt.Fprint(out, " (dirty)")
	}
	fmt.Fprintln(out)

	if !info.BuildTime.IsZero() {
		fmt.Fprintf(out, "Built: %s\n", info.BuildTime.UTC().Format("2006-01-02 15:04:05 UTC"))
	}
	fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
	fmt.Fprintf(out, "Platform: %s\n", info.Platform)
	if info.IsRelease() {
		fmt.Fprintln(out, "Build type: release")
	} else {
		fmt.Fprintln(out, "Build type: development")
	}
	if portfolio != "" {
		fmt.Fprintf(out, "Portfolio: v%s\n", portfolio)
	}
}

func outputVersionJSON(out io.Writer, info version.BuildInfo, portfolio string) error {
	payload := struct {
		version.BuildInfo
		Release   bool   `json:"release"`
		Portfolio string `json:"portfolio,omitempty"`
	}{info, info.IsRelease(), portfolio}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
