// Package cmd provides the command-line interface for termfolio.
//
// Configuration System:
//
//	Settings come from several sources, highest priority first:
//	1. Command-line flags (--config, --port, etc.)
//	2. TERMFOLIO_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (TERMFOLIO_SERVER_PORT, etc.)
//	4. Configuration file (.termfolio.yml)
//
// Environment Variables:
//
//	TERMFOLIO_CONFIG_FILE: Path to custom configuration file
//	TERMFOLIO_SERVER_PORT: Override server port
//	TERMFOLIO_TERMINAL_DEFAULT_THEME: Theme for new sessions
//	And the rest following the TERMFOLIO_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "termfolio",
	Short: "A portfolio that answers like a terminal",
	Long: `termfolio serves a personal portfolio as a browser terminal. Visitors type
commands such as help, whoami, skills, projects and contact and read the
answers in a scrolling log.

The same commands are available locally:
  termfolio serve                 Start the web terminal
  termfolio shell                 Interactive prompt in this terminal
  termfolio run whoami            Run one command and print the result
  termfolio version               Show build information`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .termfolio.yml, can also use TERMFOLIO_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().String("profile", "", "portfolio content file (default is the built-in profile)")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("profile.path", rootCmd.PersistentFlags().Lookup("profile"))
}

// initConfig selects the config file and enables TERMFOLIO_ environment
// variables. A missing config file is not an error.
//
// File selection (highest to lowest):
//  1. --config flag
//  2. TERMFOLIO_CONFIG_FILE environment variable
//  3. .termfolio.yml in the current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("TERMFOLIO_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".termfolio")
	}

	viper.SetEnvPrefix("TERMFOLIO")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configPath names the config file in error messages.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return ".termfolio.yml"
}
