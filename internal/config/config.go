// Package config provides configuration management for termfolio using Viper
// for flexible loading from files, environment variables, and command-line
// flags.
//
// Configuration covers the HTTP server, the terminal session (prompt, default
// theme, rate limits), the version descriptor source, the profile content file,
// the local shell, and logging. Environment overrides use the TERMFOLIO_ prefix,
// for example TERMFOLIO_SERVER_PORT=9000.
package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/conneroisu/termfolio/internal/errors"
)

// Supported themes. The first entry is the fallback default.
var Themes = []string{"dark", "light"}

type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Terminal TerminalConfig `yaml:"terminal" mapstructure:"terminal"`
	Version  VersionConfig  `yaml:"version" mapstructure:"version"`
	Profile  ProfileConfig  `yaml:"profile" mapstructure:"profile"`
	Shell    ShellConfig    `yaml:"shell" mapstructure:"shell"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	Host           string   `yaml:"host" mapstructure:"host"`
	Open           bool     `yaml:"open" mapstructure:"open"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	Environment    string   `yaml:"environment" mapstructure:"environment"`
}

type TerminalConfig struct {
	PromptUser   string  `yaml:"prompt_user" mapstructure:"prompt_user"`
	PromptHost   string  `yaml:"prompt_host" mapstructure:"prompt_host"`
	DefaultTheme string  `yaml:"default_theme" mapstructure:"default_theme"`
	RateLimit    float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst    int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// VersionConfig points at the package.json-style descriptor read by the
// version command. Source is a file path or an http(s) URL.
type VersionConfig struct {
	Source  string        `yaml:"source" mapstructure:"source"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ProfileConfig locates the portfolio content. An empty path selects the
// embedded default profile.
type ProfileConfig struct {
	Path  string `yaml:"path" mapstructure:"path"`
	Watch bool   `yaml:"watch" mapstructure:"watch"`
}

type ShellConfig struct {
	HistoryFile     string `yaml:"history_file" mapstructure:"history_file"`
	PreferencesFile string `yaml:"preferences_file" mapstructure:"preferences_file"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load builds a Config from the global viper instance, applies defaults and
// validates the result.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, errors.NewConfigError("ERR_CONFIG_DECODE", "failed to decode configuration").
			WithContext("cause", err.Error())
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var config Config
	applyDefaults(&config)
	return &config
}

func applyDefaults(config *Config) {
	if !viper.IsSet("server.port") && config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if config.Server.Environment == "" {
		config.Server.Environment = "development"
	}

	if config.Terminal.PromptUser == "" {
		config.Terminal.PromptUser = "visitor"
	}
	if config.Terminal.PromptHost == "" {
		config.Terminal.PromptHost = "portfolio.jekdev.net"
	}
	if config.Terminal.DefaultTheme == "" {
		config.Terminal.DefaultTheme = Themes[0]
	}
	config.Terminal.DefaultTheme = strings.ToLower(config.Terminal.DefaultTheme)
	if config.Terminal.RateLimit == 0 {
		config.Terminal.RateLimit = 10
	}
	if config.Terminal.RateBurst == 0 {
		config.Terminal.RateBurst = 20
	}

	if config.Version.Source == "" {
		config.Version.Source = "./package.json"
	}
	if config.Version.Timeout == 0 {
		config.Version.Timeout = 3 * time.Second
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
}

// IsTheme reports whether name is a supported theme.
func IsTheme(name string) bool {
	for _, theme := range Themes {
		if theme == name {
			return true
		}
	}
	return false
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return err
	}
	if err := validateTerminalConfig(&config.Terminal); err != nil {
		return err
	}
	if err := validateVersionConfig(&config.Version); err != nil {
		return err
	}
	if err := validateLogConfig(&config.Log); err != nil {
		return err
	}
	if config.Profile.Watch && config.Profile.Path == "" {
		return errors.ConfigurationError("profile.watch", "watching requires profile.path", config.Profile.Watch)
	}
	return nil
}

func validateServerConfig(config *ServerConfig) error {
	// Port 0 asks the OS for a free port, which tests rely on.
	if config.Port < 0 || config.Port > 65535 {
		return errors.ConfigurationError("server.port", "port is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\", " "}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return errors.ConfigurationError("server.host", "host contains dangerous character "+char, config.Host)
			}
		}
	}

	for _, origin := range config.AllowedOrigins {
		u, err := url.Parse(origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.ConfigurationError("server.allowed_origins", "origin must be an http(s) URL", origin)
		}
	}

	return nil
}

func validateTerminalConfig(config *TerminalConfig) error {
	if !IsTheme(config.DefaultTheme) {
		return errors.ConfigurationError("terminal.default_theme", "theme must be one of "+strings.Join(Themes, ", "), config.DefaultTheme)
	}
	if config.RateLimit < 0 {
		return errors.ConfigurationError("terminal.rate_limit", "rate limit must be positive", config.RateLimit)
	}
	if config.RateBurst < 1 {
		return errors.ConfigurationError("terminal.rate_burst", "burst must be at least 1", config.RateBurst)
	}
	if strings.ContainsAny(config.PromptUser+config.PromptHost, "<>\"'`") {
		return errors.ConfigurationError("terminal.prompt", "prompt contains markup characters", config.PromptUser+"@"+config.PromptHost)
	}
	return nil
}

func validateVersionConfig(config *VersionConfig) error {
	if config.Timeout < 0 {
		return errors.ConfigurationError("version.timeout", "timeout must be positive", config.Timeout)
	}

	source := config.Source
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		if _, err := url.ParseRequestURI(source); err != nil {
			return errors.ConfigurationError("version.source", "invalid URL", source)
		}
		return nil
	}

	if strings.Contains(filepath.Clean(source), "\x00") {
		return errors.ConfigurationError("version.source", "path contains NUL byte", source)
	}
	return nil
}

func validateLogConfig(config *LogConfig) error {
	switch strings.ToLower(config.Format) {
	case "text", "json":
	default:
		return errors.ConfigurationError("log.format", "format must be text or json", config.Format)
	}
	switch strings.ToLower(config.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.ConfigurationError("log.level", "level must be debug, info, warn or error", config.Level)
	}
	return nil
}
