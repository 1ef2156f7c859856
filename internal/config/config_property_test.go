//go:build property
// +build property

package config

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestConfigurationProperties tests configuration validation properties
func TestConfigurationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid ports and hosts validate", prop.ForAll(
		func(port int, host string) bool {
			cfg := Default()
			cfg.Server.Port = port
			cfg.Server.Host = host
			return validateConfig(cfg) == nil
		},
		gen.IntRange(0, 65535),
		gen.RegexMatch(`^[a-zA-Z0-9.-]{1,32}$`),
	))

	properties.Property("out of range ports are rejected", prop.ForAll(
		func(port int) bool {
			cfg := Default()
			cfg.Server.Port = port
			return validateConfig(cfg) != nil
		},
		gen.OneGenOf(gen.IntRange(-100000, -1), gen.IntRange(65536, 200000)),
	))

	properties.Property("only known themes validate", prop.ForAll(
		func(theme string) bool {
			cfg := Default()
			cfg.Terminal.DefaultTheme = theme
			err := validateConfig(cfg)
			return (err == nil) == IsTheme(theme)
		},
		gen.OneGenOf(gen.AlphaString(), gen.OneConstOf("dark", "light")),
	))

	properties.Property("hosts with shell metacharacters are rejected", prop.ForAll(
		func(prefix, char, suffix string) bool {
			cfg := Default()
			cfg.Server.Host = prefix + char + suffix
			err := validateConfig(cfg)
			return err != nil && strings.Contains(err.Error(), "server.host")
		},
		gen.AlphaString(),
		gen.OneConstOf(";", "&", "|", "$", "`", "<", ">"),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
