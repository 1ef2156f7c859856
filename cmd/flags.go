package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/conneroisu/termfolio/internal/config"
)

// themeValue is a --theme flag that only accepts known themes.
type themeValue struct {
	theme string
}

var _ pflag.Value = (*themeValue)(nil)

func newThemeValue() *themeValue {
	return &themeValue{}
}

func (v *themeValue) String() string {
	return v.theme
}

func (v *themeValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !config.IsTheme(s) {
		return fmt.Errorf("unknown theme %q (valid: %s)", s, strings.Join(config.Themes, ", "))
	}
	v.theme = s
	return nil
}

func (v *themeValue) Type() string {
	return "theme"
}

// themeFlag returns the theme given on the command line, if any.
func themeFlag(flags *pflag.FlagSet) (string, bool) {
	f := flags.Lookup("theme")
	if f == nil || !f.Changed {
		return "", false
	}
	return f.Value.String(), true
}
