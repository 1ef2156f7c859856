// Package profile holds the portfolio content the terminal commands print:
// who the owner is, their skills, projects and social links.
package profile

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/termfolio/internal/errors"
)

//go:embed default.yaml
var defaultProfile []byte

// DateLayout is the layout of birth_date.
const DateLayout = "2006-01-02"

// Profile is the portfolio owner's content.
type Profile struct {
	Name      string       `yaml:"name"`
	Role      string       `yaml:"role"`
	Employer  string       `yaml:"employer"`
	Location  string       `yaml:"location"`
	Flag      string       `yaml:"flag"`
	BirthDate Date         `yaml:"birth_date"`
	Skills    []SkillGroup `yaml:"skills"`
	Projects  []Project    `yaml:"projects"`
	Socials   []Social     `yaml:"socials"`
}

// SkillGroup is one category of skills. Groups are printed in file order.
type SkillGroup struct {
	Category string   `yaml:"category"`
	Items    []string `yaml:"items"`
}

// Project is a sample project.
type Project struct {
	Name    string `yaml:"name"`
	Summary string `yaml:"summary"`
	URL     string `yaml:"url,omitempty"`
}

// Social is a link to one of the owner's profiles.
type Social struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Date is a calendar date without a time of day.
type Date struct {
	time.Time
}

// UnmarshalYAML accepts YYYY-MM-DD.
func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: date must be a scalar", node.Line)
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(node.Value))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalYAML writes the date as YYYY-MM-DD.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.Format(DateLayout), nil
}

// NewDate returns the date year-month-day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Age returns the owner's age in whole years on the calendar day of now.
// The year is not counted until the birthday itself.
func (p *Profile) Age(now time.Time) int {
	birth := p.BirthDate
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// LongestCategory returns the length of the longest skill category.
func (p *Profile) LongestCategory() int {
	n := 0
	for _, group := range p.Skills {
		n = max(n, len(group.Category))
	}
	return n
}

// LongestSocial returns the length of the longest social name.
func (p *Profile) LongestSocial() int {
	n := 0
	for _, social := range p.Socials {
		n = max(n, len(social.Name))
	}
	return n
}

// Default returns the built-in profile.
func Default() *Profile {
	p, err := Parse(defaultProfile)
	if err != nil {
		panic("profile: embedded default profile is invalid: " + err.Error())
	}
	return p
}

// Load reads a profile from path. An empty path yields the built-in profile.
func Load(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FileOperationError("READ", path, "cannot read profile", err)
	}
	p, err := Parse(data)
	if err != nil {
		if te, ok := err.(*errors.TermError); ok {
			return nil, te.WithContext("file_path", path)
		}
		return nil, err
	}
	return p, nil
}

// Parse decodes and validates a YAML profile. Skill categories are
// title-cased.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.ParseError("PROFILE", "invalid YAML", err)
	}

	title := cases.Title(language.English, cases.NoLower)
	for i := range p.Skills {
		p.Skills[i].Category = title.String(strings.TrimSpace(p.Skills[i].Category))
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the fields the commands rely on.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.ParseError("PROFILE", "name is required", nil)
	}
	if p.BirthDate.IsZero() {
		return errors.ParseError("PROFILE", "birth_date is required", nil)
	}
	for _, group := range p.Skills {
		if group.Category == "" {
			return errors.ParseError("PROFILE", "skill group without category", nil)
		}
	}
	for _, project := range p.Projects {
		if project.Name == "" {
			return errors.ParseError("PROFILE", "project without name", nil)
		}
		if project.URL != "" && !safeURL(project.URL) {
			return errors.ParseError("PROFILE", "project "+project.Name+" has an unsupported URL", nil)
		}
	}
	for _, social := range p.Socials {
		if social.Name == "" || social.URL == "" {
			return errors.ParseError("PROFILE", "social needs a name and a url", nil)
		}
		if !safeURL(social.URL) {
			return errors.ParseError("PROFILE", "social "+social.Name+" has an unsupported URL", nil)
		}
	}
	return nil
}

// safeURL accepts the schemes a link in the terminal may point at.
func safeURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	case "mailto":
		return u.Opaque != ""
	default:
		return false
	}
}
