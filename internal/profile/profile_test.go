package profile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/termfolio/internal/errors"
)

func TestDefaultProfile(t *testing.T) {
	p := Default()

	assert.Equal(t, "Jacco Dammer", p.Name)
	assert.Equal(t, "Software Engineer", p.Role)
	assert.Equal(t, "APG", p.Employer)
	assert.Equal(t, NewDate(1999, time.March, 24).Time, p.BirthDate.Time)

	var categories []string
	for _, group := range p.Skills {
		categories = append(categories, group.Category)
	}
	assert.Equal(t, []string{"Languages", "Frameworks", "Tools", "Databases", "Other"}, categories)
	assert.Equal(t, []string{"Java", "JavaScript", "SQL", "HTML", "CSS", "Python", "C#"}, p.Skills[0].Items)
	assert.Equal(t, []string{"REST APIs", "Microservices", "Linux"}, p.Skills[4].Items)

	require.Len(t, p.Socials, 3)
	assert.Equal(t, "mailto:contact@jekdev.net", p.Socials[2].URL)
	assert.Equal(t, 10, p.LongestCategory())
	assert.Equal(t, 8, p.LongestSocial())
}

func TestAge(t *testing.T) {
	p := &Profile{BirthDate: NewDate(1999, time.March, 24)}

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"day before birthday", time.Date(2025, time.March, 23, 23, 59, 0, 0, time.UTC), 25},
		{"on birthday", time.Date(2025, time.March, 24, 0, 0, 0, 0, time.UTC), 26},
		{"month before", time.Date(2025, time.February, 28, 12, 0, 0, 0, time.UTC), 25},
		{"later in year", time.Date(2025, time.December, 1, 12, 0, 0, 0, time.UTC), 26},
		{"same day of birth", time.Date(1999, time.March, 24, 8, 0, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Age(tt.now))
		})
	}
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"invalid yaml", "name: [unterminated"},
		{"missing name", "birth_date: 2000-01-01"},
		{"missing birth date", "name: X"},
		{"bad birth date", "name: X\nbirth_date: yesterday"},
		{"javascript link", "name: X\nbirth_date: 2000-01-01\nsocials:\n  - {name: Evil, label: e, url: 'javascript:alert(1)'}"},
		{"social without url", "name: X\nbirth_date: 2000-01-01\nsocials:\n  - {name: Site, label: s}"},
		{"project without name", "name: X\nbirth_date: 2000-01-01\nprojects:\n  - {summary: s}"},
		{"empty category", "name: X\nbirth_date: 2000-01-01\nskills:\n  - {category: '', items: [a]}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestParseTitleCasesCategories(t *testing.T) {
	p, err := Parse([]byte("name: X\nbirth_date: 2000-01-01\nskills:\n  - {category: cloud platforms, items: [AWS]}\n  - {category: DevOps, items: [CI]}\n"))
	require.NoError(t, err)

	assert.Equal(t, "Cloud Platforms", p.Skills[0].Category)
	assert.Equal(t, "DevOps", p.Skills[1].Category)
}

func TestLoad(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Jacco Dammer", p.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasErrorCode(err, "ERR_FILE_READ"))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: ''"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
	assert.True(t, errors.HasErrorCode(err, "ERR_PARSE_PROFILE"))
}

func writeProfile(t *testing.T, path, name string) {
	t.Helper()
	data := "name: " + name + "\nbirth_date: 1990-06-01\nrole: Engineer\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestStoreReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	writeProfile(t, path, "First")

	store, err := NewStore(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "First", store.Profile().Name)

	writeProfile(t, path, "Second")
	require.NoError(t, store.Reload(context.Background()))
	assert.Equal(t, "Second", store.Profile().Name)

	require.NoError(t, os.WriteFile(path, []byte("name: ''"), 0o644))
	assert.Error(t, store.Reload(context.Background()))
	assert.Equal(t, "Second", store.Profile().Name, "a bad file keeps the previous profile")
}

func TestStoreWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	writeProfile(t, path, "Before")

	store, err := NewStore(path, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop, err := store.Watch(ctx, 20*time.Millisecond)
	require.NoError(t, err)
	defer stop()

	writeProfile(t, path, "After")

	assert.Eventually(t, func() bool {
		return store.Profile().Name == "After"
	}, 3*time.Second, 10*time.Millisecond)
}

func TestStaticStoreWatchIsNoOp(t *testing.T) {
	store := StaticStore(Default())
	stop, err := store.Watch(context.Background(), time.Millisecond)
	require.NoError(t, err)
	assert.NoError(t, stop())
	assert.NoError(t, store.Reload(context.Background()))

	replacement := &Profile{Name: "Other"}
	store.Replace(replacement)
	assert.Same(t, replacement, store.Profile())
}
