// ABOUTME: Display engine settings: TURBO threshold, tab size, capability profile, and color options
// ABOUTME: Loaded from YAML and merged over defaults, mirroring the teacher's JSON Settings shape

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings configures a display.Engine instance at startup. Zero values
// mean "use the default" except where noted.
type Settings struct {
	// Turbo is the TURBO threshold; zero means 2*rows (display.New's
	// default when no WithTurbo option is supplied).
	Turbo int `yaml:"turbo"`

	// TabSize is the number of columns a tab expands to.
	TabSize int `yaml:"tab_size"`

	// TermOverride forces a $TERM value for capability resolution,
	// bypassing the environment variable.
	TermOverride string `yaml:"term_override"`

	// ForceANSIProfile skips terminfo lookup entirely and uses the
	// hardwired ANSI profile, useful for reproducible tests.
	ForceANSIProfile bool `yaml:"force_ansi_profile"`

	// UTF8 selects the UTF-8 output encoding path; false uses the 8-bit
	// charmap path (see CharmapName).
	UTF8 bool `yaml:"utf8"`

	// CharmapName names a golang.org/x/text/encoding/charmap table
	// ("ISO-8859-1", etc.) used when UTF8 is false.
	CharmapName string `yaml:"charmap"`

	// ColorPalette names a built-in theme from pkg/tui/theme.
	ColorPalette string `yaml:"color_palette"`

	// NoColorVideoOverride, when non-zero, replaces the capability
	// table's no_color_video mask.
	NoColorVideoOverride int `yaml:"no_color_video_override"`
}

// Default returns the baseline settings used when no file is present.
func Default() Settings {
	return Settings{
		Turbo:        0,
		TabSize:      8,
		UTF8:         true,
		ColorPalette: "default",
	}
}

// Load reads a YAML settings file, merging it over Default(). A
// missing file is not an error; Default() is returned unchanged.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("reading config file: %w", err)
	}

	var overlay Settings
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return s, fmt.Errorf("parsing config file: %w", err)
	}

	merge(&s, overlay)
	return s, nil
}

// merge overlays non-zero fields from o onto s.
func merge(s *Settings, o Settings) {
	if o.Turbo != 0 {
		s.Turbo = o.Turbo
	}
	if o.TabSize != 0 {
		s.TabSize = o.TabSize
	}
	if o.TermOverride != "" {
		s.TermOverride = o.TermOverride
	}
	if o.ForceANSIProfile {
		s.ForceANSIProfile = true
	}
	s.UTF8 = o.UTF8 || s.UTF8
	if o.CharmapName != "" {
		s.CharmapName = o.CharmapName
	}
	if o.ColorPalette != "" {
		s.ColorPalette = o.ColorPalette
	}
	if o.NoColorVideoOverride != 0 {
		s.NoColorVideoOverride = o.NoColorVideoOverride
	}
}
