package config

import (
	"slices"
	"strings"

	"github.com/flarebyte/spackter/internal/apperr"
)

// SettingsVersion is the profile.cue schema version understood by this
// build. Older versions are appended to acceptedSettingsVersions when the
// schema moves on.
const SettingsVersion = "1"

var acceptedSettingsVersions = []string{SettingsVersion}

// Settings are the optional profile.cue defaults of a profile. Command
// line flags take precedence over every field.
type Settings struct {
	ConfigVersion string
	Upstream      string
	Branch        string
	Commit        string
	Compiler      string
}

// LoadSettings validates and extracts Settings from a profile.cue file.
// configVersion is required; the other fields are optional strings.
func LoadSettings(path string) (Settings, error) {
	v, err := compileCUE(path)
	if err != nil {
		return Settings{}, err
	}
	var s Settings
	if s.ConfigVersion, err = requireStringField(v, "configVersion"); err != nil {
		return Settings{}, err
	}
	if !slices.Contains(acceptedSettingsVersions, s.ConfigVersion) {
		return Settings{}, apperr.Configuration("unsupported configVersion: %q (supported: %s)",
			s.ConfigVersion, strings.Join(acceptedSettingsVersions, ", "))
	}
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"upstream", &s.Upstream},
		{"branch", &s.Branch},
		{"commit", &s.Commit},
		{"compiler", &s.Compiler},
	} {
		if *f.dst, err = optionalString(v, f.name); err != nil {
			return Settings{}, err
		}
	}
	if s.Branch != "" && s.Commit != "" {
		return Settings{}, apperr.InvalidArgument("%s: branch and commit are mutually exclusive", path)
	}
	return s, nil
}
