// Package config resolves process configuration (flags, SPACKTER_* env,
// config.yaml) and reads configuration profiles under <root>/configs.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/flarebyte/spackter/internal/apperr"
	"github.com/flarebyte/spackter/internal/shell"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "SPACKTER"

// Keys double as persistent flag names.
const (
	KeyRoot           = "root"
	KeyConfig         = "config"
	KeyUpstreamURL    = "upstream-url"
	KeyPullRequestURL = "pull-request-url"
	KeyShell          = "shell"
	KeyLogLevel       = "log-level"
	KeyYes            = "yes"
	KeyNoColor        = "no-color"
)

const (
	DefaultUpstreamURL    = "https://github.com/spack/spack.git"
	DefaultPullRequestURL = "https://github.com/spack/spack/pull/%s.diff"
	DefaultShell          = shell.DefaultShell
	DefaultLogLevel       = "warn"
)

// Config is the resolved process configuration.
type Config struct {
	Root           string
	UpstreamURL    string
	PullRequestURL string
	Shell          string
	LogLevel       string
	Yes            bool
	NoColor        bool
}

// NewViper returns a viper instance with defaults, SPACKTER_* env lookup and
// the config file search path. explicitPath, when set, is the only file
// considered.
func NewViper(explicitPath string) *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetDefault(KeyUpstreamURL, DefaultUpstreamURL)
	v.SetDefault(KeyPullRequestURL, DefaultPullRequestURL)
	v.SetDefault(KeyShell, DefaultShell)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		return v
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range searchDirs() {
		v.AddConfigPath(dir)
	}
	return v
}

// ReadFile reads the config file. A missing file is tolerated unless strict.
func ReadFile(v *viper.Viper, strict bool) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && !strict {
			return nil
		}
		if !strict && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return apperr.Configuration("cannot read config file: %v", err)
	}
	return nil
}

// Resolve extracts a Config from v. The root is required.
func Resolve(v *viper.Viper) (Config, error) {
	c := Config{
		Root:           strings.TrimSpace(v.GetString(KeyRoot)),
		UpstreamURL:    v.GetString(KeyUpstreamURL),
		PullRequestURL: v.GetString(KeyPullRequestURL),
		Shell:          v.GetString(KeyShell),
		LogLevel:       v.GetString(KeyLogLevel),
		Yes:            v.GetBool(KeyYes),
		NoColor:        v.GetBool(KeyNoColor),
	}
	if c.Root == "" {
		return Config{}, apperr.Configuration("%s_ROOT is not set (use --root, the environment or root: in config.yaml)", EnvPrefix)
	}
	root, err := AbsPath(c.Root)
	if err != nil {
		return Config{}, apperr.Configuration("invalid root %q: %v", c.Root, err)
	}
	c.Root = root
	if !strings.Contains(c.PullRequestURL, "%s") {
		return Config{}, apperr.Configuration("pull-request-url must contain %%s: %q", c.PullRequestURL)
	}
	return c, nil
}

// Load resolves the Config for a parsed flag set: changed flags win over
// SPACKTER_* variables, which win over the config file and defaults. The
// config file comes from --config, then SPACKTER_CONFIG, then the search
// path; only an explicitly named file must exist.
func Load(flags *pflag.FlagSet) (Config, error) {
	explicit, _ := flags.GetString(KeyConfig)
	if explicit == "" {
		explicit = os.Getenv(EnvPrefix + "_CONFIG")
	}
	v := NewViper(explicit)
	if err := v.BindPFlags(flags); err != nil {
		return Config{}, apperr.Configuration("cannot bind flags: %v", err)
	}
	if err := ReadFile(v, explicit != ""); err != nil {
		return Config{}, err
	}
	return Resolve(v)
}

// AbsPath expands a leading ~ and makes p absolute and clean.
func AbsPath(p string) (string, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}

func searchDirs() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "spackter"))
	}
	if home, err := homedir.Dir(); err == nil && home != "" {
		dir := filepath.Join(home, ".config", "spackter")
		if len(dirs) == 0 || dirs[0] != dir {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
