package config

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flarebyte/spackter/internal/apperr"
)

// Files and directories of a configuration profile.
const (
	PatchesDir       = "patches"
	PullRequestsFile = "pull-requests.spackter"
	PackageListFile  = "package-list.spackter"
	PostInstallFile  = "post-install-script.spackter"
	PreScriptFile    = "pre-script.spackter"
	PostScriptFile   = "post-script.spackter"
	SettingsFile     = "profile.cue"

	// DefaultProfile supplies env script fragments missing from a profile.
	DefaultProfile = "default"
)

// Profile is a directory of inputs under <root>/configs/<name>.
type Profile struct {
	Name string
	Dir  string
}

// ProfilesDir returns <root>/configs.
func ProfilesDir(root string) string { return filepath.Join(root, "configs") }

// ProfileAt returns the profile name under root without checking it exists.
func ProfileAt(root, name string) Profile {
	return Profile{Name: name, Dir: filepath.Join(ProfilesDir(root), name)}
}

// OpenProfile returns the named profile, which must be a directory.
func OpenProfile(root, name string) (Profile, error) {
	p := ProfileAt(root, name)
	info, err := os.Stat(p.Dir)
	if err != nil || !info.IsDir() {
		return Profile{}, apperr.Configuration("configuration profile '%s' does not exist at %s", name, p.Dir)
	}
	return p, nil
}

// Exists reports whether the profile directory is present.
func (p Profile) Exists() bool {
	info, err := os.Stat(p.Dir)
	return err == nil && info.IsDir()
}

func (p Profile) path(name string) string { return filepath.Join(p.Dir, name) }

// Patches returns the *.patch files of the patches directory sorted by
// file name. A missing directory yields none.
func (p Profile) Patches() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(p.path(PatchesDir), "*.patch"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// PatchesDir returns the profile's patches directory.
func (p Profile) PatchesDir() string { return p.path(PatchesDir) }

// PullRequests returns the PR identifiers listed by the profile and
// whether the list file exists.
func (p Profile) PullRequests() ([]string, bool, error) {
	return readListFile(p.path(PullRequestsFile))
}

// Packages returns the package specs listed by the profile and whether the
// list file exists.
func (p Profile) Packages() ([]string, bool, error) {
	return readListFile(p.path(PackageListFile))
}

// PostInstallScript returns the script path and whether it exists.
func (p Profile) PostInstallScript() (string, bool) {
	path := p.path(PostInstallFile)
	return path, isFile(path)
}

// Fragment returns the path of an env script fragment when present.
func (p Profile) Fragment(file string) (string, bool) {
	path := p.path(file)
	return path, isFile(path)
}

// YAMLFiles returns the top-level *.yaml files, sorted.
func (p Profile) YAMLFiles() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(p.Dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// Settings loads profile.cue, returning zero Settings when it is absent.
func (p Profile) Settings() (Settings, error) {
	path := p.path(SettingsFile)
	if !isFile(path) {
		return Settings{}, nil
	}
	return LoadSettings(path)
}

func readListFile(path string) ([]string, bool, error) {
	items, err := ReadList(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, true, apperr.Configuration("cannot read %s: %v", path, err)
	}
	return items, true, nil
}

// ReadList reads one entry per line, trimming whitespace and skipping
// blank lines and lines starting with #.
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
