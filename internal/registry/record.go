package registry

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Sentinel values for fields that are unknown for externally added stacks.
const (
	Unknown             = "UNKNOWN"
	UnknownSpackVersion = "UNKNOWN VERSION"
)

// Type tells how a stack came to be registered.
type Type string

const (
	TypeManaged    Type = "MANAGED"
	TypeExternal   Type = "EXTERNAL"
	TypeMirrorOnly Type = "MIRROR_ONLY"
)

// legacyTypes maps type tags written by earlier registry versions.
var legacyTypes = map[string]Type{
	"SPACKTER":    TypeManaged,
	"EXTERN":      TypeExternal,
	"ONLY MIRROR": TypeMirrorOnly,
}

func (t *Type) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if legacy, ok := legacyTypes[s]; ok {
		*t = legacy
		return nil
	}
	switch Type(s) {
	case TypeManaged, TypeExternal, TypeMirrorOnly:
		*t = Type(s)
		return nil
	}
	return fmt.Errorf("line %d: unknown stack type %q", value.Line, s)
}

// Outcome is one (name, success) pair of a stack's history. It is stored as a
// two element YAML sequence.
type Outcome struct {
	Name    string
	Success bool
}

func (o Outcome) MarshalYAML() (any, error) {
	return []any{o.Name, o.Success}, nil
}

func (o *Outcome) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode || len(value.Content) != 2 {
		return fmt.Errorf("line %d: expected [name, success] pair", value.Line)
	}
	if err := value.Content[0].Decode(&o.Name); err != nil {
		return err
	}
	return value.Content[1].Decode(&o.Success)
}

// PostInstall records the post-install script run. The zero value means no
// script existed and is stored as an empty mapping.
type PostInstall struct {
	Content string `yaml:"content,omitempty"`
	Success *bool  `yaml:"success,omitempty"`
}

// Ran reports whether a post-install script was executed.
func (p PostInstall) Ran() bool { return p.Success != nil }

// Succeeded reports whether the script ran and exited zero.
func (p PostInstall) Succeeded() bool { return p.Success != nil && *p.Success }

// NewPostInstall returns a PostInstall for a script that ran.
func NewPostInstall(content string, success bool) PostInstall {
	return PostInstall{Content: content, Success: &success}
}

// Record describes one stack. Field order is alphabetical so the encoded
// YAML has sorted keys.
type Record struct {
	Compiler     string      `yaml:"compiler"`
	Configs      string      `yaml:"configs"`
	Created      string      `yaml:"created"`
	EnvScript    string      `yaml:"env_script"`
	ID           int         `yaml:"id"`
	Name         string      `yaml:"name"`
	Packages     []Outcome   `yaml:"packages"`
	Patches      []Outcome   `yaml:"patches"`
	PostInstall  PostInstall `yaml:"post_install"`
	Prefix       string      `yaml:"prefix"`
	PullRequests []Outcome   `yaml:"pull_requests"`
	SpackVersion string      `yaml:"spack_version"`
	Type         Type        `yaml:"type"`
}

// CompilerLabel returns the compiler for display, "system" when none was
// requested.
func (r Record) CompilerLabel() string {
	if r.Compiler == "" {
		return "system"
	}
	return r.Compiler
}

// ShortSpackVersion returns the first word of the captured version string.
func (r Record) ShortSpackVersion() string {
	for i := 0; i < len(r.SpackVersion); i++ {
		if r.SpackVersion[i] == ' ' {
			return r.SpackVersion[:i]
		}
	}
	return r.SpackVersion
}

// Metadata is the registry's "data" entry.
type Metadata struct {
	IDCounter       int    `yaml:"id_counter"`
	SpackterVersion string `yaml:"spackter_version"`
	StackCount      int    `yaml:"stack_count"`
}
