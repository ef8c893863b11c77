package config

import (
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/flarebyte/spackter/internal/apperr"
)

// compileCUE loads and compiles a CUE file at the given path.
func compileCUE(path string) (cue.Value, error) {
	if filepath.Ext(path) != ".cue" {
		return cue.Value{}, apperr.Configuration("unsupported settings format: expected .cue")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, apperr.Configuration("failed to read settings: %v", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return cue.Value{}, apperr.Configuration("invalid settings: %v", err)
	}
	return v, nil
}

func requireStringField(v cue.Value, name string) (string, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return "", apperr.Configuration("missing required field: %s", name)
	}
	return decodeString(f, name)
}

// optionalString returns "" when the field is absent.
func optionalString(v cue.Value, name string) (string, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return "", nil
	}
	return decodeString(f, name)
}

func decodeString(f cue.Value, name string) (string, error) {
	if f.Kind() != cue.StringKind {
		return "", apperr.Configuration("invalid type for field: %s (expected string)", name)
	}
	var s string
	if err := f.Decode(&s); err != nil {
		return "", apperr.Configuration("invalid value for %s: %v", name, err)
	}
	return s, nil
}
