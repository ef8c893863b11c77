package registry

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/flarebyte/spackter/internal/apperr"
	"gopkg.in/yaml.v3"
)

const metadataKey = "data"

// Document is the whole registry: metadata plus stacks keyed by absolute
// installation path.
type Document struct {
	Meta   Metadata
	Stacks map[string]Record

	exists bool
}

// NewDocument returns an empty registry.
func NewDocument() *Document {
	return &Document{Stacks: map[string]Record{}}
}

// Exists reports whether the document was read from an existing file.
func (d *Document) Exists() bool { return d.exists }

// Len returns the number of stack entries.
func (d *Document) Len() int { return len(d.Stacks) }

// Get returns the record at path.
func (d *Document) Get(path string) (Record, bool) {
	r, ok := d.Stacks[path]
	return r, ok
}

// Commit registers rec at path with the next ID. The document is left
// unchanged when path is already registered.
func (d *Document) Commit(path string, rec Record, version string) (Record, error) {
	if _, ok := d.Stacks[path]; ok {
		return Record{}, apperr.AlreadyExists("there already exists a spack stack at: %s", path)
	}
	if d.Stacks == nil {
		d.Stacks = map[string]Record{}
	}
	if d.Meta.SpackterVersion == "" {
		d.Meta.SpackterVersion = version
	}
	d.Meta.IDCounter++
	rec.ID = d.Meta.IDCounter
	d.Stacks[path] = rec
	d.Meta.StackCount++
	return rec, nil
}

// Replace overwrites an existing record in place, keeping its ID.
func (d *Document) Replace(path string, rec Record) error {
	old, ok := d.Stacks[path]
	if !ok {
		return apperr.NotFound("no spackter entry found for %s", path)
	}
	rec.ID = old.ID
	d.Stacks[path] = rec
	return nil
}

// Remove deletes the record at path. The ID counter is never decremented.
func (d *Document) Remove(path string) bool {
	if _, ok := d.Stacks[path]; !ok {
		return false
	}
	delete(d.Stacks, path)
	d.Meta.StackCount--
	return true
}

// Matches returns every stack ordered by ID.
func (d *Document) Matches() []Match {
	out := make([]Match, 0, len(d.Stacks))
	for p, r := range d.Stacks {
		out = append(out, Match{Path: p, Record: r})
	}
	sortMatches(out)
	return out
}

func sortMatches(ms []Match) {
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].Record.ID != ms[j].Record.ID {
			return ms[i].Record.ID < ms[j].Record.ID
		}
		return ms[i].Path < ms[j].Path
	})
}

// Marshal returns canonical YAML bytes for the registry: top-level keys
// sorted, two-space indent, single trailing newline.
func Marshal(d *Document) ([]byte, error) {
	keys := make([]string, 0, len(d.Stacks)+1)
	keys = append(keys, metadataKey)
	for p := range d.Stacks {
		if p == metadataKey {
			return nil, fmt.Errorf("stack path %q collides with the metadata key", p)
		}
		keys = append(keys, p)
	}
	sort.Strings(keys)

	top := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		val := &yaml.Node{}
		var err error
		if k == metadataKey {
			err = val.Encode(d.Meta)
		} else {
			err = val.Encode(d.Stacks[k])
		}
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		top.Content = append(top.Content, scalarNode(k), val)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(top); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	out = append(out, '\n')
	return out, nil
}

// Unmarshal parses registry bytes. Empty input yields an empty document.
func Unmarshal(b []byte) (*Document, error) {
	d := NewDocument()
	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return d, nil
	}
	top := root.Content[0]
	if top.Kind == yaml.ScalarNode && top.Tag == "!!null" {
		return d, nil
	}
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: registry must be a mapping", top.Line)
	}
	for i := 0; i+1 < len(top.Content); i += 2 {
		key := top.Content[i].Value
		val := top.Content[i+1]
		if key == metadataKey {
			if err := val.Decode(&d.Meta); err != nil {
				return nil, fmt.Errorf("decode %s: %w", key, err)
			}
			continue
		}
		var rec Record
		if err := val.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		d.Stacks[key] = rec
	}
	return d, nil
}

func scalarNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
