package rules

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var defaultSets embed.FS

// LoadYAML decodes one rule set document. Unknown keys are rejected so a typo
// in a threshold file cannot silently disable a condition.
func LoadYAML(r io.Reader) (RuleSet, error) {
	var rs RuleSet
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rs); err != nil {
		return RuleSet{}, fmt.Errorf("decode rule set: %w", err)
	}
	if err := rs.Validate(); err != nil {
		return RuleSet{}, err
	}
	return rs, nil
}

// LoadFS loads every *.yaml / *.yml file in dir, in name order.
func LoadFS(fsys fs.FS, dir string) ([]RuleSet, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read rule set dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := path.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	sets := make([]RuleSet, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		rs, err := LoadYAML(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", strings.TrimSuffix(name, path.Ext(name)), err)
		}
		sets = append(sets, rs)
	}
	return sets, nil
}

// DefaultRegistry builds a registry from the embedded rule sets.
func DefaultRegistry() (*Registry, error) {
	sets, err := LoadFS(defaultSets, "data")
	if err != nil {
		return nil, err
	}
	return NewRegistry(sets...)
}
