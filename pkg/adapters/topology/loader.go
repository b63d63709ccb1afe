// Package topology loads graph definitions from YAML documents. The decode
// pipeline is two-stage: yaml into a generic map, then mapstructure into the
// typed spec, so documents survive minor shape drift (string/number keys)
// without a custom unmarshaler.
package topology

import (
	"context"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/sylvanmoss/manifold/pkg/domain"
)

// FileLoader implements ports.TopologyLoader for a YAML file on disk.
type FileLoader struct {
	path string
}

// NewFileLoader creates a loader for the given YAML topology document.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// Load reads and decodes the topology document.
func (l *FileLoader) Load(ctx context.Context) (domain.TopologySpec, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return domain.TopologySpec{}, fmt.Errorf("failed to read topology %s: %w", l.path, err)
	}
	return Decode(raw)
}

// Decode parses YAML bytes into a topology spec.
func Decode(raw []byte) (domain.TopologySpec, error) {
	var generic map[string]any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return domain.TopologySpec{}, fmt.Errorf("invalid topology yaml: %w", err)
	}

	var spec domain.TopologySpec
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &spec,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return domain.TopologySpec{}, err
	}
	if err := dec.Decode(generic); err != nil {
		return domain.TopologySpec{}, fmt.Errorf("invalid topology document: %w", err)
	}
	return spec, nil
}

// StaticLoader implements ports.TopologyLoader around an in-memory spec,
// mainly for tests and embedded defaults.
type StaticLoader struct {
	spec domain.TopologySpec
}

// NewStaticLoader wraps a fixed spec.
func NewStaticLoader(spec domain.TopologySpec) *StaticLoader {
	return &StaticLoader{spec: spec}
}

// Load returns the wrapped spec.
func (l *StaticLoader) Load(ctx context.Context) (domain.TopologySpec, error) {
	return l.spec, nil
}
