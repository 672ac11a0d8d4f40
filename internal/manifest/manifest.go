package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/conjure-cli/conjure/internal/shape"
)

// Constant declares a named constant to synthesize.
type Constant struct {
	Name string `yaml:"name"`
}

// Manifest is the declarative input to the gen pipeline: a set of function
// declarations and constants to synthesize in one batch.
type Manifest struct {
	Functions []shape.Decl `yaml:"functions"`
	Constants []Constant   `yaml:"constants"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates manifest content.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if len(m.Functions) == 0 && len(m.Constants) == 0 {
		return fmt.Errorf("manifest declares no functions or constants")
	}
	seen := make(map[string]bool)
	for i, fn := range m.Functions {
		if fn.Name == "" {
			return fmt.Errorf("functions[%d]: name is required", i)
		}
		if seen[fn.Name] {
			return fmt.Errorf("duplicate declaration: %s", fn.Name)
		}
		seen[fn.Name] = true
		for j, p := range fn.Params {
			if p.Name == "" || p.Type == "" {
				return fmt.Errorf("functions[%d] (%s): params[%d] needs name and type", i, fn.Name, j)
			}
		}
	}
	for i, c := range m.Constants {
		if c.Name == "" {
			return fmt.Errorf("constants[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate declaration: %s", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}
