package template

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogFile is the YAML shape of an external template catalog.
type catalogFile struct {
	Templates []Definition `yaml:"templates"`
}

// Load reads a template catalog from a YAML file and builds a registry from
// it. The file fully replaces the built-in catalog.
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse template catalog %s: %w", path, err)
	}
	if len(file.Templates) == 0 {
		return nil, fmt.Errorf("template catalog %s declares no templates", path)
	}

	reg, err := NewRegistry(file.Templates)
	if err != nil {
		return nil, fmt.Errorf("template catalog %s: %w", path, err)
	}
	return reg, nil
}

// Default builds the registry from the built-in catalog.
func Default() (*Registry, error) {
	return NewRegistry(Catalog())
}
