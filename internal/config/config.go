// Package config loads a declarative keyword registry definition from YAML,
// grounded on gonimbus's internal/config manifest-loading package: read a
// file, unmarshal into a typed struct, validate, hand back a value the
// caller wires into the rest of the pipeline.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/3leaps/streamwarden/pkg/keyword"
)

// Document is the top-level shape of a registry definition file.
type Document struct {
	Registry keyword.RegistryConfig `yaml:"registry"`
}

// Load reads and parses the registry definition at path.
func Load(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse unmarshals a registry definition document from raw YAML bytes.
func Parse(raw []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("config: parse: %w", err)
	}
	return doc, nil
}

// BuildRegistry loads the definition at path and applies every binding to a
// freshly constructed Registry.
func BuildRegistry(path string) (*keyword.Registry, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	reg := keyword.NewRegistry()
	if err := keyword.ApplyConfig(reg, doc.Registry); err != nil {
		return nil, fmt.Errorf("config: apply %s: %w", path, err)
	}
	return reg, nil
}
