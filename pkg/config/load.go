package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadError is a fatal failure to read or parse a configuration
// document. No diagnostics exist when a LoadError is returned; the
// pipeline never starts.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to load configuration: %v", e.Err)
	}
	return fmt.Sprintf("failed to load configuration %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads and parses the document at path into an untyped tree.
func Load(path string) (*RawValue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	tree, err := Parse(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return tree, nil
}

// Parse reads a YAML document from r into an untyped tree. The document
// root must be a mapping.
func Parse(r io.Reader) (*RawValue, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	tree, err := fromYAMLNode(&node)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if tree.Kind != KindMapping {
		return nil, fmt.Errorf("parse: document root must be a mapping, got %s", tree.Kind)
	}
	return tree, nil
}
