package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// loadVars reads variable definitions from a YAML file.
func loadVars(name string) ([][2]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readVars(f)
}

// readVars reads a YAML mapping of variable names to values. Values may be
// numbers or formulas in terms of earlier definitions, so the definitions are
// returned in document order.
func readVars(r io.Reader) ([][2]string, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: variables must be a mapping of names to values", m.Line)
	}
	defs := make([][2]string, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: variable definitions must be scalars", k.Line)
		}
		defs = append(defs, [2]string{k.Value, v.Value})
	}
	return defs, nil
}
