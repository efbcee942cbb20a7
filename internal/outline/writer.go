package outline

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Write writes an outline to a YAML file.
func Write(o *Outline, path string) error {
	data, err := yaml.Marshal(o)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Read reads an outline from a YAML file.
func Read(path string) (*Outline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var o Outline
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, err
	}

	return &o, nil
}
