package alias

import (
	"fmt"
	"os"

	"github.com/huangsam/coredev/schema"
	"gopkg.in/yaml.v3"
)

type aliasFile struct {
	Aliases []schema.AliasGroup `yaml:"aliases"`
}

// WriteFile stores groups as YAML at path.
func WriteFile(path string, groups []schema.AliasGroup) error {
	data, err := yaml.Marshal(aliasFile{Aliases: groups})
	if err != nil {
		return fmt.Errorf("failed to encode aliases: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write aliases file %s: %w", path, err)
	}
	return nil
}

// ReadFile loads groups written by WriteFile.
func ReadFile(path string) ([]schema.AliasGroup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read aliases file %s: %w", path, err)
	}
	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse aliases file %s: %w", path, err)
	}
	return f.Aliases, nil
}
