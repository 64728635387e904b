package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// promptFile is the YAML form of a prompt artifact
type promptFile struct {
	Instructions string `yaml:"instructions"`
}

// LoadPrompt reads the extraction instructions from path. Plain files are
// used verbatim; .yaml/.yml files must carry an instructions key.
func LoadPrompt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read extraction prompt: %w", err)
	}

	prompt := string(data)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var file promptFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return "", fmt.Errorf("failed to parse extraction prompt %s: %w", path, err)
		}
		prompt = file.Instructions
	}

	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("extraction prompt %s is empty", path)
	}

	return prompt, nil
}
