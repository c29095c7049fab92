package avatar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a JSON configuration document. The document must pass Validate.
func Parse(data []byte) (Config, error) {
	if !Validate(data) {
		return Config{}, ErrInvalidConfig
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("avatar: decode json: %w", err)
	}
	return c, nil
}

// ParseYAML decodes a YAML configuration document with the same keys as the JSON form.
func ParseYAML(data []byte) (Config, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("avatar: decode yaml: %w", err)
	}
	if !Validate(doc) {
		return Config{}, ErrInvalidConfig
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("avatar: decode yaml: %w", err)
	}
	return c, nil
}

// Load reads a configuration file. ".yaml" and ".yml" are decoded as YAML, anything else as JSON.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("avatar: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Parse(data)
	}
}

// LoadOrDefault reads path and falls back to Default() when the file is missing or
// invalid. The returned error says why the fallback happened; the config is always usable.
func LoadOrDefault(path string) (Config, error) {
	c, err := Load(path)
	if err != nil {
		return Default(), err
	}
	return c, nil
}

// Sanitize returns c when it passes Validate and Default() otherwise.
func Sanitize(c Config) (Config, error) {
	if !Validate(c) {
		return Default(), ErrInvalidConfig
	}
	return c, nil
}
