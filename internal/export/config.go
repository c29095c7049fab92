// Package export serializes configurations and assembled characters: canonical JSON,
// binary glTF, and zip bundles holding both.
package export

import (
	"encoding/json"
	"fmt"

	"avatar-studio/internal/avatar"
)

// Bundle entry names.
const (
	ConfigEntry = "avatar-config.json"
	SceneEntry  = "avatar.glb"
)

// EncodeConfig returns the canonical text form of cfg: two-space indented JSON with keys
// in declaration order and a trailing newline.
func EncodeConfig(cfg avatar.Config) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeConfig parses the canonical form back. DecodeConfig(EncodeConfig(c)) equals c.
func DecodeConfig(data []byte) (avatar.Config, error) {
	cfg, err := avatar.Parse(data)
	if err != nil {
		return avatar.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
