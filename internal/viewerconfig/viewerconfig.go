// Package viewerconfig holds viewer-only preferences (overlays, outline, soft body, export
// directory, logging). They persist across runs and are separate from character configs.
package viewerconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the prefs file, relative to the process working directory.
const DefaultPath = "config/viewer.yaml"

// EnvPrefix namespaces environment overrides, e.g. AVATAR_OUTLINE_WIDTH.
const EnvPrefix = "AVATAR"

// Prefs are the viewer preferences.
type Prefs struct {
	ShowFPS      bool          `mapstructure:"show_fps" yaml:"show_fps"`
	ShowMemAlloc bool          `mapstructure:"show_memalloc" yaml:"show_memalloc"`
	ShowStats    bool          `mapstructure:"show_stats" yaml:"show_stats"`
	GridVisible  bool          `mapstructure:"grid_visible" yaml:"grid_visible"`
	Outline      OutlinePrefs  `mapstructure:"outline" yaml:"outline"`
	SoftBody     SoftBodyPrefs `mapstructure:"soft_body" yaml:"soft_body"`
	ExportDir    string        `mapstructure:"export_dir" yaml:"export_dir"`
	// ConfigPath is the character config loaded at startup; empty means defaults.
	ConfigPath string   `mapstructure:"config_path" yaml:"config_path"`
	Log        LogPrefs `mapstructure:"log" yaml:"log"`
}

// OutlinePrefs control the inverted-hull outline.
type OutlinePrefs struct {
	Enabled bool    `mapstructure:"enabled" yaml:"enabled"`
	Width   float32 `mapstructure:"width" yaml:"width"`
	Color   string  `mapstructure:"color" yaml:"color"`
}

// SoftBodyPrefs select damped idle motion and its tuning.
type SoftBodyPrefs struct {
	Enabled         bool    `mapstructure:"enabled" yaml:"enabled"`
	Stiffness       float32 `mapstructure:"stiffness" yaml:"stiffness"`
	Damping         float32 `mapstructure:"damping" yaml:"damping"`
	MaxDisplacement float32 `mapstructure:"max_displacement" yaml:"max_displacement"`
}

// LogPrefs configure the rotated log file.
type LogPrefs struct {
	Level      string `mapstructure:"level" yaml:"level"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age" yaml:"max_age"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("show_fps", false)
	v.SetDefault("show_memalloc", false)
	v.SetDefault("show_stats", false)
	v.SetDefault("grid_visible", true)

	v.SetDefault("outline.enabled", true)
	v.SetDefault("outline.width", 0.03)
	v.SetDefault("outline.color", "#1a1a1a")

	v.SetDefault("soft_body.enabled", false)
	v.SetDefault("soft_body.stiffness", 0.5)
	v.SetDefault("soft_body.damping", 0.15)
	v.SetDefault("soft_body.max_displacement", 0.02)

	v.SetDefault("export_dir", "exports")
	v.SetDefault("config_path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "logs/avatar.log")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
}

// Default returns the defaults alone, ignoring files and environment.
func Default() Prefs {
	v := viper.New()
	SetDefaults(v)
	var p Prefs
	if err := v.Unmarshal(&p); err != nil {
		panic(fmt.Sprintf("viewerconfig: unmarshal defaults: %v", err))
	}
	return p
}

// Load reads prefs from path (DefaultPath when empty) layered over defaults, with
// AVATAR_* environment overrides. A missing file is not an error.
func Load(path string) (Prefs, error) {
	if path == "" {
		path = DefaultPath
	}
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Default(), fmt.Errorf("read prefs: %w", err)
		}
	}
	var p Prefs
	if err := v.Unmarshal(&p); err != nil {
		return Default(), fmt.Errorf("decode prefs: %w", err)
	}
	return p, nil
}

// Save writes p as YAML to path (DefaultPath when empty), creating its directory.
func Save(path string, p Prefs) error {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
