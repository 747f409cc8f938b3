// Package config provides configuration loading and structs for the shikisai server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Storage  StorageConfig  `yaml:"storage"`
	Watch    WatchConfig    `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// AnalysisConfig holds analysis pipeline settings.
type AnalysisConfig struct {
	// Workers bounds concurrent file analyses during directory scans.
	Workers int `yaml:"workers"`
	// ResultsDir receives sidecar JSON results for analyzed files.
	// Empty disables sidecar writing.
	ResultsDir string `yaml:"results_dir"`
}

// StorageConfig holds the journal database path.
type StorageConfig struct {
	JournalPath string `yaml:"journal_path"`
}

// WatchConfig holds directory watch settings.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// Load reads the YAML config at path and returns it with defaults applied
// and every relative path resolved. "./" paths resolve against the config
// file's own directory so a config can travel with its data.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	ApplyDefaults(&cfg)
	resolvePaths(&cfg, filepath.Dir(path))
	return &cfg, nil
}

func resolvePaths(cfg *Config, baseDir string) {
	cfg.Storage.JournalPath = expandPath(cfg.Storage.JournalPath, baseDir)
	if cfg.Analysis.ResultsDir != "" {
		cfg.Analysis.ResultsDir = expandPath(cfg.Analysis.ResultsDir, baseDir)
	}
	for i, dir := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(dir, baseDir)
	}
}

// Save writes the config to path via a temp file and rename, so a crash
// mid-write cannot truncate an existing config. Used for persisting watch
// directory add/remove.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}

// expandPath makes path absolute: "~/" expands to the home directory,
// "./" (and bare ".") resolve against baseDir, and any other relative
// path is taken as home-relative.
func expandPath(path, baseDir string) string {
	switch {
	case filepath.IsAbs(path):
		return path
	case path == "." || strings.HasPrefix(path, "./"):
		return filepath.Join(baseDir, path)
	case path == "~" || strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
		return path
	default:
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path)
		}
		return path
	}
}
