package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func mustLoad(t *testing.T, path string) *Config {
	t.Helper()
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%s): %v", path, err)
	}
	return cfg
}

func TestLoad(t *testing.T) {
	cfg := mustLoad(t, writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  journal_path: "./journal.db"
`))
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Storage.JournalPath == "" {
		t.Error("journal_path should be set")
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
	if cfg.Analysis.Workers != 4 {
		t.Errorf("workers default = %d, want 4", cfg.Analysis.Workers)
	}
	if cfg.Server.MaxUploadBytes != 32<<20 {
		t.Errorf("max_upload_bytes default = %d", cfg.Server.MaxUploadBytes)
	}
}

func TestLoad_debugTrue(t *testing.T) {
	cfg := mustLoad(t, writeConfig(t, "debug: true\n"))
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	path := writeConfig(t, `
storage:
  journal_path: "./data/journal.db"
analysis:
  results_dir: "./results"
watch:
  directories:
    - "./photos"
`)
	dir := filepath.Dir(path)
	cfg := mustLoad(t, path)
	if want := filepath.Join(dir, "data", "journal.db"); cfg.Storage.JournalPath != want {
		t.Errorf("journal_path = %q, want %q", cfg.Storage.JournalPath, want)
	}
	if want := filepath.Join(dir, "results"); cfg.Analysis.ResultsDir != want {
		t.Errorf("results_dir = %q, want %q", cfg.Analysis.ResultsDir, want)
	}
	if want := filepath.Join(dir, "photos"); cfg.Watch.Directories[0] != want {
		t.Errorf("watch dir = %q, want %q", cfg.Watch.Directories[0], want)
	}
}

func TestLoad_expandTildeToHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg := mustLoad(t, writeConfig(t, `
storage:
  journal_path: "~/shikisai/journal.db"
`))
	if want := filepath.Join(home, "shikisai", "journal.db"); cfg.Storage.JournalPath != want {
		t.Errorf("journal_path = %q, want %q", cfg.Storage.JournalPath, want)
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestLoad_malformedYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "server: [not: a: mapping\n")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)

	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("server defaults: %+v", cfg.Server)
	}
	if cfg.Storage.JournalPath == "" {
		t.Error("journal path default missing")
	}
	if cfg.Analysis.ResultsDir != "" {
		t.Errorf("results_dir should default to empty, got %q", cfg.Analysis.ResultsDir)
	}
	if len(cfg.Watch.Extensions) == 0 {
		t.Error("extension defaults missing")
	}
	for _, ext := range []string{".jpg", ".png", ".webp"} {
		found := false
		for _, e := range cfg.Watch.Extensions {
			if e == ext {
				found = true
			}
		}
		if !found {
			t.Errorf("default extensions missing %s: %v", ext, cfg.Watch.Extensions)
		}
	}
}

func TestApplyDefaults_WatchRecursiveWhenDirectoriesSet(t *testing.T) {
	cfg := Config{Watch: WatchConfig{Directories: []string{"/photos"}}}
	ApplyDefaults(&cfg)
	if cfg.Watch.Recursive == nil || !*cfg.Watch.Recursive {
		t.Error("recursive should default to true when directories are set")
	}
}

func TestWatchConfig_RecursiveOrDefault(t *testing.T) {
	var w WatchConfig
	if !w.RecursiveOrDefault() {
		t.Error("unset recursive should default to true")
	}
	f := false
	w.Recursive = &f
	if w.RecursiveOrDefault() {
		t.Error("explicit false should stick")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := &Config{Debug: true}
	ApplyDefaults(cfg)
	cfg.Watch.Directories = []string{"/photos/in"}

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded := mustLoad(t, path)
	if !loaded.Debug {
		t.Error("debug lost in round trip")
	}
	if len(loaded.Watch.Directories) != 1 || loaded.Watch.Directories[0] != "/photos/in" {
		t.Errorf("watch directories lost: %v", loaded.Watch.Directories)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after save")
	}
}
