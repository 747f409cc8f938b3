package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/hyperjump/shikisai/internal/config"
	"github.com/hyperjump/shikisai/internal/models"
	"github.com/hyperjump/shikisai/internal/storage"
)

func TestReorderArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after path are moved first",
			args:     []string{"sunset.jpg", "-output", "json"},
			expected: []string{"-output", "json", "sunset.jpg"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-output", "json", "sunset.jpg"},
			expected: []string{"-output", "json", "sunset.jpg"},
		},
		{
			name:     "path only returns unchanged",
			args:     []string{"sunset.jpg"},
			expected: []string{"sunset.jpg"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"bright", "sky", "-output", "json"},
			expected: []string{"-output", "json", "bright", "sky"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reorderArgs(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("reorderArgs() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildQueryText(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"sunset"}, "sunset"},
		{"multiple words", []string{"bright", "blue", "landscape"}, "bright blue landscape"},
		{"single quoted phrase", []string{"bright blue landscape"}, "bright blue landscape"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildQueryText(tt.args)
			if got != tt.expected {
				t.Errorf("buildQueryText(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestConfigPathDefault(t *testing.T) {
	t.Setenv("SHIKISAI_CONFIG", "")
	if got := configPathDefault(); got != defaultConfigPath {
		t.Errorf("configPathDefault() = %q, want %q", got, defaultConfigPath)
	}

	t.Setenv("SHIKISAI_CONFIG", "/tmp/custom.yaml")
	if got := configPathDefault(); got != "/tmp/custom.yaml" {
		t.Errorf("configPathDefault() with env = %q, want /tmp/custom.yaml", got)
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := "debug: true\nstorage:\n  journal_path: \"./journal.db\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(oldwd) })

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// t.TempDir may sit behind a symlink (macOS /var), so compare
	// canonical forms.
	wantCanon, _ := filepath.EvalSymlinks(configPath)
	gotCanon, _ := filepath.EvalSymlinks(resolved)
	if gotCanon != wantCanon {
		t.Errorf("resolved = %s, want %s", resolved, configPath)
	}
	if !cfg.Debug {
		t.Error("debug should come from the cwd config.yaml")
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "shikisai.yaml")
	content := "server:\n  host: \"127.0.0.1\"\n  port: 9000\n"
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}

func TestStatusFromJournal(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Storage.JournalPath = filepath.Join(dir, "journal.db")
	cfg.Analysis.Workers = 3
	cfg.Watch.Directories = []string{"/photos"}

	journal, err := storage.NewSQLiteJournal(cfg.Storage.JournalPath)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, path := range []string{"/photos/a.png", "/photos/b.png"} {
		entry := &models.JournalEntry{
			Path:       path,
			AnalysisID: "id-" + filepath.Base(path),
			Size:       10,
			ModTime:    time.Now().UnixNano(),
			AnalyzedAt: time.Now().UTC(),
		}
		if err := journal.Upsert(ctx, entry); err != nil {
			t.Fatal(err)
		}
	}
	if err := journal.Close(); err != nil {
		t.Fatal(err)
	}

	status, err := statusFromJournal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if status.AnalyzedFiles != 2 {
		t.Errorf("AnalyzedFiles = %d, want 2", status.AnalyzedFiles)
	}
	if status.Workers != 3 {
		t.Errorf("Workers = %d, want 3", status.Workers)
	}
	if status.Source != "journal" {
		t.Errorf("Source = %q, want journal", status.Source)
	}
	if !reflect.DeepEqual(status.WatchedDirectories, []string{"/photos"}) {
		t.Errorf("WatchedDirectories = %v, want [/photos]", status.WatchedDirectories)
	}
	if status.DiskUsageBytes < 1 {
		t.Errorf("DiskUsageBytes = %d, want > 0", status.DiskUsageBytes)
	}
}

func TestStatusViaHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/status" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"analyzed_files":      int64(7),
			"watched_directories": []string{"/photos"},
			"workers":             4,
		})
	}))
	defer ts.Close()

	status, err := statusViaHTTP(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	if status.AnalyzedFiles != 7 {
		t.Errorf("AnalyzedFiles = %d, want 7", status.AnalyzedFiles)
	}
	if status.Workers != 4 {
		t.Errorf("Workers = %d, want 4", status.Workers)
	}
}

func TestStatusViaHTTP_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	if _, err := statusViaHTTP(ts.URL); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestAnalyzeViaHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/analyze" {
			http.NotFound(w, r)
			return
		}
		analysis := models.NewAnalysis()
		analysis.Caption = "A bright white image"
		analysis.Colors = []string{"white"}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(analysis)
	}))
	defer ts.Close()

	path := filepath.Join(t.TempDir(), "input.png")
	if err := os.WriteFile(path, []byte("not checked by the stub"), 0644); err != nil {
		t.Fatal(err)
	}

	analysis, err := analyzeViaHTTP(ts.URL, path)
	if err != nil {
		t.Fatal(err)
	}
	if analysis.Caption != "A bright white image" {
		t.Errorf("Caption = %q, want %q", analysis.Caption, "A bright white image")
	}
}

func TestAnalyzeViaHTTP_Rejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"failed to decode image"}`, http.StatusUnprocessableEntity)
	}))
	defer ts.Close()

	path := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := analyzeViaHTTP(ts.URL, path); err == nil {
		t.Fatal("expected error for 422 response")
	}
}

func TestAnalyzeViaHTTP_MissingFile(t *testing.T) {
	if _, err := analyzeViaHTTP("http://127.0.0.1:1", filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
