// Package analyzer runs the image analysis pipeline: color aggregation,
// brightness, pseudo-object detection, emotion mapping, captioning,
// keyword collection, and embedding encoding. It also drives file and
// directory analyses, recording runs in the journal and writing sidecar
// result documents.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/shikisai/internal/caption"
	"github.com/hyperjump/shikisai/internal/config"
	"github.com/hyperjump/shikisai/internal/embedding"
	"github.com/hyperjump/shikisai/internal/emotion"
	"github.com/hyperjump/shikisai/internal/imageid"
	"github.com/hyperjump/shikisai/internal/models"
	"github.com/hyperjump/shikisai/internal/raster"
	"github.com/hyperjump/shikisai/internal/storage"
)

// Analyzer produces analyses from image bytes and manages per-file
// bookkeeping. The journal and logger are optional; without a journal
// every sync re-analyzes, and without a results directory no sidecars
// are written.
type Analyzer struct {
	journal    storage.Journal
	workers    int
	resultsDir string
	logger     *zap.Logger
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithLogger sets a logger for analysis events.
func WithLogger(logger *zap.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// New creates an analyzer. journal may be nil for byte-only use.
func New(journal storage.Journal, cfg *config.AnalysisConfig, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		journal: journal,
		workers: 1,
	}
	if cfg != nil {
		if cfg.Workers > 0 {
			a.workers = cfg.Workers
		}
		a.resultsDir = cfg.ResultsDir
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeBytes decodes data and runs the full pipeline over it. The only
// failure is an undecodable image; every later stage falls back rather
// than erroring, so a decoded image always yields a complete analysis.
func (a *Analyzer) AnalyzeBytes(data []byte) (*models.Analysis, error) {
	im, err := raster.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	result := models.NewAnalysis()
	result.Colors = a.dominantColors(im)
	result.Brightness = im.MeanLuminance()
	result.Objects = detectObjects(im, result.Brightness)
	result.Emotions = emotion.Map(result.Colors, result.Brightness)
	result.Caption = caption.Compose(result.Colors, result.Objects, result.Brightness)
	result.SearchKeywords = collectKeywords(result.Colors, result.Objects, result.Emotions, im.AspectRatio())
	result.SemanticConcepts = semanticConcepts(result.Colors, result.Emotions)
	result.Embedding = embedding.EncodeAnalysis(result)
	return result, nil
}

// AnalyzeFile analyzes the image at path and records the run: a sidecar
// document when a results directory is configured, and a journal entry
// when a journal is attached. allowedExts may be empty to accept any
// extension.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string, allowedExts []string) (*models.FileAnalysis, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	if len(allowedExts) > 0 && !extensionAllowed(filepath.Ext(absPath), allowedExts) {
		return nil, fmt.Errorf("extension %q is not allowed", filepath.Ext(absPath))
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", absPath)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	analysis, err := a.AnalyzeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", absPath, err)
	}

	fileAnalysis := &models.FileAnalysis{
		AnalysisID: uuid.New().String(),
		SourcePath: absPath,
		AnalyzedAt: time.Now().UTC(),
		Analysis:   analysis,
	}
	if err := a.writeSidecar(fileAnalysis); err != nil {
		return nil, err
	}

	if a.journal != nil {
		entry := &models.JournalEntry{
			Path:       absPath,
			AnalysisID: fileAnalysis.AnalysisID,
			Size:       info.Size(),
			ModTime:    info.ModTime().UnixNano(),
			AnalyzedAt: fileAnalysis.AnalyzedAt,
		}
		if err := a.journal.Upsert(ctx, entry); err != nil {
			return nil, fmt.Errorf("record analysis: %w", err)
		}
	}

	if a.logger != nil {
		a.logger.Debug("analyzed file",
			zap.String("path", absPath),
			zap.String("analysis_id", fileAnalysis.AnalysisID))
	}
	return fileAnalysis, nil
}

// SyncFile analyzes path unless the journal already records it with the
// same size and modification time. Reports whether an analysis ran.
func (a *Analyzer) SyncFile(ctx context.Context, path string, allowedExts []string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return false, fmt.Errorf("stat file: %w", err)
	}

	if a.journal != nil {
		entry, err := a.journal.Get(ctx, absPath)
		if err == nil && entry.Size == info.Size() && entry.ModTime == info.ModTime().UnixNano() {
			if a.logger != nil {
				a.logger.Debug("skipping unchanged file", zap.String("path", absPath))
			}
			return false, nil
		}
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return false, fmt.Errorf("journal lookup: %w", err)
		}
	}

	if _, err := a.AnalyzeFile(ctx, absPath, allowedExts); err != nil {
		return false, err
	}
	return true, nil
}

// DirectoryResult summarizes a directory scan.
type DirectoryResult struct {
	Analyzed int `json:"analyzed"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// AnalyzeDirectory walks dir and syncs every regular file whose extension
// is allowed, fanning work out to the configured number of workers.
// Per-file failures are logged and counted, never fatal.
func (a *Analyzer) AnalyzeDirectory(ctx context.Context, dir string, allowedExts []string) (*DirectoryResult, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", absDir)
	}

	var files []string
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if len(allowedExts) > 0 && !extensionAllowed(filepath.Ext(path), allowedExts) {
			return nil
		}
		// Stat rather than d.Info so symlinked files resolve.
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result DirectoryResult
		sem    = make(chan struct{}, a.workers)
	)
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }()
			analyzed, err := a.SyncFile(ctx, path, allowedExts)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Failed++
				if a.logger != nil {
					a.logger.Warn("file analysis failed", zap.String("path", path), zap.Error(err))
				}
			case analyzed:
				result.Analyzed++
			default:
				result.Skipped++
			}
		}(path)
	}
	wg.Wait()

	if a.logger != nil {
		a.logger.Info("directory analyzed",
			zap.String("dir", absDir),
			zap.Int("analyzed", result.Analyzed),
			zap.Int("skipped", result.Skipped),
			zap.Int("failed", result.Failed))
	}
	return &result, nil
}

// RemoveFile forgets a file: its journal entry and sidecar are deleted.
func (a *Analyzer) RemoveFile(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if a.resultsDir != "" {
		sidecar := filepath.Join(a.resultsDir, imageid.SidecarName(absPath))
		if err := os.Remove(sidecar); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove sidecar: %w", err)
		}
	}
	if a.journal != nil {
		if err := a.journal.Delete(ctx, absPath); err != nil {
			return fmt.Errorf("forget analysis: %w", err)
		}
	}
	if a.logger != nil {
		a.logger.Debug("removed file", zap.String("path", absPath))
	}
	return nil
}

func (a *Analyzer) writeSidecar(fileAnalysis *models.FileAnalysis) error {
	if a.resultsDir == "" {
		return nil
	}
	if err := os.MkdirAll(a.resultsDir, 0755); err != nil {
		return fmt.Errorf("create results directory: %w", err)
	}
	data, err := json.MarshalIndent(fileAnalysis, "", "  ")
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	path := filepath.Join(a.resultsDir, imageid.SidecarName(fileAnalysis.SourcePath))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	return nil
}

func extensionAllowed(ext string, allowed []string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, candidate := range allowed {
		if strings.ToLower(strings.TrimPrefix(candidate, ".")) == ext {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
