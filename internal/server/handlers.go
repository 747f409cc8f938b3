package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hyperjump/shikisai/internal/config"
	"github.com/hyperjump/shikisai/internal/embedding"
	"github.com/hyperjump/shikisai/internal/models"
	"github.com/hyperjump/shikisai/internal/storage"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "healthy",
		"service":  "shikisai",
		"features": []string{"analyze", "detect", "ocr", "semantic_search", "watch"},
	})
}

// jsonBodyLimit caps JSON request bodies. Image uploads have their own
// configurable cap.
const jsonBodyLimit = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, jsonBodyLimit)).Decode(dst)
}

// readImageBody reads the raw image bytes of an upload, honoring the
// configured size cap. On failure it writes the error response itself.
func (s *Server) readImageBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.respondError(w, http.StatusRequestEntityTooLarge, "image exceeds the upload limit")
			return nil, false
		}
		s.respondError(w, http.StatusBadRequest, "cannot read request body")
		return nil, false
	}
	return data, true
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readImageBody(w, r)
	if !ok {
		return
	}
	result, err := s.analyzer.AnalyzeBytes(data)
	if err != nil {
		s.logger.Debug("analysis rejected", zap.Error(err))
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readImageBody(w, r)
	if !ok {
		return
	}
	result, err := s.analyzer.AnalyzeBytes(data)
	if err != nil {
		// Detection never errors; an unanalyzable image has no objects.
		s.logger.Debug("detection found nothing", zap.Error(err))
		s.respondJSON(w, http.StatusOK, []models.DetectedObject{})
		return
	}
	s.respondJSON(w, http.StatusOK, result.Objects)
}

func (s *Server) handleOCR(w http.ResponseWriter, r *http.Request) {
	// Text extraction is intentionally absent; the endpoint exists so
	// clients can treat the field as reliably empty.
	s.respondJSON(w, http.StatusOK, []string{})
}

func (s *Server) handleSemanticSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SemanticQuery
	if err := decodeJSON(w, r, &query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("semantic query", zap.String("query", query.Query))
	s.respondJSON(w, http.StatusOK, models.QueryEmbedding{
		Query:     query.Query,
		Embedding: embedding.EncodeQuery(query.Query),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var analyzed int64
	if s.journal != nil {
		count, err := s.journal.Count(r.Context())
		if err != nil {
			s.logger.Error("status: journal count failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		analyzed = count
	}

	dirs := s.cfg.Watch.Directories
	if s.watch != nil {
		dirs = s.watch.Directories()
	}
	if dirs == nil {
		dirs = []string{}
	}

	resp := map[string]interface{}{
		"analyzed_files":      analyzed,
		"watched_directories": dirs,
		"workers":             s.cfg.Analysis.Workers,
	}
	if disk, err := storage.DiskUsageBytes(s.cfg.Storage.JournalPath, s.cfg.Analysis.ResultsDir); err == nil {
		resp["disk_usage_bytes"] = disk
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// requireWatch rejects the request when no watcher is wired in.
func (s *Server) requireWatch(w http.ResponseWriter) bool {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return false
	}
	return true
}

func (s *Server) handleWatchDirectoriesList(w http.ResponseWriter, r *http.Request) {
	if !s.requireWatch(w) {
		return
	}
	dirs := s.watch.Directories()
	if dirs == nil {
		dirs = []string{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"directories": dirs})
}

type watchAddRequest struct {
	Path string `json:"path"`
	Scan *bool  `json:"scan,omitempty"`
}

// resolveWatchDir turns a requested watch path into its absolute form,
// insisting it names an existing directory. A nonzero status means
// rejection with the returned message.
func resolveWatchDir(path string) (abs string, status int, msg string) {
	if path == "" {
		return "", http.StatusBadRequest, "path is required"
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", http.StatusBadRequest, "invalid path"
	}
	info, err := os.Stat(abs)
	switch {
	case os.IsNotExist(err):
		return "", http.StatusNotFound, "directory not found"
	case err != nil:
		return "", http.StatusInternalServerError, err.Error()
	case !info.IsDir():
		return "", http.StatusBadRequest, "path is not a directory"
	}
	return abs, 0, ""
}

func (s *Server) handleWatchDirectoriesAdd(w http.ResponseWriter, r *http.Request) {
	if !s.requireWatch(w) {
		return
	}
	var req watchAddRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	abs, status, msg := resolveWatchDir(req.Path)
	if status != 0 {
		s.respondError(w, status, msg)
		return
	}

	scanExisting := true
	if req.Scan != nil {
		scanExisting = *req.Scan
	}
	s.logger.Debug("watch add directory", zap.String("path", abs), zap.Bool("scan_existing", scanExisting))
	if err := s.watch.AddDirectory(abs, scanExisting); err != nil {
		s.logger.Error("watch add directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusCreated, map[string]string{"path": abs, "status": "added"})
}

// watchRemovePath pulls the removal target from the query string, falling
// back to a JSON body.
func (s *Server) watchRemovePath(w http.ResponseWriter, r *http.Request) string {
	if p := r.URL.Query().Get("path"); p != "" {
		return p
	}
	var body struct {
		Path string `json:"path"`
	}
	if err := decodeJSON(w, r, &body); err == nil {
		return body.Path
	}
	return ""
}

func (s *Server) handleWatchDirectoriesRemove(w http.ResponseWriter, r *http.Request) {
	if !s.requireWatch(w) {
		return
	}
	path := s.watchRemovePath(w, r)
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required (query or body)")
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	s.logger.Debug("watch remove directory", zap.String("path", abs))
	if err := s.watch.RemoveDirectory(abs); err != nil {
		s.logger.Error("watch remove directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusOK, map[string]string{"path": abs, "status": "removed"})
}

// persistWatchDirectories writes the current watch roots back to the
// config file, so runtime changes survive a restart.
func (s *Server) persistWatchDirectories() {
	if s.configPath == "" || s.cfg == nil {
		return
	}
	s.cfgMu.Lock()
	s.cfg.Watch.Directories = s.watch.Directories()
	err := config.Save(s.configPath, s.cfg)
	s.cfgMu.Unlock()
	if err != nil {
		s.logger.Warn("failed to persist watch config", zap.Error(err))
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Debug("response encode failed", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
