package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hyperjump/shikisai/internal/analyzer"
	"github.com/hyperjump/shikisai/internal/cli"
	"github.com/hyperjump/shikisai/internal/config"
	"github.com/hyperjump/shikisai/internal/embedding"
	"github.com/hyperjump/shikisai/internal/models"
	"github.com/hyperjump/shikisai/internal/server"
	"github.com/hyperjump/shikisai/internal/storage"
	"github.com/hyperjump/shikisai/internal/watcher"
	"github.com/hyperjump/shikisai/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/shikisai/config.yaml"

// configPathDefault returns the config path before flags are applied.
// SHIKISAI_CONFIG takes precedence over the built-in default.
func configPathDefault() string {
	if env := os.Getenv("SHIKISAI_CONFIG"); env != "" {
		return env
	}
	return defaultConfigPath
}

// loadConfig loads the config from path. When path is the built-in default
// and a config.yaml exists in the current directory, the local file wins.
// Returns the config and the path it was actually loaded from.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, err := os.Getwd(); err == nil {
			local := filepath.Join(cwd, "config.yaml")
			if _, err := os.Stat(local); err == nil {
				path = local
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// .env is optional; environment already set wins.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "server":
		runServer()
	case "analyze":
		runAnalyze()
	case "query":
		runQuery()
	case "watch":
		runWatch()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("shikisai %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// Components holds the initialized application dependencies.
type Components struct {
	Journal  storage.Journal
	Analyzer *analyzer.Analyzer
}

// Close releases all component resources.
func (c *Components) Close() {
	if c.Journal != nil {
		_ = c.Journal.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debugMode bool) (*Components, error) {
	journal, err := storage.NewSQLiteJournal(cfg.Storage.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize journal: %w", err)
	}

	var opts []analyzer.AnalyzerOption
	if debugMode && logger != nil {
		opts = append(opts, analyzer.WithLogger(logger))
	}
	a := analyzer.New(journal, &cfg.Analysis, opts...)

	return &Components{Journal: journal, Analyzer: a}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", configPathDefault(), "path to config file")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug

	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("config loaded",
		zap.String("path", resolvedPath),
		zap.Bool("debug", debugMode))

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()

	exts := cfg.Watch.Extensions
	onAnalyze := func(path string) {
		if _, err := components.Analyzer.SyncFile(watchCtx, path, exts); err != nil {
			logger.Warn("failed to analyze file", zap.String("path", path), zap.Error(err))
		}
	}
	onRemove := func(path string) {
		if err := components.Analyzer.RemoveFile(watchCtx, path); err != nil {
			logger.Warn("failed to remove analysis", zap.String("path", path), zap.Error(err))
		}
	}

	var watchOpts []watcher.WatcherOption
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	w := watcher.NewWatcher(cfg.Watch.Directories, exts, cfg.Watch.RecursiveOrDefault(),
		onAnalyze, onRemove, watchOpts...)
	if err := w.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	w.SyncExistingFiles()

	srv := server.NewServer(components.Analyzer, components.Journal, cfg, logger)
	srv.EnableWatch(w, resolvedPath)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("Failed to stop server", zap.Error(err))
	}
}

func runAnalyze() {
	args := reorderArgs(os.Args[2:])
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", configPathDefault(), "path to config file")
	output := fs.String("output", "text", "output format: text, json, or compact")
	serverURL := fs.String("server", "", "analyze via a running server instead of in-process")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Println("Usage: shikisai analyze [-config path] [-output format] [-server url] <file-or-directory>")
		os.Exit(1)
	}
	target := fs.Arg(0)

	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if *serverURL != "" {
		if info, err := os.Stat(target); err == nil && info.IsDir() {
			fmt.Println("Server mode analyzes a single file; run without -server for directories")
			os.Exit(1)
		}
		analysis, err := analyzeViaHTTP(*serverURL, target)
		if err != nil {
			fmt.Printf("Analysis failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteAnalysis(os.Stdout, target, analysis, format); err != nil {
			fmt.Printf("Failed to write output: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to initialize components: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	info, err := os.Stat(target)
	if err != nil {
		fmt.Printf("Cannot access %s: %v\n", target, err)
		os.Exit(1)
	}

	ctx := context.Background()
	if info.IsDir() {
		result, err := components.Analyzer.AnalyzeDirectory(ctx, target, cfg.Watch.Extensions)
		if err != nil {
			fmt.Printf("Analysis failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Analyzed %d file(s) (%d skipped, %d failed) from %s\n",
			result.Analyzed, result.Skipped, result.Failed, target)
		return
	}

	fileAnalysis, err := components.Analyzer.AnalyzeFile(ctx, target, nil)
	if err != nil {
		fmt.Printf("Analysis failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteAnalysis(os.Stdout, fileAnalysis.SourcePath, fileAnalysis.Analysis, format); err != nil {
		fmt.Printf("Failed to write output: %v\n", err)
		os.Exit(1)
	}
}

// analyzeViaHTTP posts the file's raw bytes to a running server and decodes
// the returned analysis.
func analyzeViaHTTP(serverURL, path string) (*models.Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	resp, err := http.Post(strings.TrimRight(serverURL, "/")+"/api/v1/analyze",
		"application/octet-stream", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to reach server: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var analysis models.Analysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &analysis, nil
}

func runQuery() {
	args := reorderArgs(os.Args[2:])
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(args)

	text := buildQueryText(fs.Args())
	if text == "" {
		fmt.Println("Usage: shikisai query [-output text|json] <text>")
		os.Exit(1)
	}

	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	result := &models.QueryEmbedding{Query: text, Embedding: embedding.EncodeQuery(text)}
	if err := cli.WriteQueryEmbedding(os.Stdout, result, format); err != nil {
		fmt.Printf("Failed to write output: %v\n", err)
		os.Exit(1)
	}
}

func runWatch() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: shikisai watch <add|remove|list> [directory] [-server url]")
		os.Exit(1)
	}
	action := os.Args[2]

	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server base URL")
	_ = fs.Parse(reorderArgs(os.Args[3:]))
	base := strings.TrimRight(*serverURL, "/")

	switch action {
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: shikisai watch add <directory> [-server url]")
			os.Exit(1)
		}
		dir, err := filepath.Abs(fs.Arg(0))
		if err != nil {
			fmt.Printf("Invalid directory: %v\n", err)
			os.Exit(1)
		}
		body, _ := json.Marshal(map[string]interface{}{"path": dir, "scan": true})
		resp, err := http.Post(base+"/api/v1/watch/directories", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Printf("Failed to reach server: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusCreated {
			respBody, _ := io.ReadAll(resp.Body)
			fmt.Printf("Server returned %d: %s\n", resp.StatusCode, strings.TrimSpace(string(respBody)))
			os.Exit(1)
		}
		fmt.Printf("Watching %s\n", dir)

	case "remove":
		if fs.NArg() < 1 {
			fmt.Println("Usage: shikisai watch remove <directory> [-server url]")
			os.Exit(1)
		}
		dir, err := filepath.Abs(fs.Arg(0))
		if err != nil {
			fmt.Printf("Invalid directory: %v\n", err)
			os.Exit(1)
		}
		req, err := http.NewRequest(http.MethodDelete,
			base+"/api/v1/watch/directories?path="+url.QueryEscape(dir), nil)
		if err != nil {
			fmt.Printf("Failed to build request: %v\n", err)
			os.Exit(1)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Printf("Failed to reach server: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(resp.Body)
			fmt.Printf("Server returned %d: %s\n", resp.StatusCode, strings.TrimSpace(string(respBody)))
			os.Exit(1)
		}
		fmt.Printf("Stopped watching %s\n", dir)

	case "list":
		resp, err := http.Get(base + "/api/v1/watch/directories")
		if err != nil {
			fmt.Printf("Failed to reach server: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(resp.Body)
			fmt.Printf("Server returned %d: %s\n", resp.StatusCode, strings.TrimSpace(string(respBody)))
			os.Exit(1)
		}
		var listing struct {
			Directories []string `json:"directories"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
			fmt.Printf("Failed to decode response: %v\n", err)
			os.Exit(1)
		}
		if len(listing.Directories) == 0 {
			fmt.Println("No watched directories")
			return
		}
		for _, dir := range listing.Directories {
			fmt.Println(dir)
		}

	default:
		fmt.Printf("Unknown watch action: %s\n", action)
		fmt.Println("Usage: shikisai watch <add|remove|list> [directory] [-server url]")
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", configPathDefault(), "path to config file")
	serverURL := fs.String("server", "http://localhost:8080", "server base URL; empty reads the journal directly")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if *serverURL != "" {
		if status, err := statusViaHTTP(*serverURL); err == nil {
			status.Source = *serverURL
			if err := cli.WriteStatus(os.Stdout, status, format); err != nil {
				fmt.Printf("Failed to write output: %v\n", err)
				os.Exit(1)
			}
			return
		}
		// Server unreachable; read the journal directly instead.
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	status, err := statusFromJournal(cfg)
	if err != nil {
		fmt.Printf("Failed to read status: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteStatus(os.Stdout, status, format); err != nil {
		fmt.Printf("Failed to write output: %v\n", err)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*cli.Status, error) {
	resp, err := http.Get(strings.TrimRight(serverURL, "/") + "/api/v1/status")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var status cli.Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &status, nil
}

func statusFromJournal(cfg *config.Config) (*cli.Status, error) {
	journal, err := storage.NewSQLiteJournal(cfg.Storage.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() { _ = journal.Close() }()

	count, err := journal.Count(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to count analyses: %w", err)
	}

	dirs := cfg.Watch.Directories
	if dirs == nil {
		dirs = []string{}
	}
	status := &cli.Status{
		AnalyzedFiles:      count,
		WatchedDirectories: dirs,
		Workers:            cfg.Analysis.Workers,
		Source:             "journal",
	}
	if usage, err := storage.DiskUsageBytes(cfg.Storage.JournalPath, cfg.Analysis.ResultsDir); err == nil {
		status.DiskUsageBytes = usage
	}
	return status, nil
}

// reorderArgs moves flags that appear after positional arguments to the
// front so flag.Parse sees them. Users often type the path first.
func reorderArgs(args []string) []string {
	flags := []string{}
	positional := []string{}
	i := 0
	for i < len(args) {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			flags = append(flags, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				flags = append(flags, args[i+1])
				i += 2
				continue
			}
			i++
			continue
		}
		positional = append(positional, arg)
		i++
	}
	return append(flags, positional...)
}

// buildQueryText joins the remaining args into a single query string.
func buildQueryText(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func printUsage() {
	fmt.Printf(`shikisai %s - heuristic image analysis service

Usage:
  shikisai server [-config path] [-debug]
      Start the HTTP server and directory watcher.

  shikisai analyze [-config path] [-output text|json|compact] [-server url] <path>
      Analyze an image file, or every image in a directory.
      With -server, the file is posted to a running instance.

  shikisai query [-output text|json] <text...>
      Encode a text query into the shared embedding space.

  shikisai watch <add|remove|list> [directory] [-server url]
      Manage watched directories on a running server.

  shikisai status [-config path] [-server url] [-output text|json]
      Show analyzed file counts and storage usage. Falls back to
      reading the journal directly when no server is reachable.

  shikisai version
      Print version information.

Configuration:
  Default config path: %s
  A config.yaml in the current directory overrides the default.
  SHIKISAI_CONFIG sets the config path; a .env file is loaded if present.

Examples:
  shikisai server -config ./config.yaml
  shikisai analyze sunset.jpg
  shikisai analyze -output json ~/Pictures
  shikisai query bright blue landscape
  shikisai watch add ~/Pictures/incoming
  shikisai status -server http://localhost:8080
`, version, defaultConfigPath)
}
