package cliutils

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lexcodex/bonebudget/cmd/internal/workspacecfg"
	"github.com/lexcodex/bonebudget/framework"
	"github.com/lexcodex/bonebudget/persistence"
)

// NewLogger builds the CLI logger. Debug lowers the level and adds caller
// information.
func NewLogger(w io.Writer, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "bonebudget",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportCaller(true)
	}
	return logger
}

// LoadThresholds returns the stock tables plus any tables from path.
func LoadThresholds(path string) (*framework.ThresholdSet, error) {
	set := framework.DefaultThresholds()
	if path == "" {
		return set, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := set.Load(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// OpenStore opens the report store configured for the workspace. It returns
// nil when the store is disabled.
func OpenStore(cfg *workspacecfg.WorkspaceConfig) (persistence.ReportStore, error) {
	switch cfg.Store {
	case workspacecfg.StoreNone:
		return nil, nil
	case workspacecfg.StoreSQLite:
		path := cfg.ReportStorePath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		store, err := persistence.NewSQLiteReportStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		store, err := persistence.NewFileReportStore(cfg.ReportStorePath())
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

// NewTelemetry routes estimator events to the logger and, when path is set,
// to a JSON lines file. The returned close function is never nil.
func NewTelemetry(logger *log.Logger, path string) (framework.Telemetry, func() error, error) {
	sinks := []framework.Telemetry{framework.LogTelemetry{Logger: logger}}
	closeFn := func() error { return nil }
	if path != "" {
		file, err := framework.NewJSONFileTelemetry(path)
		if err != nil {
			return nil, closeFn, err
		}
		sinks = append(sinks, file)
		closeFn = file.Close
	}
	return framework.MultiplexTelemetry{Sinks: sinks}, closeFn, nil
}

// LoadedScene pairs a parsed document with its estimation request.
type LoadedScene struct {
	Path     string
	Document *persistence.SceneDocument
	Request  framework.EstimateRequest
}

// LoadScenes parses and builds every path concurrently. Results keep the
// order of paths; the first failure cancels the rest.
func LoadScenes(ctx context.Context, paths []string, parallel int) ([]LoadedScene, error) {
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}
	scenes := make([]LoadedScene, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			doc, err := persistence.LoadSceneDocument(path)
			if err != nil {
				return err
			}
			req, err := doc.Build()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			scenes[i] = LoadedScene{Path: path, Document: doc, Request: req}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scenes, nil
}
