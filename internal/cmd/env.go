package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/runger/grimoire/internal/config"
	"github.com/runger/grimoire/internal/frecency"
	glog "github.com/runger/grimoire/internal/log"
	"github.com/runger/grimoire/internal/storage"
)

// env is what every command needs: settings, paths and a logger.
type env struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger

	logFile io.Closer
}

// loadEnv loads the configuration and opens the log. It never fails:
// configuration problems fall back to defaults and are logged, and a log
// file that cannot be opened falls back to stderr.
func loadEnv() *env {
	paths := config.DefaultPaths()
	cfg, cfgErr := config.Load()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	e := &env{cfg: cfg, paths: paths}

	logPath := cfg.Log.File
	if logPath == "" {
		logPath = paths.LogFile()
	}
	logger, closer, err := glog.OpenFile(logPath, cfg.Log.Level)
	if err != nil {
		logger = glog.New(&glog.Config{Output: os.Stderr, Level: glog.ParseLevel(cfg.Log.Level)})
		logger.Warn("failed to open log file, logging to stderr", "path", logPath, "error", err)
	} else {
		e.logFile = closer
	}
	e.logger = logger

	if cfgErr != nil {
		logger.Warn("failed to load config, using defaults", "path", paths.ConfigFile(), "error", cfgErr)
	}
	return e
}

func (e *env) close() {
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}

// statePath returns the file the configured backend persists to.
func (e *env) statePath() string {
	return storage.Path(e.cfg.State.Backend, e.paths.StateDir)
}

// openFrecency opens the configured store and loads the map. The map is
// never nil; load failures are logged and yield whatever could be read.
func (e *env) openFrecency(ctx context.Context) (frecency.Store, frecency.Map) {
	store, err := storage.Open(e.cfg.State.Backend, e.paths.StateDir)
	if err != nil {
		e.logger.Warn("failed to open frecency state", "backend", e.cfg.State.Backend, "error", err)
		return nil, frecency.Map{}
	}
	fm, err := store.Load(ctx)
	if err != nil {
		e.logger.Warn("failed to load frecency state", "path", e.statePath(), "error", err)
	}
	if fm == nil {
		fm = frecency.Map{}
	}
	return store, fm
}
