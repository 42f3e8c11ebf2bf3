package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/abelbrown/pokedex/internal/catalog"
	"github.com/abelbrown/pokedex/internal/config"
	"github.com/abelbrown/pokedex/internal/favorites"
	"github.com/abelbrown/pokedex/internal/logging"
	"github.com/abelbrown/pokedex/internal/otel"
	"github.com/abelbrown/pokedex/internal/query"
	"github.com/abelbrown/pokedex/internal/store"
)

// env holds the components shared by the TUI and the headless commands.
type env struct {
	cfg    *config.Config
	log    *slog.Logger
	events *otel.Logger
	ring   *otel.RingBuffer
	store  *store.Store
	favs   *favorites.Store
	client *catalog.Client
	cache  *query.Cache

	eventFile io.Closer
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(resolvedConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// setup builds the env. stderr receives console diagnostics; the TUI
// passes io.Discard so nothing scribbles over the alternate screen.
func setup(stderr io.Writer) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Writer: stderr,
		Level:  cfg.Log.Level,
		JSON:   jsonOutput,
		Color:  logging.IsTerminal(os.Stderr),
	})
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, log: logger}

	e.events, e.eventFile = openEventLog(cfg.Log.EventPath, logger)
	e.ring = otel.NewRingBuffer(otel.DefaultRingSize)
	e.events.SetRingBuffer(e.ring)

	e.store, err = store.Open(cfg.Storage.DBPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Debug("store opened", "path", cfg.Storage.DBPath)

	e.favs = favorites.New(e.store, e.events)
	e.client = catalog.NewClient(cfg.Catalog.BaseURL,
		catalog.WithTimeout(cfg.Catalog.Timeout.Std()),
		catalog.WithRateLimit(cfg.Catalog.RequestsPerSec),
		catalog.WithLogger(e.events),
	)
	e.cache = query.New(cfg.Catalog.StaleAfter.Std(), e.events)
	return e, nil
}

// openEventLog appends to the JSONL event log. A log that cannot be opened
// is not fatal; events are discarded instead.
func openEventLog(path string, logger *slog.Logger) (*otel.Logger, io.Closer) {
	if path == "" {
		return otel.NewNullLogger(), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Warn("event log disabled", logging.Err(err))
		return otel.NewNullLogger(), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logger.Warn("event log disabled", logging.Err(err))
		return otel.NewNullLogger(), nil
	}
	return otel.NewLogger(f), f
}

// Close flushes the event log and releases the database.
func (e *env) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.log.Error("store close error", logging.Err(err))
		}
	}
	if e.events != nil {
		e.events.Close()
	}
	if e.eventFile != nil {
		e.eventFile.Close()
	}
}
