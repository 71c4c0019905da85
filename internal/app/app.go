// Package app wires the workspace together: it discovers crate roots,
// runs parse and analysis, keeps the symbol index in sync, and exposes
// the query service over the latest snapshot.
package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"lodestar/internal/config"
	"lodestar/internal/core/errors"
	"lodestar/internal/ide"
	"lodestar/internal/index"
	"lodestar/internal/semantics"
	"lodestar/internal/shared/observability"
	"lodestar/internal/shared/util"
)

type App struct {
	Config *config.Config

	store   *index.Store
	limiter *util.Limiter
	logger  *slog.Logger

	mu  sync.RWMutex
	db  *semantics.DB
	svc *ide.Service
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var store *index.Store
	if cfg.IndexPath != "" {
		key, err := workspaceKey(cfg)
		if err != nil {
			return nil, err
		}
		store, err = index.Open(cfg.IndexPath, key)
		if err != nil {
			return nil, err
		}
	}

	return &App{
		Config:  cfg,
		store:   store,
		limiter: util.NewLimiter(cfg.Watch.RescansPerSecond, 1),
		logger:  logger,
	}, nil
}

// workspaceKey derives a stable identity for this workspace so several
// workspaces can share one index file.
func workspaceKey(cfg *config.Config) (string, error) {
	root := "."
	if len(cfg.WatchPaths) > 0 {
		root = cfg.WatchPaths[0]
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeValidationError, "resolve workspace root")
	}
	return abs, nil
}

// Rebuild analyzes every discovered crate from scratch and swaps the
// snapshot in. The previous snapshot stays queryable until the swap.
func (a *App) Rebuild(ctx context.Context) error {
	start := time.Now()

	crates, err := a.discoverCrates()
	if err != nil {
		return err
	}
	if len(crates) == 0 {
		return errors.New(errors.CodeNotFound, "no crate roots found")
	}

	db := semantics.NewDB()
	for _, name := range util.SortedStringKeys(crates) {
		path := crates[name]
		source, err := os.ReadFile(path)
		if err != nil {
			db.Close()
			return errors.AddContext(
				errors.Wrap(err, errors.CodeInternal, "read crate root"),
				errors.CtxPath, path)
		}
		if err := db.AddCrate(name, source); err != nil {
			db.Close()
			return errors.AddContext(
				errors.Wrap(err, errors.CodeParseError, "analyze crate"),
				errors.CtxCrate, name)
		}
	}

	if a.store != nil {
		for _, name := range util.SortedStringKeys(crates) {
			if err := a.syncCrate(db, name, crates[name]); err != nil {
				a.logger.Warn("index sync failed", "crate", name, "error", err)
			}
		}
	}

	a.mu.Lock()
	old := a.db
	a.db = db
	a.svc = ide.NewService(db, a.store, a.logger)
	a.mu.Unlock()
	if old != nil {
		old.Close()
	}

	observability.AnalyzeDuration.Observe(time.Since(start).Seconds())
	a.logger.Info("workspace analyzed",
		"crates", len(crates),
		"elapsed", time.Since(start))
	return nil
}

func (a *App) syncCrate(db *semantics.DB, crate, path string) error {
	symbols := db.CrateSymbols(crate)
	records := make([]index.SymbolRecord, 0, len(symbols))
	for _, sym := range symbols {
		records = append(records, index.SymbolRecord{
			Crate:      crate,
			ModulePath: sym.ModulePath,
			Name:       sym.Name,
			Kind:       sym.Kind,
			Visibility: sym.Visibility.String(),
			FilePath:   path,
			Line:       sym.Line,
			Column:     sym.Column,
		})
	}
	return a.store.ReplaceCrate(crate, records)
}

// Service returns the query service over the latest snapshot, or false
// before the first successful Rebuild.
func (a *App) Service() (*ide.Service, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.svc, a.svc != nil
}

func (a *App) DefinitionsAt(ctx context.Context, crate string, offset uint) (ide.Result, error) {
	svc, ok := a.Service()
	if !ok {
		return ide.Result{}, errors.New(errors.CodeInternal, "workspace not analyzed yet")
	}
	return svc.DefinitionsAt(ctx, crate, offset)
}

func (a *App) Symbols(ctx context.Context, name string) ([]index.SymbolRecord, error) {
	svc, ok := a.Service()
	if !ok {
		return nil, errors.New(errors.CodeInternal, "workspace not analyzed yet")
	}
	return svc.Symbols(ctx, name)
}

func (a *App) Close() error {
	a.mu.Lock()
	if a.db != nil {
		a.db.Close()
		a.db = nil
		a.svc = nil
	}
	a.mu.Unlock()

	if a.store != nil {
		return a.store.Close()
	}
	return nil
}
