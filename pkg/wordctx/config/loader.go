package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cognicore/wordctx/internal/logging"
	"github.com/cognicore/wordctx/pkg/wordctx"
	"github.com/cognicore/wordctx/pkg/wordctx/store"
	"github.com/cognicore/wordctx/pkg/wordctx/store/memstore"
	"github.com/cognicore/wordctx/pkg/wordctx/store/postgres"
	"github.com/cognicore/wordctx/pkg/wordctx/store/sqlite"
)

// Loader turns a Config into running components
type Loader struct {
	Config Config
	// Logger overrides the logger built from Config.Log
	Logger *slog.Logger
}

// OpenStore connects to the configured aggregate store
func (l *Loader) OpenStore(ctx context.Context) (store.Store, error) {
	cfg := l.Config.Store
	switch cfg.Driver {
	case DriverMemory:
		return memstore.New(), nil
	case DriverSQLite:
		st, err := sqlite.OpenSQLite(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return st, nil
	case DriverPostgres:
		st, err := postgres.Open(ctx, cfg.DSN, postgres.Options{Bootstrap: cfg.Bootstrap})
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// NewLogger returns the override logger or builds one from Config.Log
func (l *Loader) NewLogger() (*slog.Logger, error) {
	if l.Logger != nil {
		return l.Logger, nil
	}
	return logging.New(l.Config.Log.Level, l.Config.Log.Format)
}

// Engine opens the store and wires an engine around it. The engine owns
// the store; close it with Engine.Close.
func (l *Loader) Engine(ctx context.Context) (*wordctx.Engine, error) {
	logger, err := l.NewLogger()
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	st, err := l.OpenStore(ctx)
	if err != nil {
		return nil, err
	}

	eng, err := wordctx.New(wordctx.Options{
		Store:          st,
		Range:          l.Config.Window.Range,
		Concurrency:    l.Config.Ingest.Concurrency,
		PairsPerSecond: l.Config.Ingest.PairsPerSecond,
		CacheSize:      l.Config.Recognize.CacheSize,
		Logger:         logger,
	})
	if err != nil {
		st.Close()
		return nil, err
	}
	logger.Debug("engine ready", "driver", l.Config.Store.Driver, "range", l.Config.Window.Range)
	return eng, nil
}
