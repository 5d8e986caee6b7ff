// Package app wires the configured key-value backend to the repositories
// and services.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/atinyakov/ShopKeeper/internal/config"
	"github.com/atinyakov/ShopKeeper/internal/db"
	"github.com/atinyakov/ShopKeeper/internal/kv"
	"github.com/atinyakov/ShopKeeper/internal/repository"
	"github.com/atinyakov/ShopKeeper/internal/service"
	"go.uber.org/zap"
)

const (
	cleanerInterval  = time.Hour
	cleanerRetention = 30 * 24 * time.Hour
)

// App holds the application's dependencies.
type App struct {
	Store kv.Store
	Auth  *service.AuthService
	Lists *service.ListService

	sqlDB   *sql.DB
	dialect db.Dialect
	log     *zap.Logger
}

// New opens the backend selected by opts and builds the services on top of it.
func New(opts *config.Options, log *zap.Logger) (*App, error) {
	a := &App{log: log}

	switch opts.Storage {
	case config.StorageMemory:
		a.Store = kv.NewMemory()
	case config.StorageFile:
		f, err := kv.OpenFile(opts.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		a.Store = f
	case config.StorageSQLite:
		conn, err := db.InitSQLite(opts.StoragePath)
		if err != nil {
			return nil, err
		}
		a.sqlDB, a.dialect = conn, db.SQLite
		a.Store = kv.NewSQLiteStore(conn)
	case config.StoragePostgres:
		conn, err := db.InitPostgres(opts.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		a.sqlDB, a.dialect = conn, db.Postgres
		a.Store = kv.NewPostgresStore(conn)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Storage)
	}

	a.Auth = service.NewAuthService(repository.NewKVAuthRepository(a.Store, log))
	a.Lists = service.NewListService(repository.NewKVListRepository(a.Store, log))

	log.Info("storage ready", zap.String("backend", opts.Storage))
	return a, nil
}

// StartHousekeeping starts the empty-namespace cleaner for SQL backends.
// It is a no-op for the memory and file backends.
func (a *App) StartHousekeeping(ctx context.Context) {
	if a.sqlDB == nil {
		return
	}
	db.StartEmptyListsCleaner(ctx, a.sqlDB, a.dialect, cleanerInterval, cleanerRetention, a.log)
}

// Close releases the database connection, if any.
func (a *App) Close() error {
	if a.sqlDB == nil {
		return nil
	}
	return a.sqlDB.Close()
}
