package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ListsKeyPattern matches every shopping-list namespace key.
const ListsKeyPattern = "shopping-lists%"

func cleanQuery(d Dialect) string {
	return fmt.Sprintf(`
                    DELETE FROM kv
                     WHERE key LIKE %s
                       AND value = '[]'
                       AND updated_at < %s
                `, d.Placeholder(1), d.Placeholder(2))
}

// StartEmptyListsCleaner removes list namespaces that have held an empty
// collection for longer than retention. It runs every interval until ctx is done.
func StartEmptyListsCleaner(
	ctx context.Context,
	db *sql.DB,
	dialect Dialect,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	query := cleanQuery(dialect)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention).Unix()
				res, err := db.ExecContext(ctx, query, ListsKeyPattern, cutoff)
				if err != nil {
					log.Error("failed to clean empty list namespaces", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned empty list namespaces", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
