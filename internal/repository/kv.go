// Package repository maps users, sessions and shopping lists onto the
// key-value store. Storage failures are logged and degrade to empty results.
package repository

import (
	"context"
	"encoding/json"

	"github.com/atinyakov/ShopKeeper/internal/kv"
	"go.uber.org/zap"
)

// readJSON decodes the value under key into dst. It reports false when the key
// is absent, unreadable or undecodable; the last two are logged.
func readJSON(ctx context.Context, store kv.Store, log *zap.Logger, key string, dst any) bool {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		log.Warn("failed to read from store", zap.Error(&StorageError{Kind: StorageReadError, Key: key, Err: err}))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		log.Warn("discarding unparsable stored value", zap.Error(&StorageError{Kind: StorageReadError, Key: key, Err: err}))
		return false
	}
	return true
}

// writeJSON replaces the value under key with the JSON encoding of v.
// A failed write is logged and lost.
func writeJSON(ctx context.Context, store kv.Store, log *zap.Logger, key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error("failed to encode value", zap.Error(&StorageError{Kind: StorageWriteError, Key: key, Err: err}))
		return false
	}
	if err := store.Set(ctx, key, string(data)); err != nil {
		log.Error("failed to write to store", zap.Error(&StorageError{Kind: StorageWriteError, Key: key, Err: err}))
		return false
	}
	return true
}
