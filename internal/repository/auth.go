package repository

import (
	"context"

	"github.com/atinyakov/ShopKeeper/internal/kv"
	"github.com/atinyakov/ShopKeeper/internal/models"
	"go.uber.org/zap"
)

const (
	// SessionKey holds the public record of the active user.
	SessionKey = "user"
	// RegisteredUsersKey holds the whole registered-user table.
	RegisteredUsersKey = "registered_users"
)

// KVAuthRepository persists the registered-user table and the active session.
type KVAuthRepository struct {
	// Store is the key-value port everything is written to.
	Store kv.Store
	log   *zap.Logger
}

// NewKVAuthRepository creates a KVAuthRepository over store.
// A nil logger disables logging.
func NewKVAuthRepository(store kv.Store, log *zap.Logger) *KVAuthRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &KVAuthRepository{Store: store, log: log}
}

// RegisteredUsers returns the registered-user table in insertion order.
// An absent or corrupt table reads as empty.
func (r *KVAuthRepository) RegisteredUsers(ctx context.Context) []models.StoredUser {
	var users []models.StoredUser
	if !readJSON(ctx, r.Store, r.log, RegisteredUsersKey, &users) || users == nil {
		return []models.StoredUser{}
	}
	return users
}

// SaveRegisteredUsers rewrites the whole registered-user table.
func (r *KVAuthRepository) SaveRegisteredUsers(ctx context.Context, users []models.StoredUser) {
	writeJSON(ctx, r.Store, r.log, RegisteredUsersKey, users)
}

// ActiveSession returns the persisted session user, or nil when there is none,
// it cannot be parsed or it holds no user id (a stored null included).
func (r *KVAuthRepository) ActiveSession(ctx context.Context) *models.User {
	var u *models.User
	if !readJSON(ctx, r.Store, r.log, SessionKey, &u) || u == nil || u.ID == "" {
		return nil
	}
	return u
}

// SaveSession persists u as the active session.
func (r *KVAuthRepository) SaveSession(ctx context.Context, u models.User) {
	writeJSON(ctx, r.Store, r.log, SessionKey, u)
}

// ClearSession removes the active session record.
func (r *KVAuthRepository) ClearSession(ctx context.Context) {
	if err := r.Store.Remove(ctx, SessionKey); err != nil {
		r.log.Error("failed to clear session", zap.Error(&StorageError{Kind: StorageWriteError, Key: SessionKey, Err: err}))
	}
}
