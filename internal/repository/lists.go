package repository

import (
	"context"

	"github.com/atinyakov/ShopKeeper/internal/kv"
	"github.com/atinyakov/ShopKeeper/internal/models"
	"go.uber.org/zap"
)

// ListsKeyPrefix is the key of the anonymous namespace and the prefix of
// every per-user namespace.
const ListsKeyPrefix = "shopping-lists"

// ListsKey returns the key holding the lists of userID. An empty userID maps
// to the shared anonymous namespace.
func ListsKey(userID string) string {
	if userID == "" {
		return ListsKeyPrefix
	}
	return ListsKeyPrefix + "-" + userID
}

// KVListRepository persists shopping lists, one serialized collection per namespace.
type KVListRepository struct {
	// Store is the key-value port everything is written to.
	Store kv.Store
	log   *zap.Logger
}

// NewKVListRepository creates a KVListRepository over store.
// A nil logger disables logging.
func NewKVListRepository(store kv.Store, log *zap.Logger) *KVListRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &KVListRepository{Store: store, log: log}
}

// Lists returns every list of the namespace in stored order.
// An absent or corrupt collection reads as empty.
func (r *KVListRepository) Lists(ctx context.Context, userID string) []models.ShoppingList {
	var lists []models.ShoppingList
	if !readJSON(ctx, r.Store, r.log, ListsKey(userID), &lists) || lists == nil {
		return []models.ShoppingList{}
	}
	for i := range lists {
		if lists[i].Items == nil {
			lists[i].Items = []models.ShoppingListItem{}
		}
	}
	return lists
}

// SaveLists rewrites the whole collection of the namespace.
func (r *KVListRepository) SaveLists(ctx context.Context, userID string, lists []models.ShoppingList) {
	writeJSON(ctx, r.Store, r.log, ListsKey(userID), lists)
}
