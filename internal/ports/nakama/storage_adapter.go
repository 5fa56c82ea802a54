package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"forgeboard/internal/cache"
)

const (
	storageCollection = "forgeboard"
	craftCacheKey     = "craft-cache"
)

// StorageReadWriter is the slice of runtime.NakamaModule the craft
// cache store needs.
type StorageReadWriter interface {
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
}

// StorageCacheStore persists the craft cache as a single system-owned
// storage object, implementing cache.Store.
type StorageCacheStore struct {
	nk StorageReadWriter
}

// NewStorageCacheStore creates a cache store over Nakama storage.
func NewStorageCacheStore(nk StorageReadWriter) *StorageCacheStore {
	return &StorageCacheStore{nk: nk}
}

// Load reads the cache document. A missing document is an empty cache.
func (s *StorageCacheStore) Load(ctx context.Context) (map[string]cache.Entry, error) {
	objects, err := s.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: storageCollection,
		Key:        craftCacheKey,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to read craft cache storage: %w", err)
	}
	if len(objects) == 0 {
		return map[string]cache.Entry{}, nil
	}

	var entries map[string]cache.Entry
	if err := json.Unmarshal([]byte(objects[0].Value), &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal craft cache: %w", err)
	}
	return entries, nil
}

// Save writes the whole cache document back.
func (s *StorageCacheStore) Save(ctx context.Context, entries map[string]cache.Entry) error {
	value, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal craft cache: %w", err)
	}
	_, err = s.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      storageCollection,
		Key:             craftCacheKey,
		Value:           string(value),
		PermissionRead:  0,
		PermissionWrite: 0,
	}})
	if err != nil {
		return fmt.Errorf("failed to write craft cache storage: %w", err)
	}
	return nil
}
