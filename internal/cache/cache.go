// Package cache holds the content-addressed memo of crafting outcomes.
// Entries are shared across all matches and outlive any single match.
package cache

import (
	"context"
	"fmt"
	"sync"
)

// Entry is one memoized crafting outcome, keyed by the combination's
// content address. Impossible entries record verdicts so repeated
// attempts never reach the Oracle again.
type Entry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImagePath   string `json:"image_path"`
	ID          string `json:"id"`
	Discovered  bool   `json:"discovered"`
	Impossible  bool   `json:"impossible"`
}

// Store persists the whole cache as a single document.
type Store interface {
	Load(ctx context.Context) (map[string]Entry, error)
	Save(ctx context.Context, entries map[string]Entry) error
}

// CraftCache is the process-wide crafting memo. It is safe for
// concurrent use and writes through to its Store on every mutation.
type CraftCache struct {
	mu      sync.Mutex
	entries map[string]Entry
	store   Store
}

// New loads the persisted cache through the given store.
func New(ctx context.Context, store Store) (*CraftCache, error) {
	entries, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load craft cache: %w", err)
	}
	if entries == nil {
		entries = make(map[string]Entry)
	}
	return &CraftCache{entries: entries, store: store}, nil
}

// Lookup returns the entry for a combination id, if memoized.
func (c *CraftCache) Lookup(id string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[id]
	return entry, ok
}

// Insert memoizes an outcome and persists the cache. Inserts are
// idempotent: concurrent misses for the same combination write
// equivalent values.
func (c *CraftCache) Insert(ctx context.Context, entry Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entry.ID] = entry
	return c.persistLocked(ctx)
}

// MarkDiscovered flips the discovered flag on an existing entry and
// persists. It returns the updated entry.
func (c *CraftCache) MarkDiscovered(ctx context.Context, id string) (Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[id]
	if !ok {
		return Entry{}, fmt.Errorf("no cache entry for id %s", id)
	}
	if entry.Discovered {
		return entry, nil
	}
	entry.Discovered = true
	c.entries[id] = entry
	if err := c.persistLocked(ctx); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Len returns the number of memoized combinations.
func (c *CraftCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *CraftCache) persistLocked(ctx context.Context) error {
	snapshot := make(map[string]Entry, len(c.entries))
	for k, v := range c.entries {
		snapshot[k] = v
	}
	if err := c.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to persist craft cache: %w", err)
	}
	return nil
}
