package cache

import (
	"context"
	"errors"
	"testing"
)

// memStore implements Store in memory and records save calls.
type memStore struct {
	entries map[string]Entry
	saves   int
	saveErr error
}

func (s *memStore) Load(ctx context.Context) (map[string]Entry, error) {
	return s.entries, nil
}

func (s *memStore) Save(ctx context.Context, entries map[string]Entry) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.entries = entries
	return nil
}

func TestInsertAndLookup(t *testing.T) {
	store := &memStore{}
	c, err := New(context.Background(), store)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	entry := Entry{ID: "abc123def456", Name: "Sprout", Description: "A tiny plant.", Discovered: true}
	if err := c.Insert(context.Background(), entry); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}

	got, ok := c.Lookup("abc123def456")
	if !ok {
		t.Fatalf("entry not found after insert")
	}
	if got.Name != "Sprout" || got.Description != "A tiny plant." {
		t.Errorf("entry = %+v", got)
	}

	if _, ok := c.Lookup("missing"); ok {
		t.Errorf("lookup of unknown id succeeded")
	}
}

func TestLoadsExistingEntries(t *testing.T) {
	store := &memStore{entries: map[string]Entry{
		"k1": {ID: "k1", Name: "Not possible", Impossible: true},
	}}
	c, err := New(context.Background(), store)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	entry, ok := c.Lookup("k1")
	if !ok || !entry.Impossible {
		t.Fatalf("persisted impossible entry not loaded: %+v ok=%v", entry, ok)
	}
}

func TestMarkDiscovered(t *testing.T) {
	store := &memStore{}
	c, _ := New(context.Background(), store)
	c.Insert(context.Background(), Entry{ID: "k1", Name: "Sprout"})

	entry, err := c.MarkDiscovered(context.Background(), "k1")
	if err != nil {
		t.Fatalf("mark discovered: %v", err)
	}
	if !entry.Discovered {
		t.Errorf("entry not marked discovered")
	}
	if store.saves != 2 {
		t.Errorf("saves = %d, want 2", store.saves)
	}

	// Marking again is a no-op and does not persist.
	if _, err := c.MarkDiscovered(context.Background(), "k1"); err != nil {
		t.Fatalf("second mark: %v", err)
	}
	if store.saves != 2 {
		t.Errorf("saves after no-op = %d, want 2", store.saves)
	}

	if _, err := c.MarkDiscovered(context.Background(), "nope"); err == nil {
		t.Errorf("expected error for unknown id")
	}
}

func TestInsertSurfacesStoreError(t *testing.T) {
	store := &memStore{saveErr: errors.New("disk full")}
	c, _ := New(context.Background(), store)

	err := c.Insert(context.Background(), Entry{ID: "k1"})
	if err == nil {
		t.Fatalf("expected persist error")
	}
}
