package contentstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// DefaultStorageKey names the single record every backend stores the snapshot under.
const DefaultStorageKey = "generatedContent"

// ErrCorruptSnapshot marks a persisted record that exists but cannot be decoded.
// The store starts empty when Load returns it.
var ErrCorruptSnapshot = errors.New("corrupt content snapshot")

// Persister stores the full content map as one record. Keys are serialized
// content keys ("{moduleId}-{type}").
type Persister interface {
	// Load returns an empty map when nothing has been stored yet.
	Load(ctx context.Context) (map[string]string, error)
	// Save replaces the stored record with snapshot.
	Save(ctx context.Context, snapshot map[string]string) error
}

func encodeSnapshot(snapshot map[string]string) ([]byte, error) {
	if snapshot == nil {
		snapshot = map[string]string{}
	}
	b, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode content snapshot: %w", err)
	}
	return b, nil
}

func decodeSnapshot(b []byte) (map[string]string, error) {
	out := map[string]string{}
	if len(b) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return map[string]string{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if out == nil {
		out = map[string]string{}
	}
	return out, nil
}

// MemoryPersister keeps the snapshot in process memory.
type MemoryPersister struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

func NewMemoryPersister() *MemoryPersister { return &MemoryPersister{} }

func (p *MemoryPersister) Load(ctx context.Context) (map[string]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return decodeSnapshot(p.data)
}

func (p *MemoryPersister) Save(ctx context.Context, snapshot map[string]string) error {
	b, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = b
	p.saves++
	return nil
}

// Saves reports how many snapshots have been written.
func (p *MemoryPersister) Saves() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}
