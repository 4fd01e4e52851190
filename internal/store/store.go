package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned by a Backend when a collection was never saved.
var ErrNotFound = errors.New("collection not found")

// Backend persists named collections as opaque JSON payloads. Each Save
// replaces the whole collection.
type Backend interface {
	Load(ctx context.Context, collection string) ([]byte, error)
	Save(ctx context.Context, collection string, payload []byte) error
}

// Bucket is a typed collection stored as a single document. Reads return
// copies; writes replace the stored slice wholesale.
type Bucket[T any] struct {
	backend Backend
	name    string
	seed    func() []T

	mu sync.Mutex
}

// NewBucket binds a collection name to a backend. seed supplies the initial
// records when the backend has none; it may be nil.
func NewBucket[T any](backend Backend, name string, seed func() []T) *Bucket[T] {
	return &Bucket[T]{backend: backend, name: name, seed: seed}
}

// Name returns the collection name.
func (b *Bucket[T]) Name() string { return b.name }

// All returns every record in the collection.
func (b *Bucket[T]) All(ctx context.Context) ([]T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.load(ctx)
}

// Replace stores items as the whole collection.
func (b *Bucket[T]) Replace(ctx context.Context, items []T) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.save(ctx, items)
}

// Update loads the collection, lets fn build its replacement and stores the
// result. Nothing is written when fn fails. Concurrent updates of the same
// bucket are serialised.
func (b *Bucket[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) ([]T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	current, err := b.load(ctx)
	if err != nil {
		return nil, err
	}
	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if err := b.save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (b *Bucket[T]) load(ctx context.Context) ([]T, error) {
	payload, err := b.backend.Load(ctx, b.name)
	if errors.Is(err, ErrNotFound) {
		if b.seed == nil {
			return []T{}, nil
		}
		return b.seed(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", b.name, err)
	}
	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", b.name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (b *Bucket[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", b.name, err)
	}
	if err := b.backend.Save(ctx, b.name, payload); err != nil {
		return fmt.Errorf("save %s: %w", b.name, err)
	}
	return nil
}

// Memory keeps collections in process memory.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, collection string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payload, ok := m.data[collection]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), payload...), nil
}

func (m *Memory) Save(_ context.Context, collection string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[collection] = append([]byte(nil), payload...)
	return nil
}
