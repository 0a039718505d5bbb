// Package store provides Backend implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/hr-records/generic"
)

// =============================================================================
// MEMORY BACKEND - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	seq   int
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

// Blob returns the named list. Lists spring into existence on first write.
func (m *Memory) Blob(name string) generic.Blob {
	return &memoryBlob{parent: m, name: name}
}

// Put seeds raw bytes under name, bypassing any encoding. Tests use it to
// plant corrupt or hand-written data.
func (m *Memory) Put(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[name] = append([]byte(nil), data...)
}

// Bytes returns a copy of what is stored under name.
func (m *Memory) Bytes(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[name]
	return append([]byte(nil), data...), ok
}

// Names lists every stored name, sorted.
func (m *Memory) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.blobs))
	for name := range m.blobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type memoryBlob struct {
	parent *Memory
	name   string
}

func (b *memoryBlob) Name() string { return b.name }

func (b *memoryBlob) Read(_ context.Context) ([]byte, error) {
	b.parent.mu.RLock()
	defer b.parent.mu.RUnlock()
	data, ok := b.parent.blobs[b.name]
	if !ok {
		return nil, generic.ErrBlobNotFound
	}
	return append([]byte(nil), data...), nil
}

func (b *memoryBlob) Write(_ context.Context, data []byte) error {
	b.parent.mu.Lock()
	defer b.parent.mu.Unlock()
	b.parent.blobs[b.name] = append([]byte(nil), data...)
	return nil
}

func (b *memoryBlob) Quarantine(_ context.Context) (string, error) {
	b.parent.mu.Lock()
	defer b.parent.mu.Unlock()
	data, ok := b.parent.blobs[b.name]
	if !ok {
		return "", generic.ErrBlobNotFound
	}
	b.parent.seq++
	target := fmt.Sprintf("%s.corrupt-%d", b.name, b.parent.seq)
	b.parent.blobs[target] = data
	delete(b.parent.blobs, b.name)
	return target, nil
}
