package kv

import (
	"context"
	"slices"
	"sync"
)

type Memory struct {
	mu      sync.Mutex
	entries map[string]Entry
	gone    map[string]int64 // last version of deleted keys
}

func NewMemory() *Memory { return &Memory{entries: map[string]Entry{}, gone: map[string]int64{}} }

func (m *Memory) Get(_ context.Context, key string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return Entry{Value: slices.Clone(e.Value), Version: e.Version}, nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte, expectVersion int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := m.entries[key].Version
	if cur != expectVersion {
		return cur, ErrVersionConflict
	}
	next := max(cur, m.gone[key]) + 1
	m.entries[key] = Entry{Value: slices.Clone(value), Version: next}
	return next, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok {
		m.gone[key] = e.Version
		delete(m.entries, key)
	}
	return nil
}

func (m *Memory) Close() error { return nil }
