package cache

import (
	"strings"
	"sync"

	"github.com/cuongdevv/track/internal/state"
	"github.com/cuongdevv/track/internal/trackstat"
)

// MockStore is a mock implementation of the Store interface for testing. It
// behaves as a plain in-memory map without expiry unless spy funcs override
// individual methods.
type MockStore struct {
	mu      sync.Mutex
	entries map[string]trackstat.Envelope

	GetFunc      func(key string) (trackstat.Envelope, bool)
	GetStaleFunc func(key string) (trackstat.Envelope, bool)
	DegradedFunc func() bool

	SetCalls              []string
	InvalidateCalls       []string
	InvalidatePrefixCalls []string
	InvalidateAllCalls    int
	SaveSnapshotCalls     []state.Snapshot

	snapshot    state.Snapshot
	snapshotSet bool
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{entries: make(map[string]trackstat.Envelope)}
}

func (m *MockStore) Set(key string, env trackstat.Envelope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls = append(m.SetCalls, key)
	m.entries[key] = env
}

func (m *MockStore) Get(key string) (trackstat.Envelope, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(key)
	}
	env, ok := m.entries[key]
	return env, ok
}

func (m *MockStore) GetStale(key string) (trackstat.Envelope, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetStaleFunc != nil {
		return m.GetStaleFunc(key)
	}
	env, ok := m.entries[key]
	return env, ok
}

func (m *MockStore) Invalidate(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InvalidateCalls = append(m.InvalidateCalls, key)
	delete(m.entries, key)
}

func (m *MockStore) InvalidatePrefix(prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InvalidatePrefixCalls = append(m.InvalidatePrefixCalls, prefix)
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
}

func (m *MockStore) InvalidateAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InvalidateAllCalls++
	m.entries = make(map[string]trackstat.Envelope)
}

func (m *MockStore) Degraded() bool {
	if m.DegradedFunc != nil {
		return m.DegradedFunc()
	}
	return false
}

func (m *MockStore) SaveSnapshot(snap state.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveSnapshotCalls = append(m.SaveSnapshotCalls, snap)
	m.snapshot = snap
	m.snapshotSet = true
	return nil
}

func (m *MockStore) LoadSnapshot() (state.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot, m.snapshotSet
}
