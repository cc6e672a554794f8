package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	fetches          int
	fetchFailures    int
	cacheHits        int
	cacheMisses      int
	cacheFallbacks   int
	droppedFetches   int
	fetchDurations   []float64
	playersDeleted   int
	accountsExported int
	notifSent        int
	notifFailed      int
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		fetchDurations: make([]float64, 0),
	}
}

func (m *Mock) IncFetches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
}

func (m *Mock) IncFetchFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchFailures++
}

func (m *Mock) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheHits++
}

func (m *Mock) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheMisses++
}

func (m *Mock) IncCacheFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheFallbacks++
}

func (m *Mock) IncDroppedFetches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.droppedFetches++
}

func (m *Mock) ObserveFetchDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchDurations = append(m.fetchDurations, duration)
}

func (m *Mock) AddPlayersDeleted(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playersDeleted += n
}

func (m *Mock) AddAccountsExported(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accountsExported += n
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifSent++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// Fetches returns the number of times IncFetches was called.
func (m *Mock) Fetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches
}

// CacheHits returns the number of times IncCacheHits was called.
func (m *Mock) CacheHits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cacheHits
}

// CacheMisses returns the number of times IncCacheMisses was called.
func (m *Mock) CacheMisses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cacheMisses
}

// CacheFallbacks returns the number of times IncCacheFallbacks was called.
func (m *Mock) CacheFallbacks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cacheFallbacks
}

// DroppedFetches returns the number of times IncDroppedFetches was called.
func (m *Mock) DroppedFetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.droppedFetches
}

// PlayersDeleted returns the accumulated deleted-player count.
func (m *Mock) PlayersDeleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playersDeleted
}

// AccountsExported returns the accumulated exported-account count.
func (m *Mock) AccountsExported() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accountsExported
}

// NotifSent returns the number of times IncNotifSent was called.
func (m *Mock) NotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifSent
}

// NotifFailed returns the number of times IncNotifFailed was called.
func (m *Mock) NotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifFailed
}
