package trackstat

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of the Client interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	GetLatestFunc        func(params *LatestParams) (Envelope, error)
	DeletePlayerFunc     func(playerName string) (DeleteResult, error)
	GetAccountsFunc      func(page, pageSize int) (AccountsPage, error)
	GetAccountCookieFunc func(username string) (string, error)
	ImportAccountsFunc   func(lines string) (ImportResult, error)
	ProbeFunc            func() error

	// Call records
	GetLatestCalls        []LatestParams
	DeletePlayerCalls     []string
	GetAccountCookieCalls []string
	ImportAccountsCalls   []string
	SetSessionCookieCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *MockClient {
	return &MockClient{}
}

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetLatestCalls = nil
	m.DeletePlayerCalls = nil
	m.GetAccountCookieCalls = nil
	m.ImportAccountsCalls = nil
}

func (m *MockClient) GetLatest(_ context.Context, params *LatestParams) (Envelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetLatestCalls = append(m.GetLatestCalls, *params)
	if m.GetLatestFunc != nil {
		return m.GetLatestFunc(params)
	}
	return Envelope{Pagination: PageMeta{Page: params.Page, TotalPages: 1}}, nil
}

func (m *MockClient) DeletePlayer(_ context.Context, playerName string) (DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeletePlayerCalls = append(m.DeletePlayerCalls, playerName)
	if m.DeletePlayerFunc != nil {
		return m.DeletePlayerFunc(playerName)
	}
	return DeleteResult{Success: true, DeletedCount: 1}, nil
}

func (m *MockClient) GetAccounts(_ context.Context, page, pageSize int) (AccountsPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAccountsFunc != nil {
		return m.GetAccountsFunc(page, pageSize)
	}
	return AccountsPage{Pagination: PageMeta{Page: page, TotalPages: 1}}, nil
}

func (m *MockClient) GetAccountCookie(_ context.Context, username string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetAccountCookieCalls = append(m.GetAccountCookieCalls, username)
	if m.GetAccountCookieFunc != nil {
		return m.GetAccountCookieFunc(username)
	}
	return "", nil
}

func (m *MockClient) ImportAccounts(_ context.Context, lines string) (ImportResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImportAccountsCalls = append(m.ImportAccountsCalls, lines)
	if m.ImportAccountsFunc != nil {
		return m.ImportAccountsFunc(lines)
	}
	return ImportResult{Success: true}, nil
}

func (m *MockClient) SetSessionCookie(cookie string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetSessionCookieCalls = append(m.SetSessionCookieCalls, cookie)
}

func (m *MockClient) Probe(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ProbeFunc != nil {
		return m.ProbeFunc()
	}
	return nil
}
