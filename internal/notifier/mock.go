package notifier

import "sync"

// DeleteSummaryCall records one SendDeleteSummary invocation.
type DeleteSummaryCall struct {
	DeleteSummary
	DryRun bool
}

// ExportSummaryCall records one SendExportSummary invocation.
type ExportSummaryCall struct {
	ExportSummary
	DryRun bool
}

// ImportSummaryCall records one SendImportSummary invocation.
type ImportSummaryCall struct {
	ImportSummary
	DryRun bool
}

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendDeleteSummaryFunc func(summary DeleteSummary) error
	SendExportSummaryFunc func(summary ExportSummary) error
	SendImportSummaryFunc func(summary ImportSummary) error

	// Call records
	SendDeleteSummaryCalls []DeleteSummaryCall
	SendExportSummaryCalls []ExportSummaryCall
	SendImportSummaryCalls []ImportSummaryCall
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendDeleteSummaryCalls = nil
	m.SendExportSummaryCalls = nil
	m.SendImportSummaryCalls = nil
}

func (m *Mock) SendDeleteSummary(summary DeleteSummary, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendDeleteSummaryCalls = append(m.SendDeleteSummaryCalls, DeleteSummaryCall{DeleteSummary: summary, DryRun: dryRun})
	if m.SendDeleteSummaryFunc != nil {
		return m.SendDeleteSummaryFunc(summary)
	}
	return nil
}

func (m *Mock) SendExportSummary(summary ExportSummary, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendExportSummaryCalls = append(m.SendExportSummaryCalls, ExportSummaryCall{ExportSummary: summary, DryRun: dryRun})
	if m.SendExportSummaryFunc != nil {
		return m.SendExportSummaryFunc(summary)
	}
	return nil
}

func (m *Mock) SendImportSummary(summary ImportSummary, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendImportSummaryCalls = append(m.SendImportSummaryCalls, ImportSummaryCall{ImportSummary: summary, DryRun: dryRun})
	if m.SendImportSummaryFunc != nil {
		return m.SendImportSummaryFunc(summary)
	}
	return nil
}
