package notifier

// Noop is a Notifier that silently discards every summary. It is used when
// no notification provider is configured.
type Noop struct{}

// NewNoop creates a new no-op notifier.
func NewNoop() Noop {
	return Noop{}
}

func (Noop) SendDeleteSummary(DeleteSummary, bool) error { return nil }
func (Noop) SendExportSummary(ExportSummary, bool) error { return nil }
func (Noop) SendImportSummary(ImportSummary, bool) error { return nil }
