package notifier

// Notifier defines a high-level interface for announcing the outcome of bulk
// operations. This decouples the rest of the application from the specific
// notification provider (e.g., Slack).
type Notifier interface {
	SendDeleteSummary(summary DeleteSummary, dryRun bool) error
	SendExportSummary(summary ExportSummary, dryRun bool) error
	SendImportSummary(summary ImportSummary, dryRun bool) error
}

// DeleteSummary describes the outcome of a bulk player delete.
type DeleteSummary struct {
	Requested int
	Deleted   int
	Failed    []string
}

// ExportSummary describes the outcome of a bulk credential export.
type ExportSummary struct {
	Requested int
	Exported  int
	Failed    []string
}

// ImportSummary describes the outcome of an account import.
type ImportSummary struct {
	Added   int
	Skipped int
	Failed  int
}
