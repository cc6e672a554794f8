package bulk

// ItemError is one failed item in a bulk operation.
type ItemError struct {
	Name   string
	Reason string
}

// DeleteReport aggregates the outcome of a bulk player delete.
type DeleteReport struct {
	Requested int
	Deleted   int
	Failures  []ItemError
}

// ExportReport aggregates the outcome of a bulk credential export.
// Lines holds one username:cookie line per successfully exported account;
// accounts whose cookie could not be fetched appear in Failures and are
// excluded from the output.
type ExportReport struct {
	Requested int
	Exported  int
	Lines     []string
	Failures  []ItemError
}

// ImportReport aggregates the outcome of an account import.
type ImportReport struct {
	Added    int
	Failed   int
	Total    int
	Failures []ItemError
}
