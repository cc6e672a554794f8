package trackstat

import "context"

// Client defines the interface for interacting with the stats server API.
// This allows for mock implementations to be used in tests.
type Client interface {
	GetLatest(ctx context.Context, params *LatestParams) (Envelope, error)
	DeletePlayer(ctx context.Context, playerName string) (DeleteResult, error)
	GetAccounts(ctx context.Context, page, pageSize int) (AccountsPage, error)
	GetAccountCookie(ctx context.Context, username string) (string, error)
	ImportAccounts(ctx context.Context, lines string) (ImportResult, error)
	Probe(ctx context.Context) error
	SetSessionCookie(cookie string)
}
