package state

// DefaultPageSize is the number of players shown per page until the user
// picks another size.
const DefaultPageSize = 20

// AllDataPageSize approximates "all data" when a filter forces the dashboard
// into client-side mode and the whole dataset needs to be in memory.
const AllDataPageSize = 1000

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Sortable field names. These match the column identifiers rendered in the
// table header.
const (
	FieldPlayerName = "PlayerName"
	FieldCash       = "Cash"
	FieldGems       = "Gems"
	FieldSPets      = "PetS"
	FieldSSPets     = "PetSS"
	FieldTickets    = "Tickets"
	FieldGamePasses = "GamePasses"
	FieldTimestamp  = "timestamp"
)

// Pagination tracks the paging position of the dashboard. When ServerSide is
// true the remote API returns only the requested page plus authoritative
// totals; otherwise the full dataset is held locally and sliced per page.
type Pagination struct {
	ItemsPerPage int  `json:"items_per_page" msgpack:"items_per_page"`
	CurrentPage  int  `json:"current_page" msgpack:"current_page"`
	TotalPages   int  `json:"total_pages" msgpack:"total_pages"`
	TotalItems   int  `json:"total_items" msgpack:"total_items"`
	ServerSide   bool `json:"server_side" msgpack:"server_side"`
}

// Sort tracks the active sort column and direction.
type Sort struct {
	Field     string    `json:"field" msgpack:"field"`
	Direction Direction `json:"direction" msgpack:"direction"`
}

// Snapshot is the persisted dashboard state, restored on startup so the user
// lands back on the view they left.
type Snapshot struct {
	Pagination Pagination `msgpack:"pagination"`
	Filters    Filters    `msgpack:"filters"`
	Sort       Sort       `msgpack:"sort"`
}
