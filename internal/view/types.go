package view

import (
	"github.com/cuongdevv/track/internal/state"
)

// MaxVisiblePages caps how many numbered page links the pagination bar shows
// at once; pages outside the window collapse into first/last links with an
// ellipsis.
const MaxVisiblePages = 5

// PageSizeOptions are the page sizes offered in the per-page selector.
var PageSizeOptions = []int{10, 20, 50, 100}

// Row is one rendered table row with every derived column precomputed.
type Row struct {
	PlayerName  string
	Cash        string
	Gems        string
	SPets       int
	SSPets      int
	Tickets     string
	GamePasses  int
	LastUpdated string
}

// PageLink is one element of the pagination bar.
type PageLink struct {
	Label    string
	Page     int
	Active   bool
	Disabled bool
}

// Column is a sortable table header.
type Column struct {
	Field     string
	Label     string
	Sorted    bool
	Ascending bool
}

// FilterForm carries the filter panel's input values as strings; bounds left
// at their defaults render as empty inputs.
type FilterForm struct {
	CashMin     string
	CashMax     string
	GemsMin     string
	GemsMax     string
	TicketsMin  string
	TicketsMax  string
	SPetsMin    string
	SSPetsMin   string
	GamepassMin string
	GamepassMax string
	Search      string
	ServerSide  bool
	Active      bool
}

// TableView is everything the dashboard template needs for one render.
type TableView struct {
	Rows       []Row
	Columns    []Column
	Links      []PageLink
	Pagination state.Pagination
	Filters    state.Filters
	Form       FilterForm
	Sort       state.Sort

	TotalItems   int
	FromCache    bool
	Degraded     bool
	StorageOnly  bool
	EmptyMessage string
}

// ErrorPage carries a load failure to the error template. Detail is the
// proximate error text, shown alongside the retry link.
type ErrorPage struct {
	Status int
	Title  string
	Detail string
}
