package trackstat

import "strings"

// TicketItemName is the distinguished inventory item surfaced as its own
// dashboard column.
const TicketItemName = "Ticket"

// PlayerRecord is the latest snapshot of a tracked player, as reported by the
// stats server. The server owns the record; every copy we hold is transient
// and possibly stale.
type PlayerRecord struct {
	PlayerName string     `json:"PlayerName"`
	Cash       int64      `json:"Cash"`
	Gems       int64      `json:"Gems"`
	PetsList   []Pet      `json:"PetsList"`
	ItemsList  []Item     `json:"ItemsList"`
	PassesList []GamePass `json:"PassesList"`
	Timestamp  string     `json:"timestamp"`
}

// Pet is a single pet owned by a player.
type Pet struct {
	Name       string `json:"Name"`
	Level      int    `json:"Level"`
	Rank       string `json:"Rank"`
	RankNum    int    `json:"RankNum"`
	FolderName string `json:"FolderName"`
}

// Item is an inventory item with a stack amount.
type Item struct {
	Name   string `json:"Name"`
	Amount int64  `json:"Amount"`
}

// GamePass is a game pass owned by a player.
type GamePass struct {
	Name string `json:"Name"`
}

// SPetCount returns the number of pets with rank S.
func (r PlayerRecord) SPetCount() int {
	n := 0
	for _, p := range r.PetsList {
		if p.Rank == "S" {
			n++
		}
	}
	return n
}

// SSPetCount returns the number of pets with rank SS or G. The two top tiers
// share a dashboard column.
func (r PlayerRecord) SSPetCount() int {
	n := 0
	for _, p := range r.PetsList {
		if p.Rank == "SS" || p.Rank == "G" {
			n++
		}
	}
	return n
}

// TicketAmount returns the stack amount of the "Ticket" item, or zero when the
// player holds none.
func (r PlayerRecord) TicketAmount() int64 {
	for _, it := range r.ItemsList {
		if it.Name == TicketItemName {
			return it.Amount
		}
	}
	return 0
}

// GamePassCount returns the number of game passes the player owns.
func (r PlayerRecord) GamePassCount() int {
	return len(r.PassesList)
}

// MatchesSearch reports whether the record matches a free-text search term.
// The term matches against the player name or any game pass name,
// case-insensitively.
func (r PlayerRecord) MatchesSearch(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.PlayerName), term) {
		return true
	}
	for _, gp := range r.PassesList {
		if strings.Contains(strings.ToLower(gp.Name), term) {
			return true
		}
	}
	return false
}

// PageMeta is the server's authoritative pagination block.
type PageMeta struct {
	Page       int `json:"page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Envelope is the canonical internal shape of a stats response. Both wire
// shapes (bare array and envelope) are resolved into this at the client
// boundary; the ambiguity never travels further.
type Envelope struct {
	Data            []PlayerRecord `json:"data"`
	Pagination      PageMeta       `json:"pagination"`
	ServerPaginated bool           `json:"server_paginated"`
}

// LatestParams are the query parameters for GetLatest. Nil bound pointers are
// left out of the request entirely, so the server only sees the bounds that
// differ from their defaults.
type LatestParams struct {
	Page     int
	PageSize int
	Search   string

	CashMin     *int64
	CashMax     *int64
	GemsMin     *int64
	GemsMax     *int64
	TicketsMin  *int64
	TicketsMax  *int64
	SPetsMin    *int
	SSPetsMin   *int
	GamepassMin *int
	GamepassMax *int

	// ForceRefresh appends a cache-busting token so intermediaries cannot
	// serve a stale copy.
	ForceRefresh bool
}

// DeleteResult is the server's response to a player deletion.
type DeleteResult struct {
	Success        bool   `json:"success"`
	DeletedCount   int    `json:"deleted_count"`
	RemainingCount int    `json:"remaining_count"`
	Detail         string `json:"detail"`
	Message        string `json:"message"`
}

// ErrorMessage returns whichever failure text the server populated.
func (d DeleteResult) ErrorMessage() string {
	if d.Detail != "" {
		return d.Detail
	}
	return d.Message
}

// Account is a stored game account credential record.
type Account struct {
	Username  string `json:"username"`
	Password  string `json:"password,omitempty"`
	HasCookie bool   `json:"has_cookie,omitempty"`
}

// AccountsPage is one page of account records.
type AccountsPage struct {
	Data       []Account `json:"data"`
	Pagination PageMeta  `json:"pagination"`
}

// ImportResult is the server's summary of a bulk account import.
type ImportResult struct {
	Success    bool               `json:"success"`
	Successful int                `json:"successful"`
	Failed     int                `json:"failed"`
	Total      int                `json:"total"`
	Results    []ImportLineResult `json:"results"`
}

// ImportLineResult reports the outcome for a single imported line.
type ImportLineResult struct {
	Username string `json:"username"`
	Success  bool   `json:"success"`
	Message  string `json:"message"`
}
