package state

import (
	"math"
	"strings"

	"github.com/samber/lo"

	"github.com/cuongdevv/track/internal/trackstat"
)

// Unbounded is the default upper bound for all max filters.
const Unbounded = int64(math.MaxInt64)

// Filters holds the active min/max numeric bounds and the free-text search
// term. A zero min or an Unbounded max means "no constraint"; IsActive is
// derived from the bounds, never stored.
type Filters struct {
	ServerSide bool `json:"server_side" msgpack:"server_side"`

	CashMin     int64 `json:"cash_min" msgpack:"cash_min"`
	CashMax     int64 `json:"cash_max" msgpack:"cash_max"`
	GemsMin     int64 `json:"gems_min" msgpack:"gems_min"`
	GemsMax     int64 `json:"gems_max" msgpack:"gems_max"`
	TicketsMin  int64 `json:"tickets_min" msgpack:"tickets_min"`
	TicketsMax  int64 `json:"tickets_max" msgpack:"tickets_max"`
	SPetsMin    int   `json:"s_pets_min" msgpack:"s_pets_min"`
	SSPetsMin   int   `json:"ss_pets_min" msgpack:"ss_pets_min"`
	GamepassMin int   `json:"gamepass_min" msgpack:"gamepass_min"`
	GamepassMax int   `json:"gamepass_max" msgpack:"gamepass_max"`

	Search string `json:"search" msgpack:"search"`
}

// NewFilters returns filters with every bound at its default, matching every
// record.
func NewFilters() Filters {
	return Filters{
		CashMax:     Unbounded,
		GemsMax:     Unbounded,
		TicketsMax:  Unbounded,
		GamepassMax: int(math.MaxInt32),
	}
}

// Reset restores all bounds and the search term to their defaults.
func (f *Filters) Reset() {
	serverSide := f.ServerSide
	*f = NewFilters()
	f.ServerSide = serverSide
}

// IsActive reports whether at least one bound differs from its default.
func (f Filters) IsActive() bool {
	defaults := NewFilters()
	return f.CashMin != defaults.CashMin ||
		f.CashMax != defaults.CashMax ||
		f.GemsMin != defaults.GemsMin ||
		f.GemsMax != defaults.GemsMax ||
		f.TicketsMin != defaults.TicketsMin ||
		f.TicketsMax != defaults.TicketsMax ||
		f.SPetsMin != defaults.SPetsMin ||
		f.SSPetsMin != defaults.SSPetsMin ||
		f.GamepassMin != defaults.GamepassMin ||
		f.GamepassMax != defaults.GamepassMax ||
		strings.TrimSpace(f.Search) != ""
}

// Match reports whether a record satisfies every active bound. All clauses
// are AND-ed.
func (f Filters) Match(rec trackstat.PlayerRecord) bool {
	if rec.Cash < f.CashMin || rec.Cash > f.CashMax {
		return false
	}
	if rec.Gems < f.GemsMin || rec.Gems > f.GemsMax {
		return false
	}
	tickets := rec.TicketAmount()
	if tickets < f.TicketsMin || tickets > f.TicketsMax {
		return false
	}
	if rec.SPetCount() < f.SPetsMin {
		return false
	}
	if rec.SSPetCount() < f.SSPetsMin {
		return false
	}
	passes := rec.GamePassCount()
	if passes < f.GamepassMin || passes > f.GamepassMax {
		return false
	}
	return rec.MatchesSearch(f.Search)
}

// Apply filters a dataset down to the records matching every active bound.
func (f Filters) Apply(records []trackstat.PlayerRecord) []trackstat.PlayerRecord {
	if !f.IsActive() {
		return records
	}
	return lo.Filter(records, func(rec trackstat.PlayerRecord, _ int) bool {
		return f.Match(rec)
	})
}

// QueryParams translates the non-default bounds into request parameters for
// server-side filtering. Defaults stay nil so they never reach the wire.
func (f Filters) QueryParams() trackstat.LatestParams {
	defaults := NewFilters()
	var params trackstat.LatestParams
	params.Search = strings.TrimSpace(f.Search)

	setInt64 := func(dst **int64, v, def int64) {
		if v != def {
			val := v
			*dst = &val
		}
	}
	setInt := func(dst **int, v, def int) {
		if v != def {
			val := v
			*dst = &val
		}
	}
	setInt64(&params.CashMin, f.CashMin, defaults.CashMin)
	setInt64(&params.CashMax, f.CashMax, defaults.CashMax)
	setInt64(&params.GemsMin, f.GemsMin, defaults.GemsMin)
	setInt64(&params.GemsMax, f.GemsMax, defaults.GemsMax)
	setInt64(&params.TicketsMin, f.TicketsMin, defaults.TicketsMin)
	setInt64(&params.TicketsMax, f.TicketsMax, defaults.TicketsMax)
	setInt(&params.SPetsMin, f.SPetsMin, defaults.SPetsMin)
	setInt(&params.SSPetsMin, f.SSPetsMin, defaults.SSPetsMin)
	setInt(&params.GamepassMin, f.GamepassMin, defaults.GamepassMin)
	setInt(&params.GamepassMax, f.GamepassMax, defaults.GamepassMax)
	return params
}
