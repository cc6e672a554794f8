package view

import (
	"strconv"
	"time"

	"github.com/cuongdevv/track/internal/fetcher"
	"github.com/cuongdevv/track/internal/state"
	"github.com/cuongdevv/track/internal/trackstat"
)

// Build turns a fetch result into the render-ready table view. In client-side
// mode the result holds the whole filtered dataset and the current page is
// sliced off here; in server-side mode the records already are one page.
func Build(result fetcher.Result) TableView {
	records := result.Records
	if !result.Pagination.ServerSide {
		start, end := result.Pagination.PageSlice(len(records))
		records = records[start:end]
	}

	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = buildRow(rec)
	}

	return TableView{
		Rows:         rows,
		Columns:      buildColumns(result.Sort),
		Links:        PageLinks(result.Pagination),
		Pagination:   result.Pagination,
		Filters:      result.Filters,
		Form:         buildFilterForm(result.Filters),
		Sort:         result.Sort,
		TotalItems:   result.Pagination.TotalItems,
		FromCache:    result.FromCache,
		Degraded:     result.Degraded,
		StorageOnly:  result.StorageDegraded,
		EmptyMessage: result.EmptyMessage(),
	}
}

func buildRow(rec trackstat.PlayerRecord) Row {
	return Row{
		PlayerName:  rec.PlayerName,
		Cash:        FormatNumber(rec.Cash),
		Gems:        FormatNumber(rec.Gems),
		SPets:       rec.SPetCount(),
		SSPets:      rec.SSPetCount(),
		Tickets:     FormatNumber(rec.TicketAmount()),
		GamePasses:  rec.GamePassCount(),
		LastUpdated: formatTimestamp(rec.Timestamp),
	}
}

// buildFilterForm echoes only the bounds the user actually set; defaults
// come back as empty inputs.
func buildFilterForm(f state.Filters) FilterForm {
	defaults := state.NewFilters()
	form := FilterForm{
		Search:     f.Search,
		ServerSide: f.ServerSide,
		Active:     f.IsActive(),
	}
	setInt64 := func(dst *string, v, def int64) {
		if v != def {
			*dst = strconv.FormatInt(v, 10)
		}
	}
	setInt := func(dst *string, v, def int) {
		if v != def {
			*dst = strconv.Itoa(v)
		}
	}
	setInt64(&form.CashMin, f.CashMin, defaults.CashMin)
	setInt64(&form.CashMax, f.CashMax, defaults.CashMax)
	setInt64(&form.GemsMin, f.GemsMin, defaults.GemsMin)
	setInt64(&form.GemsMax, f.GemsMax, defaults.GemsMax)
	setInt64(&form.TicketsMin, f.TicketsMin, defaults.TicketsMin)
	setInt64(&form.TicketsMax, f.TicketsMax, defaults.TicketsMax)
	setInt(&form.SPetsMin, f.SPetsMin, defaults.SPetsMin)
	setInt(&form.SSPetsMin, f.SSPetsMin, defaults.SSPetsMin)
	setInt(&form.GamepassMin, f.GamepassMin, defaults.GamepassMin)
	setInt(&form.GamepassMax, f.GamepassMax, defaults.GamepassMax)
	return form
}

func buildColumns(sort state.Sort) []Column {
	specs := []struct {
		field string
		label string
	}{
		{state.FieldPlayerName, "Player Name"},
		{state.FieldCash, "Cash"},
		{state.FieldGems, "Gems"},
		{state.FieldSPets, "S Pets"},
		{state.FieldSSPets, "SS Pets"},
		{state.FieldTickets, "Tickets"},
		{state.FieldGamePasses, "Game Passes"},
		{state.FieldTimestamp, "Last Updated"},
	}
	columns := make([]Column, len(specs))
	for i, spec := range specs {
		columns[i] = Column{
			Field:     spec.field,
			Label:     spec.label,
			Sorted:    sort.Field == spec.field,
			Ascending: sort.Direction == state.Ascending,
		}
	}
	return columns
}

// PageLinks builds the pagination bar: prev/next plus a window of up to
// MaxVisiblePages numbered links centered on the current page, with
// first/last shortcuts and ellipses when the window does not reach the
// edges. A single page renders no bar at all.
func PageLinks(p state.Pagination) []PageLink {
	if p.TotalPages <= 1 {
		return nil
	}

	start := p.CurrentPage - MaxVisiblePages/2
	if start < 1 {
		start = 1
	}
	end := start + MaxVisiblePages - 1
	if end > p.TotalPages {
		end = p.TotalPages
	}
	if end-start+1 < MaxVisiblePages {
		start = end - MaxVisiblePages + 1
		if start < 1 {
			start = 1
		}
	}

	links := []PageLink{{Label: "«", Page: p.CurrentPage - 1, Disabled: p.CurrentPage == 1}}

	if start > 1 {
		links = append(links, PageLink{Label: "1", Page: 1})
		if start > 2 {
			links = append(links, PageLink{Label: "...", Disabled: true})
		}
	}
	for i := start; i <= end; i++ {
		links = append(links, PageLink{Label: strconv.Itoa(i), Page: i, Active: i == p.CurrentPage})
	}
	if end < p.TotalPages {
		if end < p.TotalPages-1 {
			links = append(links, PageLink{Label: "...", Disabled: true})
		}
		links = append(links, PageLink{Label: strconv.Itoa(p.TotalPages), Page: p.TotalPages})
	}

	links = append(links, PageLink{Label: "»", Page: p.CurrentPage + 1, Disabled: p.CurrentPage == p.TotalPages})
	return links
}

// FormatNumber renders an integer with comma thousand separators.
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// formatTimestamp renders a record timestamp for the table. Unparseable
// values are shown raw rather than hidden.
func formatTimestamp(ts string) string {
	if ts == "" {
		return ""
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format("2006-01-02 15:04:05")
		}
	}
	return ts
}
