package view

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongdevv/track/internal/fetcher"
	"github.com/cuongdevv/track/internal/state"
	"github.com/cuongdevv/track/internal/trackstat"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1,000", FormatNumber(1000))
	assert.Equal(t, "45,600", FormatNumber(45600))
	assert.Equal(t, "1,234,567", FormatNumber(1234567))
	assert.Equal(t, "-4,500", FormatNumber(-4500))
}

func labels(links []PageLink) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.Label
	}
	return out
}

func TestPageLinksSinglePageRendersNothing(t *testing.T) {
	assert.Nil(t, PageLinks(state.Pagination{CurrentPage: 1, TotalPages: 1}))
}

func TestPageLinksSmallSet(t *testing.T) {
	links := PageLinks(state.Pagination{CurrentPage: 1, TotalPages: 3})

	assert.Equal(t, []string{"«", "1", "2", "3", "»"}, labels(links))
	assert.True(t, links[0].Disabled, "prev disabled on first page")
	assert.True(t, links[1].Active)
	assert.False(t, links[len(links)-1].Disabled)
}

func TestPageLinksWindowCentersOnCurrentPage(t *testing.T) {
	links := PageLinks(state.Pagination{CurrentPage: 5, TotalPages: 10})

	assert.Equal(t, []string{"«", "1", "...", "3", "4", "5", "6", "7", "...", "10", "»"}, labels(links))
	for _, l := range links {
		if l.Label == "5" {
			assert.True(t, l.Active)
		}
	}
}

func TestPageLinksAtTheEdges(t *testing.T) {
	first := PageLinks(state.Pagination{CurrentPage: 1, TotalPages: 10})
	assert.Equal(t, []string{"«", "1", "2", "3", "4", "5", "...", "10", "»"}, labels(first))
	assert.True(t, first[0].Disabled)

	last := PageLinks(state.Pagination{CurrentPage: 10, TotalPages: 10})
	assert.Equal(t, []string{"«", "1", "...", "6", "7", "8", "9", "10", "»"}, labels(last))
	assert.True(t, last[len(last)-1].Disabled, "next disabled on last page")
}

func TestPageLinksNeverShowMoreThanFiveNumbers(t *testing.T) {
	for page := 1; page <= 40; page++ {
		links := PageLinks(state.Pagination{CurrentPage: page, TotalPages: 40})
		numbered := 0
		for _, l := range links {
			if !l.Disabled && l.Label != "«" && l.Label != "»" && l.Label != "1" && l.Label != "40" {
				numbered++
			}
		}
		assert.LessOrEqual(t, numbered, MaxVisiblePages, "page %d", page)
	}
}

func testRecords(n int) []trackstat.PlayerRecord {
	records := make([]trackstat.PlayerRecord, n)
	for i := range records {
		records[i] = trackstat.PlayerRecord{
			PlayerName: fmt.Sprintf("Player%03d", i),
			Cash:       int64(i) * 1500,
			Gems:       int64(i),
			Timestamp:  "2026-08-30T12:00:00Z",
		}
	}
	return records
}

func TestBuildSlicesClientSidePages(t *testing.T) {
	result := fetcher.Result{
		Records: testRecords(25),
		Pagination: state.Pagination{
			CurrentPage:  2,
			ItemsPerPage: 10,
			TotalPages:   3,
			TotalItems:   25,
			ServerSide:   false,
		},
		Filters: state.NewFilters(),
	}

	tv := Build(result)

	require.Len(t, tv.Rows, 10)
	assert.Equal(t, "Player010", tv.Rows[0].PlayerName)
	assert.Equal(t, "Player019", tv.Rows[9].PlayerName)
	assert.Equal(t, 25, tv.TotalItems)
}

func TestBuildKeepsServerSidePageIntact(t *testing.T) {
	result := fetcher.Result{
		Records: testRecords(20),
		Pagination: state.Pagination{
			CurrentPage:  3,
			ItemsPerPage: 20,
			TotalPages:   5,
			TotalItems:   95,
			ServerSide:   true,
		},
		Filters: state.NewFilters(),
	}

	tv := Build(result)

	assert.Len(t, tv.Rows, 20, "server already sent exactly one page")
	assert.Equal(t, []string{"«", "1", "2", "3", "4", "5", "»"}, labels(tv.Links))
}

func TestBuildRowDerivedColumns(t *testing.T) {
	rec := trackstat.PlayerRecord{
		PlayerName: "Ayla",
		Cash:       1234567,
		Gems:       890,
		PetsList: []trackstat.Pet{
			{Name: "Igris", Rank: "S"},
			{Name: "Tank", Rank: "SS"},
			{Name: "Tusk", Rank: "G"},
			{Name: "Kaisel", Rank: "A"},
		},
		ItemsList:  []trackstat.Item{{Name: "Ticket", Amount: 42}, {Name: "Key", Amount: 3}},
		PassesList: []trackstat.GamePass{{Name: "VIP"}, {Name: "2x Cash"}},
		Timestamp:  "2026-08-30T09:15:00Z",
	}

	row := buildRow(rec)

	assert.Equal(t, "1,234,567", row.Cash)
	assert.Equal(t, "890", row.Gems)
	assert.Equal(t, 1, row.SPets)
	assert.Equal(t, 2, row.SSPets, "G rank counts with SS")
	assert.Equal(t, "42", row.Tickets)
	assert.Equal(t, 2, row.GamePasses)
	assert.Equal(t, "2026-08-30 09:15:00", row.LastUpdated)
}

func TestBuildRowKeepsUnparseableTimestampRaw(t *testing.T) {
	row := buildRow(trackstat.PlayerRecord{PlayerName: "x", Timestamp: "yesterday"})
	assert.Equal(t, "yesterday", row.LastUpdated)
}

func TestBuildFilterFormEchoesOnlySetBounds(t *testing.T) {
	f := state.NewFilters()
	f.CashMin = 500000
	f.SPetsMin = 2
	f.Search = "igris"

	form := buildFilterForm(f)

	assert.Equal(t, "500000", form.CashMin)
	assert.Empty(t, form.CashMax)
	assert.Empty(t, form.GemsMin)
	assert.Equal(t, "2", form.SPetsMin)
	assert.Equal(t, "igris", form.Search)
	assert.True(t, form.Active)

	blank := buildFilterForm(state.NewFilters())
	assert.False(t, blank.Active)
	assert.Empty(t, blank.CashMin)
	assert.Empty(t, blank.GamepassMax)
}

func TestRendererDashboard(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	result := fetcher.Result{
		Records: testRecords(5),
		Pagination: state.Pagination{
			CurrentPage:  1,
			ItemsPerPage: 20,
			TotalPages:   1,
			TotalItems:   5,
			ServerSide:   true,
		},
		Filters: state.NewFilters(),
	}

	var buf bytes.Buffer
	require.NoError(t, r.Dashboard(&buf, Build(result)))

	html := buf.String()
	assert.Contains(t, html, "Player000")
	assert.Contains(t, html, "Total Accounts")
	assert.NotContains(t, html, "Page navigation", "single page renders no pagination bar")

	// Every parsed filter bound has a matching form input.
	for _, name := range []string{
		"cash_min", "cash_max", "gems_min", "gems_max",
		"tickets_min", "tickets_max", "s_pets_min", "ss_pets_min",
		"gamepass_min", "gamepass_max",
	} {
		assert.Contains(t, html, `name="`+name+`"`)
	}
}

func TestRendererDashboardEmptyState(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	result := fetcher.Result{
		Pagination: state.Pagination{CurrentPage: 1, ItemsPerPage: 20, TotalPages: 1, ServerSide: true},
		Filters:    state.NewFilters(),
	}
	result.Filters.Search = "ghost"

	var buf bytes.Buffer
	require.NoError(t, r.Dashboard(&buf, Build(result)))
	assert.Contains(t, buf.String(), "No players match")
}

func TestRendererLogin(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Login(&buf, "Session expired"))
	assert.Contains(t, buf.String(), "Session expired")
	assert.Contains(t, buf.String(), "form")
}

func TestRendererErrorPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Error(&buf, ErrorPage{
		Status: 502,
		Title:  "The stats server is unreachable and no cached data is available",
		Detail: "Get \"http://stats/api/latest\": connection refused",
	}))
	body := buf.String()
	assert.Contains(t, body, "no cached data is available")
	assert.Contains(t, body, "connection refused")
	assert.Contains(t, body, `href="/dashboard?refresh=1"`)
}
