package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongdevv/track/internal/state"
	"github.com/cuongdevv/track/internal/trackstat"
)

func testRecords() []trackstat.PlayerRecord {
	return []trackstat.PlayerRecord{
		{
			PlayerName: "Cuong_123",
			Cash:       500000,
			Gems:       1200,
			PetsList:   []trackstat.Pet{{Name: "Snake", Rank: "E"}},
			ItemsList:  []trackstat.Item{{Name: "Ticket", Amount: 5}},
			Timestamp:  "2025-07-01T10:00:00",
		},
		{
			PlayerName: "VietGamer",
			Cash:       1500000,
			Gems:       5280,
			PetsList:   []trackstat.Pet{{Name: "Dragon", Rank: "S"}, {Name: "Phoenix", Rank: "SS"}},
			ItemsList:  []trackstat.Item{{Name: "Ticket", Amount: 40}},
			PassesList: []trackstat.GamePass{{Name: "VIP"}},
			Timestamp:  "2025-07-02T10:00:00",
		},
		{
			PlayerName: "MinecraftPro",
			Cash:       3000000,
			Gems:       8750,
			PetsList:   []trackstat.Pet{{Name: "Golden Dragon", Rank: "G"}, {Name: "Wolf", Rank: "S"}},
			PassesList: []trackstat.GamePass{{Name: "VIP"}, {Name: "Double Cash"}},
			Timestamp:  "2025-07-03T10:00:00",
		},
	}
}

func TestFiltersDefaultsAreInactive(t *testing.T) {
	f := state.NewFilters()
	assert.False(t, f.IsActive())
	assert.Len(t, f.Apply(testRecords()), 3)
}

func TestFiltersCashMinScenario(t *testing.T) {
	f := state.NewFilters()
	f.CashMin = 1000000
	assert.True(t, f.IsActive())

	got := f.Apply(testRecords())
	require.Len(t, got, 2)
	assert.Equal(t, "VietGamer", got[0].PlayerName)
	assert.Equal(t, "MinecraftPro", got[1].PlayerName)
}

func TestFiltersConjunction(t *testing.T) {
	f := state.NewFilters()
	f.CashMin = 1000000
	f.SPetsMin = 1
	got := f.Apply(testRecords())
	require.Len(t, got, 2)

	// Tightening a single bound removes exactly the records it excludes.
	f.SSPetsMin = 1
	got = f.Apply(testRecords())
	require.Len(t, got, 2, "both remaining records have an SS or G pet")

	f.TicketsMin = 1
	got = f.Apply(testRecords())
	require.Len(t, got, 1)
	assert.Equal(t, "VietGamer", got[0].PlayerName)
}

func TestFiltersGamepassBounds(t *testing.T) {
	f := state.NewFilters()
	f.GamepassMin = 2
	got := f.Apply(testRecords())
	require.Len(t, got, 1)
	assert.Equal(t, "MinecraftPro", got[0].PlayerName)

	f = state.NewFilters()
	f.GamepassMax = 0
	got = f.Apply(testRecords())
	require.Len(t, got, 1)
	assert.Equal(t, "Cuong_123", got[0].PlayerName)
}

func TestFiltersSearchMatchesNameOrGamePass(t *testing.T) {
	f := state.NewFilters()
	f.Search = "double"
	assert.True(t, f.IsActive(), "search term alone activates the filter")

	got := f.Apply(testRecords())
	require.Len(t, got, 1)
	assert.Equal(t, "MinecraftPro", got[0].PlayerName)
}

func TestFiltersReset(t *testing.T) {
	f := state.NewFilters()
	f.ServerSide = true
	f.CashMin = 99
	f.Search = "x"
	f.Reset()
	assert.False(t, f.IsActive())
	assert.True(t, f.ServerSide, "reset keeps the configured filtering mode")
}

func TestFiltersQueryParamsOnlyNonDefaultBounds(t *testing.T) {
	f := state.NewFilters()
	f.CashMin = 1000000
	f.SSPetsMin = 2
	f.Search = " vip "

	params := f.QueryParams()
	require.NotNil(t, params.CashMin)
	assert.Equal(t, int64(1000000), *params.CashMin)
	require.NotNil(t, params.SSPetsMin)
	assert.Equal(t, 2, *params.SSPetsMin)
	assert.Equal(t, "vip", params.Search)
	assert.Nil(t, params.CashMax)
	assert.Nil(t, params.GemsMin)
	assert.Nil(t, params.TicketsMax)
}

func TestSortToggleSemantics(t *testing.T) {
	s := state.NewSort()
	require.Equal(t, state.FieldPlayerName, s.Field)
	require.Equal(t, state.Ascending, s.Direction)

	s.Toggle(state.FieldPlayerName)
	assert.Equal(t, state.Descending, s.Direction)
	s.Toggle(state.FieldPlayerName)
	assert.Equal(t, state.Ascending, s.Direction, "toggling twice restores the original direction")

	s.Toggle(state.FieldCash)
	assert.Equal(t, state.FieldCash, s.Field)
	assert.Equal(t, state.Ascending, s.Direction, "a new field always starts ascending")
}

func TestSortApplyByDerivedFields(t *testing.T) {
	recs := testRecords()

	s := state.Sort{Field: state.FieldCash, Direction: state.Descending}
	s.Apply(recs)
	assert.Equal(t, "MinecraftPro", recs[0].PlayerName)
	assert.Equal(t, "Cuong_123", recs[2].PlayerName)

	s = state.Sort{Field: state.FieldSSPets, Direction: state.Descending}
	s.Apply(recs)
	// VietGamer and MinecraftPro both have one SS/G pet; stable sort keeps
	// their prior relative order ahead of Cuong_123.
	assert.Equal(t, "Cuong_123", recs[2].PlayerName)

	s = state.Sort{Field: state.FieldTimestamp, Direction: state.Ascending}
	s.Apply(recs)
	assert.Equal(t, "Cuong_123", recs[0].PlayerName)
	assert.Equal(t, "MinecraftPro", recs[2].PlayerName)
}

func TestPaginationApplyServerIsAuthoritative(t *testing.T) {
	p := state.NewPagination()
	p.ApplyServer(trackstat.PageMeta{Page: 1, TotalItems: 45, TotalPages: 3})
	assert.Equal(t, 45, p.TotalItems)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 1, p.CurrentPage)
	assert.True(t, p.ServerSide)
}

func TestPaginationApplyLocal(t *testing.T) {
	p := state.NewPagination()
	p.SetPageSize(20)
	p.ApplyLocal(45)
	assert.Equal(t, 3, p.TotalPages)
	assert.False(t, p.ServerSide)

	p.SetPage(3)
	start, end := p.PageSlice(45)
	assert.Equal(t, 40, start)
	assert.Equal(t, 45, end)

	// Shrinking the dataset clamps the current page back into range.
	p.ApplyLocal(10)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 1, p.TotalPages)
}

func TestPaginationSetPageClamps(t *testing.T) {
	p := state.NewPagination()
	p.ApplyServer(trackstat.PageMeta{Page: 1, TotalItems: 45, TotalPages: 3})
	p.SetPage(99)
	assert.Equal(t, 3, p.CurrentPage)
	p.SetPage(-1)
	assert.Equal(t, 1, p.CurrentPage)
}

func TestPaginationEmptyDataset(t *testing.T) {
	p := state.NewPagination()
	p.ApplyLocal(0)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 1, p.CurrentPage)
	start, end := p.PageSlice(0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}
