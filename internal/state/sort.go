package state

import (
	"sort"
	"strings"
	"time"

	"github.com/cuongdevv/track/internal/trackstat"
)

// NewSort returns the default sort: player name ascending.
func NewSort() Sort {
	return Sort{Field: FieldPlayerName, Direction: Ascending}
}

// Toggle applies a header click: clicking the active field flips the
// direction, clicking a new field selects it ascending.
func (s *Sort) Toggle(field string) {
	if s.Field == field {
		if s.Direction == Ascending {
			s.Direction = Descending
		} else {
			s.Direction = Ascending
		}
		return
	}
	s.Field = field
	s.Direction = Ascending
}

// Apply stable-sorts records in place according to the active field and
// direction. Unknown fields fall back to player name.
func (s Sort) Apply(records []trackstat.PlayerRecord) {
	less := lessFunc(s.Field)
	sort.SliceStable(records, func(i, j int) bool {
		if s.Direction == Descending {
			return less(records[j], records[i])
		}
		return less(records[i], records[j])
	})
}

func lessFunc(field string) func(a, b trackstat.PlayerRecord) bool {
	switch field {
	case FieldCash:
		return func(a, b trackstat.PlayerRecord) bool { return a.Cash < b.Cash }
	case FieldGems:
		return func(a, b trackstat.PlayerRecord) bool { return a.Gems < b.Gems }
	case FieldSPets:
		return func(a, b trackstat.PlayerRecord) bool { return a.SPetCount() < b.SPetCount() }
	case FieldSSPets:
		return func(a, b trackstat.PlayerRecord) bool { return a.SSPetCount() < b.SSPetCount() }
	case FieldTickets:
		return func(a, b trackstat.PlayerRecord) bool { return a.TicketAmount() < b.TicketAmount() }
	case FieldGamePasses:
		return func(a, b trackstat.PlayerRecord) bool { return a.GamePassCount() < b.GamePassCount() }
	case FieldTimestamp:
		return func(a, b trackstat.PlayerRecord) bool {
			return parseTimestamp(a.Timestamp).Before(parseTimestamp(b.Timestamp))
		}
	default:
		return func(a, b trackstat.PlayerRecord) bool {
			return strings.ToLower(a.PlayerName) < strings.ToLower(b.PlayerName)
		}
	}
}

// parseTimestamp accepts the formats the stats server has emitted over time.
// Unparseable values sort first.
func parseTimestamp(ts string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t
		}
	}
	return time.Time{}
}
