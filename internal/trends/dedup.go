package trends

import (
	"sort"

	"fantasy-trends/internal/domain"
)

// LatestPerPlayer keeps the record with the greatest ScrapedAt for every player.
// Equal timestamps resolve to the record seen last. Players appear in the order
// they were first seen; callers that need a specific order must sort.
func LatestPerPlayer(records []domain.TrendRecord) []domain.TrendRecord {
	index := make(map[string]int, len(records))
	out := make([]domain.TrendRecord, 0, len(records))
	for _, r := range records {
		i, ok := index[r.PlayerID]
		if !ok {
			index[r.PlayerID] = len(out)
			out = append(out, r)
			continue
		}
		if !r.ScrapedAt.Before(out[i].ScrapedAt) {
			out[i] = r
		}
	}
	return out
}

// GroupHistory buckets records by player, each bucket ordered by ScrapedAt
// ascending. Records sharing a timestamp keep their input order.
func GroupHistory(records []domain.TrendRecord) map[string][]domain.TrendRecord {
	history := make(map[string][]domain.TrendRecord)
	for _, r := range records {
		history[r.PlayerID] = append(history[r.PlayerID], r)
	}
	for _, h := range history {
		SortHistory(h)
	}
	return history
}

// SortHistory orders a single player's records by ScrapedAt ascending, in place.
func SortHistory(h []domain.TrendRecord) {
	sort.SliceStable(h, func(i, j int) bool { return h[i].ScrapedAt.Before(h[j].ScrapedAt) })
}

// DistinctPlayers counts unique player ids.
func DistinctPlayers(records []domain.TrendRecord) int {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r.PlayerID] = struct{}{}
	}
	return len(seen)
}
