package trends

import (
	"time"

	"fantasy-trends/internal/domain"
)

// Mean averages a numeric field over every record. Missing values count as 0
// and still count toward the divisor. An empty collection yields 0.
func Mean(records []domain.TrendRecord, field string) (float64, error) {
	f, err := lookupNumeric(field)
	if err != nil {
		return 0, err
	}
	return meanOf(records, f), nil
}

func meanOf(records []domain.TrendRecord, f numericField) float64 {
	if len(records) == 0 {
		return 0
	}
	total := 0.0
	for _, r := range records {
		total += f(r)
	}
	return total / float64(len(records))
}

// Max returns the first record holding the largest value of field.
func Max(records []domain.TrendRecord, field string) (domain.TrendRecord, bool, error) {
	f, err := lookupNumeric(field)
	if err != nil {
		return domain.TrendRecord{}, false, err
	}
	r, ok := extremum(records, f, func(a, b float64) bool { return a > b })
	return r, ok, nil
}

// Min returns the first record holding the smallest value of field.
func Min(records []domain.TrendRecord, field string) (domain.TrendRecord, bool, error) {
	f, err := lookupNumeric(field)
	if err != nil {
		return domain.TrendRecord{}, false, err
	}
	r, ok := extremum(records, f, func(a, b float64) bool { return a < b })
	return r, ok, nil
}

// extremum keeps the earliest record unless a later one is strictly better.
func extremum(records []domain.TrendRecord, f numericField, better func(a, b float64) bool) (domain.TrendRecord, bool) {
	if len(records) == 0 {
		return domain.TrendRecord{}, false
	}
	best := records[0]
	bestVal := f(best)
	for _, r := range records[1:] {
		if v := f(r); better(v, bestVal) {
			best, bestVal = r, v
		}
	}
	return best, true
}

// TopN returns at most n leading records as a new slice.
func TopN(records []domain.TrendRecord, n int) []domain.TrendRecord {
	if n < 0 {
		n = 0
	}
	if n > len(records) {
		n = len(records)
	}
	out := make([]domain.TrendRecord, n)
	copy(out, records[:n])
	return out
}

// CountBy tallies records per category.
func CountBy(records []domain.TrendRecord, key func(domain.TrendRecord) string) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[key(r)]++
	}
	return counts
}

// SeverityCounts tallies records per alert severity; every tier is present.
func SeverityCounts(records []domain.TrendRecord) map[domain.Severity]int {
	counts := make(map[domain.Severity]int, len(domain.Severities))
	for _, s := range domain.Severities {
		counts[s] = 0
	}
	for _, r := range records {
		counts[derivedOf(r).AlertSeverity]++
	}
	return counts
}

// SleeperTierCounts tallies records per sleeper tier; every tier is present.
func SleeperTierCounts(records []domain.TrendRecord) map[domain.SleeperTier]int {
	counts := make(map[domain.SleeperTier]int, len(domain.SleeperTiers))
	for _, t := range domain.SleeperTiers {
		counts[t] = 0
	}
	for _, r := range records {
		counts[derivedOf(r).SleeperTier]++
	}
	return counts
}

func PositionCounts(records []domain.TrendRecord) map[domain.Position]int {
	counts := make(map[domain.Position]int)
	for _, r := range records {
		counts[r.Position]++
	}
	return counts
}

// LastUpdated is the greatest ScrapedAt in the collection.
func LastUpdated(records []domain.TrendRecord) time.Time {
	var last time.Time
	for _, r := range records {
		if r.ScrapedAt.After(last) {
			last = r.ScrapedAt
		}
	}
	return last
}

// Summary is the common set of reductions reported alongside a view.
type Summary struct {
	Total             int                        `json:"total"`
	DistinctPlayers   int                        `json:"distinct_players"`
	SeverityCounts    map[domain.Severity]int    `json:"severity_counts"`
	SleeperTierCounts map[domain.SleeperTier]int `json:"sleeper_tier_counts"`
	LastUpdated       time.Time                  `json:"last_updated"`
}

func Summarize(records []domain.TrendRecord) Summary {
	return Summary{
		Total:             len(records),
		DistinctPlayers:   DistinctPlayers(records),
		SeverityCounts:    SeverityCounts(records),
		SleeperTierCounts: SleeperTierCounts(records),
		LastUpdated:       LastUpdated(records),
	}
}
