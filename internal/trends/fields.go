package trends

import (
	"sort"
	"time"

	"fantasy-trends/internal/domain"
)

type numericField func(domain.TrendRecord) float64

type stringField func(domain.TrendRecord) string

var numericFields = map[string]numericField{
	"week":                    func(r domain.TrendRecord) float64 { return float64(r.Week) },
	"percent_rostered":        func(r domain.TrendRecord) float64 { return domain.Num(r.PercentRostered) },
	"percent_started":         func(r domain.TrendRecord) float64 { return domain.Num(r.PercentStarted) },
	"percent_rostered_change": func(r domain.TrendRecord) float64 { return domain.Num(r.PercentRosteredChange) },
	"percent_started_change":  func(r domain.TrendRecord) float64 { return domain.Num(r.PercentStartedChange) },
	"abs_started_change":      Volatility,
	"adds":                    func(r domain.TrendRecord) float64 { return float64(r.Adds) },
	"drops":                   func(r domain.TrendRecord) float64 { return float64(r.Drops) },
	"volatility":              func(r domain.TrendRecord) float64 { return derivedOf(r).Volatility },
	"momentum":                func(r domain.TrendRecord) float64 { return derivedOf(r).Momentum },
	"sleeper_score":           func(r domain.TrendRecord) float64 { return derivedOf(r).SleeperScore },
	"opportunity_score":       func(r domain.TrendRecord) float64 { return derivedOf(r).OpportunityScore },
	"started_range":           func(r domain.TrendRecord) float64 { return derivedOf(r).StartedRange },
	"range_trend":             func(r domain.TrendRecord) float64 { return derivedOf(r).RangeTrend },
}

var stringFields = map[string]stringField{
	"player_id":   func(r domain.TrendRecord) string { return r.PlayerID },
	"player_name": func(r domain.TrendRecord) string { return r.PlayerName },
	"position":    func(r domain.TrendRecord) string { return string(r.Position) },
	"team":        func(r domain.TrendRecord) string { return r.Team },
	"opponent":    func(r domain.TrendRecord) string { return r.Opponent },
}

// timeFields sort by instant; they are kept out of numericFields so nearby
// timestamps never collapse to equal floats.
var timeFields = map[string]func(domain.TrendRecord) time.Time{
	"scraped_at": func(r domain.TrendRecord) time.Time { return r.ScrapedAt },
}

// SortKeys lists every key accepted by Sort, alphabetically.
func SortKeys() []string {
	keys := make([]string, 0, len(numericFields)+len(stringFields)+len(timeFields))
	for k := range numericFields {
		keys = append(keys, k)
	}
	for k := range timeFields {
		keys = append(keys, k)
	}
	for k := range stringFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func lookupNumeric(name string) (numericField, error) {
	f, ok := numericFields[name]
	if !ok {
		return nil, invalid("field", name, "unknown numeric field")
	}
	return f, nil
}
