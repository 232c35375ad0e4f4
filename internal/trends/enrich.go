package trends

import "fantasy-trends/internal/domain"

// Derive computes every derived metric for r. history is the player's full
// ascending history; nil leaves the range metrics at zero.
func Derive(r domain.TrendRecord, history []domain.TrendRecord) domain.Derived {
	score := SleeperScore(r)
	trend := RangeTrend(history)
	return domain.Derived{
		Volatility:       Volatility(r),
		Momentum:         Momentum(r),
		SleeperScore:     score,
		SleeperTier:      SleeperTierFor(score),
		OpportunityScore: OpportunityScore(r),
		AlertSeverity:    AlertSeverity(r),
		StartedRange:     StartedRange(history),
		RangeTrend:       trend,
		RangeDirection:   RangeDirectionFor(trend),
	}
}

// Enrich returns copies of records with Derived populated, using each player's
// history taken from the same collection. The input is not modified.
func Enrich(records []domain.TrendRecord) []domain.TrendRecord {
	return EnrichWithHistory(records, GroupHistory(records))
}

// EnrichWithHistory is Enrich with an externally supplied history index.
// Players missing from history get zero range metrics.
func EnrichWithHistory(records []domain.TrendRecord, history map[string][]domain.TrendRecord) []domain.TrendRecord {
	out := make([]domain.TrendRecord, len(records))
	for i, r := range records {
		d := Derive(r, history[r.PlayerID])
		r.Derived = &d
		out[i] = r
	}
	return out
}

// derivedOf returns the record's derived values, computing the per-record ones
// when the record was never enriched.
func derivedOf(r domain.TrendRecord) domain.Derived {
	if r.Derived != nil {
		return *r.Derived
	}
	return Derive(r, nil)
}
