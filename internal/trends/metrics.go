package trends

import (
	"math"

	"fantasy-trends/internal/domain"
)

// Volatility is the magnitude of the week-over-week started change.
func Volatility(r domain.TrendRecord) float64 {
	return math.Abs(domain.Num(r.PercentStartedChange))
}

func Momentum(r domain.TrendRecord) float64 {
	return domain.Num(r.PercentStartedChange) + 0.3*domain.Num(r.PercentRosteredChange)
}

// SleeperScore rates how under-rostered a heavily used player is.
// The >30% rostered halving applies only to the terms accumulated before it;
// the low-roster bonus is added afterwards.
func SleeperScore(r domain.TrendRecord) float64 {
	rostered := domain.Num(r.PercentRostered)
	started := domain.Num(r.PercentStarted)
	change := domain.Num(r.PercentStartedChange)

	score := 0.0
	if rostered > 0 {
		score += 20 * (started / rostered)
	}
	if change > 0 {
		score += 2 * change
	}
	if r.Adds > 0 {
		score += 5 * math.Log(float64(r.Adds)+1)
	}
	if rostered > 30 {
		score *= 0.5
	}
	if rostered < 25 && started > 15 {
		score += 15
	}
	return round1(score)
}

func OpportunityScore(r domain.TrendRecord) float64 {
	rostered := domain.Num(r.PercentRostered)
	started := domain.Num(r.PercentStarted)
	change := domain.Num(r.PercentStartedChange)

	score := 0.5*(100-rostered) + 0.3*started
	if change > 0 {
		score += 0.2 * change
	}
	return round1(score)
}

func AlertSeverity(r domain.TrendRecord) domain.Severity {
	v := Volatility(r)
	switch {
	case v >= 15:
		return domain.SeverityCritical
	case v >= 10:
		return domain.SeverityHigh
	case v >= 5:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

func SleeperTierFor(score float64) domain.SleeperTier {
	switch {
	case score >= 50:
		return domain.SleeperElite
	case score >= 30:
		return domain.SleeperHigh
	case score >= 15:
		return domain.SleeperMedium
	default:
		return domain.SleeperLow
	}
}

// StartedRange is max minus min PercentStarted over the history entries that
// report a value. Fewer than two such entries yields 0.
func StartedRange(history []domain.TrendRecord) float64 {
	points := 0
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range history {
		if r.PercentStarted == nil {
			continue
		}
		points++
		lo = math.Min(lo, *r.PercentStarted)
		hi = math.Max(hi, *r.PercentStarted)
	}
	if points < 2 {
		return 0
	}
	return hi - lo
}

// RangeTrend is the last minus the first PercentStarted of an ascending history.
func RangeTrend(history []domain.TrendRecord) float64 {
	if len(history) == 0 {
		return 0
	}
	return domain.Num(history[len(history)-1].PercentStarted) - domain.Num(history[0].PercentStarted)
}

func RangeDirectionFor(trend float64) domain.RangeDirection {
	switch {
	case trend > 0:
		return domain.RangeUp
	case trend < 0:
		return domain.RangeDown
	default:
		return domain.RangeNeutral
	}
}

// round1 rounds half up to one decimal place.
func round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
