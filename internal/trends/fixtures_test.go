package trends

import (
	"time"

	"fantasy-trends/internal/domain"
)

var t0 = time.Date(2025, time.September, 2, 9, 0, 0, 0, time.UTC)

type recOpt func(*domain.TrendRecord)

// rec builds a record scraped at the start of the given week.
func rec(id string, week int, opts ...recOpt) domain.TrendRecord {
	r := domain.TrendRecord{
		PlayerID:   id,
		PlayerName: "Player " + id,
		Position:   domain.PositionWR,
		Team:       "KC",
		Week:       week,
		ScrapedAt:  t0.Add(time.Duration(week) * 7 * 24 * time.Hour),
	}
	for _, o := range opts {
		o(&r)
	}
	return r
}

func withRostered(v float64) recOpt {
	return func(r *domain.TrendRecord) { r.PercentRostered = domain.Float(v) }
}

func withStarted(v float64) recOpt {
	return func(r *domain.TrendRecord) { r.PercentStarted = domain.Float(v) }
}

func withStartedChange(v float64) recOpt {
	return func(r *domain.TrendRecord) { r.PercentStartedChange = domain.Float(v) }
}

func withRosteredChange(v float64) recOpt {
	return func(r *domain.TrendRecord) { r.PercentRosteredChange = domain.Float(v) }
}

func withAdds(n int) recOpt { return func(r *domain.TrendRecord) { r.Adds = n } }

func withDrops(n int) recOpt { return func(r *domain.TrendRecord) { r.Drops = n } }

func withName(s string) recOpt { return func(r *domain.TrendRecord) { r.PlayerName = s } }

func withPos(p domain.Position) recOpt { return func(r *domain.TrendRecord) { r.Position = p } }

func withTeam(s string) recOpt { return func(r *domain.TrendRecord) { r.Team = s } }

func withTime(t time.Time) recOpt { return func(r *domain.TrendRecord) { r.ScrapedAt = t } }

func ids(records []domain.TrendRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.PlayerID
	}
	return out
}

// exampleAB is the two-player scenario used across the filter and metric tests.
func exampleAB() []domain.TrendRecord {
	return []domain.TrendRecord{
		rec("A", 3, withRostered(10), withStarted(20), withStartedChange(5), withAdds(50)),
		rec("B", 3, withRostered(60), withStarted(10), withStartedChange(-1), withAdds(2)),
	}
}
