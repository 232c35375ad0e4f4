package provider

import (
	"context"
	"fmt"
	"math"
	"time"

	"fantasy-trends/internal/domain"
	"fantasy-trends/internal/trends"

	"go.opentelemetry.io/otel/trace"
)

const (
	DemoSourceName = "demo"
	demoWeeks      = 3
)

var demoSeasonStart = time.Date(2025, time.September, 9, 12, 0, 0, 0, time.UTC)

type demoPlayer struct {
	name     string
	position domain.Position
	team     string
	started  float64
	rostered float64
	increase float64
}

var demoPlayers = []demoPlayer{
	{"Josh Allen", domain.PositionQB, "BUF", 85.2, 98.5, 12.8},
	{"Christian McCaffrey", domain.PositionRB, "SF", 92.1, 99.2, 8.4},
	{"Cooper Kupp", domain.PositionWR, "LAR", 78.9, 95.6, 15.3},
	{"Travis Kelce", domain.PositionTE, "KC", 88.7, 97.8, 7.2},
	{"Lamar Jackson", domain.PositionQB, "BAL", 72.4, 89.1, 18.6},
	{"Derrick Henry", domain.PositionRB, "TEN", 68.3, 87.9, 11.7},
	{"Davante Adams", domain.PositionWR, "LV", 81.5, 96.3, 9.8},
	{"George Kittle", domain.PositionTE, "SF", 65.2, 82.4, 13.9},
	{"Austin Ekeler", domain.PositionRB, "LAC", 76.8, 91.7, 6.5},
	{"Stefon Diggs", domain.PositionWR, "BUF", 79.6, 94.2, 14.1},
	{"Patrick Mahomes", domain.PositionQB, "KC", 83.9, 96.8, 5.7},
	{"Nick Chubb", domain.PositionRB, "CLE", 71.3, 88.6, 10.4},
	{"Tyreek Hill", domain.PositionWR, "MIA", 84.7, 97.1, 8.9},
	{"Mark Andrews", domain.PositionTE, "BAL", 62.8, 79.5, 16.2},
	{"Alvin Kamara", domain.PositionRB, "NO", 73.5, 90.3, 7.8},
	{"Tucker Kraft", domain.PositionTE, "GB", 18.4, 22.1, 9.1},
	{"Jaylen Warren", domain.PositionRB, "PIT", 20.2, 28.4, 6.3},
	{"Rashid Shaheed", domain.PositionWR, "NO", 16.7, 18.9, 11.2},
	{"Bucky Irving", domain.PositionRB, "TB", 19.5, 12.6, 14.4},
	{"Jake Bates", domain.PositionK, "DET", 21.0, 24.3, -3.5},
}

// DemoProvider serves a fixed sample season. It is only wired when the demo
// source is selected explicitly and is never a fallback for empty results.
type DemoProvider struct {
	tracer  trace.Tracer
	records []domain.TrendRecord
}

func NewDemoProvider(tracer trace.Tracer) *DemoProvider {
	return &DemoProvider{tracer: tracer, records: DemoRecords()}
}

func (p *DemoProvider) Name() string { return DemoSourceName }

func (p *DemoProvider) FetchAll(ctx context.Context) ([]domain.TrendRecord, error) {
	_, span := p.tracer.Start(ctx, "demo.fetch-all")
	defer span.End()

	out := make([]domain.TrendRecord, len(p.records))
	copy(out, p.records)
	return out, nil
}

func (p *DemoProvider) FetchHistory(ctx context.Context, playerID string) ([]domain.TrendRecord, error) {
	_, span := p.tracer.Start(ctx, "demo.fetch-history")
	defer span.End()

	if playerID == "" {
		return nil, trends.NewDataFetchError(DemoSourceName, "fetch_history", trends.ErrEmptyPlayerID)
	}
	var out []domain.TrendRecord
	for _, r := range p.records {
		if r.PlayerID == playerID {
			out = append(out, r)
		}
	}
	trends.SortHistory(out)
	return out, nil
}

// DemoRecords builds demoWeeks weekly rows per sample player. The last week
// carries the player's listed shares; earlier weeks step back by the weekly
// increase.
func DemoRecords() []domain.TrendRecord {
	out := make([]domain.TrendRecord, 0, len(demoPlayers)*demoWeeks)
	for i, pl := range demoPlayers {
		for week := 1; week <= demoWeeks; week++ {
			back := float64(demoWeeks - week)
			rosterStep := pl.increase / 4
			out = append(out, domain.TrendRecord{
				PlayerID:              fmt.Sprintf("sample_%d", i),
				PlayerName:            pl.name,
				Position:              pl.position,
				Team:                  pl.team,
				Week:                  week,
				ScrapedAt:             demoSeasonStart.Add(time.Duration(week-1) * 7 * 24 * time.Hour),
				PercentRostered:       domain.Float(clampShare(pl.rostered - back*rosterStep)),
				PercentStarted:        domain.Float(clampShare(pl.started - back*pl.increase)),
				PercentRosteredChange: domain.Float(tenth(rosterStep)),
				PercentStartedChange:  domain.Float(pl.increase),
				Adds:                  500 + (i*137+week*61)%1000,
				Drops:                 100 + (i*53+week*29)%300,
			})
		}
	}
	return out
}

func clampShare(v float64) float64 {
	return tenth(math.Min(100, math.Max(0, v)))
}

func tenth(v float64) float64 { return math.Round(v*10) / 10 }
