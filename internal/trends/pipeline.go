package trends

import (
	"fmt"
	"sort"
	"time"

	"fantasy-trends/internal/domain"
)

// Pipeline is an immutable, enriched snapshot of trend records. Every view is
// computed from it without mutating it, so a Pipeline may be shared between
// goroutines once built.
type Pipeline struct {
	records  []domain.TrendRecord
	history  map[string][]domain.TrendRecord
	loadedAt time.Time
}

// NewPipeline validates and enriches raw records. The slice is copied.
func NewPipeline(raw []domain.TrendRecord, loadedAt time.Time) (*Pipeline, error) {
	for i, r := range raw {
		if r.PlayerID == "" {
			return nil, fmt.Errorf("record %d (%s): %w", i, r.PlayerName, ErrEmptyPlayerID)
		}
	}
	history := GroupHistory(raw)
	return &Pipeline{
		records:  EnrichWithHistory(raw, history),
		history:  history,
		loadedAt: loadedAt,
	}, nil
}

func (p *Pipeline) Len() int { return len(p.records) }

func (p *Pipeline) LoadedAt() time.Time { return p.loadedAt }

// Records returns a copy of the enriched snapshot in source order.
func (p *Pipeline) Records() []domain.TrendRecord {
	out := make([]domain.TrendRecord, len(p.records))
	copy(out, p.records)
	return out
}

// Raw returns the snapshot without derived values, suitable for caching.
func (p *Pipeline) Raw() []domain.TrendRecord {
	out := make([]domain.TrendRecord, len(p.records))
	for i, r := range p.records {
		out[i] = r.WithoutDerived()
	}
	return out
}

// History returns one player's enriched records in ascending time order.
func (p *Pipeline) History(playerID string) []domain.TrendRecord {
	return EnrichWithHistory(p.history[playerID], p.history)
}

// PlayerIDs lists players ordered by their latest sleeper score, highest first.
func (p *Pipeline) PlayerIDs() []string {
	latest := LatestPerPlayer(p.records)
	sort.SliceStable(latest, func(i, j int) bool {
		return derivedOf(latest[i]).SleeperScore > derivedOf(latest[j]).SleeperScore
	})
	ids := make([]string, len(latest))
	for i, r := range latest {
		ids[i] = r.PlayerID
	}
	return ids
}

// Query describes one pass over the snapshot.
type Query struct {
	Criteria  Criteria
	SortKey   string
	Direction Direction
	// Latest collapses each player to their most recent record. When a week is
	// requested, the collapse happens within that week.
	Latest bool
	// LatestAfterFilter collapses after the criteria are applied instead of
	// before, so a player is shown by their newest matching record.
	LatestAfterFilter bool
	// Limit caps the result; zero means unlimited.
	Limit int
}

// Run filters, optionally deduplicates, sorts and truncates the snapshot.
// All options are validated before any work is done.
func (p *Pipeline) Run(q Query) ([]domain.TrendRecord, error) {
	if err := q.Criteria.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateSortKey(q.SortKey); err != nil {
		return nil, err
	}
	dir := q.Direction
	if dir == "" {
		dir = Desc
	}
	if dir != Asc && dir != Desc {
		return nil, invalid("direction", string(dir), "expected asc or desc")
	}

	scope := p.records
	if q.Criteria.Week > 0 {
		scope, _ = Apply(scope, Criteria{Week: q.Criteria.Week})
	}
	if q.Latest && !q.LatestAfterFilter {
		scope = LatestPerPlayer(scope)
	}

	filtered, err := Apply(scope, q.Criteria)
	if err != nil {
		return nil, err
	}
	if q.Latest && q.LatestAfterFilter {
		filtered = LatestPerPlayer(filtered)
	}
	sorted, err := Sort(filtered, q.SortKey, dir)
	if err != nil {
		return nil, err
	}
	if q.Limit > 0 {
		sorted = TopN(sorted, q.Limit)
	}
	return sorted, nil
}

// Options lists the distinct values available for the categorical filters.
type Options struct {
	Teams      []string          `json:"teams"`
	Weeks      []int             `json:"weeks"`
	Positions  []domain.Position `json:"positions"`
	LatestWeek int               `json:"latest_week"`
	SortKeys   []string          `json:"sort_keys"`
}

func (p *Pipeline) Options() Options {
	teams := map[string]struct{}{}
	weeks := map[int]struct{}{}
	positions := map[domain.Position]struct{}{}
	for _, r := range p.records {
		if r.Team != "" {
			teams[r.Team] = struct{}{}
		}
		if r.Week > 0 {
			weeks[r.Week] = struct{}{}
		}
		if r.Position != "" {
			positions[r.Position] = struct{}{}
		}
	}

	opts := Options{SortKeys: SortKeys()}
	for t := range teams {
		opts.Teams = append(opts.Teams, t)
	}
	sort.Strings(opts.Teams)
	for w := range weeks {
		opts.Weeks = append(opts.Weeks, w)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(opts.Weeks)))
	if len(opts.Weeks) > 0 {
		opts.LatestWeek = opts.Weeks[0]
	}
	for _, pos := range domain.Positions {
		if _, ok := positions[pos]; ok {
			opts.Positions = append(opts.Positions, pos)
		}
	}
	return opts
}

// LatestWeek is the highest week present, or 0 for an empty snapshot.
func (p *Pipeline) LatestWeek() int {
	latest := 0
	for _, r := range p.records {
		if r.Week > latest {
			latest = r.Week
		}
	}
	return latest
}
