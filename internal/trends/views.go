package trends

import (
	"strings"
	"time"

	"fantasy-trends/internal/domain"
)

// PlayersRequest lists current player states.
type PlayersRequest struct {
	Criteria  Criteria
	SortKey   string
	Direction Direction
	Limit     int
}

type PlayersView struct {
	Players         []domain.TrendRecord `json:"players"`
	TotalPlayers    int                  `json:"total_players"`
	FilteredPlayers int                  `json:"filtered_players"`
	LastUpdated     time.Time            `json:"last_updated"`
	Summary         Summary              `json:"summary"`
}

func (p *Pipeline) Players(req PlayersRequest) (PlayersView, error) {
	key := req.SortKey
	if key == "" {
		key = "percent_rostered"
	}
	all, err := p.Run(Query{
		Criteria: req.Criteria, SortKey: key, Direction: req.Direction, Latest: true, LatestAfterFilter: true,
	})
	if err != nil {
		return PlayersView{}, err
	}
	shown := all
	if req.Limit > 0 {
		shown = TopN(all, req.Limit)
	}
	return PlayersView{
		Players:         shown,
		TotalPlayers:    DistinctPlayers(p.records),
		FilteredPlayers: len(all),
		LastUpdated:     LastUpdated(p.records),
		Summary:         Summarize(all),
	}, nil
}

type AlertMode string

const (
	AlertByChange     AlertMode = "started_change"
	AlertByAbsolute   AlertMode = "started_absolute"
	AlertByVolatility AlertMode = "started_volatility"
	AlertByMomentum   AlertMode = "started_momentum"
)

var alertModeKeys = map[AlertMode]string{
	AlertByChange:     "abs_started_change",
	AlertByAbsolute:   "percent_started",
	AlertByVolatility: "volatility",
	AlertByMomentum:   "momentum",
}

const (
	alertListLimit = 50
	topChangeLimit = 10
)

type AlertsRequest struct {
	Criteria Criteria
	Mode     AlertMode
	Latest   bool
	Limit    int
}

// AlertMetrics are the headline movers of an alert view. Nil means the view was
// empty or, for EmergingMomentum, that no low-start player qualified.
type AlertMetrics struct {
	MaxIncrease      *domain.TrendRecord `json:"max_increase,omitempty"`
	MaxDecrease      *domain.TrendRecord `json:"max_decrease,omitempty"`
	MaxVolatility    *domain.TrendRecord `json:"max_volatility,omitempty"`
	EmergingMomentum *domain.TrendRecord `json:"emerging_momentum,omitempty"`
}

type AlertsView struct {
	Mode       AlertMode               `json:"mode"`
	Alerts     []domain.TrendRecord    `json:"alerts"`
	Total      int                     `json:"total"`
	Severity   map[domain.Severity]int `json:"severity_counts"`
	Metrics    AlertMetrics            `json:"metrics"`
	TopChanges []domain.TrendRecord    `json:"top_changes"`
}

func (p *Pipeline) Alerts(req AlertsRequest) (AlertsView, error) {
	mode := req.Mode
	if mode == "" {
		mode = AlertByChange
	}
	key, ok := alertModeKeys[mode]
	if !ok {
		return AlertsView{}, invalid("mode", string(mode), "unknown alert mode")
	}
	all, err := p.Run(Query{Criteria: req.Criteria, SortKey: key, Direction: Desc, Latest: req.Latest})
	if err != nil {
		return AlertsView{}, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = alertListLimit
	}
	byChange, _ := Sort(all, "abs_started_change", Desc)

	view := AlertsView{
		Mode:       mode,
		Alerts:     TopN(all, limit),
		Total:      len(all),
		Severity:   SeverityCounts(all),
		TopChanges: TopN(byChange, topChangeLimit),
	}
	if len(all) == 0 {
		return view, nil
	}

	change := numericFields["percent_started_change"]
	view.Metrics.MaxIncrease = recordPtr(extremum(all, change, greater))
	view.Metrics.MaxDecrease = recordPtr(extremum(all, change, lesser))
	view.Metrics.MaxVolatility = recordPtr(extremum(all, numericFields["volatility"], greater))

	lowStart := filterFunc(all, func(r domain.TrendRecord) bool { return domain.Num(r.PercentStarted) < 30 })
	view.Metrics.EmergingMomentum = recordPtr(extremum(lowStart, numericFields["momentum"], greater))
	return view, nil
}

type SleeperMode string

const (
	SleeperHighStarted     SleeperMode = "high_started"
	SleeperStartedTrending SleeperMode = "started_trending"
	SleeperBalanced        SleeperMode = "balanced"
)

type sleeperPreset struct {
	minStarted, minAbsChange float64
}

var sleeperPresets = map[SleeperMode]sleeperPreset{
	SleeperHighStarted:     {minStarted: 25, minAbsChange: 0},
	SleeperStartedTrending: {minStarted: 10, minAbsChange: 8},
	SleeperBalanced:        {minStarted: 15, minAbsChange: 3},
}

// DefaultSleeperMaxRostered caps roster share for sleepers when unset.
const DefaultSleeperMaxRostered = 50.0

type SleepersRequest struct {
	Criteria Criteria
	// Mode fills MinPercentStarted and MinAbsStartedChange when those are unset.
	Mode   SleeperMode
	Latest bool
	Limit  int
}

type SleeperMetrics struct {
	Top      *domain.TrendRecord `json:"top,omitempty"`
	Momentum *domain.TrendRecord `json:"momentum,omitempty"`
	Hidden   *domain.TrendRecord `json:"hidden,omitempty"`
	Hottest  *domain.TrendRecord `json:"hottest,omitempty"`
}

type SleepersView struct {
	Mode          SleeperMode                `json:"mode"`
	Sleepers      []domain.TrendRecord       `json:"sleepers"`
	Total         int                        `json:"total"`
	HighPotential int                        `json:"high_potential"`
	AverageScore  float64                    `json:"average_score"`
	Tiers         map[domain.SleeperTier]int `json:"tier_counts"`
	Positions     map[domain.Position]int    `json:"position_counts"`
	Metrics       SleeperMetrics             `json:"metrics"`
}

func (p *Pipeline) Sleepers(req SleepersRequest) (SleepersView, error) {
	mode := req.Mode
	if mode == "" {
		mode = SleeperBalanced
	}
	preset, ok := sleeperPresets[mode]
	if !ok {
		return SleepersView{}, invalid("mode", string(mode), "unknown sleeper mode")
	}

	c := req.Criteria
	c.SleepersOnly = true
	if c.MaxPercentRostered == nil {
		c.MaxPercentRostered = domain.Float(DefaultSleeperMaxRostered)
	}
	if c.MinPercentStarted == nil {
		c.MinPercentStarted = domain.Float(preset.minStarted)
	}
	if c.MinAbsStartedChange == nil {
		c.MinAbsStartedChange = domain.Float(preset.minAbsChange)
	}

	all, err := p.Run(Query{Criteria: c, SortKey: "sleeper_score", Direction: Desc, Latest: req.Latest})
	if err != nil {
		return SleepersView{}, err
	}

	view := SleepersView{
		Mode:      mode,
		Sleepers:  all,
		Total:     len(all),
		Tiers:     SleeperTierCounts(all),
		Positions: PositionCounts(all),
	}
	if req.Limit > 0 {
		view.Sleepers = TopN(all, req.Limit)
	}
	if len(all) == 0 {
		return view, nil
	}

	score := numericFields["sleeper_score"]
	view.AverageScore = round1(meanOf(all, score))
	view.HighPotential = len(filterFunc(all, func(r domain.TrendRecord) bool { return score(r) >= 30 }))
	view.Metrics.Top = recordPtr(extremum(all, score, greater))
	view.Metrics.Momentum = recordPtr(extremum(all, numericFields["percent_started_change"], greater))
	view.Metrics.Hidden = recordPtr(extremum(all, rosteredOrFull, lesser))
	view.Metrics.Hottest = recordPtr(extremum(all, numericFields["adds"], greater))
	return view, nil
}

// rosteredOrFull treats a missing roster share as fully rostered so unknowns
// never win the "most hidden" slot.
func rosteredOrFull(r domain.TrendRecord) float64 {
	if r.PercentRostered == nil || *r.PercentRostered == 0 {
		return 100
	}
	return *r.PercentRostered
}

type IncreaseLevel string

const (
	IncreaseExtreme IncreaseLevel = "extreme"
	IncreaseHigh    IncreaseLevel = "high"
	IncreaseMedium  IncreaseLevel = "medium"
	IncreaseNormal  IncreaseLevel = "normal"
)

func IncreaseLevelFor(increase float64) IncreaseLevel {
	switch {
	case increase >= 15:
		return IncreaseExtreme
	case increase >= 10:
		return IncreaseHigh
	case increase >= 5:
		return IncreaseMedium
	default:
		return IncreaseNormal
	}
}

// RankBadge labels a 1-based leaderboard position.
func RankBadge(rank int) string {
	switch {
	case rank <= 3:
		return "gold"
	case rank <= 6:
		return "silver"
	case rank <= 10:
		return "bronze"
	case rank <= 20:
		return "top20"
	default:
		return ""
	}
}

type Favorite struct {
	Rank            int                `json:"rank"`
	Badge           string             `json:"badge,omitempty"`
	Level           IncreaseLevel      `json:"level"`
	Increase        float64            `json:"increase"`
	PreviousStarted float64            `json:"previous_started"`
	Record          domain.TrendRecord `json:"record"`
}

type FavoritesRequest struct {
	Criteria Criteria
	Latest   bool
	Limit    int
}

type FavoritesView struct {
	Favorites       []Favorite                   `json:"favorites"`
	Total           int                          `json:"total"`
	AverageIncrease float64                      `json:"average_increase"`
	MaxIncrease     *Favorite                    `json:"max_increase,omitempty"`
	Elite           int                          `json:"elite"`
	TopByPosition   map[domain.Position]Favorite `json:"top_by_position"`
}

var favoritePositions = []domain.Position{domain.PositionQB, domain.PositionRB, domain.PositionWR, domain.PositionTE}

// Favorites ranks players whose started share rose, biggest rise first.
func (p *Pipeline) Favorites(req FavoritesRequest) (FavoritesView, error) {
	c := req.Criteria
	c.RisingOnly = true
	all, err := p.Run(Query{Criteria: c, SortKey: "percent_started_change", Direction: Desc, Latest: req.Latest})
	if err != nil {
		return FavoritesView{}, err
	}

	favs := make([]Favorite, len(all))
	total := 0.0
	view := FavoritesView{Total: len(all), TopByPosition: map[domain.Position]Favorite{}}
	for i, r := range all {
		inc := domain.Num(r.PercentStartedChange)
		favs[i] = Favorite{
			Rank:            i + 1,
			Badge:           RankBadge(i + 1),
			Level:           IncreaseLevelFor(inc),
			Increase:        inc,
			PreviousStarted: domain.Num(r.PercentStarted) - inc,
			Record:          r,
		}
		total += inc
		if inc >= 15 {
			view.Elite++
		}
		if _, seen := view.TopByPosition[r.Position]; !seen && containsPosition(favoritePositions, r.Position) {
			view.TopByPosition[r.Position] = favs[i]
		}
	}
	if len(favs) > 0 {
		view.AverageIncrease = round1(total / float64(len(favs)))
		top := favs[0]
		view.MaxIncrease = &top
	}
	view.Favorites = favs
	if req.Limit > 0 && req.Limit < len(favs) {
		view.Favorites = favs[:req.Limit]
	}
	return view, nil
}

func containsPosition(set []domain.Position, p domain.Position) bool {
	for _, s := range set {
		if s == p {
			return true
		}
	}
	return false
}

func greater(a, b float64) bool { return a > b }

func lesser(a, b float64) bool { return a < b }

func recordPtr(r domain.TrendRecord, ok bool) *domain.TrendRecord {
	if !ok {
		return nil
	}
	return &r
}

func filterFunc(records []domain.TrendRecord, keep func(domain.TrendRecord) bool) []domain.TrendRecord {
	out := make([]domain.TrendRecord, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// FindByName returns latest records whose player name contains name, best
// sleeper first.
func (p *Pipeline) FindByName(name string, limit int) []domain.TrendRecord {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	out, _ := p.Run(Query{Criteria: Criteria{SearchText: name}, SortKey: "sleeper_score", Latest: true, Limit: limit})
	return out
}
