package trends

import (
	"math"
	"sort"
	"time"

	"fantasy-trends/internal/domain"
)

const (
	activityWeeks      = 8
	topPlayersLimit    = 10
	biggestChangeLimit = 8
	trendingLimit      = 5
)

// Highlights are the headline cards for one week. A nil card had no candidate.
type Highlights struct {
	SleeperDetected   *domain.TrendRecord `json:"sleeper_detected,omitempty"`
	TopRiser          *domain.TrendRecord `json:"top_riser,omitempty"`
	BreakoutCandidate *domain.TrendRecord `json:"breakout_candidate,omitempty"`
	FallingStar       *domain.TrendRecord `json:"falling_star,omitempty"`
	WaiverPickup      *domain.TrendRecord `json:"waiver_pickup,omitempty"`
	MostDropped       *domain.TrendRecord `json:"most_dropped,omitempty"`
}

type PositionAverage struct {
	Position        domain.Position `json:"position"`
	AverageRostered float64         `json:"average_rostered"`
	Players         int             `json:"players"`
}

type WeekActivity struct {
	Week  int `json:"week"`
	Adds  int `json:"adds"`
	Drops int `json:"drops"`
}

type KeyStats struct {
	AverageRostered float64 `json:"average_rostered"`
	TotalAdds       int     `json:"total_adds"`
	TotalDrops      int     `json:"total_drops"`
	AddDropRatio    float64 `json:"add_drop_ratio"`
	PositiveShare   float64 `json:"positive_share"`
}

type DashboardView struct {
	Week             int                  `json:"week"`
	Players          int                  `json:"players"`
	LastUpdated      time.Time            `json:"last_updated"`
	Highlights       Highlights           `json:"highlights"`
	PositionAverages []PositionAverage    `json:"position_averages"`
	TopRostered      []domain.TrendRecord `json:"top_rostered"`
	Activity         []WeekActivity       `json:"activity"`
	BiggestChanges   []domain.TrendRecord `json:"biggest_changes"`
	TrendingSleepers []domain.TrendRecord `json:"trending_sleepers"`
	KeyStats         KeyStats             `json:"key_stats"`
	// Records holds the week's rows for downstream insight generation.
	Records []domain.TrendRecord `json:"-"`
}

// Dashboard summarizes a single week. week <= 0 selects the latest week.
func (p *Pipeline) Dashboard(week int) (DashboardView, error) {
	if week < 0 {
		return DashboardView{}, invalid("week", "", "week must be positive")
	}
	if week == 0 {
		week = p.LatestWeek()
	}
	rows, err := Apply(p.records, Criteria{Week: week})
	if err != nil {
		return DashboardView{}, err
	}

	view := DashboardView{
		Week:             week,
		Players:          DistinctPlayers(rows),
		LastUpdated:      LastUpdated(rows),
		Highlights:       highlights(rows),
		PositionAverages: positionAverages(rows),
		Activity:         weeklyActivity(p.records, activityWeeks),
		TrendingSleepers: trendingSleepers(rows),
		KeyStats:         keyStats(rows),
		Records:          rows,
	}
	view.TopRostered, _ = Sort(rows, "percent_rostered", Desc)
	view.TopRostered = TopN(view.TopRostered, topPlayersLimit)

	changed := filterFunc(rows, func(r domain.TrendRecord) bool {
		return r.PercentRosteredChange != nil && *r.PercentRosteredChange != 0
	})
	sort.SliceStable(changed, func(i, j int) bool {
		return math.Abs(*changed[i].PercentRosteredChange) > math.Abs(*changed[j].PercentRosteredChange)
	})
	view.BiggestChanges = TopN(changed, biggestChangeLimit)
	return view, nil
}

func highlights(rows []domain.TrendRecord) Highlights {
	var h Highlights
	rostered := numericFields["percent_rostered"]
	rosteredChange := numericFields["percent_rostered_change"]
	adds := numericFields["adds"]

	sleepers := filterFunc(rows, func(r domain.TrendRecord) bool {
		return rostered(r) < 30 && rosteredChange(r) > 3 && r.Adds > 10
	})
	h.SleeperDetected = recordPtr(extremum(sleepers, rosteredChange, greater))

	withChange := filterFunc(rows, func(r domain.TrendRecord) bool { return r.PercentRosteredChange != nil })
	h.TopRiser = recordPtr(extremum(withChange, rosteredChange, greater))
	h.FallingStar = recordPtr(extremum(withChange, rosteredChange, lesser))

	breakouts := filterFunc(rows, func(r domain.TrendRecord) bool {
		v := rostered(r)
		return v >= 30 && v <= 70 && rosteredChange(r) > 2 && r.Adds > r.Drops
	})
	h.BreakoutCandidate = recordPtr(extremum(breakouts, rosteredChange, greater))

	pickups := filterFunc(rows, func(r domain.TrendRecord) bool {
		return r.Adds > 0 && AddDropRatio(r) > 2 && rostered(r) < 50
	})
	h.WaiverPickup = recordPtr(extremum(pickups, adds, greater))
	if h.WaiverPickup == nil {
		h.WaiverPickup = recordPtr(extremum(rows, adds, greater))
	}
	h.MostDropped = recordPtr(extremum(rows, numericFields["drops"], greater))
	return h
}

// AddDropRatio divides adds by drops, treating fewer than one drop as one.
func AddDropRatio(r domain.TrendRecord) float64 {
	return float64(r.Adds) / math.Max(float64(r.Drops), 1)
}

func positionAverages(rows []domain.TrendRecord) []PositionAverage {
	byPos := map[domain.Position][]domain.TrendRecord{}
	var order []domain.Position
	for _, r := range rows {
		if _, ok := byPos[r.Position]; !ok {
			order = append(order, r.Position)
		}
		byPos[r.Position] = append(byPos[r.Position], r)
	}
	out := make([]PositionAverage, 0, len(order))
	for _, pos := range order {
		group := byPos[pos]
		out = append(out, PositionAverage{
			Position:        pos,
			AverageRostered: round1(meanOf(group, numericFields["percent_rostered"])),
			Players:         DistinctPlayers(group),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AverageRostered > out[j].AverageRostered })
	return out
}

// weeklyActivity totals adds and drops for the most recent n weeks, oldest first.
func weeklyActivity(records []domain.TrendRecord, n int) []WeekActivity {
	totals := map[int]*WeekActivity{}
	for _, r := range records {
		w, ok := totals[r.Week]
		if !ok {
			w = &WeekActivity{Week: r.Week}
			totals[r.Week] = w
		}
		w.Adds += r.Adds
		w.Drops += r.Drops
	}
	weeks := make([]int, 0, len(totals))
	for w := range totals {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	if len(weeks) > n {
		weeks = weeks[len(weeks)-n:]
	}
	out := make([]WeekActivity, len(weeks))
	for i, w := range weeks {
		out[i] = *totals[w]
	}
	return out
}

// trendingSleepers are low-rostered risers with more adds than drops, ranked
// by roster change plus add/drop ratio.
func trendingSleepers(rows []domain.TrendRecord) []domain.TrendRecord {
	candidates := filterFunc(rows, func(r domain.TrendRecord) bool {
		return domain.Num(r.PercentRostered) < 40 &&
			domain.Num(r.PercentRosteredChange) > 1.5 &&
			r.Adds > 5 &&
			r.Adds > r.Drops
	})
	score := func(r domain.TrendRecord) float64 {
		return domain.Num(r.PercentRosteredChange) + AddDropRatio(r)
	}
	sort.SliceStable(candidates, func(i, j int) bool { return score(candidates[i]) > score(candidates[j]) })
	return TopN(candidates, trendingLimit)
}

func keyStats(rows []domain.TrendRecord) KeyStats {
	var ks KeyStats
	if len(rows) == 0 {
		return ks
	}
	positive := 0
	for _, r := range rows {
		ks.TotalAdds += r.Adds
		ks.TotalDrops += r.Drops
		if domain.Num(r.PercentRosteredChange) > 0 {
			positive++
		}
	}
	ks.AverageRostered = round1(meanOf(rows, numericFields["percent_rostered"]))
	ks.AddDropRatio = float64(ks.TotalAdds) / math.Max(float64(ks.TotalDrops), 1)
	ks.PositiveShare = round1(float64(positive) / float64(len(rows)) * 100)
	return ks
}
