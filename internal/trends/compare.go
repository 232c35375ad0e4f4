package trends

import (
	"strings"

	"fantasy-trends/internal/domain"
)

var compareSortKeys = map[string]bool{
	"player_name":      true,
	"percent_rostered": true,
	"percent_started":  true,
	"adds":             true,
	"drops":            true,
}

type CompareRequest struct {
	TeamA, TeamB string
	// Criteria applies to both sides; its Team field is ignored.
	Criteria  Criteria
	SortKey   string
	Direction Direction
}

type TeamSide struct {
	Team            string               `json:"team"`
	Players         []domain.TrendRecord `json:"players"`
	Count           int                  `json:"count"`
	AverageRostered float64              `json:"average_rostered"`
	AverageStarted  float64              `json:"average_started"`
	TotalAdds       int                  `json:"total_adds"`
	TotalDrops      int                  `json:"total_drops"`
}

type CompareView struct {
	A     TeamSide `json:"team_a"`
	B     TeamSide `json:"team_b"`
	Total int      `json:"total"`
}

// Compare lines up the current players of two different teams.
func (p *Pipeline) Compare(req CompareRequest) (CompareView, error) {
	a := strings.ToUpper(strings.TrimSpace(req.TeamA))
	b := strings.ToUpper(strings.TrimSpace(req.TeamB))
	if a == "" || b == "" {
		return CompareView{}, invalid("team", "", "two teams are required")
	}
	if a == b {
		return CompareView{}, invalid("team", a, "teams must differ")
	}
	key := req.SortKey
	if key == "" {
		key = "percent_rostered"
	}
	if !compareSortKeys[key] {
		return CompareView{}, invalid("sort", key, "not a comparison sort key")
	}

	side := func(team string) (TeamSide, error) {
		c := req.Criteria
		c.Team = team
		players, err := p.Run(Query{Criteria: c, SortKey: key, Direction: req.Direction, Latest: true})
		if err != nil {
			return TeamSide{}, err
		}
		s := TeamSide{
			Team:            team,
			Players:         players,
			Count:           len(players),
			AverageRostered: round1(meanOf(players, numericFields["percent_rostered"])),
			AverageStarted:  round1(meanOf(players, numericFields["percent_started"])),
		}
		for _, r := range players {
			s.TotalAdds += r.Adds
			s.TotalDrops += r.Drops
		}
		return s, nil
	}

	left, err := side(a)
	if err != nil {
		return CompareView{}, err
	}
	right, err := side(b)
	if err != nil {
		return CompareView{}, err
	}
	return CompareView{A: left, B: right, Total: left.Count + right.Count}, nil
}
