package trends

import "fantasy-trends/internal/domain"

// PlayerDetail is one player's full trajectory with the range metrics of the
// whole history.
type PlayerDetail struct {
	PlayerID        string                `json:"player_id"`
	PlayerName      string                `json:"player_name"`
	Position        domain.Position       `json:"position"`
	Team            string                `json:"team"`
	History         []domain.TrendRecord  `json:"history"`
	Latest          *domain.TrendRecord   `json:"latest,omitempty"`
	PreviousStarted *float64              `json:"previous_started,omitempty"`
	StartedRange    float64               `json:"started_range"`
	RangeTrend      float64               `json:"range_trend"`
	RangeDirection  domain.RangeDirection `json:"range_direction"`
}

// BuildPlayerDetail sorts and enriches history. Rows belonging to other
// players are dropped.
func BuildPlayerDetail(playerID string, history []domain.TrendRecord) (PlayerDetail, error) {
	if playerID == "" {
		return PlayerDetail{}, ErrEmptyPlayerID
	}
	own := filterFunc(history, func(r domain.TrendRecord) bool { return r.PlayerID == playerID })
	SortHistory(own)

	detail := PlayerDetail{
		PlayerID:     playerID,
		History:      EnrichWithHistory(own, map[string][]domain.TrendRecord{playerID: own}),
		StartedRange: StartedRange(own),
		RangeTrend:   RangeTrend(own),
	}
	detail.RangeDirection = RangeDirectionFor(detail.RangeTrend)
	if len(detail.History) == 0 {
		return detail, nil
	}

	latest := detail.History[len(detail.History)-1]
	detail.Latest = &latest
	detail.PlayerName = latest.PlayerName
	detail.Position = latest.Position
	detail.Team = latest.Team
	if latest.PercentStarted != nil && latest.PercentStartedChange != nil {
		detail.PreviousStarted = domain.Float(*latest.PercentStarted - *latest.PercentStartedChange)
	}
	return detail, nil
}
