package insight

import (
	"fmt"
	"sort"

	"fantasy-trends/internal/domain"
	"fantasy-trends/internal/trends"
)

const (
	CalmWeek   = "Quiet week: no notable sleeper alerts"
	noDataNote = "No data available to generate insights"
)

var insightPositions = []domain.Position{domain.PositionQB, domain.PositionRB, domain.PositionWR, domain.PositionTE}

// Report is the rule-based reading of one week of trend rows.
type Report struct {
	Week       int                 `json:"week"`
	Alerts     []string            `json:"alerts"`
	Insights   []string            `json:"insights"`
	TopSleeper *domain.TrendRecord `json:"top_sleeper,omitempty"`
	KeyStats   trends.KeyStats     `json:"key_stats"`
	Narrative  string              `json:"narrative,omitempty"`
}

// Build derives alerts and insights from a dashboard week.
func Build(view trends.DashboardView) Report {
	return Report{
		Week:       view.Week,
		Alerts:     WeeklyAlerts(view.Records),
		Insights:   WeeklyInsights(view.Records),
		TopSleeper: TopSleeper(view.Records),
		KeyStats:   view.KeyStats,
	}
}

// WeeklyAlerts flags notable roster movement. It never returns an empty list:
// a week with nothing to report yields CalmWeek.
func WeeklyAlerts(rows []domain.TrendRecord) []string {
	var alerts []string

	emerging := count(rows, func(r domain.TrendRecord) bool {
		return rostered(r) < 20 && change(r) > 3 && r.Adds > 10
	})
	if emerging > 0 {
		alerts = append(alerts, fmt.Sprintf("%d emerging sleeper(s): under 20%% rostered and up 3%%+", emerging))
	}

	momentum := count(rows, func(r domain.TrendRecord) bool {
		return rostered(r) < 50 && change(r) > 5 && r.Adds > r.Drops*2
	})
	if momentum > 0 {
		alerts = append(alerts, fmt.Sprintf("%d player(s) with strong momentum: up 5%%+ with adds outpacing drops", momentum))
	}

	var busiest *domain.TrendRecord
	for i := range rows {
		if rows[i].Adds > 50 && (busiest == nil || rows[i].Adds > busiest.Adds) {
			busiest = &rows[i]
		}
	}
	if busiest != nil {
		alerts = append(alerts, fmt.Sprintf("Unusual activity: %s with %d adds", busiest.PlayerName, busiest.Adds))
	}

	if n := count(rows, func(r domain.TrendRecord) bool { return change(r) > 10 }); n > 0 {
		alerts = append(alerts, fmt.Sprintf("%d player(s) up 10%%+: possible breakouts", n))
	}
	if n := count(rows, func(r domain.TrendRecord) bool { return change(r) < -8 }); n > 0 {
		alerts = append(alerts, fmt.Sprintf("%d player(s) down 8%%+: consider selling", n))
	}

	for _, pos := range insightPositions {
		n := count(rows, func(r domain.TrendRecord) bool {
			return r.Position == pos && rostered(r) < 25 && change(r) > 2
		})
		if n > 0 {
			alerts = append(alerts, fmt.Sprintf("%s: %d emerging sleeper(s)", pos, n))
		}
	}

	if len(alerts) == 0 {
		alerts = append(alerts, CalmWeek)
	}
	return alerts
}

// WeeklyInsights summarizes the waiver market for the week.
func WeeklyInsights(rows []domain.TrendRecord) []string {
	if len(rows) == 0 {
		return []string{noDataNote}
	}

	deep := count(rows, func(r domain.TrendRecord) bool { return rostered(r) < 15 })
	emerging := count(rows, func(r domain.TrendRecord) bool { return rostered(r) < 30 && change(r) > 2 })
	out := []string{
		fmt.Sprintf("%d player(s) under 15%% rostered: deep opportunities", deep),
		fmt.Sprintf("%d emerging player(s) under 30%% rostered and trending up", emerging),
	}

	for _, pos := range insightPositions {
		var group []domain.TrendRecord
		for _, r := range rows {
			if r.Position == pos {
				group = append(group, r)
			}
		}
		sleepers := count(group, func(r domain.TrendRecord) bool { return rostered(r) < 25 && change(r) > 1 })
		if sleepers == 0 {
			continue
		}
		avg, _ := trends.Mean(group, "percent_rostered_change")
		out = append(out, fmt.Sprintf("%s: %d sleeper(s), average change %.1f%%", pos, sleepers, avg))
	}

	var adds, drops int
	positive := 0
	for _, r := range rows {
		adds += r.Adds
		drops += r.Drops
		if change(r) > 0 {
			positive++
		}
	}
	ratio := float64(adds) / float64(max(drops, 1))
	switch {
	case ratio > 1.2:
		out = append(out, fmt.Sprintf("Active market: add/drop ratio %.2f", ratio))
	case ratio < 0.8:
		out = append(out, fmt.Sprintf("Conservative market: add/drop ratio %.2f, good sleepers available", ratio))
	}

	if top := TopSleeper(rows); top != nil {
		out = append(out, fmt.Sprintf("Top sleeper: %s (%s rostered, %s)",
			top.PlayerName, domain.FormatPercent(top.PercentRostered), domain.FormatChange(top.PercentRosteredChange)))
	}

	avgRostered, _ := trends.Mean(rows, "percent_rostered")
	out = append(out,
		fmt.Sprintf("%.1f%% of players trending up", float64(positive)/float64(len(rows))*100),
		fmt.Sprintf("Average rostered: %.1f%%", avgRostered),
	)
	return out
}

// TopSleeper picks the player under 40% rostered with the best roster change
// plus a tenth of their adds. Ties keep input order.
func TopSleeper(rows []domain.TrendRecord) *domain.TrendRecord {
	var candidates []domain.TrendRecord
	for _, r := range rows {
		if rostered(r) < 40 {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	score := func(r domain.TrendRecord) float64 { return change(r) + float64(r.Adds)/10 }
	sort.SliceStable(candidates, func(i, j int) bool { return score(candidates[i]) > score(candidates[j]) })
	top := candidates[0]
	return &top
}

func count(rows []domain.TrendRecord, keep func(domain.TrendRecord) bool) int {
	n := 0
	for _, r := range rows {
		if keep(r) {
			n++
		}
	}
	return n
}

func rostered(r domain.TrendRecord) float64 { return domain.Num(r.PercentRostered) }

func change(r domain.TrendRecord) float64 { return domain.Num(r.PercentRosteredChange) }
