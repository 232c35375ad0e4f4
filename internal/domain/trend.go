package domain

import (
	"fmt"
	"strings"
	"time"
)

type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDST Position = "DST"
)

// Positions lists the recognized roster positions in display order.
var Positions = []Position{PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDST}

// ParsePosition normalizes a position code. Defense aliases (DEF, D/ST) map to DST.
func ParsePosition(s string) (Position, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "QB":
		return PositionQB, true
	case "RB":
		return PositionRB, true
	case "WR":
		return PositionWR, true
	case "TE":
		return PositionTE, true
	case "K":
		return PositionK, true
	case "DST", "DEF", "D/ST":
		return PositionDST, true
	}
	return "", false
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

type SleeperTier string

const (
	SleeperElite  SleeperTier = "elite"
	SleeperHigh   SleeperTier = "high"
	SleeperMedium SleeperTier = "medium"
	SleeperLow    SleeperTier = "low"
)

var SleeperTiers = []SleeperTier{SleeperElite, SleeperHigh, SleeperMedium, SleeperLow}

type RangeDirection string

const (
	RangeUp      RangeDirection = "up"
	RangeDown    RangeDirection = "down"
	RangeNeutral RangeDirection = "neutral"
)

// TrendRecord is one snapshot of one player at one scrape time.
// Nil metric pointers mean the source reported no value.
type TrendRecord struct {
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Position   Position  `json:"position"`
	Team       string    `json:"team"`
	Opponent   string    `json:"opponent"`
	Week       int       `json:"week"`
	ScrapedAt  time.Time `json:"scraped_at"`

	PercentRostered       *float64 `json:"percent_rostered"`
	PercentStarted        *float64 `json:"percent_started"`
	PercentRosteredChange *float64 `json:"percent_rostered_change"`
	PercentStartedChange  *float64 `json:"percent_started_change"`
	Adds                  int      `json:"adds"`
	Drops                 int      `json:"drops"`

	Derived *Derived `json:"derived,omitempty"`
}

// Derived holds values computed from a record and its player's history.
// It is never populated by a data source.
type Derived struct {
	Volatility       float64        `json:"volatility"`
	Momentum         float64        `json:"momentum"`
	SleeperScore     float64        `json:"sleeper_score"`
	SleeperTier      SleeperTier    `json:"sleeper_tier"`
	OpportunityScore float64        `json:"opportunity_score"`
	AlertSeverity    Severity       `json:"alert_severity"`
	StartedRange     float64        `json:"started_range"`
	RangeTrend       float64        `json:"range_trend"`
	RangeDirection   RangeDirection `json:"range_direction"`
}

// Num is the null-to-zero normalization applied to every nullable metric
// before arithmetic.
func Num(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Float returns a pointer to v. Handy for building records in code.
func Float(v float64) *float64 {
	return &v
}

// FormatPercent renders a nullable percentage, keeping "N/A" distinct from 0.
func FormatPercent(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", *v)
}

// FormatChange renders a nullable signed delta with an explicit sign.
func FormatChange(v *float64) string {
	if v == nil {
		return "N/A"
	}
	if *v > 0 {
		return fmt.Sprintf("+%.1f%%", *v)
	}
	return fmt.Sprintf("%.1f%%", *v)
}

// WithoutDerived returns a copy of the record with derived values cleared.
func (r TrendRecord) WithoutDerived() TrendRecord {
	r.Derived = nil
	return r
}
