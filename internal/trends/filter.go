package trends

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"fantasy-trends/internal/domain"
)

// All disables a categorical filter.
const All = "all"

// Criteria selects records. Zero values disable the corresponding predicate;
// every active predicate must hold for a record to pass. Missing metrics
// compare as 0.
type Criteria struct {
	Position string `json:"position,omitempty" yaml:"position"`
	Team     string `json:"team,omitempty" yaml:"team"`
	Week     int    `json:"week,omitempty" yaml:"week"`

	MinPercentRostered  *float64 `json:"min_percent_rostered,omitempty" yaml:"min_percent_rostered"`
	MaxPercentRostered  *float64 `json:"max_percent_rostered,omitempty" yaml:"max_percent_rostered"`
	MinPercentStarted   *float64 `json:"min_percent_started,omitempty" yaml:"min_percent_started"`
	MinAbsStartedChange *float64 `json:"min_abs_started_change,omitempty" yaml:"min_abs_started_change"`
	MinStartedRange     *float64 `json:"min_started_range,omitempty" yaml:"min_started_range"`
	MinSleeperScore     *float64 `json:"min_sleeper_score,omitempty" yaml:"min_sleeper_score"`

	Severity       string `json:"severity,omitempty" yaml:"severity"`
	SleeperTier    string `json:"sleeper_tier,omitempty" yaml:"sleeper_tier"`
	RangeDirection string `json:"range_direction,omitempty" yaml:"range_direction"`
	SearchText     string `json:"search,omitempty" yaml:"search"`

	// RisingOnly keeps records whose started change is strictly positive.
	RisingOnly bool `json:"rising_only,omitempty" yaml:"rising_only"`
	// SleepersOnly keeps records whose sleeper score is strictly positive.
	SleepersOnly bool `json:"sleepers_only,omitempty" yaml:"sleepers_only"`
}

// Validate rejects enum values that no record could match and inverted bounds.
func (c Criteria) Validate() error {
	if c.Position != "" && c.Position != All {
		if _, ok := domain.ParsePosition(c.Position); !ok {
			return invalid("position", c.Position, "unknown position")
		}
	}
	if c.Week < 0 {
		return invalid("week", strconv.Itoa(c.Week), "week must be positive")
	}
	if c.Severity != "" && c.Severity != All && !oneOf(c.Severity, domain.Severities) {
		return invalid("severity", c.Severity, "unknown severity")
	}
	if c.SleeperTier != "" && c.SleeperTier != All && !oneOf(c.SleeperTier, domain.SleeperTiers) {
		return invalid("sleeper_tier", c.SleeperTier, "unknown sleeper tier")
	}
	switch domain.RangeDirection(c.RangeDirection) {
	case "", All, domain.RangeUp, domain.RangeDown, domain.RangeNeutral:
	default:
		return invalid("range_direction", c.RangeDirection, "unknown range direction")
	}
	if c.MinPercentRostered != nil && c.MaxPercentRostered != nil && *c.MinPercentRostered > *c.MaxPercentRostered {
		return invalid("min_percent_rostered", fmt.Sprint(*c.MinPercentRostered), "greater than max_percent_rostered")
	}
	return nil
}

func oneOf[T ~string](v string, set []T) bool {
	for _, s := range set {
		if string(s) == v {
			return true
		}
	}
	return false
}

// Match reports whether r satisfies every active predicate.
func (c Criteria) Match(r domain.TrendRecord) bool {
	if c.Position != "" && c.Position != All {
		want, _ := domain.ParsePosition(c.Position)
		if r.Position != want {
			return false
		}
	}
	if c.Team != "" && c.Team != All && r.Team != c.Team {
		return false
	}
	if c.Week > 0 && r.Week != c.Week {
		return false
	}

	rostered := domain.Num(r.PercentRostered)
	if c.MinPercentRostered != nil && rostered < *c.MinPercentRostered {
		return false
	}
	if c.MaxPercentRostered != nil && rostered > *c.MaxPercentRostered {
		return false
	}
	if c.MinPercentStarted != nil && domain.Num(r.PercentStarted) < *c.MinPercentStarted {
		return false
	}
	if c.MinAbsStartedChange != nil && Volatility(r) < *c.MinAbsStartedChange {
		return false
	}
	if c.RisingOnly && domain.Num(r.PercentStartedChange) <= 0 {
		return false
	}

	d := derivedOf(r)
	if c.MinStartedRange != nil && d.StartedRange < *c.MinStartedRange {
		return false
	}
	if c.MinSleeperScore != nil && d.SleeperScore < *c.MinSleeperScore {
		return false
	}
	if c.SleepersOnly && d.SleeperScore <= 0 {
		return false
	}
	if c.Severity != "" && c.Severity != All && string(d.AlertSeverity) != c.Severity {
		return false
	}
	if c.SleeperTier != "" && c.SleeperTier != All && string(d.SleeperTier) != c.SleeperTier {
		return false
	}
	if c.RangeDirection != "" && c.RangeDirection != All && string(d.RangeDirection) != c.RangeDirection {
		return false
	}
	if c.SearchText != "" && !strings.Contains(strings.ToLower(r.PlayerName), strings.ToLower(c.SearchText)) {
		return false
	}
	return true
}

// Apply returns the records that satisfy c, in input order.
func Apply(records []domain.TrendRecord, c Criteria) ([]domain.TrendRecord, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	out := make([]domain.TrendRecord, 0, len(records))
	for _, r := range records {
		if c.Match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// CriteriaKeys are the query keys understood by ParseCriteria.
var CriteriaKeys = []string{
	"position", "team", "week",
	"min_percent_rostered", "max_percent_rostered", "min_percent_started",
	"min_abs_started_change", "min_started_range", "min_sleeper_score",
	"severity", "sleeper_tier", "range_direction", "search",
	"rising_only", "sleepers_only",
}

// ParseCriteria builds Criteria from query-style values. Keys outside
// CriteriaKeys and extra are rejected; keys in extra are left to the caller.
// Keys are checked in sorted order so the reported key is deterministic.
func ParseCriteria(values map[string][]string, extra ...string) (Criteria, error) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var c Criteria
	for _, key := range keys {
		vals := values[key]
		if len(vals) == 0 {
			continue
		}
		v := strings.TrimSpace(vals[len(vals)-1])
		var err error
		switch key {
		case "position":
			c.Position = strings.ToUpper(v)
			if c.Position == "ALL" {
				c.Position = All
			}
		case "team":
			c.Team = strings.ToUpper(v)
			if c.Team == "ALL" {
				c.Team = All
			}
		case "week":
			if v != "" && v != All {
				c.Week, err = strconv.Atoi(v)
			}
		case "min_percent_rostered":
			c.MinPercentRostered, err = parseBound(v)
		case "max_percent_rostered":
			c.MaxPercentRostered, err = parseBound(v)
		case "min_percent_started":
			c.MinPercentStarted, err = parseBound(v)
		case "min_abs_started_change":
			c.MinAbsStartedChange, err = parseBound(v)
		case "min_started_range":
			c.MinStartedRange, err = parseBound(v)
		case "min_sleeper_score":
			c.MinSleeperScore, err = parseBound(v)
		case "severity":
			c.Severity = strings.ToLower(v)
		case "sleeper_tier":
			c.SleeperTier = strings.ToLower(v)
		case "range_direction":
			c.RangeDirection = strings.ToLower(v)
		case "search":
			c.SearchText = v
		case "rising_only":
			c.RisingOnly, err = parseFlag(v)
		case "sleepers_only":
			c.SleepersOnly, err = parseFlag(v)
		default:
			if !contains(extra, key) {
				return Criteria{}, invalid(key, "", "unrecognized option")
			}
		}
		if err != nil {
			return Criteria{}, invalid(key, v, err.Error())
		}
	}
	return c, c.Validate()
}

func parseBound(v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number")
	}
	return &f, nil
}

func parseFlag(v string) (bool, error) {
	if v == "" {
		return true, nil
	}
	return strconv.ParseBool(v)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
