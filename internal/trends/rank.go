package trends

import (
	"sort"
	"strings"

	"fantasy-trends/internal/domain"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts asc or desc; empty means desc.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case "", Desc:
		return Desc, nil
	case Asc:
		return Asc, nil
	}
	return "", invalid("direction", s, "expected asc or desc")
}

// ValidateSortKey fails for keys Sort does not know. Empty is allowed.
func ValidateSortKey(key string) error {
	if key == "" {
		return nil
	}
	if _, ok := numericFields[key]; ok {
		return nil
	}
	if _, ok := stringFields[key]; ok {
		return nil
	}
	if _, ok := timeFields[key]; ok {
		return nil
	}
	return invalid("sort", key, "unknown sort key")
}

// Sort returns a new slice ordered by key. The sort is stable in both
// directions; string keys compare case-insensitively. An empty key returns the
// input order.
func Sort(records []domain.TrendRecord, key string, dir Direction) ([]domain.TrendRecord, error) {
	if dir == "" {
		dir = Desc
	}
	if dir != Asc && dir != Desc {
		return nil, invalid("direction", string(dir), "expected asc or desc")
	}
	if err := ValidateSortKey(key); err != nil {
		return nil, err
	}

	out := make([]domain.TrendRecord, len(records))
	copy(out, records)
	if key == "" {
		return out, nil
	}

	var less func(a, b domain.TrendRecord) bool
	if f, ok := numericFields[key]; ok {
		less = func(a, b domain.TrendRecord) bool { return f(a) < f(b) }
	} else if f, ok := timeFields[key]; ok {
		less = func(a, b domain.TrendRecord) bool { return f(a).Before(f(b)) }
	} else {
		f := stringFields[key]
		less = func(a, b domain.TrendRecord) bool {
			return strings.ToLower(f(a)) < strings.ToLower(f(b))
		}
	}

	if dir == Asc {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return less(out[j], out[i]) })
	}
	return out, nil
}
