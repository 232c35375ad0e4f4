package handler

import (
	"net/url"
	"strconv"
	"strings"

	"fantasy-trends/internal/trends"
)

const maxLimit = 500

// parseLimit reads an optional positive limit capped at maxLimit.
func parseLimit(q url.Values) (int, error) {
	v := strings.TrimSpace(q.Get("limit"))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, &trends.InvalidCriteriaError{Key: "limit", Value: v, Reason: "expected a non-negative integer"}
	}
	return min(n, maxLimit), nil
}

// parseLatest defaults to true: views show each player's current record
// unless latest=false asks for the full history.
func parseLatest(q url.Values) (bool, error) {
	v := strings.TrimSpace(q.Get("latest"))
	if v == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &trends.InvalidCriteriaError{Key: "latest", Value: v, Reason: "expected true or false"}
	}
	return b, nil
}

func parseWeek(q url.Values) (int, error) {
	v := strings.TrimSpace(q.Get("week"))
	if v == "" || v == trends.All {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, &trends.InvalidCriteriaError{Key: "week", Value: v, Reason: "expected a positive integer"}
	}
	return n, nil
}

// onlyKeys rejects any query key outside allowed.
func onlyKeys(q url.Values, allowed ...string) error {
	for key := range q {
		ok := false
		for _, a := range allowed {
			if key == a {
				ok = true
				break
			}
		}
		if !ok {
			return &trends.InvalidCriteriaError{Key: key, Reason: "unrecognized option"}
		}
	}
	return nil
}
