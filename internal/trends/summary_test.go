package trends

import (
	"errors"
	"testing"

	"fantasy-trends/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanCountsMissingAsZero(t *testing.T) {
	records := []domain.TrendRecord{
		rec("a", 1, withStarted(10)),
		rec("b", 1),
		rec("c", 1, withStarted(20)),
	}
	mean, err := Mean(records, "percent_started")
	require.NoError(t, err)
	assert.Equal(t, 10.0, mean)

	mean, err = Mean(nil, "percent_started")
	require.NoError(t, err)
	assert.Equal(t, 0.0, mean)
}

func TestMeanUnknownField(t *testing.T) {
	_, err := Mean(nil, "player_name")
	var ice *InvalidCriteriaError
	assert.True(t, errors.As(err, &ice))
}

func TestExtremaFirstOccurrenceWins(t *testing.T) {
	records := []domain.TrendRecord{
		rec("a", 1, withAdds(5)),
		rec("b", 1, withAdds(9)),
		rec("c", 1, withAdds(9)),
		rec("d", 1, withAdds(1)),
		rec("e", 1, withAdds(1)),
	}
	top, ok, err := Max(records, "adds")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", top.PlayerID)

	low, ok, err := Min(records, "adds")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "d", low.PlayerID)

	_, ok, err = Max(nil, "adds")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTopN(t *testing.T) {
	records := []domain.TrendRecord{rec("a", 1), rec("b", 1), rec("c", 1)}
	assert.Equal(t, []string{"a", "b"}, ids(TopN(records, 2)))
	assert.Len(t, TopN(records, 10), 3)
	assert.Empty(t, TopN(records, -1))
}

func TestCategoryCounts(t *testing.T) {
	records := Enrich([]domain.TrendRecord{
		rec("a", 1, withStartedChange(20)),
		rec("b", 1, withStartedChange(-12)),
		rec("c", 1, withStartedChange(1)),
		rec("d", 1, withStartedChange(2)),
	})
	counts := SeverityCounts(records)
	assert.Equal(t, map[domain.Severity]int{
		domain.SeverityCritical: 1,
		domain.SeverityHigh:     1,
		domain.SeverityMedium:   0,
		domain.SeverityLow:      2,
	}, counts)

	tiers := SleeperTierCounts(nil)
	assert.Len(t, tiers, len(domain.SleeperTiers))

	byTeam := CountBy(records, func(r domain.TrendRecord) string { return r.Team })
	assert.Equal(t, map[string]int{"KC": 4}, byTeam)
}

func TestSummarize(t *testing.T) {
	records := []domain.TrendRecord{rec("a", 1), rec("a", 2), rec("b", 3)}
	s := Summarize(records)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.DistinctPlayers)
	assert.True(t, s.LastUpdated.Equal(records[2].ScrapedAt))
}
