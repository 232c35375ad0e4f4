package trends

import (
	"testing"
	"time"

	"fantasy-trends/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestPerPlayerKeepsMaxScrapedAt(t *testing.T) {
	input := []domain.TrendRecord{
		rec("a", 2, withStarted(20)),
		rec("b", 1, withStarted(5)),
		rec("a", 5, withStarted(50)),
		rec("c", 3),
		rec("a", 4, withStarted(40)),
		rec("b", 2, withStarted(6)),
	}
	out := LatestPerPlayer(input)
	require.Len(t, out, 3)

	maxAt := map[string]time.Time{}
	for _, r := range input {
		if r.ScrapedAt.After(maxAt[r.PlayerID]) {
			maxAt[r.PlayerID] = r.ScrapedAt
		}
	}
	seen := map[string]int{}
	for _, r := range out {
		seen[r.PlayerID]++
		assert.True(t, r.ScrapedAt.Equal(maxAt[r.PlayerID]), "player %s", r.PlayerID)
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "player %s", id)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids(out))
}

func TestLatestPerPlayerTieGoesToLastSeen(t *testing.T) {
	at := t0.Add(time.Hour)
	input := []domain.TrendRecord{
		rec("a", 1, withTime(at), withName("first")),
		rec("a", 1, withTime(at), withName("second")),
		rec("a", 1, withTime(at.Add(-time.Minute)), withName("older")),
	}
	out := LatestPerPlayer(input)
	require.Len(t, out, 1)
	assert.Equal(t, "second", out[0].PlayerName)
}

func TestLatestPerPlayerEmpty(t *testing.T) {
	assert.Empty(t, LatestPerPlayer(nil))
}

func TestGroupHistoryOrdersAscending(t *testing.T) {
	input := []domain.TrendRecord{
		rec("a", 3), rec("b", 2), rec("a", 1), rec("a", 2),
	}
	history := GroupHistory(input)
	require.Len(t, history, 2)

	weeks := []int{}
	for _, r := range history["a"] {
		weeks = append(weeks, r.Week)
	}
	assert.Equal(t, []int{1, 2, 3}, weeks)
	assert.Equal(t, 3, input[0].Week, "input must not be reordered")
}

func TestDistinctPlayers(t *testing.T) {
	assert.Equal(t, 2, DistinctPlayers([]domain.TrendRecord{rec("a", 1), rec("a", 2), rec("b", 1)}))
	assert.Equal(t, 0, DistinctPlayers(nil))
}
