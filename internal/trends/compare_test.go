package trends

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareTeams(t *testing.T) {
	p := samplePipeline(t)
	view, err := p.Compare(CompareRequest{TeamA: "buf", TeamB: "KC"})
	require.NoError(t, err)

	assert.Equal(t, "BUF", view.A.Team)
	assert.Equal(t, []string{"a"}, ids(view.A.Players))
	assert.Equal(t, []string{"b", "c"}, ids(view.B.Players))
	assert.Equal(t, 47.0, view.B.AverageRostered)
	assert.Equal(t, 46.0, view.B.AverageStarted)
	assert.Equal(t, 47, view.B.TotalAdds)
	assert.Equal(t, 3, view.Total)
}

func TestCompareSortAndFilter(t *testing.T) {
	p := samplePipeline(t)
	view, err := p.Compare(CompareRequest{TeamA: "BUF", TeamB: "KC", SortKey: "player_name", Direction: Asc, Criteria: Criteria{Position: "RB"}})
	require.NoError(t, err)
	assert.Empty(t, view.A.Players)
	assert.Equal(t, []string{"c"}, ids(view.B.Players))
}

func TestCompareRejectsBadRequests(t *testing.T) {
	p := samplePipeline(t)
	var ice *InvalidCriteriaError

	_, err := p.Compare(CompareRequest{TeamA: "kc", TeamB: "KC"})
	assert.True(t, errors.As(err, &ice))
	_, err = p.Compare(CompareRequest{TeamA: "KC"})
	assert.True(t, errors.As(err, &ice))
	_, err = p.Compare(CompareRequest{TeamA: "KC", TeamB: "BUF", SortKey: "sleeper_score"})
	assert.True(t, errors.As(err, &ice))
}
