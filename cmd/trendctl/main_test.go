package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fantasy-trends/internal/trends"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeCriteria(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "criteria.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestPlayersWithCriteriaFile(t *testing.T) {
	path := writeCriteria(t, "position: TE\n")

	out, err := execute(t, "players", "--demo", "--criteria", path)
	require.NoError(t, err)

	assert.Contains(t, out, "4 of 20 players")
	kelce := strings.Index(out, "Travis Kelce")
	kraft := strings.Index(out, "Tucker Kraft")
	require.True(t, kelce >= 0 && kraft >= 0, out)
	assert.Less(t, kelce, kraft, "players sort by start rate, highest first")
	assert.NotContains(t, out, "Josh Allen")
}

func TestPlayersAscending(t *testing.T) {
	out, err := execute(t, "players", "--demo", "--criteria", writeCriteria(t, "position: TE\n"), "--order", "asc", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Tucker Kraft")
	assert.NotContains(t, out, "Travis Kelce")
}

func TestAlertsJSON(t *testing.T) {
	out, err := execute(t, "alerts", "--demo", "--json")
	require.NoError(t, err)

	var view trends.AlertsView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.NotEmpty(t, view.Alerts)
	assert.Equal(t, "Lamar Jackson", view.Alerts[0].PlayerName)
	assert.Equal(t, trends.AlertByChange, view.Mode)
}

func TestFavoritesTable(t *testing.T) {
	out, err := execute(t, "favorites", "--demo", "--criteria", writeCriteria(t, "position: TE\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "4 rising players")
	assert.Contains(t, out, "Mark Andrews")
}

func TestSleepersTable(t *testing.T) {
	out, err := execute(t, "sleepers", "--demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Tucker Kraft")
	assert.NotContains(t, out, "Josh Allen", "rostered stars are never sleepers")
}

func TestCriteriaErrors(t *testing.T) {
	_, err := execute(t, "players", "--demo", "--criteria", writeCriteria(t, "bogus: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")

	_, err = execute(t, "players", "--demo", "--criteria", writeCriteria(t, "position: XX\n"))
	var invalid *trends.InvalidCriteriaError
	require.ErrorAs(t, err, &invalid)

	_, err = execute(t, "players", "--demo", "--criteria", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read criteria")
}

func TestModeAndOrderErrors(t *testing.T) {
	_, err := execute(t, "sleepers", "--demo", "--mode", "bogus")
	assert.ErrorContains(t, err, "unknown sleeper mode")

	_, err = execute(t, "alerts", "--demo", "--mode", "bogus")
	assert.ErrorContains(t, err, "unknown alert mode")

	_, err = execute(t, "players", "--demo", "--order", "sideways")
	assert.Error(t, err)
}

func TestEmptyCriteriaFile(t *testing.T) {
	c, err := loadCriteria(writeCriteria(t, ""))
	require.NoError(t, err)
	assert.Equal(t, trends.Criteria{}, c)
}
