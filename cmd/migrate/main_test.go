package main

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"testing/fstest"

	"fantasy-trends/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations(t *testing.T) {
	migrations, err := loadMigrations(repository.Migrations)
	if err != nil {
		t.Fatalf("unexpected error loading embedded migrations: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[0].Name != "create_nfl_fantasy_trends" {
		t.Fatalf("unexpected first migration: %d %s", migrations[0].Version, migrations[0].Name)
	}
	if migrations[1].Version != 2 || migrations[1].Name != "trend_indexes" {
		t.Fatalf("unexpected second migration: %d %s", migrations[1].Version, migrations[1].Name)
	}
	if !strings.Contains(migrations[0].UpSQL, "PRIMARY KEY (player_id, scraped_at)") || migrations[0].DownSQL == "" {
		t.Fatal("expected trend table up/down sql for first migration")
	}
}

func TestLoadMigrationsRejectsMissingDown(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0001_only_up.up.sql": {Data: []byte("SELECT 1;")},
	}
	_, err := loadMigrations(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both up and down")
}

func TestLoadMigrationsRejectsBadName(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/first.up.sql": {Data: []byte("SELECT 1;")},
	}
	_, err := loadMigrations(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid migration filename")
}

func TestApplyUpSkipsApplied(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	migrations, err := loadMigrations(repository.Migrations)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(pgxmock.NewRows([]string{"version"}).AddRow(int64(1)))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_nfl_fantasy_trends_scraped_at").
		WillReturnResult(pgxmock.NewResult("CREATE INDEX", 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs(int64(2), "trend_indexes").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	applied, err := applyUp(context.Background(), mock, migrations)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyDownRollsBackLatest(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	migrations, err := loadMigrations(repository.Migrations)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM schema_migrations ORDER BY version DESC LIMIT $1")).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"version"}).AddRow(int64(2)))
	mock.ExpectBegin()
	mock.ExpectExec("DROP INDEX IF EXISTS idx_nfl_fantasy_trends_team").
		WillReturnResult(pgxmock.NewResult("DROP INDEX", 0))
	mock.ExpectExec("DELETE FROM schema_migrations").
		WithArgs(int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	rolledBack, err := applyDown(context.Background(), mock, migrations, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, rolledBack)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyDownRejectsZeroSteps(t *testing.T) {
	_, err := applyDown(context.Background(), nil, nil, 0)
	assert.EqualError(t, err, "steps must be > 0")
}

func TestCurrentVersionEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT version, name FROM schema_migrations").WillReturnError(pgx.ErrNoRows)

	version, name, err := currentVersion(context.Background(), mock)
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.Empty(t, name)
}

func TestRunStatusAndUnknownCommand(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(pgxmock.NewRows([]string{"version"}).AddRow(int64(1)).AddRow(int64(2)))
	require.NoError(t, run(context.Background(), mock, []string{cmdStatus}))

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	err = run(context.Background(), mock, []string{"sideways"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "sideways"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
