package repository

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"fantasy-trends/internal/domain"
	"fantasy-trends/internal/trends"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const PostgresSourceName = "postgres"

// Migrations holds the versioned schema for the trend table. cmd/migrate
// applies it with version tracking; RunMigrations applies the up scripts
// directly, which is safe because each one is idempotent.
//
//go:embed migrations/*.sql
var Migrations embed.FS

const trendColumns = `player_id, player_name, position, team, opponent, semana, scraped_at,
	percent_rostered, percent_started, percent_rostered_change, percent_started_change, adds, drops`

const upsertTrend = `INSERT INTO nfl_fantasy_trends (` + trendColumns + `)
	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	 ON CONFLICT (player_id, scraped_at) DO UPDATE SET
	     player_name = EXCLUDED.player_name,
	     position = EXCLUDED.position,
	     team = EXCLUDED.team,
	     opponent = EXCLUDED.opponent,
	     semana = EXCLUDED.semana,
	     percent_rostered = EXCLUDED.percent_rostered,
	     percent_started = EXCLUDED.percent_started,
	     percent_rostered_change = EXCLUDED.percent_rostered_change,
	     percent_started_change = EXCLUDED.percent_started_change,
	     adds = EXCLUDED.adds,
	     drops = EXCLUDED.drops`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TrendRepository mirrors the trend table into Postgres and can serve it back
// as a trend source.
type TrendRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewTrendRepository(pool PgxPool, tracer trace.Tracer) *TrendRepository {
	return &TrendRepository{pool: pool, tracer: tracer}
}

func (r *TrendRepository) Name() string { return PostgresSourceName }

func (r *TrendRepository) RunMigrations(ctx context.Context) error {
	ctx, span := r.tracer.Start(ctx, "trend-repo.run-migrations")
	defer span.End()

	paths, err := fs.Glob(Migrations, "migrations/*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(paths)
	for _, p := range paths {
		sql, err := fs.ReadFile(Migrations, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		if _, err := r.pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply %s: %w", p, err)
		}
	}
	return nil
}

// UpsertTrends writes records in one transaction, replacing rows that share
// player_id and scraped_at.
func (r *TrendRepository) UpsertTrends(ctx context.Context, records []domain.TrendRecord) error {
	if len(records) == 0 {
		return nil
	}

	ctx, span := r.tracer.Start(ctx, "trend-repo.upsert-trends")
	defer span.End()
	span.SetAttributes(attribute.Int("rows", len(records)))

	batch := &pgx.Batch{}
	for _, t := range records {
		batch.Queue(upsertTrend,
			t.PlayerID, t.PlayerName, string(t.Position), t.Team, t.Opponent, t.Week, t.ScrapedAt,
			t.PercentRostered, t.PercentStarted, t.PercentRosteredChange, t.PercentStartedChange,
			t.Adds, t.Drops,
		)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	if err := sendUpserts(ctx, tx, batch, records); err != nil {
		tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// sendUpserts runs the queued upserts in one round trip and checks each result.
func sendUpserts(ctx context.Context, tx pgx.Tx, batch *pgx.Batch, records []domain.TrendRecord) error {
	br := tx.SendBatch(ctx, batch)
	for _, t := range records {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("upsert %s at %s: %w", t.PlayerID, t.ScrapedAt.Format("2006-01-02T15:04:05Z07:00"), err)
		}
	}
	return br.Close()
}

// FetchAll returns every mirrored row, newest first.
func (r *TrendRepository) FetchAll(ctx context.Context) ([]domain.TrendRecord, error) {
	ctx, span := r.tracer.Start(ctx, "trend-repo.fetch-all")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT `+trendColumns+`
		 FROM nfl_fantasy_trends
		 ORDER BY scraped_at DESC`)
	if err != nil {
		return nil, trends.NewDataFetchError(PostgresSourceName, "fetch_all", err)
	}
	out, err := scanTrends(rows)
	if err != nil {
		return nil, trends.NewDataFetchError(PostgresSourceName, "fetch_all", err)
	}
	return out, nil
}

// FetchHistory returns one player's rows, oldest first.
func (r *TrendRepository) FetchHistory(ctx context.Context, playerID string) ([]domain.TrendRecord, error) {
	ctx, span := r.tracer.Start(ctx, "trend-repo.fetch-history")
	defer span.End()

	if playerID == "" {
		return nil, trends.NewDataFetchError(PostgresSourceName, "fetch_history", trends.ErrEmptyPlayerID)
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+trendColumns+`
		 FROM nfl_fantasy_trends
		 WHERE player_id = $1
		 ORDER BY scraped_at ASC`,
		playerID,
	)
	if err != nil {
		return nil, trends.NewDataFetchError(PostgresSourceName, "fetch_history", err)
	}
	out, err := scanTrends(rows)
	if err != nil {
		return nil, trends.NewDataFetchError(PostgresSourceName, "fetch_history", err)
	}
	return out, nil
}

func scanTrends(rows pgx.Rows) ([]domain.TrendRecord, error) {
	defer rows.Close()

	var out []domain.TrendRecord
	for rows.Next() {
		var t domain.TrendRecord
		var position string
		if err := rows.Scan(
			&t.PlayerID, &t.PlayerName, &position, &t.Team, &t.Opponent, &t.Week, &t.ScrapedAt,
			&t.PercentRostered, &t.PercentStarted, &t.PercentRosteredChange, &t.PercentStartedChange,
			&t.Adds, &t.Drops,
		); err != nil {
			return nil, err
		}
		if t.PlayerID == "" {
			return nil, trends.ErrEmptyPlayerID
		}
		t.Position = domain.Position(position)
		out = append(out, t)
	}
	return out, rows.Err()
}
