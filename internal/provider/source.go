package provider

import (
	"context"
	"errors"
	"log"

	"fantasy-trends/internal/config"
	"fantasy-trends/internal/domain"
	"fantasy-trends/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"
)

var ErrNoDatabase = errors.New("TREND_SOURCE=postgres requires a reachable DATABASE_URL")

// Source is a readable store of trend rows.
type Source interface {
	Name() string
	FetchAll(ctx context.Context) ([]domain.TrendRecord, error)
	FetchHistory(ctx context.Context, playerID string) ([]domain.TrendRecord, error)
}

// ForConfig picks the trend source named by cfg.TrendSource. pool may be nil
// unless the postgres source is selected.
func ForConfig(cfg *config.Config, tracer trace.Tracer, pool *pgxpool.Pool) (Source, error) {
	switch cfg.TrendSource {
	case config.SourceDemo:
		log.Println("serving the built-in demo season")
		return NewDemoProvider(tracer), nil
	case config.SourcePostgres:
		if pool == nil {
			return nil, ErrNoDatabase
		}
		return repository.NewTrendRepository(pool, tracer), nil
	default:
		return NewSupabaseProvider(tracer, cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseTable, cfg.SupabasePageSize), nil
	}
}
