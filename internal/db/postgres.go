package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is nil until InitPostgres succeeds. An empty DATABASE_URL leaves it nil.
var Pool *pgxpool.Pool

var (
	newPool = pgxpool.New
	pingDB  = func(ctx context.Context, pool *pgxpool.Pool) error { return pool.Ping(ctx) }
)

func InitPostgres(ctx context.Context) error {
	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		log.Println("DATABASE_URL not set; Postgres disabled")
		return nil
	}

	pool, err := newPool(ctx, dsn)
	if err != nil {
		return fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pingDB(ctx, pool); err != nil {
		pool.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}
	Pool = pool
	log.Println("Connected to Postgres")
	return nil
}

func Close() {
	if Pool != nil {
		Pool.Close()
		Pool = nil
	}
}
