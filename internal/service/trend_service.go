package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"fantasy-trends/internal/cache"
	"fantasy-trends/internal/domain"
	"fantasy-trends/internal/metrics"
	"fantasy-trends/internal/trends"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const (
	defaultCacheTTL = 10 * time.Minute
	refreshTimeout  = 2 * time.Minute
)

// TrendSource is where raw trend rows come from: Supabase, Postgres or demo data.
type TrendSource interface {
	Name() string
	FetchAll(ctx context.Context) ([]domain.TrendRecord, error)
	FetchHistory(ctx context.Context, playerID string) ([]domain.TrendRecord, error)
}

// TrendMirror receives every successfully fetched snapshot.
type TrendMirror interface {
	UpsertTrends(ctx context.Context, records []domain.TrendRecord) error
}

type cachedSnapshot struct {
	Source   string               `json:"source"`
	LoadedAt time.Time            `json:"loaded_at"`
	Records  []domain.TrendRecord `json:"records"`
}

// RefreshResult describes the snapshot installed by a refresh.
type RefreshResult struct {
	Source   string    `json:"source"`
	Records  int       `json:"records"`
	Players  int       `json:"players"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Status reports the current snapshot and the most recent refresh failure.
type Status struct {
	Source      string    `json:"source"`
	Loaded      bool      `json:"loaded"`
	Records     int       `json:"records"`
	LoadedAt    time.Time `json:"loaded_at,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	LastErrorAt time.Time `json:"last_error_at,omitempty"`
}

// TrendService owns the current snapshot. Views always read the last
// successfully loaded snapshot; a failed refresh never replaces it.
type TrendService struct {
	tracer   trace.Tracer
	source   TrendSource
	mirror   TrendMirror
	redis    cache.RedisClient
	cacheTTL time.Duration
	now      func() time.Time

	group singleflight.Group

	mu          sync.RWMutex
	pipeline    *trends.Pipeline
	lastErr     error
	lastErrorAt time.Time
}

func NewTrendService(
	tracer trace.Tracer,
	source TrendSource,
	mirror TrendMirror,
	redisClient cache.RedisClient,
	cacheTTL time.Duration,
) *TrendService {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &TrendService{
		tracer:   tracer,
		source:   source,
		mirror:   mirror,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

func (s *TrendService) SourceName() string { return s.source.Name() }

// Refresh fetches a new snapshot from the source. Concurrent callers share a
// single in-flight fetch and all receive its outcome.
func (s *TrendService) Refresh(ctx context.Context) (RefreshResult, error) {
	ctx, span := s.tracer.Start(ctx, "trend-service.refresh")
	defer span.End()

	v, err, shared := s.group.Do("refresh", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		return s.refresh(fetchCtx)
	})
	span.SetAttributes(attribute.Bool("shared", shared))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return RefreshResult{}, err
	}
	return v.(RefreshResult), nil
}

func (s *TrendService) refresh(ctx context.Context) (RefreshResult, error) {
	start := s.now()
	source := s.source.Name()

	raw, err := s.source.FetchAll(ctx)
	var p *trends.Pipeline
	if err == nil {
		p, err = trends.NewPipeline(raw, s.now())
	}
	err = trends.NewDataFetchError(source, "fetch_all", err)
	metrics.RecordRefresh(source, s.now().Sub(start).Seconds(), len(raw), err)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.lastErrorAt = s.now()
		s.mu.Unlock()
		log.Printf("trend refresh from %s failed, keeping previous snapshot: %v", source, err)
		return RefreshResult{}, err
	}

	s.install(p)
	if s.redis != nil {
		snap := cachedSnapshot{Source: source, LoadedAt: p.LoadedAt(), Records: raw}
		if err := cache.SetJSON(ctx, s.redis, cache.SnapshotKey, snap, s.cacheTTL); err != nil {
			log.Printf("redis snapshot write error: %v", err)
		}
	}
	if s.mirror != nil && len(raw) > 0 {
		if err := s.mirror.UpsertTrends(ctx, raw); err != nil {
			log.Printf("postgres mirror write error: %v", err)
		}
	}

	result := RefreshResult{
		Source:   source,
		Records:  p.Len(),
		Players:  trends.DistinctPlayers(raw),
		LoadedAt: p.LoadedAt(),
	}
	log.Printf("trend snapshot refreshed from %s: %d rows, %d players", source, result.Records, result.Players)
	return result, nil
}

func (s *TrendService) install(p *trends.Pipeline) {
	s.mu.Lock()
	s.pipeline = p
	s.lastErr = nil
	s.mu.Unlock()
}

// LoadCached installs the Redis copy of the last snapshot when nothing is
// loaded yet. It reports whether a snapshot was installed.
func (s *TrendService) LoadCached(ctx context.Context) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "trend-service.load-cached")
	defer span.End()

	if s.redis == nil {
		return false, nil
	}
	if _, err := s.Snapshot(); err == nil {
		return false, nil
	}

	var snap cachedSnapshot
	ok, err := cache.GetJSON(ctx, s.redis, cache.SnapshotKey, &snap)
	metrics.RecordCacheLookup("snapshot", ok)
	if err != nil || !ok {
		return false, err
	}
	if snap.Source != s.source.Name() {
		return false, nil
	}
	p, err := trends.NewPipeline(snap.Records, snap.LoadedAt)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pipeline != nil {
		return false, nil
	}
	s.pipeline = p
	log.Printf("trend snapshot restored from cache: %d rows from %s", p.Len(), snap.LoadedAt.Format(time.RFC3339))
	return true, nil
}

// Snapshot returns the current pipeline or ErrNoSnapshot.
func (s *TrendService) Snapshot() (*trends.Pipeline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pipeline == nil {
		return nil, trends.ErrNoSnapshot
	}
	return s.pipeline, nil
}

func (s *TrendService) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{Source: s.source.Name(), Loaded: s.pipeline != nil}
	if s.pipeline != nil {
		st.Records = s.pipeline.Len()
		st.LoadedAt = s.pipeline.LoadedAt()
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
		st.LastErrorAt = s.lastErrorAt
	}
	return st
}

// view runs build against the current snapshot inside a span and records the
// pipeline outcome.
func view[T any](ctx context.Context, s *TrendService, name string, build func(*trends.Pipeline) (T, error)) (T, error) {
	_, span := s.tracer.Start(ctx, "trend-service."+name)
	defer span.End()

	var zero T
	p, err := s.Snapshot()
	if err != nil {
		return zero, err
	}
	out, err := build(p)
	metrics.RecordPipeline(name, err)
	if err != nil {
		span.RecordError(err)
		return zero, err
	}
	return out, nil
}

func (s *TrendService) Options(ctx context.Context) (trends.Options, error) {
	return view(ctx, s, "options", func(p *trends.Pipeline) (trends.Options, error) {
		return p.Options(), nil
	})
}

func (s *TrendService) Players(ctx context.Context, req trends.PlayersRequest) (trends.PlayersView, error) {
	return view(ctx, s, "players", func(p *trends.Pipeline) (trends.PlayersView, error) {
		return p.Players(req)
	})
}

func (s *TrendService) Alerts(ctx context.Context, req trends.AlertsRequest) (trends.AlertsView, error) {
	return view(ctx, s, "alerts", func(p *trends.Pipeline) (trends.AlertsView, error) {
		return p.Alerts(req)
	})
}

func (s *TrendService) Sleepers(ctx context.Context, req trends.SleepersRequest) (trends.SleepersView, error) {
	return view(ctx, s, "sleepers", func(p *trends.Pipeline) (trends.SleepersView, error) {
		return p.Sleepers(req)
	})
}

func (s *TrendService) Favorites(ctx context.Context, req trends.FavoritesRequest) (trends.FavoritesView, error) {
	return view(ctx, s, "favorites", func(p *trends.Pipeline) (trends.FavoritesView, error) {
		return p.Favorites(req)
	})
}

func (s *TrendService) Dashboard(ctx context.Context, week int) (trends.DashboardView, error) {
	return view(ctx, s, "dashboard", func(p *trends.Pipeline) (trends.DashboardView, error) {
		return p.Dashboard(week)
	})
}

func (s *TrendService) Compare(ctx context.Context, req trends.CompareRequest) (trends.CompareView, error) {
	return view(ctx, s, "compare", func(p *trends.Pipeline) (trends.CompareView, error) {
		return p.Compare(req)
	})
}

func (s *TrendService) FindPlayers(ctx context.Context, name string, limit int) ([]domain.TrendRecord, error) {
	return view(ctx, s, "find-players", func(p *trends.Pipeline) ([]domain.TrendRecord, error) {
		return p.FindByName(name, limit), nil
	})
}

// TopPlayerIDs returns up to n player ids ordered by latest sleeper score.
func (s *TrendService) TopPlayerIDs(n int) []string {
	p, err := s.Snapshot()
	if err != nil {
		return nil
	}
	ids := p.PlayerIDs()
	if n >= 0 && len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

// PlayerHistory returns a player's full history from the source, served from
// the Redis history cache when present.
func (s *TrendService) PlayerHistory(ctx context.Context, playerID string) (trends.PlayerDetail, error) {
	ctx, span := s.tracer.Start(ctx, "trend-service.player-history")
	defer span.End()
	span.SetAttributes(attribute.String("player_id", playerID))

	if playerID == "" {
		return trends.PlayerDetail{}, trends.ErrEmptyPlayerID
	}

	if s.redis != nil {
		var cached []domain.TrendRecord
		ok, err := cache.GetJSON(ctx, s.redis, cache.HistoryKey(playerID), &cached)
		if err != nil {
			log.Printf("redis history read error: %v", err)
		}
		metrics.RecordCacheLookup("history", ok)
		if ok {
			return trends.BuildPlayerDetail(playerID, cached)
		}
	}

	history, err := s.fetchHistory(ctx, playerID)
	if err != nil {
		span.RecordError(err)
		return trends.PlayerDetail{}, err
	}
	return trends.BuildPlayerDetail(playerID, history)
}

func (s *TrendService) fetchHistory(ctx context.Context, playerID string) ([]domain.TrendRecord, error) {
	history, err := s.source.FetchHistory(ctx, playerID)
	if err != nil {
		return nil, trends.NewDataFetchError(s.source.Name(), "fetch_history", err)
	}
	if s.redis != nil {
		if err := cache.SetJSON(ctx, s.redis, cache.HistoryKey(playerID), history, s.cacheTTL); err != nil {
			log.Printf("redis history write error: %v", err)
		}
	}
	return history, nil
}

// WarmHistory refetches and caches the histories of the given players. It
// stops at the first cancellation and returns the number warmed.
func (s *TrendService) WarmHistory(ctx context.Context, playerIDs []string) (int, error) {
	ctx, span := s.tracer.Start(ctx, "trend-service.warm-history")
	defer span.End()

	if s.redis == nil {
		return 0, nil
	}
	warmed := 0
	var errs []error
	for _, id := range playerIDs {
		if err := ctx.Err(); err != nil {
			return warmed, err
		}
		if _, err := s.fetchHistory(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("warm %s: %w", id, err))
			continue
		}
		warmed++
	}
	span.SetAttributes(attribute.Int("warmed", warmed))
	return warmed, errors.Join(errs...)
}
