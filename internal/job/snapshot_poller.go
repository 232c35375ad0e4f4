package job

import (
	"context"
	"log"
	"time"

	"fantasy-trends/internal/service"

	"go.opentelemetry.io/otel/trace"
)

const (
	warmInterval = 5 * time.Minute
	warmDelay    = 10 * time.Second
)

// SnapshotPoller keeps the trend snapshot fresh and pre-loads the history
// cache for the most interesting players.
type SnapshotPoller struct {
	tracer       trace.Tracer
	trends       SnapshotRefresher
	pollInterval time.Duration
	warmCount    int
	warmInterval time.Duration
	warmDelay    time.Duration
}

type SnapshotRefresher interface {
	Refresh(ctx context.Context) (service.RefreshResult, error)
	TopPlayerIDs(n int) []string
	WarmHistory(ctx context.Context, playerIDs []string) (int, error)
}

func NewSnapshotPoller(tracer trace.Tracer, trends SnapshotRefresher, pollIntervalSecs, warmCount int) *SnapshotPoller {
	return &SnapshotPoller{
		tracer:       tracer,
		trends:       trends,
		pollInterval: time.Duration(pollIntervalSecs) * time.Second,
		warmCount:    warmCount,
		warmInterval: warmInterval,
		warmDelay:    warmDelay,
	}
}

// Start launches the polling goroutines. Blocks until ctx is cancelled.
func (p *SnapshotPoller) Start(ctx context.Context) {
	log.Println("Snapshot poller starting...")

	go p.pollLoop(ctx, "snapshot-refresh", p.pollInterval, func(ctx context.Context) error {
		ctx, span := p.tracer.Start(ctx, "snapshot-poller.refresh")
		defer span.End()
		_, err := p.trends.Refresh(ctx)
		return err
	})

	if p.warmCount > 0 {
		go p.pollHistory(ctx)
	}

	<-ctx.Done()
	log.Println("Snapshot poller stopped")
}

func (p *SnapshotPoller) pollLoop(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		log.Printf("poller %s initial run error: %v", name, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := fn(ctx); err != nil {
				log.Printf("poller %s error: %v", name, err)
			}
		}
	}
}

func (p *SnapshotPoller) pollHistory(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(p.warmDelay):
	}

	ticker := time.NewTicker(p.warmInterval)
	defer ticker.Stop()

	cursor := 0
	p.warmBatch(ctx, &cursor)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.warmBatch(ctx, &cursor)
		}
	}
}

// warmBatch warms the next warmCount players of the ranked list, wrapping
// around so lower-ranked players are eventually covered too.
func (p *SnapshotPoller) warmBatch(ctx context.Context, cursor *int) {
	ctx, span := p.tracer.Start(ctx, "snapshot-poller.warm-history")
	defer span.End()

	ids := p.trends.TopPlayerIDs(-1)
	if len(ids) == 0 {
		return
	}
	n := p.warmCount
	if n > len(ids) {
		n = len(ids)
	}
	batch := make([]string, 0, n)
	for i := 0; i < n; i++ {
		batch = append(batch, ids[*cursor%len(ids)])
		*cursor++
	}

	if warmed, err := p.trends.WarmHistory(ctx, batch); err != nil {
		log.Printf("history warm-up error (%d/%d warmed): %v", warmed, len(batch), err)
	}
}
