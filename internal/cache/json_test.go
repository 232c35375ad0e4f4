package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestJSONRoundTripWithTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	if err := SetJSON(ctx, client, HistoryKey("p1"), payload{Name: "p1", Count: 3}, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ttl := mr.TTL("trends:history:p1"); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", ttl)
	}

	var got payload
	ok, err := GetJSON(ctx, client, HistoryKey("p1"), &got)
	if err != nil || !ok {
		t.Fatalf("expected cached value, got ok=%v err=%v", ok, err)
	}
	if got.Name != "p1" || got.Count != 3 {
		t.Fatalf("unexpected payload: %+v", got)
	}

	mr.FastForward(2 * time.Minute)
	ok, err = GetJSON(ctx, client, HistoryKey("p1"), &got)
	if err != nil || ok {
		t.Fatalf("expected expired key to miss, got ok=%v err=%v", ok, err)
	}
}

func TestGetJSONRejectsCorruptValue(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	if err := mr.Set(SnapshotKey, "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var got payload
	if _, err := GetJSON(context.Background(), client, SnapshotKey, &got); err == nil {
		t.Fatal("expected decode error")
	}
}
