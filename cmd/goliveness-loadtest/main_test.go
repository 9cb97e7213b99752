package main

import (
	"context"
	"testing"
	"time"

	goLiveness "github.com/MrEthical07/goLiveness"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestPercentile(t *testing.T) {
	samples := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if got := percentile(samples, 50); got != 5 {
		t.Fatalf("p50 = %v", got)
	}
	if got := percentile(samples, 100); got != 10 {
		t.Fatalf("p100 = %v", got)
	}
	if got := percentile(nil, 50); got != 0 {
		t.Fatalf("empty = %v", got)
	}
}

func TestSeededExpiringClientsTerminate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	pool, err := seedClients(context.Background(), rdb, "t", 10, 0.3)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	stats := runPhase(pool, 10, 1, func(c *client) error { return nil })
	if stats.ops != 10 || stats.failures != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	var terminated int
	for _, c := range pool {
		if err := c.monitor.CheckRefreshTokenExpiration(context.Background()); err != nil {
			t.Fatalf("refresh check: %v", err)
		}
		if c.monitor.MetricsSnapshot().Counters[goLiveness.MetricTermination] == 1 {
			terminated++
		}
		c.monitor.Close()
	}
	if terminated != 3 {
		t.Fatalf("expected 3 terminated clients, got %d", terminated)
	}
}
