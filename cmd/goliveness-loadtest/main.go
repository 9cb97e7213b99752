// Command goliveness-loadtest measures expiration check latency against a
// Redis token store shared by many simulated clients.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goLiveness "github.com/MrEthical07/goLiveness"
	"github.com/MrEthical07/goLiveness/navigation"
	"github.com/MrEthical07/goLiveness/permission"
	"github.com/MrEthical07/goLiveness/tokenstore"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type client struct {
	monitor *goLiveness.Monitor
	mu      sync.Mutex
}

func main() {
	var (
		clients     = flag.Int("clients", 1000, "number of simulated clients")
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		ops         = flag.Int("ops", 100000, "operations per phase (access + refresh)")
		expiring    = flag.Float64("expiring", 0.1, "fraction of clients whose refresh token is inside the margin")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "gl-load", "key prefix")
	)
	flag.Parse()

	if *clients <= 0 || *concurrency <= 0 || *ops <= 0 || *expiring < 0 || *expiring > 1 {
		fmt.Fprintln(os.Stderr, "clients, concurrency, and ops must be > 0; expiring must be in [0,1]")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		rdb     redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		rdb = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
		cleanup = func() {
			_ = rdb.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", mr.Addr())
	} else {
		rdb = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() { _ = rdb.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	fmt.Printf("seeding %d clients...\n", *clients)
	startSeed := time.Now()
	pool, err := seedClients(ctx, rdb, *prefix, *clients, *expiring)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		for _, c := range pool {
			c.monitor.Close()
		}
	}()
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	accessStats := runPhase(pool, *ops, *concurrency, func(c *client) error {
		_, err := c.monitor.CheckAccessTokenExpiration(ctx)
		return err
	})
	refreshStats := runPhase(pool, *ops, *concurrency, func(c *client) error {
		// termination is not deduplicated; serialize per client like a UI thread would
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.monitor.CheckRefreshTokenExpiration(ctx)
	})

	var terminations uint64
	for _, c := range pool {
		terminations += c.monitor.MetricsSnapshot().Counters[goLiveness.MetricTermination]
	}

	fmt.Println("---- results ----")
	printStats("access", accessStats)
	printStats("refresh", refreshStats)
	fmt.Printf("terminations=%d\n", terminations)
}

func seedClients(ctx context.Context, rdb redis.UniversalClient, prefix string, n int, expiring float64) ([]*client, error) {
	now := time.Now()
	cutoff := int(float64(n) * expiring)
	pool := make([]*client, n)
	for i := 0; i < n; i++ {
		store := tokenstore.NewStore(rdb, fmt.Sprintf("%s:%d", prefix, i))
		refreshTTL := 24 * time.Hour
		if i < cutoff {
			refreshTTL = 30 * time.Second
		}
		rec := &tokenstore.Record{
			Subject:          fmt.Sprintf("u%d", i),
			AccessExpiresAt:  now.Add(5 * time.Minute).Unix(),
			RefreshExpiresAt: now.Add(refreshTTL).Unix(),
			SavedAt:          now.Unix(),
		}
		if err := store.Save(ctx, rec, 0); err != nil {
			return nil, err
		}

		m, err := goLiveness.New().
			WithTokenSource(store).
			WithAuthClearer(store).
			WithRoleClearer(permission.NewCache(nil)).
			WithNavigator(navigation.NewRouter(navigation.Options{HistoryLimit: 4})).
			WithMetricsEnabled(true).
			WithLatencyHistograms(true).
			Build()
		if err != nil {
			return nil, err
		}
		pool[i] = &client{monitor: m}
	}
	return pool, nil
}

func runPhase(pool []*client, ops, concurrency int, op func(*client) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				c := pool[r.Intn(len(pool))]
				t0 := time.Now()
				err := op(c)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	return samples[(len(samples)-1)*p/100]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
