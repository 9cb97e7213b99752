package goLiveness

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func waitFor(t *testing.T, log *callLog, name string) {
	t.Helper()
	for {
		select {
		case got := <-log.seen:
			if got == name {
				return
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", name)
		}
	}
}

func waitTicks(t *testing.T, m *Monitor, n uint64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for m.MetricsSnapshot().Counters[MetricWatchTick] < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d ticks", n)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestWatchTerminatesWhenRefreshEntersMargin(t *testing.T) {
	log := newCallLog()
	tokens := &fakeTokens{refresh: testNow.Add(90 * time.Second), hasRefresh: true}
	m, clock := newTestMonitor(t, tokens, log, func(b *Builder) {
		cfg := DefaultConfig()
		cfg.Watch.Interval = 15 * time.Second
		cfg.Watch.CheckOnStart = false
		cfg.Metrics.Enabled = true
		b.WithConfig(cfg)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Watch(ctx) }()

	if err := clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("ticker not created: %v", err)
	}

	// 75s left, then exactly 60s left: nothing happens
	clock.Advance(15 * time.Second)
	waitTicks(t, m, 1)
	clock.Advance(15 * time.Second)
	waitTicks(t, m, 2)
	if got := log.snapshot(); len(got) != 0 {
		t.Fatalf("expected no termination before the margin, got %v", got)
	}

	// 45s left: terminate
	clock.Advance(15 * time.Second)

	waitFor(t, log, "navigate:/login")

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if got := log.snapshot(); !reflect.DeepEqual(got, terminationCalls) {
		t.Fatalf("expected exactly one termination, got %v", got)
	}
	if n := m.MetricsSnapshot().Counters[MetricWatchTick]; n != 3 {
		t.Fatalf("expected 3 ticks, got %d", n)
	}
}

func TestTickCallsAccessHandlerWhenAccessExpiring(t *testing.T) {
	var fired atomic.Int32
	log := newCallLog()
	tokens := &fakeTokens{
		access:     testNow.Add(20 * time.Second),
		hasAccess:  true,
		refresh:    testNow.Add(time.Hour),
		hasRefresh: true,
	}
	m, _ := newTestMonitor(t, tokens, log, func(b *Builder) {
		b.WithAccessExpiringHandler(func(context.Context) { fired.Add(1) })
	})

	if terminated := m.Tick(context.Background()); terminated {
		t.Fatal("expected no termination")
	}
	if fired.Load() != 1 {
		t.Fatalf("expected access handler to fire once, got %d", fired.Load())
	}
	if got := log.snapshot(); len(got) != 0 {
		t.Fatalf("expected no collaborator calls, got %v", got)
	}
}

func TestTickSkipsAccessCheckAfterTermination(t *testing.T) {
	var fired atomic.Int32
	log := newCallLog()
	tokens := &fakeTokens{access: testNow.Add(time.Second), hasAccess: true}
	m, _ := newTestMonitor(t, tokens, log, func(b *Builder) {
		b.WithAccessExpiringHandler(func(context.Context) { fired.Add(1) })
	})

	if terminated := m.Tick(context.Background()); !terminated {
		t.Fatal("expected termination with missing refresh expiration")
	}
	if fired.Load() != 0 {
		t.Fatal("access handler must not fire after termination")
	}
	if n := m.MetricsSnapshot().Counters[MetricAccessCheck]; n != 0 {
		t.Fatalf("expected access check to be skipped, got %d", n)
	}
}

func TestTickLogsSourceErrors(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	log := newCallLog()
	m, _ := newTestMonitor(t, &fakeTokens{err: errors.New("redis down")}, log, func(b *Builder) {
		b.WithLogger(zap.New(core))
	})

	if terminated := m.Tick(context.Background()); terminated {
		t.Fatal("expected no termination on source error")
	}
	if logs.FilterMessage("refresh check failed").Len() != 1 {
		t.Fatalf("expected refresh error log, got %v", logs.All())
	}
}

func TestWatchCheckOnStart(t *testing.T) {
	log := newCallLog()
	tokens := &fakeTokens{}
	tokens.setRefresh(time.Time{}, false)
	m, _ := newTestMonitor(t, tokens, log, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Watch(ctx) }()

	waitFor(t, log, "navigate:/login")
	cancel()
	<-done
}
