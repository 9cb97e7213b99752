package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, Event) {
	s.count.Add(1)
}

type gateSink struct {
	gate chan struct{}
}

func (s *gateSink) Emit(context.Context, Event) {
	<-s.gate
}

func TestDispatcherDisabledIsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, &countingSink{})
	if d != nil {
		t.Fatal("expected nil dispatcher when disabled")
	}
	// nil dispatcher must be safe to use
	d.Emit(context.Background(), Event{EventType: "x"})
	d.Close()
	if d.Dropped() != 0 || d.Delivered() != 0 {
		t.Fatal("expected zero counters on nil dispatcher")
	}
}

func TestDispatcherCloseDrainsBuffered(t *testing.T) {
	sink := &countingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 16}, sink)

	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), Event{EventType: "session_terminated"})
	}
	d.Close()

	if got := sink.count.Load(); got != 10 {
		t.Fatalf("expected 10 delivered events, got %d", got)
	}
	if got := d.Delivered(); got != 10 {
		t.Fatalf("expected Delivered()=10, got %d", got)
	}
}

func TestDispatcherDropIfFullCountsDrops(t *testing.T) {
	sink := &gateSink{gate: make(chan struct{})}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	// first event is picked up by the worker and blocks on the gate,
	// the second fills the buffer, the rest are dropped
	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), Event{EventType: "session_terminated"})
		time.Sleep(5 * time.Millisecond)
	}

	if d.Dropped() == 0 {
		t.Fatal("expected dropped events with a blocked sink")
	}

	close(sink.gate)
	d.Close()
}

func TestDispatcherEmitAfterCloseIgnored(t *testing.T) {
	sink := &countingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4}, sink)
	d.Close()
	d.Emit(context.Background(), Event{EventType: "late"})

	if got := sink.count.Load(); got != 0 {
		t.Fatalf("expected no events after close, got %d", got)
	}
}

func TestJSONWriterSinkWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), Event{ID: "a", EventType: "session_terminated", Reason: "refresh_missing", Success: true})
	sink.Emit(context.Background(), Event{ID: "b", EventType: "session_terminated", Reason: "refresh_expiring"})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var first Event
	if err := json.Unmarshal(lines[0], &first); err != nil {
		t.Fatalf("unmarshal first line: %v", err)
	}
	if first.ID != "a" || first.Reason != "refresh_missing" || !first.Success {
		t.Fatalf("unexpected first event: %+v", first)
	}
}

func TestZapSinkLogsEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewZapSink(zap.New(core))

	sink.Emit(context.Background(), Event{
		ID:        "evt-1",
		EventType: "session_terminated",
		Reason:    "refresh_expiring",
		Success:   false,
		Error:     "navigate: boom",
		Metadata:  map[string]string{"stage": "navigate"},
	})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Message != "session_terminated" {
		t.Fatalf("unexpected message %q", entry.Message)
	}
	fields := entry.ContextMap()
	if fields["reason"] != "refresh_expiring" || fields["error"] != "navigate: boom" || fields["meta.stage"] != "navigate" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}
