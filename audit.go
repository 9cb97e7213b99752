package goLiveness

import (
	"io"

	internalaudit "github.com/MrEthical07/goLiveness/internal/audit"
	"go.uber.org/zap"
)

// AuditEventSessionTerminated is the event type emitted after every
// termination attempt.
const AuditEventSessionTerminated = "session_terminated"

// AuditEvent is a structured audit record emitted by the monitor.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the monitor's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink writes JSON-encoded events to an [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// ZapSink logs events through a zap logger.
type ZapSink = internalaudit.ZapSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// NewZapSink creates a [ZapSink] logging under the "audit" name.
func NewZapSink(logger *zap.Logger) *ZapSink {
	return internalaudit.NewZapSink(logger)
}
