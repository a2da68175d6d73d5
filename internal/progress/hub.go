package progress

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
)

// Hub validates events and fans them out to registered sinks in emit order.
// The walk is sequential, so delivery happens inline; sink failures are
// logged and never propagate to the emitter.
type Hub struct {
	sinks  []Sink
	logger *zap.Logger
	closed atomic.Bool
}

// NewHub builds a Hub over the supplied sinks.
func NewHub(logger *zap.Logger, sinks ...Sink) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		sinks:  append([]Sink(nil), sinks...),
		logger: logger,
	}
}

// Emit hands evt to every sink. Invalid events are dropped with a debug
// line; events emitted after Close are ignored.
func (h *Hub) Emit(ctx context.Context, evt Event) {
	if h == nil || h.closed.Load() {
		return
	}
	if err := evt.Validate(); err != nil {
		h.logger.Debug("Discarding invalid progress event", zap.Error(err))
		return
	}
	for _, sink := range h.sinks {
		if sink == nil {
			continue
		}
		if err := sink.Consume(ctx, evt); err != nil {
			h.logger.Warn("Progress sink consume failed",
				zap.String("stage", string(evt.Stage)),
				zap.Error(err),
			)
		}
	}
}

// Close closes every sink and returns the first error. Safe to call more
// than once.
func (h *Hub) Close(ctx context.Context) error {
	if h == nil || !h.closed.CompareAndSwap(false, true) {
		return nil
	}
	var firstErr error
	for _, sink := range h.sinks {
		if sink == nil {
			continue
		}
		if err := sink.Close(ctx); err != nil {
			h.logger.Warn("Progress sink close failed", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
