package sinks

import (
	"context"

	"go.uber.org/zap"

	"github.com/JakeFAU/chess-schema-crawler/internal/progress"
)

// LogSink emits structured logs for debugging progress streams. Events log
// at debug level; operator-facing warnings stay with the engine.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a Zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume logs the event using structured fields, omitting empty ones.
func (s *LogSink) Consume(_ context.Context, evt progress.Event) error {
	fields := []zap.Field{
		zap.String("run_id", evt.RunID),
		zap.String("stage", string(evt.Stage)),
	}
	if evt.Username != "" {
		fields = append(fields, zap.String("username", evt.Username))
	}
	if evt.URL != "" {
		fields = append(fields, zap.String("url", evt.URL))
	}
	if evt.Count > 0 {
		fields = append(fields, zap.Int("count", evt.Count))
	}
	if evt.Keys > 0 {
		fields = append(fields, zap.Int("keys", evt.Keys))
	}
	if evt.Tags > 0 {
		fields = append(fields, zap.Int("tags", evt.Tags))
	}
	if evt.Dur > 0 {
		fields = append(fields, zap.Duration("dur", evt.Dur))
	}
	if evt.Note != "" {
		fields = append(fields, zap.String("note", evt.Note))
	}
	s.logger.Debug("Progress event", fields...)
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error {
	return nil
}
