package progress

import "context"

// Sink consumes progress events. Implementations must be safe for repeated
// calls and must not block the walk for long.
type Sink interface {
	Consume(ctx context.Context, evt Event) error
	Close(ctx context.Context) error
}

// Emitter publishes individual events; Hub satisfies this interface so the
// engine stays agnostic about where events end up.
type Emitter interface {
	Emit(ctx context.Context, evt Event)
}
