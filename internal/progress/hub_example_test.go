package progress

import (
	"context"
	"fmt"
	"time"
)

type exampleCountingSink struct {
	total int
}

func (s *exampleCountingSink) Consume(context.Context, Event) error {
	s.total++
	return nil
}

func (s *exampleCountingSink) Close(context.Context) error {
	return nil
}

// ExampleHub_Emit demonstrates emitting an event and flushing via Close.
func ExampleHub_Emit() {
	sink := &exampleCountingSink{}
	hub := NewHub(nil, sink)

	hub.Emit(context.Background(), Event{
		RunID: "run-1",
		TS:    time.Unix(0, 0),
		Stage: StageRunStart,
	})
	if err := hub.Close(context.Background()); err != nil {
		panic(err)
	}

	fmt.Printf("events forwarded: %d\n", sink.total)
	// Output:
	// events forwarded: 1
}

// ExampleSink implements a custom Sink that totals ingested games.
func ExampleSink() {
	var games int
	capture := sinkFunc(func(_ context.Context, evt Event) error {
		games += evt.Count
		return nil
	})
	hub := NewHub(nil, capture)

	hub.Emit(context.Background(), Event{
		RunID: "run-1",
		TS:    time.Unix(0, 0),
		Stage: StageArchiveDone,
		URL:   "https://api.chess.com/pub/player/erik/games/2009/10",
		Count: 312,
	})
	if err := hub.Close(context.Background()); err != nil {
		panic(err)
	}

	fmt.Printf("games ingested: %d\n", games)
	// Output:
	// games ingested: 312
}

type sinkFunc func(context.Context, Event) error

func (f sinkFunc) Consume(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

func (sinkFunc) Close(context.Context) error {
	return nil
}
