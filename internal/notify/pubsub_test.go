// Package notify_test contains unit tests for the notify package.
package notify_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/JakeFAU/chess-schema-crawler/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
)

// newFakePubSub starts a fake Pub/Sub server and returns client options
// pointed at it.
func newFakePubSub(t *testing.T) []option.ClientOption {
	t.Helper()

	srv := pstest.NewServer()
	t.Cleanup(func() { _ = srv.Close() })

	conn, err := grpc.Dial(srv.Addr, grpc.WithInsecure())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return []option.ClientOption{option.WithGRPCConn(conn)}
}

func TestPubSubPublisherPublishAndClose(t *testing.T) {
	ctx := context.Background()
	opts := newFakePubSub(t)

	// Prepare the topic and a subscription on the fake server.
	admin, err := pubsub.NewClient(ctx, "project-id", opts...)
	require.NoError(t, err)
	topic, err := admin.CreateTopic(ctx, "topic-id")
	require.NoError(t, err)
	sub, err := admin.CreateSubscription(ctx, "sub-id", pubsub.SubscriptionConfig{Topic: topic})
	require.NoError(t, err)

	publisher, err := notify.NewPubSubPublisher(ctx, "project-id", "topic-id", nil, opts...)
	require.NoError(t, err)

	completion := notify.Completion{
		RunID:          "0192aa00-0000-7000-8000-000000000001",
		ReportObject:   "chess_headers.json",
		ReportHash:     "abc123",
		KeyCount:       61,
		TagCount:       24,
		GamesProcessed: 54000,
		FinishedAt:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, publisher.Publish(ctx, completion))

	// Receive the message and check the JSON payload round-trips.
	recvCtx, stopRecv := context.WithCancel(ctx)
	defer stopRecv()
	msgs := make(chan *pubsub.Message, 1)
	go func() {
		_ = sub.Receive(recvCtx, func(_ context.Context, msg *pubsub.Message) {
			msgs <- msg
			msg.Ack()
		})
	}()
	msg := <-msgs
	stopRecv()

	var got notify.Completion
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, completion, got)

	require.NoError(t, publisher.Close())
}

func TestNewPubSubPublisherMissingTopic(t *testing.T) {
	ctx := context.Background()
	opts := newFakePubSub(t)

	_, err := notify.NewPubSubPublisher(ctx, "project-id", "absent-topic", nil, opts...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestNoOpPublisher(t *testing.T) {
	var p notify.Publisher = notify.NoOpPublisher{}
	require.NoError(t, p.Publish(context.Background(), notify.Completion{}))
	require.NoError(t, p.Close())
}
