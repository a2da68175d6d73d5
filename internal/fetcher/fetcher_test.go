package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestClient builds a client whose backoff sleeps are recorded instead
// of slept.
func newTestClient(t *testing.T, cfg Config) (*Client, *[]time.Duration) {
	t.Helper()

	client := New(cfg, zap.NewNop())
	waits := &[]time.Duration{}
	client.sleep = func(_ context.Context, d time.Duration) {
		*waits = append(*waits, d)
	}
	return client, waits
}

func TestFetchJSONSuccess(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"games": [{"pgn": "[Event \"x\"]"}]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client, waits := newTestClient(t, Config{})
	doc, err := client.FetchJSON(context.Background(), srv.URL+"/games.json")
	require.NoError(t, err)

	obj, ok := doc.(map[string]any)
	require.True(t, ok, "expected a JSON object, got %T", doc)
	require.Contains(t, obj, "games")
	require.EqualValues(t, 1, requests.Load())
	require.Empty(t, *waits)
}

func TestFetchSendsUserAgent(t *testing.T) {
	t.Parallel()

	var gotAgent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent.Store(r.UserAgent())
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client, _ := newTestClient(t, Config{UserAgent: "schema-test/1.0 (contact: dev)"})
	_, err := client.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "schema-test/1.0 (contact: dev)", gotAgent.Load())
}

func TestFetchRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if requests.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok": true}`)) //nolint:errcheck
	}))
	defer srv.Close()

	var hookAttempts []int
	cfg := Config{
		RetryHook: func(_ string, attempt int, _ time.Duration, err error) {
			require.Error(t, err)
			hookAttempts = append(hookAttempts, attempt)
		},
	}
	client, waits := newTestClient(t, cfg)

	body, err := client.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.JSONEq(t, `{"ok": true}`, string(body))
	require.EqualValues(t, 3, requests.Load())
	require.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *waits)
	require.Equal(t, []int{1, 2}, hookAttempts)
}

func TestFetchReturnsNetworkErrorWhenAttemptsExhaust(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		http.NotFound(w, nil)
	}))
	defer srv.Close()

	client, waits := newTestClient(t, Config{})
	_, err := client.Fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Equal(t, srv.URL+"/missing", netErr.URL)
	require.Equal(t, 3, netErr.Attempts)
	require.EqualValues(t, 3, requests.Load())
	require.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *waits)
}

func TestFetchJSONDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body []byte
	}{
		{name: "malformed JSON", body: []byte(`{"oops":`)},
		{name: "empty body", body: nil},
		{name: "invalid UTF-8", body: []byte{0xff, 0xfe, 0xfd}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var requests atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				requests.Add(1)
				w.Write(tc.body) //nolint:errcheck
			}))
			defer srv.Close()

			client, waits := newTestClient(t, Config{})
			_, err := client.FetchJSON(context.Background(), srv.URL)
			require.Error(t, err)

			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
			require.Equal(t, srv.URL, decodeErr.URL)

			var netErr *NetworkError
			require.False(t, errors.As(err, &netErr), "decode failures must not look like network failures")
			// The body arrived fine, so no retries happen.
			require.EqualValues(t, 1, requests.Load())
			require.Empty(t, *waits)
		})
	}
}

func TestFetchStopsWhenContextCanceled(t *testing.T) {
	t.Parallel()

	// The handler never responds; it waits for the connection to drop.
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	timer := time.AfterFunc(30*time.Millisecond, cancel)
	defer timer.Stop()
	defer cancel()

	client, waits := newTestClient(t, Config{Timeout: 200 * time.Millisecond})
	_, err := client.Fetch(ctx, srv.URL)
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, *waits, "no backoff once the context is gone")
}

func TestFetchHonorsMaxAttempts(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, waits := newTestClient(t, Config{MaxAttempts: 1})
	_, err := client.Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Equal(t, 1, netErr.Attempts)
	require.EqualValues(t, 1, requests.Load())
	require.Empty(t, *waits)
}
