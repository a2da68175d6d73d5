package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func pathSet(paths ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return set
}

// decode keeps fixtures readable: tests describe documents as JSON text the
// way the API returns them.
func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var obj map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &obj))
	return obj
}

func TestFlattenNestedObject(t *testing.T) {
	t.Parallel()

	got := Flatten(decode(t, `{"a": {"b": 1}}`))
	require.Equal(t, pathSet("a", "a.b"), got)
}

func TestFlattenArrays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want map[string]struct{}
	}{
		{
			name: "array of objects unions element keys",
			doc:  `{"a": [{"b": 1}, {"c": 2}]}`,
			want: pathSet("a", "a[]", "a[].b", "a[].c"),
		},
		{
			name: "scalar array stops at the path",
			doc:  `{"a": [1, 2, 3]}`,
			want: pathSet("a"),
		},
		{
			name: "mixed array stops at the path",
			doc:  `{"a": [{"b": 1}, 2]}`,
			want: pathSet("a"),
		},
		{
			name: "empty array stops at the path",
			doc:  `{"a": []}`,
			want: pathSet("a"),
		},
		{
			name: "nested object inside sampled element",
			doc:  `{"a": [{"b": {"c": true}}]}`,
			want: pathSet("a", "a[]", "a[].b", "a[].b.c"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Flatten(decode(t, tc.doc)))
		})
	}
}

func TestFlattenSamplesFirstThreeElementsOnly(t *testing.T) {
	t.Parallel()

	doc := `{"a": [{"b": 1}, {"c": 2}, {"d": 3}, {"only_in_fourth": 4}]}`
	got := Flatten(decode(t, doc))

	require.Equal(t, pathSet("a", "a[]", "a[].b", "a[].c", "a[].d"), got)
	require.NotContains(t, got, "a[].only_in_fourth")
}

func TestFlattenArrayWithLateNonObjectElement(t *testing.T) {
	t.Parallel()

	// A single non-object element anywhere in the array, even past the
	// sample window, disqualifies the whole array from descent.
	doc := `{"a": [{"b": 1}, {"c": 2}, {"d": 3}, "oops"]}`
	require.Equal(t, pathSet("a"), Flatten(decode(t, doc)))
}

func TestFlattenGameRecord(t *testing.T) {
	t.Parallel()

	doc := `{
		"url": "https://www.chess.com/game/live/123",
		"pgn": "[Event \"Live Chess\"]\n1. e4 e5",
		"time_control": "600",
		"rated": true,
		"accuracies": {"white": 92.1, "black": 88.4},
		"white": {"rating": 1500, "username": "erik", "result": "win"},
		"black": {"rating": 1480, "username": "noterik", "result": "resigned"},
		"tournament": null
	}`
	got := Flatten(decode(t, doc))

	require.Equal(t, pathSet(
		"url", "pgn", "time_control", "rated", "tournament",
		"accuracies", "accuracies.white", "accuracies.black",
		"white", "white.rating", "white.username", "white.result",
		"black", "black.rating", "black.username", "black.result",
	), got)
}

func TestFlattenDeterministic(t *testing.T) {
	t.Parallel()

	doc := `{"a": [{"b": {"c": 1}}, {"d": [2]}], "e": {"f": [{"g": 3}]}}`
	first := Flatten(decode(t, doc))
	for i := 0; i < 50; i++ {
		require.Equal(t, first, Flatten(decode(t, doc)))
	}
}
