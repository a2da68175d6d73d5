package pgn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func names(tags ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	return set
}

func TestExtractTags(t *testing.T) {
	t.Parallel()

	text := "[Event \"Live Chess\"]\n" +
		"[Site \"Chess.com\"]\n" +
		"[Date \"2009.10.03\"]\n" +
		"[White \"erik\"]\n" +
		"[Black \"Mainline_Novelty\"]\n" +
		"[Result \"1-0\"]\n" +
		"[ECO \"C20\"]\n" +
		"\n" +
		"1. e4 e5 2. Qh5 Nc6 3. Bc4 g6 1-0\n"

	got := ExtractTags(text)
	require.Equal(t, names("Event", "Site", "Date", "White", "Black", "Result", "ECO"), got)
}

func TestExtractTagsEdgeCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want map[string]struct{}
	}{
		{name: "empty text", text: "", want: names()},
		{name: "moves only", text: "1. d4 d5 2. c4 e6 1/2-1/2", want: names()},
		{
			name: "bracket not at line start is ignored",
			text: "moves [Event \"x\"] more",
			want: names(),
		},
		{
			name: "name without quoted value is ignored",
			text: "[Event]\n[Setup \"1\"]",
			want: names("Setup"),
		},
		{
			name: "underscores digits and hyphens in names",
			text: "[X_Custom-2 \"v\"]\n[UTCDate \"2020.01.01\"]",
			want: names("X_Custom-2", "UTCDate"),
		},
		{
			name: "duplicate tags collapse",
			text: "[Event \"a\"]\n[Event \"b\"]",
			want: names("Event"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, ExtractTags(tc.text))
		})
	}
}

func TestExtractTagsReturnsNamesOnly(t *testing.T) {
	t.Parallel()

	got := ExtractTags("[White \"erik\"]")
	require.Contains(t, got, "White")
	require.NotContains(t, got, "erik")
}
