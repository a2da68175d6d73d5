package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventValidate(t *testing.T) {
	t.Parallel()

	ts := time.Unix(1700000000, 0).UTC()
	tests := []struct {
		name    string
		evt     Event
		wantErr string
	}{
		{
			name: "minimal run start",
			evt:  Event{RunID: "r", TS: ts, Stage: StageRunStart},
		},
		{
			name: "archive done with url",
			evt:  Event{RunID: "r", TS: ts, Stage: StageArchiveDone, URL: "https://x", Count: 3},
		},
		{
			name:    "missing run id",
			evt:     Event{TS: ts, Stage: StageRunStart},
			wantErr: "run id",
		},
		{
			name:    "missing timestamp",
			evt:     Event{RunID: "r", Stage: StageRunStart},
			wantErr: "timestamp",
		},
		{
			name:    "unknown stage",
			evt:     Event{RunID: "r", TS: ts, Stage: Stage("WAT")},
			wantErr: "unknown stage",
		},
		{
			name:    "user skip requires username",
			evt:     Event{RunID: "r", TS: ts, Stage: StageUserSkip},
			wantErr: "requires username",
		},
		{
			name:    "archive skip requires url",
			evt:     Event{RunID: "r", TS: ts, Stage: StageArchiveSkip, Username: "erik"},
			wantErr: "requires url",
		},
		{
			name:    "fetch retry requires url",
			evt:     Event{RunID: "r", TS: ts, Stage: StageFetchRetry},
			wantErr: "requires url",
		},
		{
			name:    "negative duration",
			evt:     Event{RunID: "r", TS: ts, Stage: StageRunDone, Dur: -time.Second},
			wantErr: "duration",
		},
		{
			name:    "negative count",
			evt:     Event{RunID: "r", TS: ts, Stage: StageSampleDone, Count: -1},
			wantErr: "count",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.evt.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}
