package progress

import (
	"errors"
	"fmt"
	"time"
)

// Stage denotes the type of milestone represented by an Event.
type Stage string

// Supported progress stages.
const (
	StageRunStart     Stage = "RUN_START"
	StageDiscoverDone Stage = "DISCOVER_DONE"
	StageSampleDone   Stage = "SAMPLE_DONE"
	StageFetchRetry   Stage = "FETCH_RETRY"
	StageUserDone     Stage = "USER_DONE"
	StageUserSkip     Stage = "USER_SKIP"
	StageArchiveDone  Stage = "ARCHIVE_DONE"
	StageArchiveSkip  Stage = "ARCHIVE_SKIP"
	StageRunDone      Stage = "RUN_DONE"
	StageRunError     Stage = "RUN_ERROR"
)

// Event captures a single milestone of crawl progress.
type Event struct {
	// RunID identifies the run that produced the event.
	RunID string
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which milestone occurred.
	Stage Stage
	// Username scopes user-level events.
	Username string
	// URL names the endpoint involved, when one applies.
	URL string
	// Count carries the stage's unit count: usernames discovered, games
	// ingested from an archive, archives walked for a user.
	Count int
	// Keys is the key-path union size after the milestone.
	Keys int
	// Tags is the tag-name union size after the milestone.
	Tags int
	// Dur captures latency for completed stages.
	Dur time.Duration
	// Note lets emitters attach low-volume debug context (e.g. error text).
	Note string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RunID == "" {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunStart, StageDiscoverDone, StageSampleDone, StageRunDone, StageRunError:
	case StageUserDone, StageUserSkip:
		if e.Username == "" {
			return fmt.Errorf("%s requires username", e.Stage)
		}
	case StageArchiveDone, StageArchiveSkip, StageFetchRetry:
		if e.URL == "" {
			return fmt.Errorf("%s requires url", e.Stage)
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	if e.Count < 0 {
		return errors.New("count must be >= 0")
	}
	return nil
}
