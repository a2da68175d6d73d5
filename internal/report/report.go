package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Metadata describes the run that produced a report.
type Metadata struct {
	UserCount          int       `json:"user_count"`
	MaxMonthsPerUser   int       `json:"max_months_per_user"`
	IncludedErikSample bool      `json:"included_erik_sample"`
	RunID              string    `json:"run_id"`
	GeneratedAt        time.Time `json:"generated_at"`
}

// Report is the single structured artifact of a run.
type Report struct {
	JSONGameKeys []string `json:"json_game_keys"`
	PGNTagKeys   []string `json:"pgn_tag_keys"`
	Metadata     Metadata `json:"metadata"`
}

// Encode renders the report as two-space-indented JSON.
func (r Report) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return data, nil
}

// WriteSummary renders the human-readable listing to w: one labeled
// section per union, one entry per line, a blank line between sections.
func (r Report) WriteSummary(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "JSON keys (union):")
	for _, key := range r.JSONGameKeys {
		fmt.Fprintln(bw, key)
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "PGN tags (union):")
	for _, tag := range r.PGNTagKeys {
		fmt.Fprintln(bw, tag)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
