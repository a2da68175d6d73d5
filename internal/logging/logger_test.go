package logging

import "testing"

// TestNewLogger confirms both logger configurations build.
func TestNewLogger(t *testing.T) {
	t.Parallel()

	for _, development := range []bool{true, false} {
		logger, err := New(development)
		if err != nil {
			t.Fatalf("New(%v) error = %v", development, err)
		}
		if logger == nil {
			t.Fatalf("New(%v) returned nil logger", development)
		}
		logger.Info("logger ready")
		logger.Sync() //nolint:errcheck // best-effort flush
	}
}
