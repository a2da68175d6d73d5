package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalProvider writes reports into a directory on the local filesystem.
// This is the mandatory sink: every successful run writes its report here.
type LocalProvider struct {
	baseDir string
}

// NewLocalProvider validates baseDir, creating it when missing.
func NewLocalProvider(baseDir string) (*LocalProvider, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("base directory is required")
	}

	info, err := os.Stat(baseDir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return nil, fmt.Errorf("base directory path is not a directory")
		}
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(baseDir, 0o750); mkErr != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", mkErr)
		}
	default:
		return nil, fmt.Errorf("failed to stat base directory: %w", err)
	}

	return &LocalProvider{baseDir: baseDir}, nil
}

// Save writes data to objectName under the base directory, creating parent
// directories as needed.
func (p *LocalProvider) Save(_ context.Context, objectName string, data []byte) error {
	full, err := p.Path(objectName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return fmt.Errorf("failed to create parent directories: %w", err)
	}
	if err := os.WriteFile(full, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", full, err)
	}
	return nil
}

// Path resolves objectName against the base directory. Names that escape
// the base directory are rejected.
func (p *LocalProvider) Path(objectName string) (string, error) {
	if strings.TrimSpace(objectName) == "" {
		return "", fmt.Errorf("object name is required")
	}
	base := filepath.Clean(p.baseDir)
	full := filepath.Clean(filepath.Join(base, objectName))
	if !strings.HasPrefix(full, base+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected")
	}
	return full, nil
}
