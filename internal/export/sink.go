package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirSink writes artifacts into a directory.
type DirSink struct {
	Dir string
}

func (s DirSink) Deliver(_ context.Context, a Artifact) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	p := filepath.Join(dir, a.FileName)
	if err := os.WriteFile(p, a.Data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return p, nil
}
