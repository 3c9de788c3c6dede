package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"ArtworksCrawler/internal/domain"
	"ArtworksCrawler/internal/ports"
)

// FileSink writes the artifact to a local path, replacing any existing file.
type FileSink struct {
	path string
}

var _ ports.ArtifactSink = (*FileSink)(nil)

// NewFileSink wires the destination path.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Describe names the destination for logs and summaries.
func (s *FileSink) Describe() string {
	return s.path
}

// Store serializes records and overwrites the target file.
func (s *FileSink) Store(ctx context.Context, records []domain.ArtworkRecord) error {
	if s.path == "" {
		return &Error{Target: "file", Op: "configure", Err: fmt.Errorf("empty path")}
	}
	if err := ctx.Err(); err != nil {
		return &Error{Target: s.path, Op: "write", Err: err}
	}

	data, err := EncodeArtifact(records)
	if err != nil {
		return &Error{Target: s.path, Op: "encode", Err: err}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &Error{Target: s.path, Op: "mkdir", Err: err}
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return &Error{Target: s.path, Op: "write", Err: err}
	}
	return nil
}
