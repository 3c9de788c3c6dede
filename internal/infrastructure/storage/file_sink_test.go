package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSinkWritesAndOverwrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "behance_artworks.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("stale content that is longer than the new artifact ............"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	sink := NewFileSink(path)
	if err := sink.Store(context.Background(), sampleRecords()); err != nil {
		t.Fatalf("Store error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	records, err := DecodeArtifact(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if sink.Describe() != path {
		t.Fatalf("unexpected description: %s", sink.Describe())
	}
}

func TestFileSinkEmptyBatch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "artworks.json")
	if err := NewFileSink(path).Store(context.Background(), nil); err != nil {
		t.Fatalf("Store error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Fatalf("expected empty JSON array, got %q", raw)
	}
}

func TestFileSinkFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := NewFileSink(filepath.Join(blocker, "artworks.json")).Store(context.Background(), sampleRecords())
	var sinkErr *Error
	if !errors.As(err, &sinkErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if sinkErr.Op != "mkdir" {
		t.Fatalf("unexpected op: %s", sinkErr.Op)
	}
}
