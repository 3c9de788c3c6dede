package storage

import (
	"reflect"
	"strings"
	"testing"

	"ArtworksCrawler/internal/domain"
)

func sampleRecords() []domain.ArtworkRecord {
	return []domain.ArtworkRecord{
		{
			Title:        "Neon City",
			ImageURL:     "https://cdn.example.org/a.jpg",
			ArtistHandle: "alice",
			SourceURL:    "https://www.behance.net/gallery/1/Neon?x=1&y=2",
			Tags:         []string{},
			Category:     "Uncategorized",
		},
		{
			Title:        "Untitled Project",
			ImageURL:     "",
			ArtistHandle: "alice",
			SourceURL:    "https://www.behance.net/gallery/2/Other",
			Tags:         nil,
			Category:     "Uncategorized",
		},
	}
}

func TestEncodeArtifactWireFormat(t *testing.T) {
	t.Parallel()

	data, err := EncodeArtifact(sampleRecords()[:1])
	if err != nil {
		t.Fatalf("EncodeArtifact error: %v", err)
	}

	want := `[
  {
    "title": "Neon City",
    "image": "https://cdn.example.org/a.jpg",
    "artist": "alice",
    "url": "https://www.behance.net/gallery/1/Neon?x=1&y=2",
    "tags": [],
    "category": "Uncategorized"
  }
]
`
	if string(data) != want {
		t.Fatalf("unexpected encoding:\n%s", data)
	}
}

func TestEncodeArtifactEmpty(t *testing.T) {
	t.Parallel()

	for _, in := range [][]domain.ArtworkRecord{nil, {}} {
		data, err := EncodeArtifact(in)
		if err != nil {
			t.Fatalf("EncodeArtifact error: %v", err)
		}
		if strings.TrimSpace(string(data)) != "[]" {
			t.Fatalf("expected empty array, got %q", data)
		}
	}
}

func TestArtifactRoundTrip(t *testing.T) {
	t.Parallel()

	in := sampleRecords()
	data, err := EncodeArtifact(in)
	if err != nil {
		t.Fatalf("EncodeArtifact error: %v", err)
	}
	if strings.Contains(string(data), "null") {
		t.Fatalf("nil tags must encode as []: %s", data)
	}

	out, err := DecodeArtifact(data)
	if err != nil {
		t.Fatalf("DecodeArtifact error: %v", err)
	}

	in[1].Tags = []string{}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", out, in)
	}
}

func TestDecodeArtifactRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := DecodeArtifact([]byte(`{"title": "x"}`)); err == nil {
		t.Fatalf("expected error for non-array payload")
	}
}
