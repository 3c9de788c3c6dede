package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"ArtworksCrawler/internal/domain"
)

const (
	// DefaultObjectName is the artifact name used by every remote destination.
	DefaultObjectName = "behance_artworks.json"
	// ContentTypeJSON is declared on uploads.
	ContentTypeJSON = "application/json"
)

// artworkJSON is the wire shape; image and url intentionally differ from the
// in-memory field names.
type artworkJSON struct {
	Title    string   `json:"title"`
	Image    string   `json:"image"`
	Artist   string   `json:"artist"`
	URL      string   `json:"url"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
}

// EncodeArtifact renders records as a 2-space indented JSON array.
func EncodeArtifact(records []domain.ArtworkRecord) ([]byte, error) {
	payload := make([]artworkJSON, 0, len(records))
	for _, r := range records {
		tags := r.Tags
		if tags == nil {
			tags = []string{}
		}
		payload = append(payload, artworkJSON{
			Title:    r.Title,
			Image:    r.ImageURL,
			Artist:   r.ArtistHandle,
			URL:      r.SourceURL,
			Tags:     tags,
			Category: r.Category,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeArtifact parses bytes produced by EncodeArtifact.
func DecodeArtifact(data []byte) ([]domain.ArtworkRecord, error) {
	var payload []artworkJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}

	records := make([]domain.ArtworkRecord, 0, len(payload))
	for _, item := range payload {
		tags := item.Tags
		if tags == nil {
			tags = []string{}
		}
		records = append(records, domain.ArtworkRecord{
			Title:        item.Title,
			ImageURL:     item.Image,
			ArtistHandle: item.Artist,
			SourceURL:    item.URL,
			Tags:         tags,
			Category:     item.Category,
		})
	}
	return records, nil
}

// Error reports a failed write or upload. It is the only error class that
// fails a run.
type Error struct {
	Target string
	Op     string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("sink %s: %s: %v", e.Target, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
