package domain

import "time"

const (
	// UntitledProject replaces a missing or blank project label.
	UntitledProject = "Untitled Project"
	// DefaultCategory is assigned to every extracted record.
	DefaultCategory = "Uncategorized"
)

// ArtworkRecord is one project entry extracted from a creator's profile page.
type ArtworkRecord struct {
	Title        string
	ImageURL     string
	ArtistHandle string
	SourceURL    string
	Tags         []string
	Category     string
}

// HandleOutcome captures what happened to a single handle during a run.
type HandleOutcome struct {
	Handle  string
	Records int
	Err     error
}

// OK reports whether the handle was fetched and extracted.
func (o HandleOutcome) OK() bool {
	return o.Err == nil
}

// CrawlResult is the aggregate of one crawl run, held in memory until it is
// handed to a sink.
type CrawlResult struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Records    []ArtworkRecord
	Outcomes   []HandleOutcome
}

// Failed returns the number of handles that contributed no records because of an error.
func (r CrawlResult) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.OK() {
			n++
		}
	}
	return n
}

// FailedHandles lists failed handles in run order.
func (r CrawlResult) FailedHandles() []string {
	var handles []string
	for _, o := range r.Outcomes {
		if !o.OK() {
			handles = append(handles, o.Handle)
		}
	}
	return handles
}

// Duration is the wall time between the first fetch and the end of the run.
func (r CrawlResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
