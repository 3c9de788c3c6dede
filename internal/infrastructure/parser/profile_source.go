package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ArtworksCrawler/internal/domain"
	"ArtworksCrawler/internal/ports"
	"ArtworksCrawler/internal/scanner"
)

// DefaultPacing is the delay kept between consecutive profile fetches.
const DefaultPacing = 1500 * time.Millisecond

var errBlankHandle = errors.New("blank handle")

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// ProfileSource implements ArtworkSource by walking handles one at a time.
type ProfileSource struct {
	fetcher   ports.ProfileFetcher
	extractor scanner.Extractor
	pacing    time.Duration
	sleep     SleepFunc
	now       func() time.Time
	logger    *slog.Logger
}

var _ ports.ArtworkSource = (*ProfileSource)(nil)

// ProfileSourceDeps wires the collaborators of a ProfileSource.
type ProfileSourceDeps struct {
	Fetcher   ports.ProfileFetcher
	Extractor scanner.Extractor
	Pacing    time.Duration
	Sleep     SleepFunc
	Logger    *slog.Logger
}

// NewProfileSource builds the orchestrator. A negative pacing disables the delay.
func NewProfileSource(deps ProfileSourceDeps) *ProfileSource {
	pacing := deps.Pacing
	if pacing < 0 {
		pacing = 0
	}
	sleep := deps.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	return &ProfileSource{
		fetcher:   deps.Fetcher,
		extractor: deps.Extractor,
		pacing:    pacing,
		sleep:     sleep,
		now:       time.Now,
		logger:    deps.Logger,
	}
}

// Collect fetches and extracts every handle in order and returns the whole
// batch. Per-handle failures are logged and skipped; only a cancelled
// context stops the run early.
func (s *ProfileSource) Collect(ctx context.Context, handles []string) (domain.CrawlResult, error) {
	if s.fetcher == nil {
		return domain.CrawlResult{}, fmt.Errorf("profile fetcher is not configured")
	}
	if s.extractor == nil {
		return domain.CrawlResult{}, fmt.Errorf("extractor is not configured")
	}

	result := domain.CrawlResult{
		RunID:     uuid.NewString(),
		StartedAt: s.now(),
		Records:   make([]domain.ArtworkRecord, 0),
		Outcomes:  make([]domain.HandleOutcome, 0, len(handles)),
	}
	log := s.log().With("run_id", result.RunID)
	log.Info("crawl started", "handles", len(handles), "pacing", s.pacing)

	for i, raw := range handles {
		handle := strings.TrimSpace(raw)
		outcome := s.collectOne(ctx, log, handle)
		result.Outcomes = append(result.Outcomes, outcome.HandleOutcome)
		result.Records = append(result.Records, outcome.records...)

		if i == len(handles)-1 {
			break
		}
		if err := s.sleep(ctx, s.pacing); err != nil {
			return domain.CrawlResult{}, fmt.Errorf("crawl interrupted after %s: %w", handle, err)
		}
	}

	result.FinishedAt = s.now()
	log.Info("crawl finished",
		"records", len(result.Records),
		"failed", result.Failed(),
		"elapsed", result.Duration().Round(time.Millisecond))
	return result, nil
}

type handleResult struct {
	domain.HandleOutcome
	records []domain.ArtworkRecord
}

func (s *ProfileSource) collectOne(ctx context.Context, log *slog.Logger, handle string) handleResult {
	out := handleResult{HandleOutcome: domain.HandleOutcome{Handle: handle}}
	if handle == "" {
		out.Err = errBlankHandle
		log.Warn("skip handle", "handle", handle, "error", out.Err)
		return out
	}

	log.Debug("fetch profile", "handle", handle)
	markup, err := s.fetcher.Fetch(ctx, handle)
	if err != nil {
		out.Err = err
		log.Warn("fetch failed", "handle", handle, "error", err)
		return out
	}

	records, err := s.extractor.Extract(markup, handle)
	if err != nil {
		out.Err = fmt.Errorf("extract %s: %w", handle, err)
		log.Warn("extract failed", "handle", handle, "error", err)
		return out
	}

	if len(records) == 0 {
		log.Warn("no projects extracted", "handle", handle, "bytes", len(markup))
	} else {
		log.Info("profile extracted", "handle", handle, "records", len(records))
	}
	out.Records = len(records)
	out.records = records
	return out
}

func (s *ProfileSource) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.New(slog.DiscardHandler)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
