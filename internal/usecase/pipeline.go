package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"ArtworksCrawler/internal/domain"
	"ArtworksCrawler/internal/ports"
	"ArtworksCrawler/internal/report"
)

// PipelineDeps wires all driven adapters into the export pipeline.
type PipelineDeps struct {
	Source   ports.ArtworkSource
	Sink     ports.ArtifactSink
	Notifier ports.Notifier
	Logger   *slog.Logger
}

// Pipeline implements the crawl-and-export workflow.
type Pipeline struct {
	source   ports.ArtworkSource
	sink     ports.ArtifactSink
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:   deps.Source,
		sink:     deps.Sink,
		notifier: deps.Notifier,
		logger:   deps.Logger,
	}
}

// Run crawls every handle, then hands the complete batch to the sink. Only a
// sink failure (or a cancelled context) fails the run; per-handle failures
// are reported in the result.
func (p *Pipeline) Run(ctx context.Context, handles []string) (domain.CrawlResult, error) {
	if p.source == nil {
		return domain.CrawlResult{}, fmt.Errorf("artwork source is not configured")
	}
	if p.sink == nil {
		return domain.CrawlResult{}, fmt.Errorf("artifact sink is not configured")
	}

	result, err := p.source.Collect(ctx, handles)
	if err != nil {
		return domain.CrawlResult{}, fmt.Errorf("collect artworks: %w", err)
	}

	if len(result.Records) == 0 {
		p.warn("exporting empty artifact", "run_id", result.RunID, "handles", len(handles), "failed", result.Failed())
	}

	if err := p.sink.Store(ctx, result.Records); err != nil {
		return result, fmt.Errorf("store artifact: %w", err)
	}
	p.info("artifact stored", "run_id", result.RunID, "destination", p.sink.Describe(), "records", len(result.Records))

	if p.notifier != nil {
		if err := p.notifier.PublishSummary(ctx, report.NotificationText(result, p.sink.Describe())); err != nil {
			p.warn("publish summary failed", "run_id", result.RunID, "error", err)
		}
	}

	return result, nil
}

// Destination describes where the artifact is written.
func (p *Pipeline) Destination() string {
	if p.sink == nil {
		return ""
	}
	return p.sink.Describe()
}

func (p *Pipeline) info(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
