package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"ArtworksCrawler/internal/config"
	"ArtworksCrawler/internal/domain"
	"ArtworksCrawler/internal/infrastructure/fetcher"
	"ArtworksCrawler/internal/infrastructure/parser"
	"ArtworksCrawler/internal/infrastructure/storage"
	"ArtworksCrawler/internal/infrastructure/telegram"
	"ArtworksCrawler/internal/ports"
	"ArtworksCrawler/internal/report"
	"ArtworksCrawler/internal/scanner"
	"ArtworksCrawler/internal/usecase"
)

// Application wires configs to use cases.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	sink     ports.ArtifactSink
	logger   *slog.Logger
}

// Options overrides collaborators; zero values build the production ones.
type Options struct {
	HTTPClient *http.Client
	Sink       ports.ArtifactSink
}

// New builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger, opts Options) (*Application, error) {
	if baseLogger == nil {
		baseLogger = slog.New(slog.DiscardHandler)
	}

	registry := scanner.NewRegistry()
	behance, err := parser.NewBehanceExtractor(cfg.Site.Origin, cfg.Site.ProjectSelector)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", cfg.Site.Name, err)
	}
	registry.Register(behance)

	extractor, err := registry.Resolve(cfg.Site.Scanner)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", cfg.Site.Name, err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Crawl.RequestTimeout}
	}
	profileFetcher := fetcher.New(httpClient, fetcher.Options{
		ProfileURLFormat: cfg.Site.ProfileURLFormat,
		UserAgent:        cfg.Crawl.UserAgent,
		Timeout:          cfg.Crawl.RequestTimeout,
	})

	source := parser.NewProfileSource(parser.ProfileSourceDeps{
		Fetcher:   profileFetcher,
		Extractor: extractor,
		Pacing:    cfg.Crawl.Pacing,
		Logger:    baseLogger.With("component", "source", "site", cfg.Site.Name),
	})

	sink := opts.Sink
	if sink == nil {
		sink, err = storage.New(ctx, cfg.Sink)
		if err != nil {
			return nil, err
		}
	}

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.Enabled() {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID, tg.APIBase)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:   source,
		Sink:     sink,
		Notifier: notifier,
		Logger:   baseLogger.With("component", "pipeline"),
	})
	return &Application{cfg: cfg, pipeline: pipeline, sink: sink, logger: baseLogger}, nil
}

// Run performs a single crawl over the configured handles and, when a report
// path is set, writes the Markdown run report.
func (a *Application) Run(ctx context.Context) (domain.CrawlResult, error) {
	result, err := a.pipeline.Run(ctx, a.cfg.Crawl.Handles)
	if err != nil {
		return result, err
	}

	if path := a.cfg.Report.Path; path != "" {
		if err := report.WriteMarkdownFile(path, result, a.Destination()); err != nil {
			a.logger.Warn("write report failed", "path", path, "error", err)
		}
	}
	return result, nil
}

// Destination describes where the artifact goes.
func (a *Application) Destination() string {
	return a.pipeline.Destination()
}

// Close releases sink resources such as database handles.
func (a *Application) Close() error {
	if c, ok := a.sink.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
