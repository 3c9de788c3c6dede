package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ArtworksCrawler/internal/app"
	"ArtworksCrawler/internal/config"
	"ArtworksCrawler/internal/logging"
	"ArtworksCrawler/internal/report"
)

// NewRootCmd creates the root command; running it performs one crawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artworkscrawler",
		Short: "Crawl creator profiles and export their projects as JSON",
		Long: `artworkscrawler fetches each configured Behance profile in order, waits the
pacing interval between requests, extracts project covers, and writes the
aggregate as a single JSON artifact.

Per-profile failures are logged and skipped. Failing to store the artifact
exits with a non-zero status.

Configuration is read from --config, $ARTWORKS_CRAWLER_CONFIG, or
$XDG_CONFIG_HOME/artworkscrawler/config.yaml; S3 credentials come from the
AWS_* environment variables.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCrawl,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Configuration file path")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringSlice("handles", nil, "Comma separated handles overriding the configured list")

	cmd.Flags().String("sink", "", "Artifact destination: file, s3 or sql")
	cmd.Flags().StringP("output", "o", "", "Artifact path for the file sink")
	cmd.Flags().String("report", "", "Write a Markdown run report to this path")
	cmd.Flags().Duration("pacing", 0, "Delay between profile requests (default from config)")

	cmd.AddCommand(NewHandlesCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Logging, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger, app.Options{})
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("close sink", "error", err)
		}
	}()

	result, err := application.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.SummaryLine(result, application.Destination()))
	return nil
}

// loadConfig reads the configuration and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("handles") {
		raw, _ := flags.GetStringSlice("handles")
		handles := make([]string, 0, len(raw))
		for _, h := range raw {
			handles = append(handles, config.SplitHandles(h)...)
		}
		cfg.Crawl.Handles = handles
	}
	if v, _ := flags.GetBool("verbose"); v {
		cfg.Logging.Level = "debug"
	}
	if flags.Changed("sink") {
		v, _ := flags.GetString("sink")
		cfg.Sink.Kind = config.SinkKind(v)
	}
	if flags.Changed("output") {
		v, _ := flags.GetString("output")
		cfg.Sink.File.Path = v
	}
	if flags.Changed("report") {
		v, _ := flags.GetString("report")
		cfg.Report.Path = v
	}
	if flags.Changed("pacing") {
		v, _ := flags.GetDuration("pacing")
		cfg.Crawl.Pacing = v
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
