package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Belphemur/NrkDownload/internal/cache"
	"github.com/Belphemur/NrkDownload/internal/client"
	"github.com/Belphemur/NrkDownload/internal/config"
	"github.com/Belphemur/NrkDownload/internal/metrics"
	"github.com/Belphemur/NrkDownload/internal/models"
	"github.com/Belphemur/NrkDownload/internal/reporting"
	"github.com/Belphemur/NrkDownload/internal/services"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const rootLong = `nrkdl downloads programs from NRK TV as transport streams, together with
their subtitles converted to SRT. References may be program pages, program IDs
such as MSUI28008021 or numeric media IDs.`

// errBatchFailed makes the process exit 1 once the summary has been printed
var errBatchFailed = errors.New("one or more references failed")

type rootOptions struct {
	configFile  string
	outputDir   string
	noSubtitles bool
	logLevel    string
}

func newRootCommand() *cobra.Command {
	var opts rootOptions

	rootCmd := &cobra.Command{
		Use:           "nrkdl [flags] <url|program-id|media-id>...",
		Short:         "Download programs and subtitles from NRK TV",
		Long:          rootLong,
		Version:       version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Configuration file path")
	flags.StringVarP(&opts.outputDir, "output", "o", "", "Directory to write programs and subtitles to")
	flags.BoolVar(&opts.noSubtitles, "no-subtitles", false, "Do not download subtitles")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	return rootCmd
}

func loadConfig(cmd *cobra.Command, opts rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputDir = opts.outputDir
	}
	if opts.noSubtitles {
		cfg.Subtitles = false
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
		config.SetLogLevel(opts.logLevel)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, opts rootOptions, references []string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	logger := config.GetLogger()
	ctx := cmd.Context()

	reporter, err := reporting.New(cfg.SentryDSN, version)
	if err != nil {
		logger.Warn().Err(err).Msg("Error reporting disabled")
		reporter = reporting.NoopReporter{}
	}
	defer reporter.Flush(2 * time.Second)

	lock, err := acquireOutputLock(cfg.OutputDir)
	if err != nil {
		return err
	}
	defer releaseOutputLock(lock)

	lookupCache, err := cache.NewFromConfig(cfg, "lookups")
	if err != nil {
		return fmt.Errorf("create lookup cache: %w", err)
	}
	if lookupCache != nil {
		defer lookupCache.Close()
	}

	if cfg.Metrics.Enabled {
		stop := startMetricsServer(cfg)
		defer stop()
	}

	httpClient := client.NewClient(cfg, lookupCache)
	downloader := services.NewDownloaderFromConfig(cfg, httpClient, afero.NewOsFs(), newProgress(cmd.ErrOrStderr()), reporter)

	results := downloader.DownloadAll(ctx, references)
	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(results))

	if err := ctx.Err(); err != nil {
		return err
	}
	for _, result := range results {
		if result.Status == models.ItemStatusFailed {
			return errBatchFailed
		}
	}
	return nil
}

func startMetricsServer(cfg *config.Config) func() {
	logger := config.GetLogger()
	server := metrics.NewHTTPServer(cfg.Metrics.Address, cfg.Metrics.Port)

	go func() {
		logger.Info().Str("address", server.Addr).Msg("Starting Prometheus metrics HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Failed to serve metrics")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to shutdown metrics server")
		}
	}
}
