package services

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/Belphemur/NrkDownload/internal/client"
	"github.com/Belphemur/NrkDownload/internal/config"
	"github.com/Belphemur/NrkDownload/internal/hls"
	"github.com/Belphemur/NrkDownload/internal/metrics"
	"github.com/Belphemur/NrkDownload/internal/models"
	"github.com/Belphemur/NrkDownload/internal/reporting"
	"github.com/Belphemur/NrkDownload/internal/resolver"
	"github.com/Belphemur/NrkDownload/internal/subtitles"
)

// Downloader processes a batch of references
type Downloader interface {
	// DownloadAll handles references one at a time in input order and returns
	// one result per reference. A failing reference never stops the batch.
	DownloadAll(ctx context.Context, references []string) []models.ItemResult
}

// Dependencies are the collaborators of DefaultDownloader. Nil Progress and
// Reporter default to no-ops; a nil Fs is the OS filesystem.
type Dependencies struct {
	Resolver  resolver.Resolver
	Programs  client.ProgramClient
	Converter subtitles.Converter
	Media     hls.Downloader
	Fs        afero.Fs
	Progress  Progress
	Reporter  reporting.Reporter
}

// Options control where and what DefaultDownloader writes
type Options struct {
	OutputDir string
	Subtitles bool
}

// DefaultDownloader is the default implementation of Downloader
type DefaultDownloader struct {
	deps Dependencies
	opts Options
}

// NewDownloader creates a new instance of DefaultDownloader
func NewDownloader(deps Dependencies, opts Options) *DefaultDownloader {
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Progress == nil {
		deps.Progress = NoopProgress{}
	}
	if deps.Reporter == nil {
		deps.Reporter = reporting.NoopReporter{}
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	return &DefaultDownloader{deps: deps, opts: opts}
}

// NewDownloaderFromConfig wires the standard resolver, metadata client,
// subtitle converter and segment downloader around c
func NewDownloaderFromConfig(cfg *config.Config, c *client.Client, fs afero.Fs, progress Progress, reporter reporting.Reporter) *DefaultDownloader {
	return NewDownloader(Dependencies{
		Resolver:  resolver.NewResolver(c, cfg),
		Programs:  c.Programs,
		Converter: subtitles.NewConverter(c.Fetcher),
		Media:     hls.NewDownloader(c.Fetcher),
		Fs:        fs,
		Progress:  progress,
		Reporter:  reporter,
	}, Options{OutputDir: cfg.OutputDir, Subtitles: cfg.Subtitles})
}

func (d *DefaultDownloader) DownloadAll(ctx context.Context, references []string) []models.ItemResult {
	runID := uuid.NewString()
	logger := config.GetLogger().With().Str("run", runID).Logger()
	logger.Info().Int("references", len(references)).Str("outputDir", d.opts.OutputDir).Msg("Starting batch")

	results := make([]models.ItemResult, 0, len(references))
	for _, reference := range references {
		itemLogger := logger.With().Str("reference", reference).Logger()
		result := d.download(ctx, itemLogger, reference)
		metrics.DownloadsTotal.WithLabelValues(result.Status.String()).Inc()

		if result.Err != nil {
			d.report(runID, result, result.Stage, result.Err)
		}
		if result.SubtitleErr != nil {
			d.report(runID, result, models.StageSubtitles, result.SubtitleErr)
		}
		results = append(results, result)
	}

	logger.Info().Msg("Batch finished")
	return results
}

func (d *DefaultDownloader) report(runID string, result models.ItemResult, stage models.Stage, err error) {
	d.deps.Reporter.Report(err, map[string]string{
		"run":       runID,
		"reference": result.Reference,
		"programID": result.ProgramID.String(),
		"stage":     string(stage),
	})
}

func (d *DefaultDownloader) download(ctx context.Context, logger zerolog.Logger, reference string) models.ItemResult {
	result := models.ItemResult{Reference: reference, Status: models.ItemStatusFailed}
	fail := func(stage models.Stage, err error, msg string) models.ItemResult {
		result.Stage = stage
		result.Err = err
		logger.Error().Err(err).Str("stage", string(stage)).Str("programID", result.ProgramID.String()).Msg(msg)
		return result
	}

	programID, err := d.deps.Resolver.Resolve(ctx, reference)
	if err != nil {
		return fail(models.StageResolve, err, "Could not parse program ID")
	}
	result.ProgramID = programID

	descriptor, err := d.deps.Programs.GetProgram(ctx, programID)
	if err != nil {
		return fail(models.StageMetadata, err, "Could not fetch program metadata")
	}
	result.Title = descriptor.Title

	if err := d.deps.Fs.MkdirAll(d.opts.OutputDir, 0o755); err != nil {
		return fail(models.StageFilename, err, "Could not create output directory")
	}
	base, err := AvailableBase(d.deps.Fs, d.opts.OutputDir, FilenameBase(descriptor.Title, programID))
	if err != nil {
		return fail(models.StageFilename, err, "Could not choose output file name")
	}

	if d.opts.Subtitles && descriptor.HasSubtitles {
		subtitleFile := filepath.Join(d.opts.OutputDir, base+SubtitleExtension)
		if err := d.saveSubtitles(ctx, descriptor.MediaURL, subtitleFile); err != nil {
			result.SubtitleErr = err
			logger.Error().Err(err).Str("programID", programID.String()).Msg("Could not save subtitles, downloading media anyway")
		} else {
			result.SubtitleFile = subtitleFile
			logger.Info().Str("file", subtitleFile).Msg("Saved subtitles")
		}
	}

	mediaFile := filepath.Join(d.opts.OutputDir, base+MediaExtension)
	written, err := d.saveMedia(ctx, descriptor, mediaFile)
	result.BytesWritten = written
	if err != nil {
		return fail(models.StageMedia, err, "Could not download media")
	}
	result.MediaFile = mediaFile

	result.Status = models.ItemStatusSucceeded
	if result.SubtitleErr != nil {
		result.Status = models.ItemStatusPartial
	}
	logger.Info().Str("file", mediaFile).Str("status", result.Status.String()).Msg("Program downloaded")
	return result
}

func (d *DefaultDownloader) saveSubtitles(ctx context.Context, manifestURL, path string) error {
	srt, err := d.deps.Converter.LocateAndConvert(ctx, manifestURL)
	if err != nil {
		return err
	}
	return afero.WriteFile(d.deps.Fs, path, []byte(srt), 0o644)
}

// saveMedia streams the media into path and removes the partial file on failure
func (d *DefaultDownloader) saveMedia(ctx context.Context, descriptor *models.MediaDescriptor, path string) (int64, error) {
	file, err := d.deps.Fs.Create(path)
	if err != nil {
		return 0, err
	}

	d.deps.Progress.Begin(descriptor.Title)
	written, err := d.deps.Media.Download(ctx, descriptor.MediaURL, file, d.deps.Progress.Report)
	d.deps.Progress.Done()

	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = d.deps.Fs.Remove(path)
		return written, err
	}
	return written, nil
}
