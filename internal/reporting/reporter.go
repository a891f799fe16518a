package reporting

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Belphemur/NrkDownload/internal/config"
)

// Reporter forwards per-reference failures to an error tracker
type Reporter interface {
	Report(err error, tags map[string]string)
	Flush(timeout time.Duration)
}

// New returns a Sentry reporter, or a no-op reporter when dsn is empty
func New(dsn, release string) (Reporter, error) {
	return newReporter(sentry.ClientOptions{Dsn: dsn, Release: release})
}

func newReporter(options sentry.ClientOptions) (Reporter, error) {
	if options.Dsn == "" {
		return NoopReporter{}, nil
	}
	if err := sentry.Init(options); err != nil {
		return nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	logger := config.GetLogger()
	logger.Info().Msg("Error reporting enabled")
	return &sentryReporter{}, nil
}

type sentryReporter struct{}

func (r *sentryReporter) Report(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

func (r *sentryReporter) Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}

// NoopReporter discards every report
type NoopReporter struct{}

func (NoopReporter) Report(error, map[string]string) {}

func (NoopReporter) Flush(time.Duration) {}
