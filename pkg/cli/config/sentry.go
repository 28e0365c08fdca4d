package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Sentry configures reporting of unexpected errors.
type Sentry struct {
	dsn         string
	environment string
	release     string
	sampleRate  float64
}

func (x *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN",
			Category:    "Sentry",
			Destination: &x.dsn,
			Sources:     cli.EnvVars("SCANSTREAM_SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment",
			Category:    "Sentry",
			Destination: &x.environment,
			Sources:     cli.EnvVars("SCANSTREAM_SENTRY_ENV"),
		},
		&cli.StringFlag{
			Name:        "sentry-release",
			Usage:       "Release reported with each event",
			Category:    "Sentry",
			Destination: &x.release,
			Sources:     cli.EnvVars("SCANSTREAM_SENTRY_RELEASE"),
		},
		&cli.FloatFlag{
			Name:        "sentry-sample-rate",
			Usage:       "Share of errors sent to Sentry, between 0 and 1",
			Category:    "Sentry",
			Value:       1.0,
			Destination: &x.sampleRate,
			Sources:     cli.EnvVars("SCANSTREAM_SENTRY_SAMPLE_RATE"),
		},
	}
}

func (x *Sentry) Enabled() bool {
	return x.dsn != ""
}

// Configure initializes the Sentry client. Without a DSN reporting stays off.
func (x *Sentry) Configure(ctx context.Context) error {
	if !x.Enabled() {
		logging.From(ctx).Warn("sentry is not configured")
		return nil
	}

	if x.sampleRate < 0 || x.sampleRate > 1 {
		return goerr.New("sentry-sample-rate must be between 0 and 1", goerr.V("value", x.sampleRate))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         x.dsn,
		Environment: x.environment,
		Release:     x.release,
		SampleRate:  x.sampleRate,
	}); err != nil {
		return goerr.Wrap(err, "failed to initialize sentry")
	}

	return nil
}

// Flush waits for buffered events before the process exits.
func (x *Sentry) Flush(timeout time.Duration) {
	if x.Enabled() {
		sentry.Flush(timeout)
	}
}

func (x *Sentry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("Enabled", x.Enabled()),
		slog.String("Environment", x.environment),
		slog.String("Release", x.release),
		slog.Float64("SampleRate", x.sampleRate),
	)
}
