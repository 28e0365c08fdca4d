package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/clog/hooks"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
)

// LevelTrace sits below debug. Per-message broadcast logs use it.
const LevelTrace = slog.LevelDebug - 4

var (
	defaultLogger = slog.New(slog.NewTextHandler(os.Stdout, nil))

	outputMu sync.Mutex
	output   io.Closer
)

func init() {
	_ = Configure("text", "info", "stdout")
}

// Default returns the process wide logger.
func Default() *slog.Logger {
	return defaultLogger
}

// Configure replaces the default logger. A log file opened by a previous call
// is closed once the new logger is installed.
func Configure(logFormat, logLevel, logOutput string) error {
	level, err := parseLevel(logLevel)
	if err != nil {
		return err
	}

	w, closer, err := openOutput(logOutput)
	if err != nil {
		return err
	}

	handler, err := newHandler(logFormat, level, w)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return err
	}

	defaultLogger = slog.New(handler)

	outputMu.Lock()
	prev := output
	output = closer
	outputMu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}

	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, goerr.Wrap(types.ErrInvalidOption, "invalid log level", goerr.V("value", s))
}

// openOutput returns the writer for logOutput and, for files, its closer.
func openOutput(logOutput string) (io.Writer, io.Closer, error) {
	switch logOutput {
	case "stdout", "-":
		return os.Stdout, nil, nil
	case "stderr":
		return os.Stderr, nil, nil
	}

	fd, err := os.Create(filepath.Clean(logOutput))
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to open log file", goerr.V("path", logOutput))
	}
	return fd, fd, nil
}

func redactor() func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(
		masq.WithTag("secret"),
		masq.WithType[types.JWTSecret](masq.MaskWithSymbol('*', 32)),
		masq.WithType[types.DatabaseDSN](masq.MaskWithSymbol('*', 32)),
		// request headers dumped as a map
		masq.WithFieldName("Authorization"),
	)
}

func newHandler(logFormat string, level slog.Level, w io.Writer) (slog.Handler, error) {
	switch logFormat {
	case "text":
		return clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithSource(true),
			clog.WithColorMap(&clog.ColorMap{
				Level: map[slog.Level]*color.Color{
					LevelTrace:      color.New(color.FgMagenta),
					slog.LevelDebug: color.New(color.FgGreen, color.Bold),
					slog.LevelInfo:  color.New(color.FgCyan, color.Bold),
					slog.LevelWarn:  color.New(color.FgYellow, color.Bold),
					slog.LevelError: color.New(color.FgRed, color.Bold),
				},
				LevelDefault: color.New(color.FgBlue, color.Bold),
				Time:         color.New(color.FgWhite),
				Message:      color.New(color.FgHiWhite),
				AttrKey:      color.New(color.FgHiCyan),
				AttrValue:    color.New(color.FgHiWhite),
			}),
			clog.WithAttrHook(hooks.GoErr()),
			clog.WithReplaceAttr(redactor()),
		), nil

	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource:   true,
			Level:       level,
			ReplaceAttr: redactor(),
		}), nil
	}

	return nil, goerr.Wrap(types.ErrInvalidOption, "invalid log format, should be 'json' or 'text'", goerr.V("value", logFormat))
}
