package logging_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/utils/logging"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() {
		_ = logging.Configure("text", "info", "stdout")
	})

	testCases := []struct {
		name   string
		format string
		level  string
		output string
		valid  bool
	}{
		{name: "json to stdout", format: "json", level: "info", output: "stdout", valid: true},
		{name: "text to stderr", format: "text", level: "debug", output: "stderr", valid: true},
		{name: "trace level", format: "text", level: "trace", output: "-", valid: true},
		{name: "unknown format", format: "yaml", level: "info", output: "stdout"},
		{name: "unknown level", format: "json", level: "verbose", output: "stdout"},
		{name: "unwritable file", format: "json", level: "info", output: filepath.Join(t.TempDir(), "missing", "out.log")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := logging.Configure(tc.format, tc.level, tc.output)
			if tc.valid {
				gt.NoError(t, err)
				logging.Default().Info("configured")
			} else {
				gt.Error(t, err)
			}
		})
	}
}

func TestTraceLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	gt.NoError(t, logging.Configure("json", "debug", path))
	t.Cleanup(func() {
		_ = logging.Configure("text", "info", "stdout")
	})

	logging.Default().Log(context.Background(), logging.LevelTrace, "hidden")
	logging.Default().Debug("shown")

	raw := string(gt.R1(os.ReadFile(path)).NoError(t))
	gt.V(t, strings.Contains(raw, "hidden")).Equal(false)
	gt.True(t, strings.Contains(raw, "shown"))
}

func TestSecretsAreRedacted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	gt.NoError(t, logging.Configure("json", "info", path))
	t.Cleanup(func() {
		_ = logging.Configure("text", "info", "stdout")
	})

	type credentials struct {
		User     string
		Password string `masq:"secret"`
	}

	logging.Default().Info("configured",
		slog.Any("jwt", types.JWTSecret("jwt-signing-key")),
		slog.Any("dsn", types.DatabaseDSN("postgres://app:db-password@db/scans")),
		slog.Any("creds", credentials{User: "blue", Password: "hunter2"}),
	)

	raw := string(gt.R1(os.ReadFile(path)).NoError(t))
	gt.True(t, strings.Contains(raw, "configured"))
	gt.True(t, strings.Contains(raw, "blue"))
	gt.V(t, strings.Contains(raw, "jwt-signing-key")).Equal(false)
	gt.V(t, strings.Contains(raw, "db-password")).Equal(false)
	gt.V(t, strings.Contains(raw, "hunter2")).Equal(false)
}
