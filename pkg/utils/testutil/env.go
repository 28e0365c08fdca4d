package testutil

import (
	"os"
	"testing"

	"github.com/m-mizutani/scanstream/pkg/domain/types"
)

// EnvPostgresDSN names the variable that enables PostgreSQL integration tests.
const EnvPostgresDSN = "TEST_POSTGRES_DSN"

// GetEnvOrSkip returns the value of key, skipping t when it is unset.
func GetEnvOrSkip(t *testing.T, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s is not set, skipping test", key)
	}
	return value
}

// PostgresDSN returns the integration database DSN or skips t.
func PostgresDSN(t *testing.T) types.DatabaseDSN {
	t.Helper()
	return types.DatabaseDSN(GetEnvOrSkip(t, EnvPostgresDSN))
}
