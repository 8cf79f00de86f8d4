package commands

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// The migrations directory is resolved from the working directory, which
	// has none here, so every case fails before touching a database.
	tests := []struct {
		name   string
		driver string
		dsn    string
	}{
		{name: "unknown-driver", driver: "sqlite", dsn: "postgres://localhost"},
		{name: "postgres-invalid-dsn", driver: "postgres", dsn: "invalid-connection-string"},
		{name: "mysql-dsn", driver: "mysql", dsn: "user:pass@tcp(localhost:3306)/assetvault"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RunMigrations(logger, tt.driver, tt.dsn)
			require.Error(t, err)
			require.Contains(t, err.Error(), "failed to create migrate instance")
		})
	}
}
