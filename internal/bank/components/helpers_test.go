package components

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/filebank-ledger/internal/config"
	"github.com/filebank-ledger/internal/data/filestore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func openStore(t *testing.T, dir string) *filestore.Store {
	t.Helper()
	store, err := filestore.Open(&config.StorageConfig{DataDir: dir}, testLogger())
	require.NoError(t, err)
	return store
}

// movableClock is a test clock that only moves when told to
type movableClock struct {
	now time.Time
}

func (c *movableClock) Now() time.Time { return c.now }

func (c *movableClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
