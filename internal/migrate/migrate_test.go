package migrate

import (
	"context"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/shop-account/migrations"
)

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	b, err := fs.ReadFile(migrations.FS, files[0])
	require.NoError(t, err)
	require.Contains(t, string(b), "-- +goose Up")
	require.Contains(t, string(b), "-- +goose Down")
	require.Contains(t, string(b), "customer_sessions")
}

func TestUp_Unreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := Up(ctx, "postgres://nobody@127.0.0.1:1/shop?sslmode=disable&connect_timeout=1", zaptest.NewLogger(t))
	require.Error(t, err)
}
