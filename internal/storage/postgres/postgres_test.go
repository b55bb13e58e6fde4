package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/autobattler/internal/storage/postgres"
	"github.com/cory-johannsen/autobattler/internal/testutil"
)

func TestPool_Health(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	assert.NoError(t, pc.Pool.Health(context.Background(), 5*time.Second))
}

func TestNewPool_Unreachable(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	cfg := pc.Config
	cfg.Password = "wrong"

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := postgres.NewPool(ctx, cfg)
	require.Error(t, err)
}

func TestNewMigrator_UpDown(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	m, err := postgres.NewMigrator(pc.Config)
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Up())
	assert.ErrorIs(t, m.Up(), migrate.ErrNoChange)
	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	require.NoError(t, m.Down())
	var tables int
	require.NoError(t, pc.RawPool.QueryRow(context.Background(),
		`SELECT count(*) FROM information_schema.tables WHERE table_name IN ('profiles', 'battle_reports')`,
	).Scan(&tables))
	assert.Zero(t, tables)
}
