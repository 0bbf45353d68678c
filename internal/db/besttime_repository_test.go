package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/bosstimers/internal/besttime"
	"github.com/udisondev/bosstimers/internal/game/boss"
	"github.com/udisondev/bosstimers/internal/settings"
)

func TestBestTimeRepository_ReadMissing(t *testing.T) {
	repo := NewBestTimeRepository(setupTestDB(t))

	_, err := repo.ReadDuration(context.Background(), "zulrahPB")
	assert.ErrorIs(t, err, settings.ErrNotFound)
}

func TestBestTimeRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := NewBestTimeRepository(setupTestDB(t))

	require.NoError(t, repo.WriteDuration(ctx, "vorkathPB", 2*time.Minute))
	require.NoError(t, repo.WriteDuration(ctx, "vorkathPB", 95*time.Second))

	d, err := repo.ReadDuration(ctx, "vorkathPB")
	require.NoError(t, err)
	assert.Equal(t, 95*time.Second, d)
}

func TestBestTimeRepository_LoadAll(t *testing.T) {
	ctx := context.Background()
	repo := NewBestTimeRepository(setupTestDB(t))

	require.NoError(t, repo.WriteDuration(ctx, "krakenPB", 70*time.Second))
	require.NoError(t, repo.WriteDuration(ctx, "cerberusPB", 3*time.Minute))

	all, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]time.Duration{
		"krakenPB":   70 * time.Second,
		"cerberusPB": 3 * time.Minute,
	}, all)
}

func TestBestTimeRepository_BehindCacheAndStore(t *testing.T) {
	ctx := context.Background()
	repo := NewBestTimeRepository(setupTestDB(t))
	require.NoError(t, repo.WriteDuration(ctx, "generalGraardorPB", 100*time.Second))

	cache := settings.NewCached(repo, time.Minute)
	require.NoError(t, cache.Load(ctx))

	store, err := besttime.New(boss.All(), cache)
	require.NoError(t, err)

	graardor, _ := boss.Find("General Graardor")
	assert.Equal(t, 100*time.Second, store.Read(ctx, graardor))

	store.Write(ctx, graardor, 80*time.Second)
	require.NoError(t, cache.Flush(ctx))

	d, err := repo.ReadDuration(ctx, "generalGraardorPB")
	require.NoError(t, err)
	assert.Equal(t, 80*time.Second, d)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, RunMigrations(context.Background(), testDSN))
}

func TestNew_PingsDatabase(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	d, err := New(ctx, testDSN)
	require.NoError(t, err)
	defer d.Close()

	assert.NoError(t, d.Ping(ctx))
	assert.NotNil(t, d.Pool())
}

func TestMigrate_ReappliesCleanly(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, migratePool(ctx, pool))

	var exists bool
	require.NoError(t, pool.QueryRow(ctx, "SELECT to_regclass('best_times') IS NOT NULL").Scan(&exists))
	assert.True(t, exists)
}
