package db_test

import (
	"context"
	"testing"

	"ms-nametags/internal/nametags/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()
	sqlDB, err := db.OpenSQLite(context.Background(), "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return sqlDB
}

func TestDB_GetMissingKey(t *testing.T) {
	kv := setupTestDB(t)

	_, ok, err := kv.Get(context.Background(), "absent")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDB_SetThenOverwrite(t *testing.T) {
	kv := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "nametag_events", "[]"))
	require.NoError(t, kv.Set(ctx, "nametag_events", `[{"id":"1"}]`))

	val, ok, err := kv.Get(ctx, "nametag_events")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, val)
}

func TestDB_CreateSchemaIsIdempotent(t *testing.T) {
	kv := setupTestDB(t)

	assert.NoError(t, kv.CreateSchema(context.Background()))
}

func TestDB_EventRepositoryRoundTrip(t *testing.T) {
	repo, _ := newRepo(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SaveEvents(ctx, sampleEvents()))
	loaded, err := repo.LoadEvents(ctx)

	require.NoError(t, err)
	assert.Equal(t, sampleEvents(), loaded)
}
