package repository

import (
	"context"
	"edusphere_backend/internal/config"
	"edusphere_backend/internal/model"
	"edusphere_backend/internal/util"
	"edusphere_backend/pkg/database"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := database.InitDB(&config.DatabaseConfig{
		Driver:     util.StoreSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "db", "state.db"),
	}, "release")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewGormStore(db, util.StoreSQLite)
}

func TestGormStoreContract(t *testing.T) {
	testStoreContract(t, newSQLiteStore(t))
}

func TestGormStoreUpsertKeepsOneRow(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	require.NoError(t, s.Put(ctx, util.KeyLessons, []byte(`[1]`)))
	require.NoError(t, s.Put(ctx, util.KeyLessons, []byte(`[1,2]`)))

	var count int64
	require.NoError(t, s.DB.Model(&model.KVRecord{}).Where("record_key = ?", util.KeyLessons).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := s.Get(ctx, util.KeyLessons)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))
}

func TestGormStoreBacksStateRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStateRepository(newSQLiteStore(t))

	user := sampleUser()
	require.NoError(t, repo.SaveUser(ctx, user))
	loaded, ok := repo.LoadUser(ctx)
	require.True(t, ok)
	assert.Equal(t, user, loaded)

	require.NoError(t, repo.Reset(ctx))
	_, ok = repo.LoadUser(ctx)
	assert.False(t, ok)
}
