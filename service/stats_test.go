package service_test

import (
	"context"
	"testing"
	"time"

	"filebox/files-api/model"
	"filebox/files-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsReporter(t *testing.T) {
	ctx := context.Background()
	store, db := newTestStore(t)
	stats := service.NewStatsReporter(db)

	t.Run("Empty collections", func(t *testing.T) {
		users, err := stats.NbUsers(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 0, users)

		files, err := stats.NbFiles(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 0, files)
	})

	t.Run("Counts reflect rows", func(t *testing.T) {
		require.NoError(t, db.Create(&model.User{
			ID:           "u1",
			Email:        "a@example.com",
			PasswordHash: "x",
			CreatedAt:    time.Now().UnixMilli(),
		}).Error)

		for range 3 {
			_, err := store.Create(ctx, "u1", &service.CreateRequest{Name: "d", Type: "folder"})
			require.NoError(t, err)
		}

		users, err := stats.NbUsers(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, users)

		files, err := stats.NbFiles(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 3, files)
	})

	t.Run("Alive", func(t *testing.T) {
		assert.True(t, store.Alive(ctx))
	})
}
