package service_test

import (
	"context"
	"testing"
	"time"

	"filebox/files-api/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore(t *testing.T) {
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := service.NewSessionStore(client)

	t.Run("Create and resolve", func(t *testing.T) {
		token, err := sessions.Create(ctx, "user1")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		userID, err := sessions.Resolve(ctx, token)
		assert.NoError(t, err)
		assert.Equal(t, "user1", userID)
	})

	t.Run("Concurrent tokens for one user", func(t *testing.T) {
		t1, err := sessions.Create(ctx, "user2")
		require.NoError(t, err)
		t2, err := sessions.Create(ctx, "user2")
		require.NoError(t, err)
		require.NotEqual(t, t1, t2)

		for _, token := range []string{t1, t2} {
			userID, err := sessions.Resolve(ctx, token)
			assert.NoError(t, err)
			assert.Equal(t, "user2", userID)
		}
	})

	t.Run("Token expires after TTL", func(t *testing.T) {
		token, err := sessions.Create(ctx, "user3")
		require.NoError(t, err)

		mr.FastForward(service.TokenTTL + time.Second)

		_, err = sessions.Resolve(ctx, token)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("Destroy is idempotent", func(t *testing.T) {
		token, err := sessions.Create(ctx, "user4")
		require.NoError(t, err)

		assert.NoError(t, sessions.Destroy(ctx, token))
		assert.NoError(t, sessions.Destroy(ctx, token))

		_, err = sessions.Resolve(ctx, token)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("Unknown token", func(t *testing.T) {
		_, err := sessions.Resolve(ctx, "nope")
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("Alive", func(t *testing.T) {
		assert.True(t, sessions.Alive(ctx))
	})
}

func TestSessionStoreCommands(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	sessions := service.NewSessionStore(db)

	t.Run("Resolve reads auth_ key", func(t *testing.T) {
		mock.ExpectGet("auth_token123").SetVal("user1")
		userID, err := sessions.Resolve(ctx, "token123")
		assert.NoError(t, err)
		assert.Equal(t, "user1", userID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Destroy deletes auth_ key", func(t *testing.T) {
		mock.ExpectDel("auth_token123").SetVal(1)
		err := sessions.Destroy(ctx, "token123")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
