package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenTTL is how long a session token stays valid after creation
const TokenTTL = 24 * time.Hour

// SessionStore maps opaque tokens to user IDs in Redis. A user may hold
// any number of concurrent tokens.
type SessionStore struct {
	Client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{Client: client}
}

func (s *SessionStore) buildKey(token string) string {
	return "auth_" + token
}

// Create generates a random token and stores it against userID with
// the standard TTL
func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)

	err := s.Client.Set(ctx, s.buildKey(token), userID, TokenTTL).Err()
	if err != nil {
		return "", err
	}

	return token, nil
}

// Resolve returns the user ID a token maps to. A missing or expired
// token is ErrUnauthorized.
func (s *SessionStore) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := s.Client.Get(ctx, s.buildKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", err
	}

	return userID, nil
}

// Destroy removes a token. Removing a token that's already gone is not
// an error.
func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	return s.Client.Del(ctx, s.buildKey(token)).Err()
}

func (s *SessionStore) Alive(ctx context.Context) bool {
	return s.Client.Ping(ctx).Err() == nil
}
