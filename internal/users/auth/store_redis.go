// Copyright (c) 2026 BookHaven. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookhaven/bookhaven/internal/platform/apperr"
	"github.com/bookhaven/bookhaven/internal/platform/constants"
)

// RedisTokenStore implements [TokenStore] on Redis. Two instances back the
// auth service: one with the reset prefix, one with the verification prefix.
type RedisTokenStore struct {
	client      *redis.Client
	prefix      string
	notFoundMsg string
}

// NewResetTokenStore creates the Redis store for password reset tokens.
func NewResetTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{
		client:      client,
		prefix:      constants.RedisPrefixResetToken,
		notFoundMsg: "Reset token is invalid or expired",
	}
}

// NewVerificationTokenStore creates the Redis store for email verification tokens.
func NewVerificationTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{
		client:      client,
		prefix:      constants.RedisPrefixVerifyToken,
		notFoundMsg: "Verification token is invalid or expired",
	}
}

/*
Set stores a token with its associated userID and TTL.

Parameters:
  - context: context.Context
  - token: string
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (store *RedisTokenStore) Set(context context.Context, token string, userID string, ttl time.Duration) error {
	key := store.prefix + token

	if err := store.client.Set(context, key, userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_token_store_set_failed: %w", err)
	}

	return nil
}

/*
Get retrieves the userID for a given token.

Description: Returns apperr.NotFound if the token is absent or expired.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - string: UserID
  - error: apperr.NotFound or connectivity errors
*/
func (store *RedisTokenStore) Get(context context.Context, token string) (string, error) {
	key := store.prefix + token

	userID, err := store.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound(store.notFoundMsg)
		}
		return "", fmt.Errorf("redis_token_store_get_failed: %w", err)
	}

	return userID, nil
}

/*
Delete removes the token from Redis.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Deletion failures
*/
func (store *RedisTokenStore) Delete(context context.Context, token string) error {
	key := store.prefix + token

	if err := store.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_token_store_delete_failed: %w", err)
	}

	return nil
}
