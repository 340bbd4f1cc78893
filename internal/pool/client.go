// Package pool implements the Pool Adapter: a thin read-only lookup of
// which character a player currently has checked in, backed by the same
// Redis deployment the Lifecycle Coordinator uses for nothing else.
package pool

import (
	"context"

	"github.com/redis/go-redis/v9"

	redisdb "github.com/duelcore/matchcore/pkg/db/redis"
)

// UnknownCharacter is returned for a handle with no checked-in character,
// per the invite/accept contract's "Unknown" fallback.
const UnknownCharacter = "Unknown"

const checkinHashField = "character"

// Adapter resolves a player's currently checked-in character.
type Adapter interface {
	CheckedInCharacter(ctx context.Context, handle string) (string, error)
}

type redisAdapter struct {
	client *redis.Client
}

// NewAdapter builds a Pool Adapter over an already-connected redis client.
func NewAdapter(client *redisdb.Client) Adapter {
	return &redisAdapter{client: client.Client()}
}

func checkinKey(handle string) string {
	return "pool:checkin:" + handle
}

// CheckedInCharacter reads the character field of the player's check-in
// hash. A missing key or missing field both resolve to UnknownCharacter,
// matching the pool discovery contract: an expired or absent check-in never
// fails the caller, it just degrades to "Unknown".
func (a *redisAdapter) CheckedInCharacter(ctx context.Context, handle string) (string, error) {
	character, err := a.client.HGet(ctx, checkinKey(handle), checkinHashField).Result()
	if err != nil {
		if err == redis.Nil {
			return UnknownCharacter, nil
		}
		return "", err
	}
	if character == "" {
		return UnknownCharacter, nil
	}
	return character, nil
}
