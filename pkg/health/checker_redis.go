package health

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisChecker checks Redis database health
type RedisChecker struct {
	client *redis.Client
	name   string
}

// NewRedisChecker creates a new Redis health checker
func NewRedisChecker(client *redis.Client, name string) *RedisChecker {
	return &RedisChecker{
		client: client,
		name:   name,
	}
}

// ID returns the checker identifier
func (c *RedisChecker) ID() string {
	return c.name
}

// Type returns the check category
func (c *RedisChecker) Type() CheckType {
	return TypeReadiness
}

// Check implements the Checker interface
func (c *RedisChecker) Check(ctx context.Context) Result {
	start := time.Now()

	if _, err := c.client.Ping(ctx).Result(); err != nil {
		return Result{Name: c.name, Status: StatusDown, Message: err.Error(), Timestamp: start, Duration: time.Since(start)}
	}

	return Result{Name: c.name, Status: StatusUp, Timestamp: start, Duration: time.Since(start)}
}
