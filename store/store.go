// Package store holds the Redis-backed request idempotency, credit ledger,
// and job tracking used by the HTTP layer.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shortform/config"
)

// NewClientFromEnv creates a Redis client from REDIS_ADDR / REDIS_PASS /
// REDIS_DB and verifies connectivity.
func NewClientFromEnv() (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Getenv("REDIS_ADDR", "localhost:6379"),
		Password: config.Getenv("REDIS_PASS", ""),
		DB:       config.GetenvInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", client.Options().Addr, err)
	}
	return client, nil
}

// HashRequest returns the canonical SHA-256 hex digest of a request body.
// json.Marshal is deterministic for structs (field order) and maps (sorted
// keys), so equal requests always hash equal.
func HashRequest(v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
