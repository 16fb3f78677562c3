package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"shortform/config"
)

// Idempotency record statuses.
const (
	recordPending   = "pending"
	recordCompleted = "completed"
	recordFailed    = "failed"
)

// Begin outcomes.
var (
	// ErrInFlight means an identical request is still being processed.
	ErrInFlight = errors.New("request already in flight")
	// ErrKeyReused means the idempotency key was reused with a different
	// request body.
	ErrKeyReused = errors.New("idempotency key reused with different request")
)

type idempotencyRecord struct {
	Status      string          `json:"status"`
	RequestHash string          `json:"request_hash"`
	Response    json.RawMessage `json:"response,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Idempotency deduplicates submissions by client-provided key. Records
// expire after the configured TTL.
type Idempotency struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotency creates the store with the default retention.
func NewIdempotency(client *redis.Client) *Idempotency {
	return &Idempotency{client: client, ttl: config.IdempotencyTTL}
}

func idempotencyKey(key string) string {
	return "idem:" + key
}

// Begin claims the key for this request hash.
//
// Returns (nil, nil) when the claim is fresh and processing should proceed.
// Returns the stored response when an identical request already completed.
// Returns ErrInFlight when an identical request is pending, and ErrKeyReused
// when the key was seen with a different request hash.
func (s *Idempotency) Begin(ctx context.Context, key, requestHash string) (json.RawMessage, error) {
	record := idempotencyRecord{
		Status:      recordPending,
		RequestHash: requestHash,
		CreatedAt:   time.Now().UTC(),
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}

	set, err := s.client.SetNX(ctx, idempotencyKey(key), payload, s.ttl).Result()
	if err != nil {
		return nil, err
	}
	if set {
		return nil, nil
	}

	raw, err := s.client.Get(ctx, idempotencyKey(key)).Bytes()
	if err == redis.Nil {
		// Claim raced with expiry; treat as in flight so the client retries.
		return nil, ErrInFlight
	}
	if err != nil {
		return nil, err
	}

	var existing idempotencyRecord
	if err := json.Unmarshal(raw, &existing); err != nil {
		return nil, err
	}
	if existing.RequestHash != requestHash {
		return nil, ErrKeyReused
	}
	switch existing.Status {
	case recordCompleted:
		return existing.Response, nil
	case recordFailed:
		// A failed attempt may be retried; reclaim the key.
		if err := s.client.Set(ctx, idempotencyKey(key), payload, s.ttl).Err(); err != nil {
			return nil, err
		}
		return nil, nil
	default:
		return nil, ErrInFlight
	}
}

// Complete stores the response for replay on duplicate submissions.
func (s *Idempotency) Complete(ctx context.Context, key, requestHash string, response json.RawMessage) error {
	record := idempotencyRecord{
		Status:      recordCompleted,
		RequestHash: requestHash,
		Response:    response,
		CreatedAt:   time.Now().UTC(),
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, idempotencyKey(key), payload, s.ttl).Err()
}

// Fail marks the claim failed so the same request may be retried.
func (s *Idempotency) Fail(ctx context.Context, key, requestHash string) error {
	record := idempotencyRecord{
		Status:      recordFailed,
		RequestHash: requestHash,
		CreatedAt:   time.Now().UTC(),
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, idempotencyKey(key), payload, s.ttl).Err()
}
