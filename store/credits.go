package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// ErrInsufficientCredits means the user's balance cannot cover the job.
var ErrInsufficientCredits = errors.New("insufficient credits")

// debitScript atomically checks and decrements a balance. Returns the new
// balance, or -1 when the balance cannot cover the cost.
var debitScript = redis.NewScript(`
local balance = tonumber(redis.call('GET', KEYS[1]) or '0')
local cost = tonumber(ARGV[1])
if balance < cost then
	return -1
end
return redis.call('DECRBY', KEYS[1], cost)
`)

// Credits is the per-user render credit ledger.
type Credits struct {
	client *redis.Client
}

// NewCredits creates the ledger.
func NewCredits(client *redis.Client) *Credits {
	return &Credits{client: client}
}

func creditsKey(userID string) string {
	return "credits:" + userID
}

// Balance returns the user's current balance; missing users have zero.
func (c *Credits) Balance(ctx context.Context, userID string) (int, error) {
	balance, err := c.client.Get(ctx, creditsKey(userID)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	return balance, err
}

// Grant adds credits to the user's balance and returns the new balance.
func (c *Credits) Grant(ctx context.Context, userID string, amount int) (int, error) {
	balance, err := c.client.IncrBy(ctx, creditsKey(userID), int64(amount)).Result()
	return int(balance), err
}

// Debit atomically deducts cost from the balance. Returns
// ErrInsufficientCredits without changing the balance when it cannot cover
// the cost.
func (c *Credits) Debit(ctx context.Context, userID string, cost int) (int, error) {
	res, err := debitScript.Run(ctx, c.client, []string{creditsKey(userID)}, cost).Int64()
	if err != nil {
		return 0, err
	}
	if res < 0 {
		return 0, ErrInsufficientCredits
	}
	return int(res), nil
}

// Refund returns credits after a failed submission.
func (c *Credits) Refund(ctx context.Context, userID string, amount int) error {
	return c.client.IncrBy(ctx, creditsKey(userID), int64(amount)).Err()
}
