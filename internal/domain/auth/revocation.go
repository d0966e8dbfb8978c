package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Denylist records tokens that must be refused although their signature and
// expiry are fine. Account revocations are kept at millisecond precision and
// refuse tokens issued strictly before the revocation instant.
type Denylist interface {
	RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error
	RevokeAccount(ctx context.Context, accountID int64, before time.Time) error
	IsRevoked(ctx context.Context, identity Identity) (bool, error)
}

type MemoryDenylist struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	tokens   map[string]time.Time
	accounts map[int64]accountRevocation
}

type accountRevocation struct {
	before  time.Time
	expires time.Time
}

// NewMemoryDenylist keeps account revocations for ttl, the longest a token
// issued before them can stay valid.
func NewMemoryDenylist(ttl time.Duration) *MemoryDenylist {
	return &MemoryDenylist{
		ttl:      ttl,
		now:      time.Now,
		tokens:   map[string]time.Time{},
		accounts: map[int64]accountRevocation{},
	}
}

func (d *MemoryDenylist) RevokeToken(_ context.Context, tokenID string, expiresAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pruneLocked()
	d.tokens[tokenID] = expiresAt
	return nil
}

func (d *MemoryDenylist) RevokeAccount(_ context.Context, accountID int64, before time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pruneLocked()
	d.accounts[accountID] = accountRevocation{
		before:  before.Truncate(time.Millisecond),
		expires: d.now().Add(d.ttl),
	}
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, identity Identity) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	if until, ok := d.tokens[identity.TokenID]; ok && now.Before(until) {
		return true, nil
	}
	if rev, ok := d.accounts[identity.AccountID]; ok && now.Before(rev.expires) {
		return identity.IssuedAt.Before(rev.before), nil
	}
	return false, nil
}

func (d *MemoryDenylist) pruneLocked() {
	now := d.now()
	for id, until := range d.tokens {
		if !now.Before(until) {
			delete(d.tokens, id)
		}
	}
	for id, rev := range d.accounts {
		if !now.Before(rev.expires) {
			delete(d.accounts, id)
		}
	}
}

type RedisDenylist struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisDenylist(client *redis.Client, ttl time.Duration) *RedisDenylist {
	return &RedisDenylist{client: client, ttl: ttl, prefix: "workforce:denylist:"}
}

func (d *RedisDenylist) tokenKey(tokenID string) string {
	return d.prefix + "token:" + tokenID
}

func (d *RedisDenylist) accountKey(accountID int64) string {
	return d.prefix + "account:" + strconv.FormatInt(accountID, 10)
}

func (d *RedisDenylist) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, d.tokenKey(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (d *RedisDenylist) RevokeAccount(ctx context.Context, accountID int64, before time.Time) error {
	value := strconv.FormatInt(before.UnixMilli(), 10)
	if err := d.client.Set(ctx, d.accountKey(accountID), value, d.ttl).Err(); err != nil {
		return fmt.Errorf("revoke account: %w", err)
	}
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, identity Identity) (bool, error) {
	values, err := d.client.MGet(ctx, d.tokenKey(identity.TokenID), d.accountKey(identity.AccountID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("check denylist: %w", err)
	}
	if len(values) > 0 && values[0] != nil {
		return true, nil
	}
	if len(values) > 1 && values[1] != nil {
		raw, _ := values[1].(string)
		before, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return false, fmt.Errorf("parse account revocation: %w", err)
		}
		return identity.IssuedAt.UnixMilli() < before, nil
	}
	return false, nil
}
