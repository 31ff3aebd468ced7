package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/billing/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// TokenBlacklist revokes JWTs before their natural expiry.
// Logout revokes a single token by jti; a password change revokes
// every token a user holds by timestamp.
type TokenBlacklist interface {
	// AddToBlacklist revokes one token by its jti. ttl is the time
	// remaining until the token would expire anyway.
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error

	// IsBlacklisted reports whether a jti has been revoked
	IsBlacklisted(ctx context.Context, jti string) (bool, error)

	// AddUserTokensToBlacklist records a cutoff for the user. Tokens
	// issued at or before the cutoff are rejected.
	AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error

	// IsUserTokenInvalidated reports whether a token issued at
	// tokenIssuedAt falls under the user's cutoff
	IsUserTokenInvalidated(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error)
}

// Redis key prefixes for the two revocation shapes
const (
	revokedJTIPrefix  = "billing:auth:revoked:jti:"
	revokedUserPrefix = "billing:auth:revoked:user:"
)

// RedisTokenBlacklist implements TokenBlacklist on Redis so revocation
// survives restarts and is shared across instances
type RedisTokenBlacklist struct {
	client *redis.Client
}

// NewRedisTokenBlacklist connects to Redis and verifies the connection
func NewRedisTokenBlacklist(cfg config.RedisConfig) (*RedisTokenBlacklist, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis for token blacklist: %w", err)
	}

	return &RedisTokenBlacklist{client: client}, nil
}

// AddToBlacklist revokes one token by its jti
func (b *RedisTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if err := b.client.Set(ctx, revokedJTIPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether a jti has been revoked
func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	exists, err := b.client.Exists(ctx, revokedJTIPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return exists > 0, nil
}

// AddUserTokensToBlacklist stores the current time as the user's
// revocation cutoff
func (b *RedisTokenBlacklist) AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error {
	cutoff := time.Now().Unix()
	if err := b.client.Set(ctx, revokedUserPrefix+userID, cutoff, ttl).Err(); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

// IsUserTokenInvalidated compares the token's issue time against the
// user's revocation cutoff
func (b *RedisTokenBlacklist) IsUserTokenInvalidated(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	value, err := b.client.Get(ctx, revokedUserPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check user token revocation: %w", err)
	}

	cutoff, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse revocation cutoff: %w", err)
	}

	return tokenIssuedAt.Unix() <= cutoff, nil
}

// Close closes the Redis client
func (b *RedisTokenBlacklist) Close() error {
	return b.client.Close()
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

// InMemoryTokenBlacklist keeps revocations in process memory.
// Suitable for tests and single-instance deployments without Redis;
// revocations are lost on restart.
type InMemoryTokenBlacklist struct {
	mu          sync.RWMutex
	revokedJTIs map[string]time.Time // jti -> entry expiry
	userCutoffs map[string]time.Time // userID -> revocation cutoff
}

// NewInMemoryTokenBlacklist creates an empty in-memory blacklist
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		revokedJTIs: make(map[string]time.Time),
		userCutoffs: make(map[string]time.Time),
	}
}

// AddToBlacklist revokes one token by its jti
func (b *InMemoryTokenBlacklist) AddToBlacklist(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revokedJTIs[jti] = time.Now().Add(ttl)
	return nil
}

// IsBlacklisted reports whether a jti is revoked. Entries whose token
// would have expired anyway are dropped on read.
func (b *InMemoryTokenBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	expiry, exists := b.revokedJTIs[jti]
	if !exists {
		return false, nil
	}

	if time.Now().After(expiry) {
		delete(b.revokedJTIs, jti)
		return false, nil
	}

	return true, nil
}

// AddUserTokensToBlacklist records now as the user's revocation cutoff
func (b *InMemoryTokenBlacklist) AddUserTokensToBlacklist(_ context.Context, userID string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.userCutoffs[userID] = time.Now()
	return nil
}

// IsUserTokenInvalidated compares the token's issue time against the
// user's cutoff with nanosecond precision
func (b *InMemoryTokenBlacklist) IsUserTokenInvalidated(_ context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	cutoff, exists := b.userCutoffs[userID]
	if !exists {
		return false, nil
	}

	return tokenIssuedAt.UnixNano() <= cutoff.UnixNano(), nil
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
