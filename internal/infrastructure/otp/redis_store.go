package otp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sopas/backend/internal/domain/identity"
	"github.com/sopas/backend/internal/domain/shared"
	"github.com/sopas/backend/internal/infrastructure/config"
)

// RedisOTPStore implements identity.OTPStore using Redis. Redis TTLs give
// the 5 minute validity window without a cleanup job.
type RedisOTPStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisOTPStore creates a Redis-backed OTP store and verifies the connection
func NewRedisOTPStore(cfg config.RedisConfig) (*RedisOTPStore, error) {
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
		return nil, fmt.Errorf("failed to connect to Redis for OTP store: %w", err)
	}

	return &RedisOTPStore{client: client, keyPrefix: "otp:"}, nil
}

// NewRedisOTPStoreWithClient creates an OTP store with an existing Redis client
func NewRedisOTPStoreWithClient(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client, keyPrefix: "otp:"}
}

func (s *RedisOTPStore) key(email string) string {
	return s.keyPrefix + email
}

// Put stores a code for the given address. An existing unexpired code is
// kept so resends within the window deliver the same code.
func (s *RedisOTPStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := s.client.SetNX(ctx, s.key(email), code, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}
	return nil
}

// Get returns the active code for the address, or shared.ErrNotFound when
// none exists or it has expired.
func (s *RedisOTPStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, s.key(email)).Result()
	if err == redis.Nil {
		return "", shared.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read OTP: %w", err)
	}
	return code, nil
}

// Delete removes the code for the address
func (s *RedisOTPStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, s.key(email)).Err(); err != nil {
		return fmt.Errorf("failed to delete OTP: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisOTPStore) Close() error {
	return s.client.Close()
}

var _ identity.OTPStore = (*RedisOTPStore)(nil)

// InMemoryOTPStore provides an in-memory implementation for testing.
// WARNING: not suitable for production with multiple instances.
type InMemoryOTPStore struct {
	mu    sync.Mutex
	codes map[string]memoryEntry
}

type memoryEntry struct {
	code      string
	expiresAt time.Time
}

// NewInMemoryOTPStore creates a new in-memory OTP store
func NewInMemoryOTPStore() *InMemoryOTPStore {
	return &InMemoryOTPStore{codes: make(map[string]memoryEntry)}
}

// Put stores a code unless an unexpired one already exists
func (s *InMemoryOTPStore) Put(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.codes[email]; ok && time.Now().Before(entry.expiresAt) {
		return nil
	}
	s.codes[email] = memoryEntry{code: code, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Get returns the active code for the address
func (s *InMemoryOTPStore) Get(_ context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.codes[email]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.codes, email)
		return "", shared.ErrNotFound
	}
	return entry.code, nil
}

// Delete removes the code for the address
func (s *InMemoryOTPStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
	return nil
}

var _ identity.OTPStore = (*InMemoryOTPStore)(nil)
