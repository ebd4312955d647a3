package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ValkeyStore implements Store on Valkey or Redis.
type ValkeyStore struct {
	client *redis.Client
	prefix string
}

// ValkeyConfig holds connection settings for Valkey.
type ValkeyConfig struct {
	Addr     string // host:port
	Password string
	DB       int
	// Prefix namespaces every key, e.g. "qstage:".
	Prefix string
}

// NewValkeyStore connects to Valkey and pings it before returning.
func NewValkeyStore(ctx context.Context, cfg ValkeyConfig) (*ValkeyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey at %s: %w", cfg.Addr, err)
	}

	return &ValkeyStore{client: client, prefix: cfg.Prefix}, nil
}

func (s *ValkeyStore) key(k string) string {
	return s.prefix + k
}

func (s *ValkeyStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(key), value, ttl).Err()
}

func (s *ValkeyStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *ValkeyStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *ValkeyStore) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, s.key(key), value, ttl).Result()
}

// Close closes the connection to Valkey.
func (s *ValkeyStore) Close() error {
	return s.client.Close()
}

var _ Store = (*ValkeyStore)(nil)
