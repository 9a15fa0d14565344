package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on top of a shared go-redis client. Records are
// serialized as JSON strings so they round-trip without type coercion; dates
// stay ISO-8601 strings end to end.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Client() *redis.Client {
	return s.client
}

func (s *RedisStore) HashSet(ctx context.Context, collection, id string, record any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, collection, id, payload).Err()
}

func (s *RedisStore) HashGet(ctx context.Context, collection, id string, dest any) (bool, error) {
	val, err := s.client.HGet(ctx, collection, id).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(val), dest)
}

func (s *RedisStore) SetAdd(ctx context.Context, index, id string) error {
	return s.client.SAdd(ctx, index, id).Err()
}

func (s *RedisStore) SetMembers(ctx context.Context, index string) ([]string, error) {
	return s.client.SMembers(ctx, index).Result()
}

func (s *RedisStore) SetRemove(ctx context.Context, index, id string) error {
	return s.client.SRem(ctx, index, id).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func ConnectRedisWithRetry(addr, password string, maxRetries int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	for i := 1; i <= maxRetries; i++ {
		ctx := context.Background()
		if err := rdb.Ping(ctx).Err(); err == nil {
			log.Println("✅ Connected to Redis")
			return rdb, nil
		}

		log.Printf("⚠️ Redis retry %d/%d failed", i, maxRetries)
		time.Sleep(5 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect redis at %s", addr)
}
