package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces asset keys so the area can share a Redis database
// with other users.
const keyPrefix = "schoolimages:"

type RedisArea struct {
	client *redis.Client
}

func NewRedisArea(address, password string, db int) (ContentArea, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %q: %w", address, err)
	}

	return &RedisArea{client: client}, nil
}

func (a *RedisArea) Put(ctx context.Context, reference string, data []byte) error {
	if err := ValidateReference(reference); err != nil {
		return err
	}
	if err := a.client.Set(ctx, keyPrefix+reference, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store asset %q: %w", reference, err)
	}
	return nil
}

func (a *RedisArea) Get(ctx context.Context, reference string) ([]byte, error) {
	if err := ValidateReference(reference); err != nil {
		return nil, err
	}
	data, err := a.client.Get(ctx, keyPrefix+reference).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, reference)
		}
		return nil, fmt.Errorf("failed to read asset %q: %w", reference, err)
	}
	return data, nil
}

func (a *RedisArea) Exists(ctx context.Context, reference string) (bool, error) {
	if err := ValidateReference(reference); err != nil {
		return false, err
	}
	count, err := a.client.Exists(ctx, keyPrefix+reference).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check asset %q: %w", reference, err)
	}
	return count > 0, nil
}

func (a *RedisArea) Delete(ctx context.Context, reference string) error {
	if err := ValidateReference(reference); err != nil {
		return err
	}
	deleted, err := a.client.Del(ctx, keyPrefix+reference).Result()
	if err != nil {
		return fmt.Errorf("failed to delete asset %q: %w", reference, err)
	}
	if deleted == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, reference)
	}
	return nil
}

func (a *RedisArea) List(ctx context.Context) ([]string, error) {
	keys, err := a.client.Keys(ctx, keyPrefix+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	references := make([]string, 0, len(keys))
	for _, key := range keys {
		references = append(references, strings.TrimPrefix(key, keyPrefix))
	}
	return references, nil
}

func (a *RedisArea) Close() error {
	return a.client.Close()
}
