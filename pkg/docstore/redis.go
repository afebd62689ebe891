package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-redis/redis"
)

// redisCollection keeps a collection in one hash, <prefix>:<name>, with a field per document id
type redisCollection[T any] struct {
	client *redis.Client
	key    string
}

func newRedisCollection[T any](client *redis.Client, prefix, name string) *redisCollection[T] {
	key := name
	if prefix != "" {
		key = prefix + ":" + name
	}
	return &redisCollection[T]{client: client, key: key}
}

func (c *redisCollection[T]) FindAll(ctx context.Context) ([]T, error) {
	values, err := c.client.WithContext(ctx).HGetAll(c.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.key, err)
	}

	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]T, 0, len(ids))
	for _, id := range ids {
		var doc T
		if err := json.Unmarshal([]byte(values[id]), &doc); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
		}
		result = append(result, doc)
	}
	return result, nil
}

func (c *redisCollection[T]) FindByID(ctx context.Context, id string) (T, error) {
	var doc T
	value, err := c.client.WithContext(ctx).HGet(c.key, id).Result()
	if err == redis.Nil {
		return doc, ErrNotFound
	}
	if err != nil {
		return doc, fmt.Errorf("failed to read document %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		return doc, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	return doc, nil
}

func (c *redisCollection[T]) Save(ctx context.Context, id string, doc T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", id, err)
	}
	if err := c.client.WithContext(ctx).HSet(c.key, id, string(raw)).Err(); err != nil {
		return fmt.Errorf("failed to save document %s: %w", id, err)
	}
	return nil
}

func (c *redisCollection[T]) DeleteByID(ctx context.Context, id string) error {
	if err := c.client.WithContext(ctx).HDel(c.key, id).Err(); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	return nil
}

func (c *redisCollection[T]) DeleteAll(ctx context.Context) error {
	if err := c.client.WithContext(ctx).Del(c.key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", c.key, err)
	}
	return nil
}
