package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// memoryCollection keeps encoded documents so callers never share memory with the store
type memoryCollection[T any] struct {
	docs  map[string][]byte
	mutex sync.RWMutex
}

func newMemoryCollection[T any]() *memoryCollection[T] {
	return &memoryCollection[T]{docs: make(map[string][]byte)}
}

func (c *memoryCollection[T]) FindAll(ctx context.Context) ([]T, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	ids := make([]string, 0, len(c.docs))
	for id := range c.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]T, 0, len(ids))
	for _, id := range ids {
		var doc T
		if err := json.Unmarshal(c.docs[id], &doc); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
		}
		result = append(result, doc)
	}
	return result, nil
}

func (c *memoryCollection[T]) FindByID(ctx context.Context, id string) (T, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var doc T
	raw, ok := c.docs[id]
	if !ok {
		return doc, ErrNotFound
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	return doc, nil
}

func (c *memoryCollection[T]) Save(ctx context.Context, id string, doc T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", id, err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.docs[id] = raw
	return nil
}

func (c *memoryCollection[T]) DeleteByID(ctx context.Context, id string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.docs, id)
	return nil
}

func (c *memoryCollection[T]) DeleteAll(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.docs = make(map[string][]byte)
	return nil
}
