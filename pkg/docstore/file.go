package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// fileCollection stores one collection as a JSON object (id -> document) in
// <dataDir>/<name>.json. The whole file is rewritten on every change.
type fileCollection[T any] struct {
	dataDir string
	name    string
	docs    map[string]json.RawMessage
	mutex   sync.RWMutex
}

func newFileCollection[T any](dataDir, name string) (*fileCollection[T], error) {
	c := &fileCollection[T]{
		dataDir: dataDir,
		name:    name,
		docs:    make(map[string]json.RawMessage),
	}

	if err := c.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	return c, nil
}

func (c *fileCollection[T]) FindAll(ctx context.Context) ([]T, error) {
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

func (c *fileCollection[T]) FindByID(ctx context.Context, id string) (T, error) {
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

func (c *fileCollection[T]) Save(ctx context.Context, id string, doc T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", id, err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	previous, existed := c.docs[id]
	c.docs[id] = raw
	if err := c.save(); err != nil {
		if existed {
			c.docs[id] = previous
		} else {
			delete(c.docs, id)
		}
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

func (c *fileCollection[T]) DeleteByID(ctx context.Context, id string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	previous, existed := c.docs[id]
	if !existed {
		return nil
	}
	delete(c.docs, id)
	if err := c.save(); err != nil {
		c.docs[id] = previous
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

func (c *fileCollection[T]) DeleteAll(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	previous := c.docs
	c.docs = make(map[string]json.RawMessage)
	if err := c.save(); err != nil {
		c.docs = previous
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

func (c *fileCollection[T]) path() string {
	return filepath.Join(c.dataDir, c.name+".json")
}

// load reads the collection file; a missing or empty file is an empty collection
func (c *fileCollection[T]) load() error {
	data, err := os.ReadFile(c.path())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &c.docs); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	if c.docs == nil {
		c.docs = make(map[string]json.RawMessage)
	}
	return nil
}

// save writes the collection to file atomically
func (c *fileCollection[T]) save() error {
	jsonData, err := json.MarshalIndent(c.docs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	tempFile := c.path() + ".tmp"
	if err := os.WriteFile(tempFile, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempFile, c.path()); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
