package store

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/always-cache/fwserve/resource"
)

type memEntry struct {
	modified time.Time
	version  string
	body     []byte
}

// MemStore keeps resources in a map. It is used for tests and small
// embedded resource sets.
type MemStore struct {
	mutex   *sync.RWMutex
	entries map[string]memEntry
}

func NewMemStore() MemStore {
	return MemStore{
		mutex:   &sync.RWMutex{},
		entries: make(map[string]memEntry),
	}
}

func (m MemStore) Put(_ context.Context, name string, modified time.Time, body []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.entries[name] = memEntry{modified: modified, version: contentVersion(body), body: body}
	return nil
}

func (m MemStore) Lookup(_ context.Context, name string) (resource.Descriptor, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	entry, ok := m.entries[name]
	if !ok {
		return resource.Descriptor{}, resource.NotFound(name)
	}
	return resource.Describe(resource.Descriptor{
		Name:     name,
		Size:     int64(len(entry.body)),
		Modified: entry.modified,
		Version:  entry.version,
	}), nil
}

func (m MemStore) Open(_ context.Context, d resource.Descriptor) (io.ReadCloser, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	entry, ok := m.entries[d.Name]
	if !ok {
		return nil, resource.NotFound(d.Name)
	}
	return io.NopCloser(bytes.NewReader(entry.body)), nil
}
