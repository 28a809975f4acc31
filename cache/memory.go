package cache

import (
	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps the entry in process memory only. It is meant for tests
// and for runs where nothing should be written to disk.
type MemoryStore struct {
	items *gocache.Cache
}

func NewMemoryStore() MemoryStore {
	// Expiry is decided by Cache from the entry timestamp, so the
	// store itself never expires anything.
	return MemoryStore{items: gocache.New(gocache.NoExpiration, 0)}
}

func (m MemoryStore) Get(key string) ([]byte, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, ErrNotFound
	}

	return append([]byte(nil), v.([]byte)...), nil
}

func (m MemoryStore) Put(key string, value []byte) error {
	m.items.Set(key, append([]byte(nil), value...), gocache.NoExpiration)

	return nil
}

func (m MemoryStore) Delete(key string) error {
	m.items.Delete(key)

	return nil
}

func (m MemoryStore) Close() error {
	m.items.Flush()

	return nil
}
