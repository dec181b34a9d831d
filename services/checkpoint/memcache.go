package checkpoint

import (
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcacheStore implements Store using memcache
type MemcacheStore struct {
	client *memcache.Client
}

var _ Store = (*MemcacheStore)(nil)

// NewMemcacheStore creates a new memcache-backed store
func NewMemcacheStore(serverAddr string) *MemcacheStore {
	return &MemcacheStore{
		client: memcache.New(serverAddr),
	}
}

// Get retrieves a value from memcache
func (m *MemcacheStore) Get(key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

// Set stores a value in memcache with an expiration time
func (m *MemcacheStore) Set(key string, value []byte, expiration time.Duration) error {
	return m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(expiration.Seconds()),
	})
}

// Delete removes a value from memcache
func (m *MemcacheStore) Delete(key string) error {
	return m.client.Delete(key)
}
