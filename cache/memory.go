package cache

import (
	"container/list"
	"context"
	"log/slog"
	"sync"
	"time"

	"contentagent.app/errors"
)

type memoryEntry struct {
	key       string
	data      []byte
	expiresAt time.Time
}

// MemoryStore is the local cache tier: a size-bounded in-process store with
// LRU eviction. Capacity accounting uses the length of the stored bytes, so
// eviction behavior is deterministic. Expiry is purely lazy - an entry is
// purged when a Get finds it stale, never by a background sweeper.
type MemoryStore struct {
	mutex     sync.Mutex
	entries   map[string]*list.Element
	order     *list.List // front = most recently used, back = eviction candidate
	maxBytes  int64
	usedBytes int64
	now       func() time.Time
}

// NewMemoryStore creates a local tier bounded to maxBytes of stored data.
func NewMemoryStore(maxBytes int64) (*MemoryStore, error) {
	if maxBytes <= 0 {
		return nil, errors.NewConfigurationError("memory cache capacity must be positive", nil)
	}

	return &MemoryStore{
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		maxBytes: maxBytes,
		now:      time.Now,
	}, nil
}

// Get returns the stored bytes for key if present and not expired.
// A stale entry is removed as a side effect; a hit refreshes recency.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	elem, exists := s.entries[key]
	if !exists {
		return nil, false
	}

	entry := elem.Value.(*memoryEntry)
	if !s.now().Before(entry.expiresAt) {
		s.removeElement(elem)
		return nil, false
	}

	s.order.MoveToFront(elem)
	return entry.data, true
}

// Set stores value under key with an absolute expiry of now + ttl.
// A zero TTL marks the entry as already expired. A value larger than the
// tier's capacity is silently declined - caching is an optimization, and an
// oversized value simply stays uncached.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}
	if value == nil {
		return errors.NewValidationError("cache value cannot be nil")
	}
	if ttl < 0 {
		return errors.NewValidationError("cache TTL cannot be negative")
	}

	size := int64(len(value))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if size > s.maxBytes {
		slog.Debug("value exceeds cache capacity, not cached", "key", key, "size", size, "max_bytes", s.maxBytes)
		return nil
	}

	// Replacing an existing key is delete-then-insert for accounting purposes.
	if elem, exists := s.entries[key]; exists {
		s.removeElement(elem)
	}

	for s.usedBytes+size > s.maxBytes && s.order.Len() > 0 {
		s.removeElement(s.order.Back())
	}

	elem := s.order.PushFront(&memoryEntry{
		key:       key,
		data:      value,
		expiresAt: s.now().Add(ttl),
	})
	s.entries[key] = elem
	s.usedBytes += size

	return nil
}

// Delete removes the entry for key if present.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if elem, exists := s.entries[key]; exists {
		s.removeElement(elem)
	}
	return nil
}

// Clear empties the tier and resets size accounting.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.entries = make(map[string]*list.Element)
	s.order.Init()
	s.usedBytes = 0
	return nil
}

// Len returns the number of live entries.
func (s *MemoryStore) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.order.Len()
}

// Bytes returns the total size of stored values.
func (s *MemoryStore) Bytes() int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.usedBytes
}

// removeElement drops an entry and its size from the accounting.
// Must be called while holding the mutex.
func (s *MemoryStore) removeElement(elem *list.Element) {
	entry := elem.Value.(*memoryEntry)
	s.order.Remove(elem)
	delete(s.entries, entry.key)
	s.usedBytes -= int64(len(entry.data))
}
