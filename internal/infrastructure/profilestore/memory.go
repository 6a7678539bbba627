package profilestore

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/swanbotanicals/skinmatch/internal/domain"
)

// DefaultCleanupInterval is how often expired profiles are swept.
const DefaultCleanupInterval = 10 * time.Minute

// entry is a stored profile blob with its expiry. A zero expiry never expires.
type entry struct {
	Data       []byte
	Expiration time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.Expiration.IsZero() && now.After(e.Expiration)
}

// MemoryStore is a thread-safe in-memory profile store with TTL support
type MemoryStore struct {
	data  map[string]entry
	mutex sync.RWMutex
	ttl   time.Duration

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewMemoryStore creates a new in-memory store. Profiles expire ttl after
// their last write; ttl <= 0 disables expiry. A background goroutine removes
// expired entries every cleanupInterval until Close is called.
func NewMemoryStore(ttl, cleanupInterval time.Duration) *MemoryStore {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}

	store := &MemoryStore{
		data: make(map[string]entry),
		ttl:  ttl,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go store.cleanupExpired(cleanupInterval)

	return store
}

// Get retrieves a profile by ID
func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.SkinProfile, error) {
	s.mutex.RLock()
	item, exists := s.data[id]
	s.mutex.RUnlock()

	if !exists || item.expired(time.Now()) {
		return nil, domain.ErrProfileNotFound
	}

	var profile domain.SkinProfile
	if err := json.Unmarshal(item.Data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Set stores a profile, replacing any previous value and resetting its TTL.
// Profiles are held serialized so callers never share memory with the store.
func (s *MemoryStore) Set(ctx context.Context, id string, profile domain.SkinProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	item := entry{Data: data}
	if s.ttl > 0 {
		item.Expiration = time.Now().Add(s.ttl)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data[id] = item
	return nil
}

// Delete removes a profile
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, id)
	return nil
}

// cleanupExpired removes expired entries periodically
func (s *MemoryStore) cleanupExpired(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

func (s *MemoryStore) sweep(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for id, item := range s.data {
		if item.expired(now) {
			delete(s.data, id)
		}
	}
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
	return nil
}

// Count returns the number of live profiles. Expired entries awaiting a sweep are skipped.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	now := time.Now()
	count := 0
	for _, item := range s.data {
		if !item.expired(now) {
			count++
		}
	}
	return count, nil
}
