package ratelimit

import (
	"sync"
	"time"
)

// Store keeps per-key hit counters for fixed windows.
type Store interface {
	Get(key string) (count int, resetTime time.Time, exists bool)
	Increment(key string, resetTime time.Time) (count int)
	Reset(key string)
}

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*entry
	now  func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

type entry struct {
	count     int
	resetTime time.Time
}

// NewMemoryStore returns a store that sweeps expired windows every minute
// until Close is called.
func NewMemoryStore() *MemoryStore {
	return newMemoryStore(time.Minute, time.Now)
}

func newMemoryStore(sweep time.Duration, now func() time.Time) *MemoryStore {
	store := &MemoryStore{
		data: make(map[string]*entry),
		now:  now,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go store.cleanup(sweep)

	return store
}

func (s *MemoryStore) Get(key string) (count int, resetTime time.Time, exists bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.data[key]; ok && s.now().Before(e.resetTime) {
		return e.count, e.resetTime, true
	}
	return 0, time.Time{}, false
}

func (s *MemoryStore) Increment(key string, resetTime time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.data[key]; ok && s.now().Before(e.resetTime) {
		e.count++
		return e.count
	}

	s.data[key] = &entry{count: 1, resetTime: resetTime}
	return 1
}

func (s *MemoryStore) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

// Close stops the sweeper. It is safe to call more than once.
func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, e := range s.data {
		if !now.Before(e.resetTime) {
			delete(s.data, key)
		}
	}
}

func (s *MemoryStore) cleanup(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}
