package memory

import (
	"sync"
	"time"

	"github.com/nitwit45/automation-tm/internal/ports"
)

const defaultTTL = 30 * time.Minute

// Store is an in-process client registry with sliding expiry. Each entry is
// one logical logged-in user; an entry idle past the TTL is dropped so a
// long-dead remote session is not handed back to a caller.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	client   ports.TaskClient
	lastUsed time.Time
}

var _ ports.ClientStore = (*Store)(nil)

type Option func(*Store)

func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		ttl:     defaultTTL,
		now:     time.Now,
		entries: map[string]entry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(id string) (ports.TaskClient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictStale()

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}

	e.lastUsed = s.now()
	s.entries[id] = e
	return e.client, true
}

func (s *Store) Put(id string, client ports.TaskClient) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictStale()
	s.entries[id] = entry{client: client, lastUsed: s.now()}
}

func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
}

// evictStale runs under s.mu.
func (s *Store) evictStale() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, e := range s.entries {
		if e.lastUsed.Before(cutoff) {
			delete(s.entries, id)
		}
	}
}
