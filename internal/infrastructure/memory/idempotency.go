package memory

import (
	"context"
	"sync"
	"time"

	"github.com/felipeshurrab/Harmonia/internal/application"
)

var _ application.IdempotencyStore = (*IdempotencyStore)(nil)

type idemRecord struct {
	result  string // "" while pending
	expires time.Time
}

// IdempotencyStore keeps request keys in process memory. Keys expire after
// ttl; expired keys are swept lazily on Reserve.
type IdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]idemRecord
	ttl  time.Duration
	now  func() time.Time
}

func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{keys: make(map[string]idemRecord), ttl: ttl, now: time.Now}
}

func (s *IdempotencyStore) Reserve(_ context.Context, key string) (bool, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, rec := range s.keys {
		if !now.Before(rec.expires) {
			delete(s.keys, k)
		}
	}

	if rec, ok := s.keys[key]; ok {
		return false, rec.result, nil
	}
	s.keys[key] = idemRecord{expires: now.Add(s.ttl)}
	return true, "", nil
}

func (s *IdempotencyStore) Complete(_ context.Context, key, result string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = idemRecord{result: result, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}
