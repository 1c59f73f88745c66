// Package memory contains in-process implementations of secondary ports.
package memory

import (
	"strconv"

	"github.com/patrickmn/go-cache"

	"github.com/example/parkwise/internal/ports/secondary"
)

// ScratchStore implements secondary.ConveyorScratchStore with two go-cache
// maps. Entries never expire; they live until cleared or the process exits.
type ScratchStore struct {
	pending  *cache.Cache
	attempts *cache.Cache
}

// NewScratchStore creates an empty scratch store.
func NewScratchStore() *ScratchStore {
	return &ScratchStore{
		pending:  cache.New(cache.NoExpiration, 0),
		attempts: cache.New(cache.NoExpiration, 0),
	}
}

func key(id int64) string {
	return strconv.FormatInt(id, 10)
}

// PendingWeight returns the staged max weight for a conveyor, if any.
func (s *ScratchStore) PendingWeight(id int64) (int, bool) {
	v, ok := s.pending.Get(key(id))
	if !ok {
		return 0, false
	}
	return v.(int), true
}

// SetPendingWeight stages a max weight, replacing any earlier value.
func (s *ScratchStore) SetPendingWeight(id int64, kg int) {
	s.pending.Set(key(id), kg, cache.NoExpiration)
}

// ClearPendingWeight drops the staged max weight.
func (s *ScratchStore) ClearPendingWeight(id int64) {
	s.pending.Delete(key(id))
}

// Attempts returns the attempt counter for a conveyor.
func (s *ScratchStore) Attempts(id int64) int {
	v, ok := s.attempts.Get(key(id))
	if !ok {
		return 0
	}
	return v.(int)
}

// ResetAttempts sets the attempt counter to 0.
func (s *ScratchStore) ResetAttempts(id int64) {
	s.attempts.Set(key(id), 0, cache.NoExpiration)
}

// EnsureAttempts sets the attempt counter to 0 unless it is already tracked.
func (s *ScratchStore) EnsureAttempts(id int64) {
	// Add fails when the key exists, which is exactly put-if-absent.
	_ = s.attempts.Add(key(id), 0, cache.NoExpiration)
}

// Forget drops all scratch state for a conveyor.
func (s *ScratchStore) Forget(id int64) {
	s.pending.Delete(key(id))
	s.attempts.Delete(key(id))
}

// Ensure ScratchStore implements the interface
var _ secondary.ConveyorScratchStore = (*ScratchStore)(nil)
