package ownership

import (
	"context"
	"sync"
)

// MemoryStore keeps ownership in a map. Used by tests and the memory driver.
type MemoryStore struct {
	mu     sync.RWMutex
	owners map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{owners: make(map[string]string)}
}

// Assign records that tournamentID owns courtID.
func (s *MemoryStore) Assign(courtID, tournamentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[courtID] = tournamentID
}

// Release forgets the owner of courtID.
func (s *MemoryStore) Release(courtID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.owners, courtID)
}

func (s *MemoryStore) TournamentForCourt(ctx context.Context, courtID string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.owners[courtID]
	return id, ok, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
