package store

import (
	"sort"
	"sync"

	"github.com/preston-bernstein/court-live-service/internal/domain/live"
)

type courtKey struct {
	tournamentID string
	courtID      string
}

// LiveStore keeps the latest live state per tournament court in memory.
type LiveStore struct {
	mu     sync.RWMutex
	courts map[courtKey]live.CourtLiveState
}

// NewLiveStore constructs an empty LiveStore.
func NewLiveStore() *LiveStore {
	return &LiveStore{
		courts: make(map[courtKey]live.CourtLiveState),
	}
}

// Apply records state as the latest for its court. Score ticks carry no match
// context, so when the stored state is for the same match its names and
// participants are kept.
func (s *LiveStore) Apply(tournamentID string, state live.CourtLiveState) {
	key := courtKey{tournamentID: tournamentID, courtID: state.CourtID}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.courts[key]; ok && state.MatchID != "" && prev.MatchID == state.MatchID {
		state = mergeContext(prev, state)
	}
	s.courts[key] = state
}

// Get returns the latest state for a tournament court.
func (s *LiveStore) Get(tournamentID, courtID string) (live.CourtLiveState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.courts[courtKey{tournamentID: tournamentID, courtID: courtID}]
	return state, ok
}

// ListTournament returns the latest state of every court of a tournament, by court id.
func (s *LiveStore) ListTournament(tournamentID string) []live.CourtLiveState {
	s.mu.RLock()
	result := make([]live.CourtLiveState, 0)
	for key, state := range s.courts {
		if key.tournamentID == tournamentID {
			result = append(result, state)
		}
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].CourtID, result[j].CourtID
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})
	return result
}

// Remove forgets a tournament court.
func (s *LiveStore) Remove(tournamentID, courtID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.courts, courtKey{tournamentID: tournamentID, courtID: courtID})
}

// mergeContext fills the match context missing from next with prev's. next is a copy.
func mergeContext(prev, next live.CourtLiveState) live.CourtLiveState {
	if next.CourtName == "" {
		next.CourtName = prev.CourtName
	}
	if next.EventState == "" {
		next.EventState = prev.EventState
	}
	if next.ClassName == "" {
		next.ClassName = prev.ClassName
	}
	if len(next.FirstParticipant) == 0 {
		next.FirstParticipant = prev.FirstParticipant
	}
	if len(next.SecondParticipant) == 0 {
		next.SecondParticipant = prev.SecondParticipant
	}
	return next
}
