package testutil

import (
	"strconv"
	"strings"

	"github.com/preston-bernstein/court-live-service/internal/domain/live"
)

// SamplePlayer returns a normalized player fixture.
func SamplePlayer(id, first, last string) live.Player {
	return live.Player{
		ID:              id,
		FirstName:       first,
		LastName:        last,
		CountryCode:     "SE",
		FullName:        first + " " + last,
		InitialLastName: first[:1] + ". " + last,
	}
}

// SampleCourtState returns a live singles match in its first set.
func SampleCourtState(courtID, matchID string) live.CourtLiveState {
	serving := true
	return live.CourtLiveState{
		CourtID:           courtID,
		CourtName:         "Court " + courtID,
		MatchID:           matchID,
		ClassName:         "Open",
		FirstParticipant:  []live.Player{SamplePlayer("1", "Anna", "Berg")},
		SecondParticipant: []live.Player{SamplePlayer("2", "Cleo", "Dahl")},
		DetailedResult: []live.SetRecord{{
			FirstScore:  2,
			SecondScore: 1,
			GameScore:   &live.GameScore{First: "15", Second: "30"},
		}},
		IsFirstServing: &serving,
		MatchState:     live.StateLive,
	}
}

// UpdateEntry builds one ReceiveMatchUpdate entry with the given number of
// completed 6-4 sets, ready to wrap with Invocation.
func UpdateEntry(courtID, matchID int, sets int) string {
	detailed := make([]string, 0, sets)
	for i := 0; i < sets; i++ {
		detailed = append(detailed, `{"firstParticipantScore":6,"secondParticipantScore":4,"detailedResult":[{"firstParticipantScore":1,"secondParticipantScore":0}]}`)
	}
	return `{"courtId":` + strconv.Itoa(courtID) + `,"matchId":` + strconv.Itoa(matchID) +
		`,"score":{"firstParticipantScore":0,"secondParticipantScore":0,"detailedResult":[` + strings.Join(detailed, ",") +
		`]},"serve":{"isFirstParticipantServing":true},"isTieBreak":false,"isSuperTieBreak":false}`
}
