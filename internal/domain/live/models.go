package live

import "time"

// MatchState mirrors the lifecycle of whatever is happening on a court.
type MatchState string

const (
	StateFree      MatchState = "free"
	StateScheduled MatchState = "scheduled"
	StateLive      MatchState = "live"
	StateFinished  MatchState = "finished"
)

// Player is the normalized participant shape shared by both payload kinds.
type Player struct {
	ID              string `json:"id"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	CountryCode     string `json:"countryCode"`
	FullName        string `json:"fullName"`
	InitialLastName string `json:"initialLastName"`
}

// GameScore is the display value of the game in progress within a set.
type GameScore struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// SetRecord describes one set, completed or in progress.
type SetRecord struct {
	FirstScore      int        `json:"firstScore"`
	SecondScore     int        `json:"secondScore"`
	LoserTiebreak   *int       `json:"loserTiebreak,omitempty"`
	GameScore       *GameScore `json:"gameScore,omitempty"`
	IsTieBreak      bool       `json:"isTieBreak,omitempty"`
	IsSuperTieBreak bool       `json:"isSuperTieBreak,omitempty"`
}

// CourtLiveState is the canonical, display-ready record produced for every accepted update.
// Values are never mutated after they are handed to a callback.
type CourtLiveState struct {
	CourtID           string      `json:"courtId"`
	CourtName         string      `json:"courtName,omitempty"`
	EventState        string      `json:"eventState,omitempty"`
	MatchID           string      `json:"matchId,omitempty"`
	ClassName         string      `json:"className"`
	FirstParticipant  []Player    `json:"firstParticipant"`
	SecondParticipant []Player    `json:"secondParticipant"`
	FirstScore        int         `json:"firstScore"`
	SecondScore       int         `json:"secondScore"`
	DetailedResult    []SetRecord `json:"detailedResult"`
	IsTieBreak        bool        `json:"isTieBreak"`
	IsSuperTieBreak   bool        `json:"isSuperTieBreak"`
	IsFirstServing    *bool       `json:"isFirstServing,omitempty"`
	IsServingLeft     *bool       `json:"isServingLeft,omitempty"`
	MatchState        MatchState  `json:"matchState"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// SetsWon counts the sets each side has taken. A set counts for a side only when its score is strictly higher.
func SetsWon(sets []SetRecord) (first, second int) {
	for _, s := range sets {
		switch {
		case s.FirstScore > s.SecondScore:
			first++
		case s.SecondScore > s.FirstScore:
			second++
		}
	}
	return first, second
}
