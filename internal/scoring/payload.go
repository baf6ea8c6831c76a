package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind distinguishes the two payload shapes the live feed delivers.
type Kind int

const (
	KindUpdate Kind = iota + 1
	KindAction
)

func (k Kind) String() string {
	switch k {
	case KindUpdate:
		return "update"
	case KindAction:
		return "action"
	default:
		return "unknown"
	}
}

// Payload is one entry of a ReceiveMatchUpdate or ReceiveMatchAction invocation.
// The set of implementations is closed: UpdatePayload and ActionPayload.
type Payload interface {
	Kind() Kind
	Court() string
	isPayload()
}

// ID accepts identifiers encoded as JSON strings, numbers or null.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("scoring: id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Game is a single game tally inside a set.
type Game struct {
	FirstParticipantScore  int  `json:"firstParticipantScore"`
	SecondParticipantScore int  `json:"secondParticipantScore"`
	LoserTiebreak          *int `json:"loserTiebreak"`
}

// Set is one set as reported upstream, with its games in chronological order.
type Set struct {
	FirstParticipantScore  int    `json:"firstParticipantScore"`
	SecondParticipantScore int    `json:"secondParticipantScore"`
	LoserTiebreak          *int   `json:"loserTiebreak"`
	DetailedResult         []Game `json:"detailedResult"`
}

// Score is the running tally plus the per-set breakdown.
type Score struct {
	FirstParticipantScore  int   `json:"firstParticipantScore"`
	SecondParticipantScore int   `json:"secondParticipantScore"`
	DetailedResult         []Set `json:"detailedResult"`
}

// Serve carries the optional serve-side indicators.
type Serve struct {
	IsFirstParticipantServing *bool `json:"isFirstParticipantServing"`
	IsServingLeft             *bool `json:"isServingLeft"`
}

// RawPlayer is a participant before normalization.
type RawPlayer struct {
	ID          ID     `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	CountryCode string `json:"countryCode"`
}

// UpdatePayload is a ReceiveMatchUpdate entry: a fast incremental score tick.
type UpdatePayload struct {
	CourtID         ID    `json:"courtId"`
	MatchID         ID    `json:"matchId"`
	Score           Score `json:"score"`
	Serve           Serve `json:"serve"`
	IsTieBreak      bool  `json:"isTieBreak"`
	IsSuperTieBreak bool  `json:"isSuperTieBreak"`
}

func (UpdatePayload) Kind() Kind      { return KindUpdate }
func (p UpdatePayload) Court() string { return p.CourtID.String() }
func (UpdatePayload) isPayload()      {}

// CourtDetails describes the physical court in an action snapshot.
type CourtDetails struct {
	CourtName  string `json:"courtName"`
	EventState string `json:"eventState"`
}

// MatchBase holds the static match context.
type MatchBase struct {
	ClassName         string      `json:"className"`
	FirstParticipant  []RawPlayer `json:"firstParticipant"`
	SecondParticipant []RawPlayer `json:"secondParticipant"`
}

// MatchSnapshot holds the dynamic match context.
type MatchSnapshot struct {
	MatchID         ID    `json:"matchId"`
	Score           Score `json:"score"`
	Serve           Serve `json:"serve"`
	IsTieBreak      bool  `json:"isTieBreak"`
	IsSuperTieBreak bool  `json:"isSuperTieBreak"`
}

// LiveMatch groups the static and dynamic parts of the match on court.
type LiveMatch struct {
	Base  MatchBase     `json:"base"`
	State MatchSnapshot `json:"state"`
}

// CourtModel is the full snapshot carried by an action.
type CourtModel struct {
	Details   CourtDetails `json:"details"`
	LiveMatch LiveMatch    `json:"liveMatch"`
}

// ActionPayload is a ReceiveMatchAction entry: a full snapshot sent when richer context changes.
type ActionPayload struct {
	CourtID    ID          `json:"courtId"`
	MatchID    ID          `json:"matchId"`
	Action     string      `json:"action"`
	CourtModel *CourtModel `json:"courtModel"`
}

func (ActionPayload) Kind() Kind      { return KindAction }
func (p ActionPayload) Court() string { return p.CourtID.String() }
func (ActionPayload) isPayload()      {}
