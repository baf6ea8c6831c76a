package scoring

import (
	"errors"
	"fmt"
	"time"

	"github.com/preston-bernstein/court-live-service/internal/domain/live"
)

var (
	// ErrNoSnapshot is returned for actions that do not carry a court model.
	ErrNoSnapshot = errors.New("scoring: action has no court model")
	// ErrUnknownPayload is returned for payload values outside the two known variants.
	ErrUnknownPayload = errors.New("scoring: unknown payload")
)

// Interpret converts a payload into the canonical court state. It performs no I/O and keeps no
// state; at becomes UpdatedAt so identical inputs produce identical outputs.
func Interpret(p Payload, at time.Time) (live.CourtLiveState, error) {
	switch v := p.(type) {
	case UpdatePayload:
		return interpretUpdate(v, at), nil
	case ActionPayload:
		return interpretAction(v, at)
	default:
		return live.CourtLiveState{}, fmt.Errorf("%w: %T", ErrUnknownPayload, p)
	}
}

func interpretUpdate(u UpdatePayload, at time.Time) live.CourtLiveState {
	return live.CourtLiveState{
		CourtID:           u.CourtID.String(),
		MatchID:           u.MatchID.String(),
		FirstParticipant:  []live.Player{},
		SecondParticipant: []live.Player{},
		FirstScore:        u.Score.FirstParticipantScore,
		SecondScore:       u.Score.SecondParticipantScore,
		DetailedResult:    buildSets(u.Score.DetailedResult, u.IsTieBreak, u.IsSuperTieBreak),
		IsTieBreak:        u.IsTieBreak,
		IsSuperTieBreak:   u.IsSuperTieBreak,
		IsFirstServing:    copyBool(u.Serve.IsFirstParticipantServing),
		IsServingLeft:     copyBool(u.Serve.IsServingLeft),
		MatchState:        live.StateLive,
		UpdatedAt:         at,
	}
}

func interpretAction(a ActionPayload, at time.Time) (live.CourtLiveState, error) {
	if a.CourtModel == nil {
		return live.CourtLiveState{}, ErrNoSnapshot
	}
	model := a.CourtModel
	base := model.LiveMatch.Base
	state := model.LiveMatch.State

	matchID := state.MatchID.String()
	if matchID == "" {
		matchID = a.MatchID.String()
	}

	first := NormalizePlayers(base.FirstParticipant)
	second := NormalizePlayers(base.SecondParticipant)

	matchState := live.StateLive
	if matchID == "" && len(first) == 0 && len(second) == 0 {
		matchState = live.StateFree
	}

	return live.CourtLiveState{
		CourtID:           a.CourtID.String(),
		CourtName:         model.Details.CourtName,
		EventState:        model.Details.EventState,
		MatchID:           matchID,
		ClassName:         base.ClassName,
		FirstParticipant:  first,
		SecondParticipant: second,
		FirstScore:        state.Score.FirstParticipantScore,
		SecondScore:       state.Score.SecondParticipantScore,
		DetailedResult:    buildSets(state.Score.DetailedResult, state.IsTieBreak, state.IsSuperTieBreak),
		IsTieBreak:        state.IsTieBreak,
		IsSuperTieBreak:   state.IsSuperTieBreak,
		IsFirstServing:    copyBool(state.Serve.IsFirstParticipantServing),
		IsServingLeft:     copyBool(state.Serve.IsServingLeft),
		MatchState:        matchState,
		UpdatedAt:         at,
	}, nil
}
