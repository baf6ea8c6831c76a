package scoring

import (
	"strconv"

	"github.com/preston-bernstein/court-live-service/internal/domain/live"
)

var pointLabels = [...]string{"0", "15", "30", "40"}

// FormatPoint converts a raw point count into its tennis label given the opponent's count.
// Equal counts above three are deuce (40/40); a one point lead above three is advantage.
func FormatPoint(v, o int) string {
	switch {
	case v < 0:
		return strconv.Itoa(v)
	case v <= 3:
		return pointLabels[v]
	case v > o:
		return "AD"
	default:
		return "40"
	}
}

// buildSets converts upstream sets into display records. The match-level tiebreak flags only
// matter for the final set, where a 0-0 set score means a (super) tiebreak replaced the set.
func buildSets(sets []Set, tiebreak, superTiebreak bool) []live.SetRecord {
	out := make([]live.SetRecord, 0, len(sets))
	for i, s := range sets {
		rec := live.SetRecord{
			FirstScore:    s.FirstParticipantScore,
			SecondScore:   s.SecondParticipantScore,
			LoserTiebreak: copyInt(s.LoserTiebreak),
		}

		if n := len(s.DetailedResult); n > 0 {
			last := s.DetailedResult[n-1]
			g1, g2 := last.FirstParticipantScore, last.SecondParticipantScore
			final := i == len(sets)-1

			if inTiebreak(s, last, final, tiebreak || superTiebreak) {
				rec.GameScore = &live.GameScore{First: strconv.Itoa(g1), Second: strconv.Itoa(g2)}
				rec.IsTieBreak = true
				rec.IsSuperTieBreak = final && superTiebreak
			} else {
				rec.GameScore = &live.GameScore{First: FormatPoint(g1, g2), Second: FormatPoint(g2, g1)}
			}
		}

		out = append(out, rec)
	}
	return out
}

func inTiebreak(s Set, last Game, final, flagged bool) bool {
	f, sc := s.FirstParticipantScore, s.SecondParticipantScore
	switch {
	case f == 6 && sc == 6:
		return true
	case final && f == 0 && sc == 0 && flagged:
		return true
	default:
		return last.LoserTiebreak != nil
	}
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
