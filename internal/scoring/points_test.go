package scoring

import "testing"

func TestFormatPointTable(t *testing.T) {
	want := map[int]string{0: "0", 1: "15", 2: "30", 3: "40"}
	for v, label := range want {
		for _, o := range []int{0, 1, 2, 3, 4, 7} {
			if got := FormatPoint(v, o); got != label {
				t.Fatalf("expected %s for %d vs %d, got %s", label, v, o, got)
			}
		}
	}
}

func TestFormatPointAdvantageAndDeuce(t *testing.T) {
	cases := []struct {
		v, o int
		want string
	}{
		{4, 3, "AD"},
		{3, 4, "40"},
		{4, 4, "40"},
		{5, 5, "40"},
		{6, 5, "AD"},
		{5, 6, "40"},
		{-1, 0, "-1"},
	}
	for _, tc := range cases {
		if got := FormatPoint(tc.v, tc.o); got != tc.want {
			t.Fatalf("expected %s for %d vs %d, got %s", tc.want, tc.v, tc.o, got)
		}
	}
}

func TestBuildSetsRegularGame(t *testing.T) {
	sets := []Set{{
		FirstParticipantScore:  3,
		SecondParticipantScore: 2,
		DetailedResult: []Game{
			{FirstParticipantScore: 4, SecondParticipantScore: 1},
			{FirstParticipantScore: 2, SecondParticipantScore: 3},
		},
	}}

	recs := buildSets(sets, false, false)
	if len(recs) != 1 {
		t.Fatalf("expected 1 set, got %d", len(recs))
	}
	gs := recs[0].GameScore
	if gs == nil || gs.First != "30" || gs.Second != "40" {
		t.Fatalf("expected 30-40 from the last game, got %+v", gs)
	}
	if recs[0].IsTieBreak {
		t.Fatalf("expected regular game, got tiebreak")
	}
}

func TestBuildSetsSixAllIsTiebreak(t *testing.T) {
	sets := []Set{
		{FirstParticipantScore: 6, SecondParticipantScore: 6, DetailedResult: []Game{{FirstParticipantScore: 5, SecondParticipantScore: 4}}},
		{FirstParticipantScore: 1, SecondParticipantScore: 0},
	}

	recs := buildSets(sets, false, false)
	first := recs[0]
	if !first.IsTieBreak {
		t.Fatalf("expected 6-6 set to be a tiebreak")
	}
	if first.GameScore == nil || first.GameScore.First != "5" || first.GameScore.Second != "4" {
		t.Fatalf("expected raw tiebreak points 5-4, got %+v", first.GameScore)
	}
	if first.IsSuperTieBreak {
		t.Fatalf("expected a regular tiebreak in a non-final set")
	}
}

func TestBuildSetsSuperTiebreakInFinalSet(t *testing.T) {
	sets := []Set{
		{FirstParticipantScore: 6, SecondParticipantScore: 3},
		{FirstParticipantScore: 4, SecondParticipantScore: 6},
		{FirstParticipantScore: 0, SecondParticipantScore: 0, DetailedResult: []Game{{FirstParticipantScore: 7, SecondParticipantScore: 5}}},
	}

	recs := buildSets(sets, false, true)
	last := recs[2]
	if !last.IsTieBreak || !last.IsSuperTieBreak {
		t.Fatalf("expected super tiebreak flags on the final set, got %+v", last)
	}
	if last.GameScore.First != "7" || last.GameScore.Second != "5" {
		t.Fatalf("expected raw points 7-5, got %+v", last.GameScore)
	}
	if recs[0].GameScore != nil || recs[1].GameScore != nil {
		t.Fatalf("expected no game score on sets without games")
	}
}

func TestBuildSetsZeroAllWithoutFlagIsRegular(t *testing.T) {
	sets := []Set{
		{FirstParticipantScore: 0, SecondParticipantScore: 0, DetailedResult: []Game{{FirstParticipantScore: 3, SecondParticipantScore: 3}}},
	}

	recs := buildSets(sets, false, false)
	if recs[0].IsTieBreak {
		t.Fatalf("expected regular game without tiebreak flag")
	}
	if recs[0].GameScore.First != "40" || recs[0].GameScore.Second != "40" {
		t.Fatalf("expected 40-40, got %+v", recs[0].GameScore)
	}
}

func TestBuildSetsLoserTiebreakOnLastGame(t *testing.T) {
	loser := 3
	sets := []Set{
		{
			FirstParticipantScore:  7,
			SecondParticipantScore: 6,
			LoserTiebreak:          &loser,
			DetailedResult:         []Game{{FirstParticipantScore: 7, SecondParticipantScore: 3, LoserTiebreak: &loser}},
		},
	}

	recs := buildSets(sets, false, false)
	if !recs[0].IsTieBreak {
		t.Fatalf("expected loserTiebreak on last game to mark tiebreak")
	}
	if recs[0].LoserTiebreak == nil || *recs[0].LoserTiebreak != 3 {
		t.Fatalf("expected loser tiebreak 3 copied, got %v", recs[0].LoserTiebreak)
	}
	loser = 9
	if *recs[0].LoserTiebreak != 3 {
		t.Fatalf("expected loser tiebreak to be copied, not shared")
	}
}
