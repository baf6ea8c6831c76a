package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestRecorderTracksNegotiations(t *testing.T) {
	rec := NewRecorder()
	rec.RecordNegotiation("12", 10*time.Millisecond, nil)
	rec.RecordNegotiation("12", 15*time.Millisecond, errors.New("boom"))

	snap := rec.Snapshot("12")
	if snap.Negotiations != 2 || snap.NegotiationFailures != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.LastNegotiateLatency != 15*time.Millisecond {
		t.Fatalf("expected last latency to be 15ms, got %s", snap.LastNegotiateLatency)
	}
}

func TestRecorderTracksConnectionLifecycleAndUpdates(t *testing.T) {
	rec := NewRecorder()
	rec.RecordConnect("7")
	rec.RecordDisconnect("7")
	rec.RecordUpdate("7", "update")
	rec.RecordUpdate("7", "action")
	rec.RecordMalformed("7", 3)
	rec.RecordMalformed("7", 0)
	rec.RecordDropped("7", ReasonNoOwner)

	snap := rec.Snapshot("7")
	if snap.Connects != 1 || snap.Disconnects != 1 {
		t.Fatalf("unexpected connection counts %+v", snap)
	}
	if rec.Updates("7") != 2 || snap.Malformed != 3 || rec.Dropped("7") != 1 {
		t.Fatalf("unexpected update counts %+v", snap)
	}
	if other := rec.Snapshot("8"); other != (Snapshot{}) {
		t.Fatalf("expected empty snapshot for unknown court, got %+v", other)
	}
}

func TestRecorderForget(t *testing.T) {
	rec := NewRecorder()
	rec.RecordConnect("1")
	rec.Forget("1")
	if rec.Snapshot("1").Connects != 0 {
		t.Fatalf("expected stats to be cleared")
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var rec *Recorder
	rec.RecordConnect("1")
	rec.RecordDisconnect("1")
	rec.RecordNegotiation("1", time.Millisecond, nil)
	rec.RecordUpdate("1", "update")
	rec.RecordMalformed("1", 1)
	rec.RecordDropped("1", ReasonNoOwner)
	rec.RecordSubscriptionDelta(1)
	rec.RecordSweep(time.Millisecond, 0)
	rec.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)
	rec.Forget("1")
	if rec.Snapshot("1") != (Snapshot{}) {
		t.Fatalf("expected empty snapshot from nil recorder")
	}
}
