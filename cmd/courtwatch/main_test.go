package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/court-live-service/internal/domain/live"
	"github.com/preston-bernstein/court-live-service/internal/testutil"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunRequiresCourt(t *testing.T) {
	var stderr bytes.Buffer
	err := run(context.Background(), nil, &bytes.Buffer{}, &stderr)
	if err == nil || !strings.Contains(err.Error(), "--court") {
		t.Fatalf("expected missing court error, got %v", err)
	}
}

func TestRunHelpExitsCleanly(t *testing.T) {
	var stderr bytes.Buffer
	if err := run(context.Background(), []string{"--help"}, &bytes.Buffer{}, &stderr); err != nil {
		t.Fatalf("expected help to succeed, got %v", err)
	}
	if !strings.Contains(stderr.String(), "--court") {
		t.Fatalf("expected usage on stderr, got %s", stderr.String())
	}
}

func TestRunPrintsUpdatesAsJSON(t *testing.T) {
	hub := testutil.NewFakeHub(t)
	stdout := &syncBuffer{}

	done := make(chan error, 1)
	go func() {
		done <- run(context.Background(), []string{"--court", "31", "--base-url", hub.URL(), "-n", "1"}, stdout, &syncBuffer{})
	}()

	conn := hub.Accept(t, 2*time.Second)
	conn.ReadRecord(t, 2*time.Second)
	conn.ReadRecord(t, 2*time.Second)
	conn.Send(t, `{}`, testutil.Invocation("ReceiveMatchUpdate", "["+testutil.UpdateEntry(31, 8, 1)+"]"))

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean exit, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("courtwatch did not exit after the requested update")
	}

	var state live.CourtLiveState
	if err := json.Unmarshal([]byte(strings.TrimSpace(stdout.String())), &state); err != nil {
		t.Fatalf("expected one JSON line, got %q (%v)", stdout.String(), err)
	}
	if state.CourtID != "31" || state.MatchID != "8" || len(state.DetailedResult) != 1 {
		t.Fatalf("unexpected state %+v", state)
	}
}
