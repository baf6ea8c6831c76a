package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/court-live-service/internal/domain/live"
)

// StubClient is a test double for subscriptions.Client. Tests push updates
// through Emit as if they arrived from the hub.
type StubClient struct {
	CourtID  string
	OnUpdate func(live.CourtLiveState)

	StartCalls atomic.Int32
	StopCalls  atomic.Int32

	// Hang keeps Done open after Stop, simulating a client that never exits.
	Hang bool

	once sync.Once
	done chan struct{}
}

// NewStubClient returns a stub bound to courtID.
func NewStubClient(courtID string, onUpdate func(live.CourtLiveState)) *StubClient {
	return &StubClient{CourtID: courtID, OnUpdate: onUpdate, done: make(chan struct{})}
}

func (c *StubClient) Start(ctx context.Context) {
	_ = ctx
	c.StartCalls.Add(1)
}

func (c *StubClient) Stop() {
	c.StopCalls.Add(1)
	if c.Hang {
		return
	}
	c.once.Do(func() { close(c.done) })
}

// Finish closes Done, letting a hanging client exit late.
func (c *StubClient) Finish() {
	c.once.Do(func() { close(c.done) })
}

func (c *StubClient) Done() <-chan struct{} {
	return c.done
}

// Stopped reports whether Stop has been called at least once.
func (c *StubClient) Stopped() bool {
	return c.StopCalls.Load() > 0
}

// Emit delivers state to the registered update callback.
func (c *StubClient) Emit(state live.CourtLiveState) {
	if c.OnUpdate != nil {
		c.OnUpdate(state)
	}
}

// StubFactory records every client it builds, keyed by court.
type StubFactory struct {
	mu      sync.Mutex
	Clients map[string][]*StubClient
	Hang    bool
}

// Build matches subscriptions.ClientFactory once converted by the caller.
func (f *StubFactory) Build(courtID string, onUpdate func(live.CourtLiveState)) *StubClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Clients == nil {
		f.Clients = make(map[string][]*StubClient)
	}
	c := NewStubClient(courtID, onUpdate)
	c.Hang = f.Hang
	f.Clients[courtID] = append(f.Clients[courtID], c)
	return c
}

// Built returns the clients created for a court, oldest first.
func (f *StubFactory) Built(courtID string) []*StubClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*StubClient(nil), f.Clients[courtID]...)
}

// StubResolver is a test double for the court ownership lookup.
type StubResolver struct {
	mu     sync.Mutex
	Owners map[string]string
	Err    error
	Calls  atomic.Int32
}

func (r *StubResolver) TournamentForCourt(ctx context.Context, courtID string) (string, bool, error) {
	_ = ctx
	r.Calls.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return "", false, r.Err
	}
	id, ok := r.Owners[courtID]
	return id, ok, nil
}
