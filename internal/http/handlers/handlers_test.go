package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/court-live-service/internal/domain/live"
	"github.com/preston-bernstein/court-live-service/internal/store"
	"github.com/preston-bernstein/court-live-service/internal/subscriptions"
	"github.com/preston-bernstein/court-live-service/internal/teststubs"
	"github.com/preston-bernstein/court-live-service/internal/testutil"
)

type fixture struct {
	handler *Handler
	manager *subscriptions.Manager
	factory *teststubs.StubFactory
	states  *store.LiveStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	factory := &teststubs.StubFactory{}
	manager := subscriptions.NewManager(&teststubs.StubResolver{}, subscriptions.Options{
		Factory: func(courtID string, onUpdate func(live.CourtLiveState)) subscriptions.Client {
			return factory.Build(courtID, onUpdate)
		},
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = manager.Stop(ctx)
	})
	states := store.NewLiveStore()
	return fixture{
		handler: NewHandler(manager, states, nil, nil),
		manager: manager,
		factory: factory,
		states:  states,
	}
}

// withParams attaches chi URL params the way the router would.
func withParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHealth(t *testing.T) {
	h := newFixture(t).handler

	rr := testutil.Serve(http.HandlerFunc(h.Health), http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h := newFixture(t).handler

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	req = req.WithContext(ctx)
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req)

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "shutting down" {
		t.Fatalf("unexpected error %q", resp["error"])
	}
}

func TestReady(t *testing.T) {
	f := newFixture(t)
	rr := testutil.Serve(http.HandlerFunc(f.handler.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	notReady := NewHandler(f.manager, f.states, nil, func() error { return errors.New("ownership unavailable") })
	rr = testutil.Serve(http.HandlerFunc(notReady.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "ownership unavailable" {
		t.Fatalf("expected readiness error in body, got %q", resp["error"])
	}
}

func TestSubscribeStartsOneClient(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 2; i++ {
		req := withParams(httptest.NewRequest(http.MethodPut, "/courts/0042/subscription", nil), "courtID", "0042")
		rr := testutil.ServeRequest(http.HandlerFunc(f.handler.Subscribe), req)
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp SubscriptionResponse
		testutil.DecodeJSON(t, rr, &resp)
		if resp.CourtID != "42" || !resp.Subscribed {
			t.Fatalf("unexpected response %+v", resp)
		}
	}

	if got := len(f.factory.Built("42")); got != 1 {
		t.Fatalf("expected one client for repeated subscribe, got %d", got)
	}
}

func TestSubscribeRejectsInvalidCourt(t *testing.T) {
	f := newFixture(t)

	req := withParams(httptest.NewRequest(http.MethodPut, "/courts/abc/subscription", nil), "courtID", "abc")
	rr := testutil.ServeRequest(http.HandlerFunc(f.handler.Subscribe), req)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestSubscribeAfterStopIsUnavailable(t *testing.T) {
	f := newFixture(t)
	if err := f.manager.Stop(context.Background()); err != nil {
		t.Fatalf("stop failed: %v", err)
	}

	req := withParams(httptest.NewRequest(http.MethodPut, "/courts/1/subscription", nil), "courtID", "1")
	rr := testutil.ServeRequest(http.HandlerFunc(f.handler.Subscribe), req)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}

func TestUnsubscribeStopsClient(t *testing.T) {
	f := newFixture(t)
	if err := f.manager.Subscribe("7"); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	req := withParams(httptest.NewRequest(http.MethodDelete, "/courts/7/subscription", nil), "courtID", "7")
	rr := testutil.ServeRequest(http.HandlerFunc(f.handler.Unsubscribe), req)
	testutil.AssertStatus(t, rr, http.StatusNoContent)

	if f.manager.IsSubscribed("7") {
		t.Fatalf("expected court to be unsubscribed")
	}
	if clients := f.factory.Built("7"); len(clients) != 1 || !clients[0].Stopped() {
		t.Fatalf("expected the client to be stopped")
	}

	// Unknown courts are fine.
	req = withParams(httptest.NewRequest(http.MethodDelete, "/courts/8/subscription", nil), "courtID", "8")
	rr = testutil.ServeRequest(http.HandlerFunc(f.handler.Unsubscribe), req)
	testutil.AssertStatus(t, rr, http.StatusNoContent)
}

func TestTouch(t *testing.T) {
	f := newFixture(t)

	req := withParams(httptest.NewRequest(http.MethodPost, "/courts/3/touch", nil), "courtID", "3")
	rr := testutil.ServeRequest(http.HandlerFunc(f.handler.Touch), req)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	if err := f.manager.Subscribe("3"); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	req = withParams(httptest.NewRequest(http.MethodPost, "/courts/3/touch", nil), "courtID", "3")
	rr = testutil.ServeRequest(http.HandlerFunc(f.handler.Touch), req)
	testutil.AssertStatus(t, rr, http.StatusNoContent)
}

func TestCourtsListsSubscriptions(t *testing.T) {
	f := newFixture(t)
	if _, err := f.manager.SubscribeMany([]string{"12", "3"}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	rr := testutil.Serve(http.HandlerFunc(f.handler.Courts), http.MethodGet, "/courts", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp CourtsResponse
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp.Courts) != 2 || resp.Courts[0] != "3" || resp.Courts[1] != "12" {
		t.Fatalf("unexpected courts %v", resp.Courts)
	}
}

func TestCourtLiveSubscribesAndServesState(t *testing.T) {
	f := newFixture(t)

	req := withParams(httptest.NewRequest(http.MethodGet, "/tournaments/9/courts/5/live", nil),
		"tournamentID", "9", "courtID", "5")
	rr := testutil.ServeRequest(http.HandlerFunc(f.handler.CourtLive), req)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	if !f.manager.IsSubscribed("5") {
		t.Fatalf("expected live lookup to subscribe the court")
	}

	f.states.Apply("9", live.CourtLiveState{CourtID: "5", MatchID: "m1", FirstScore: 1, MatchState: live.StateLive})

	req = withParams(httptest.NewRequest(http.MethodGet, "/tournaments/9/courts/5/live", nil),
		"tournamentID", "9", "courtID", "5")
	rr = testutil.ServeRequest(http.HandlerFunc(f.handler.CourtLive), req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var state live.CourtLiveState
	testutil.DecodeJSON(t, rr, &state)
	if state.MatchID != "m1" || state.FirstScore != 1 {
		t.Fatalf("unexpected state %+v", state)
	}
	if got := len(f.factory.Built("5")); got != 1 {
		t.Fatalf("expected a single client, got %d", got)
	}
}

func TestCourtLiveRejectsMissingTournament(t *testing.T) {
	f := newFixture(t)

	req := withParams(httptest.NewRequest(http.MethodGet, "/tournaments//courts/5/live", nil), "courtID", "5")
	rr := testutil.ServeRequest(http.HandlerFunc(f.handler.CourtLive), req)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestTournamentLive(t *testing.T) {
	f := newFixture(t)
	f.states.Apply("9", live.CourtLiveState{CourtID: "10"})
	f.states.Apply("9", live.CourtLiveState{CourtID: "2"})
	f.states.Apply("4", live.CourtLiveState{CourtID: "1"})

	req := withParams(httptest.NewRequest(http.MethodGet, "/tournaments/9/live", nil), "tournamentID", "9")
	rr := testutil.ServeRequest(http.HandlerFunc(f.handler.TournamentLive), req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp TournamentLiveResponse
	testutil.DecodeJSON(t, rr, &resp)
	if resp.TournamentID != "9" || len(resp.Courts) != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Courts[0].CourtID != "2" || resp.Courts[1].CourtID != "10" {
		t.Fatalf("expected numeric court order, got %s then %s", resp.Courts[0].CourtID, resp.Courts[1].CourtID)
	}
}

type failingSubs struct{ *subscriptions.Manager }

func (failingSubs) Subscribe(string) error { return errors.New("boom") }

func TestSubscribeUnexpectedErrorIsInternal(t *testing.T) {
	f := newFixture(t)
	logger, buf := testutil.NewBufferLogger()
	h := NewHandler(failingSubs{f.manager}, f.states, logger, nil)

	req := withParams(httptest.NewRequest(http.MethodPut, "/courts/1/subscription", nil), "courtID", "1")
	rr := testutil.ServeRequest(http.HandlerFunc(h.Subscribe), req)
	testutil.AssertStatus(t, rr, http.StatusInternalServerError)
	if buf.Len() == 0 {
		t.Fatalf("expected failure to be logged")
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newFixture(t).handler

	rr := testutil.Serve(http.HandlerFunc(h.NotFound), http.MethodGet, "/nope", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	rr = testutil.Serve(http.HandlerFunc(h.MethodNotAllowed), http.MethodPatch, "/courts", nil)
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
}
