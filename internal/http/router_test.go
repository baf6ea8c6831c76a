package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/preston-bernstein/court-live-service/internal/domain/live"
	"github.com/preston-bernstein/court-live-service/internal/http/handlers"
	"github.com/preston-bernstein/court-live-service/internal/metrics"
	"github.com/preston-bernstein/court-live-service/internal/store"
	"github.com/preston-bernstein/court-live-service/internal/subscriptions"
	"github.com/preston-bernstein/court-live-service/internal/teststubs"
	"github.com/preston-bernstein/court-live-service/internal/testutil"
)

func newTestRouter(t *testing.T) (http.Handler, *subscriptions.Manager, *store.LiveStore, *metrics.Recorder) {
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
	rec := metrics.NewRecorder()
	logger, _ := testutil.NewBufferLogger()
	h := handlers.NewHandler(manager, states, logger, nil)
	return NewRouter(h, logger, rec), manager, states, rec
}

func TestRouterRoutesKnownPaths(t *testing.T) {
	router, _, states, _ := newTestRouter(t)
	states.Apply("9", testutil.SampleCourtState("5", "m1"))

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/courts", http.StatusOK},
		{http.MethodPut, "/courts/5/subscription", http.StatusOK},
		{http.MethodPost, "/courts/5/touch", http.StatusNoContent},
		{http.MethodGet, "/tournaments/9/courts/5/live", http.StatusOK},
		{http.MethodGet, "/tournaments/9/live", http.StatusOK},
		{http.MethodDelete, "/courts/5/subscription", http.StatusNoContent},
		{http.MethodPost, "/courts/5/touch", http.StatusNotFound},
		{http.MethodPut, "/courts/x/subscription", http.StatusBadRequest},
	}

	for _, tc := range cases {
		rr := testutil.Serve(router, tc.method, tc.path, nil)
		if rr.Code != tc.want {
			t.Fatalf("%s %s expected status %d, got %d", tc.method, tc.path, tc.want, rr.Code)
		}
	}
}

func TestRouterUnknownRouteReturns404(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rr := testutil.ServeRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusNotFound)
	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["requestId"] == "" {
		t.Fatalf("expected requestId on router errors, got %v", resp)
	}
}

func TestRouterWrongMethodReturns405(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	rr := testutil.Serve(router, http.MethodPost, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
}

func TestRouterSubscribesThroughManager(t *testing.T) {
	router, manager, _, _ := newTestRouter(t)

	rr := testutil.Serve(router, http.MethodPut, "/courts/007/subscription", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if !manager.IsSubscribed("7") {
		t.Fatalf("expected court 7 subscribed")
	}
}
