package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// RecordSeparator terminates hub records on the wire.
const RecordSeparator = "\x1e"

// FakeHub is a minimal live scores hub: a negotiate endpoint plus a websocket
// endpoint that hands each accepted connection to the test.
type FakeHub struct {
	Server *httptest.Server

	mu           sync.Mutex
	negotiations int
	failNext     int
	conns        chan *HubConn
	upgrader     websocket.Upgrader
}

// NewFakeHub starts a hub serving /scores/negotiate and /scores. It is closed on test cleanup.
func NewFakeHub(t *testing.T) *FakeHub {
	t.Helper()
	h := &FakeHub{
		conns:    make(chan *HubConn, 16),
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/scores/negotiate", h.negotiate)
	mux.HandleFunc("/scores", h.accept)
	h.Server = httptest.NewServer(mux)
	t.Cleanup(h.Server.Close)
	return h
}

// URL is the base URL clients should negotiate against.
func (h *FakeHub) URL() string {
	return h.Server.URL
}

// FailNegotiations makes the next n negotiate calls answer 503.
func (h *FakeHub) FailNegotiations(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failNext = n
}

// Negotiations returns how many negotiate calls the hub has seen.
func (h *FakeHub) Negotiations() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.negotiations
}

// Accept waits for the next websocket connection.
func (h *FakeHub) Accept(t *testing.T, timeout time.Duration) *HubConn {
	t.Helper()
	select {
	case c := <-h.conns:
		t.Cleanup(func() { _ = c.Conn.Close() })
		return c
	case <-time.After(timeout):
		t.Fatalf("no hub connection within %s", timeout)
		return nil
	}
}

func (h *FakeHub) negotiate(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.negotiations++
	fail := h.failNext > 0
	if fail {
		h.failNext--
	}
	h.mu.Unlock()

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if fail {
		http.Error(w, "hub unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"url":         h.Server.URL + "/scores?id=conn-1",
		"accessToken": "token-1",
	})
}

func (h *FakeHub) accept(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.conns <- &HubConn{Conn: conn, Query: r.URL.Query(), Header: r.Header.Clone()}
}

// HubConn is the server side of one client connection.
type HubConn struct {
	Conn   *websocket.Conn
	Query  url.Values
	Header http.Header

	pending []string
}

// ReadRecord returns the next record sent by the client, without its separator.
func (c *HubConn) ReadRecord(t *testing.T, timeout time.Duration) string {
	t.Helper()
	for len(c.pending) == 0 {
		_ = c.Conn.SetReadDeadline(time.Now().Add(timeout))
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			t.Fatalf("read from client: %v", err)
		}
		for _, rec := range strings.Split(string(msg), RecordSeparator) {
			if strings.TrimSpace(rec) != "" {
				c.pending = append(c.pending, rec)
			}
		}
	}
	rec := c.pending[0]
	c.pending = c.pending[1:]
	return rec
}

// Send writes the records as one text message, each followed by the separator.
func (c *HubConn) Send(t *testing.T, records ...string) {
	t.Helper()
	var b strings.Builder
	for _, rec := range records {
		b.WriteString(rec)
		b.WriteString(RecordSeparator)
	}
	if err := c.Conn.WriteMessage(websocket.TextMessage, []byte(b.String())); err != nil {
		t.Fatalf("write to client: %v", err)
	}
}

// Invocation builds a type 1 hub record for target with a single argument.
func Invocation(target string, arg string) string {
	return `{"type":1,"target":"` + target + `","arguments":[` + arg + `]}`
}

// Close drops the connection from the hub side.
func (c *HubConn) Close() {
	_ = c.Conn.Close()
}
