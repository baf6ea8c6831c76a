package livefeed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"github.com/preston-bernstein/court-live-service/internal/domain/live"
	"github.com/preston-bernstein/court-live-service/internal/logging"
	"github.com/preston-bernstein/court-live-service/internal/metrics"
	"github.com/preston-bernstein/court-live-service/internal/scoring"
)

// Config controls how a Client reaches the live scores hub.
type Config struct {
	BaseURL          string
	HubPath          string
	UserAgent        string
	HTTPClient       *http.Client
	Dialer           *websocket.Dialer
	NegotiateTimeout time.Duration
	InitialDelay     time.Duration
	MaxDelay         time.Duration
	Logger           *slog.Logger
	Metrics          *metrics.Recorder
	Now              func() time.Time
}

// Client keeps one court's hub connection alive and hands every accepted
// update to onUpdate, in wire order, on its own goroutine.
type Client struct {
	courtID    string
	onUpdate   func(live.CourtLiveState)
	negotiator *negotiator
	dialer     *websocket.Dialer
	origin     string
	userAgent  string
	logger     *slog.Logger
	metrics    *metrics.Recorder
	now        func() time.Time

	// delay is only touched by the worker goroutine.
	delay *reconnectDelay
	state atomic.Int32

	startMu  sync.Mutex
	started  bool
	stopped  bool
	cancel   context.CancelFunc
	stopOnce sync.Once
	done     chan struct{}
}

// New constructs a Client for courtID. The court id is expected to be normalized
// (see NormalizeCourtID); it is matched exactly against incoming entries.
func New(courtID string, onUpdate func(live.CourtLiveState), cfg Config) *Client {
	neg := newNegotiator(cfg)
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: defaultHandshakeTimeout,
		}
	}
	maxDelay := cfg.MaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultMaxDelay
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Client{
		courtID:    courtID,
		onUpdate:   onUpdate,
		negotiator: neg,
		dialer:     dialer,
		origin:     neg.baseURL,
		userAgent:  neg.userAgent,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		now:        now,
		delay:      newReconnectDelay(cfg.InitialDelay, maxDelay),
		done:       make(chan struct{}),
	}
}

// CourtID returns the court this client follows.
func (c *Client) CourtID() string {
	return c.courtID
}

// State reports the current connection state.
func (c *Client) State() State {
	return State(c.state.Load())
}

// Done is closed once the worker has exited (or Stop was called before Start).
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Start begins connecting in the background and returns immediately.
// It is a no-op after the first call or after Stop.
func (c *Client) Start(ctx context.Context) {
	c.startMu.Lock()
	defer c.startMu.Unlock()
	if c.started || c.stopped {
		return
	}
	c.started = true

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	go c.run(runCtx)
}

// Stop ends the client for good. It aborts any pending negotiation, dial or
// sleep and closes the live connection. Safe to call more than once.
func (c *Client) Stop() {
	c.stopOnce.Do(func() {
		c.startMu.Lock()
		c.stopped = true
		started := c.started
		cancel := c.cancel
		c.startMu.Unlock()

		c.setState(StateStopped)
		if cancel != nil {
			cancel()
		}
		if !started {
			close(c.done)
		}
	})
}

func (c *Client) run(ctx context.Context) {
	defer close(c.done)
	defer c.setState(StateStopped)

	logging.Info(c.logger, "live client started", logging.FieldCourtID, c.courtID)
	defer logging.Info(c.logger, "live client stopped", logging.FieldCourtID, c.courtID)

	for {
		wsURL, err := c.negotiate(ctx)
		if err != nil {
			return
		}

		err = c.session(ctx, wsURL)
		if ctx.Err() != nil {
			return
		}
		c.setState(StateClosed)

		wait := c.delay.Next()
		c.setState(StateReconnecting)
		logging.Warn(c.logger, "live session ended, reconnecting",
			logging.FieldCourtID, c.courtID,
			logging.FieldDelayMS, wait.Milliseconds(),
			"error", err,
		)
		if !sleepContext(ctx, wait) {
			return
		}
	}
}

// negotiate retries at the current reconnect delay until it succeeds or ctx ends.
// Failed negotiations do not grow the delay.
func (c *Client) negotiate(ctx context.Context) (string, error) {
	var wsURL string
	op := func() error {
		c.setState(StateNegotiating)
		start := time.Now()
		u, err := c.negotiator.Negotiate(ctx)
		c.metrics.RecordNegotiation(c.courtID, time.Since(start), err)
		if err != nil {
			return err
		}
		wsURL = u
		return nil
	}
	notify := func(err error, wait time.Duration) {
		if ctx.Err() != nil {
			return
		}
		logging.Warn(c.logger, "live negotiate failed",
			logging.FieldCourtID, c.courtID,
			logging.FieldDelayMS, wait.Milliseconds(),
			"error", err,
		)
	}
	policy := backoff.WithContext(backoff.NewConstantBackOff(c.delay.Current()), ctx)
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return "", err
	}
	return wsURL, nil
}

func (c *Client) session(ctx context.Context, wsURL string) error {
	c.setState(StateConnecting)

	header := http.Header{}
	header.Set("Origin", c.origin)
	header.Set("User-Agent", c.userAgent)
	conn, _, err := c.dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return fmt.Errorf("livefeed: dial: %w", err)
	}
	defer conn.Close()
	// Unblocks ReadMessage when Stop cancels the context.
	stopClose := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stopClose()

	c.delay.Reset()
	c.metrics.RecordConnect(c.courtID)
	defer c.metrics.RecordDisconnect(c.courtID)

	if err := conn.WriteMessage(websocket.TextMessage, handshakeRecord()); err != nil {
		return fmt.Errorf("livefeed: handshake: %w", err)
	}
	c.setState(StateHandshakeSent)

	join, err := joinRecord(c.courtID)
	if err != nil {
		return fmt.Errorf("livefeed: join: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, join); err != nil {
		return fmt.Errorf("livefeed: join: %w", err)
	}
	c.setState(StateJoined)
	logging.Info(c.logger, "live court joined", logging.FieldCourtID, c.courtID)

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if msgType != websocket.TextMessage {
			continue
		}
		if err := c.handleMessage(conn, msg); err != nil {
			return err
		}
	}
}

// handleMessage processes every record in one text message. It returns an
// error only when the session has to end.
func (c *Client) handleMessage(conn *websocket.Conn, msg []byte) error {
	for _, rec := range splitRecords(msg) {
		in, err := decodeRecord(rec)
		if err != nil {
			c.metrics.RecordMalformed(c.courtID, 1)
			logging.Debug(c.logger, "live record skipped", logging.FieldCourtID, c.courtID, "error", err)
			continue
		}

		switch in.Type {
		case messageInvocation:
			c.handleInvocation(in)
		case messagePing:
			if err := conn.WriteMessage(websocket.TextMessage, pingRecord()); err != nil {
				return fmt.Errorf("livefeed: ping echo: %w", err)
			}
		case messageClose:
			if in.Error != "" {
				return fmt.Errorf("%w: %s", errServerClosed, in.Error)
			}
			return errServerClosed
		default:
			if in.Error != "" {
				return fmt.Errorf("livefeed: handshake rejected: %s", in.Error)
			}
		}
	}
	return nil
}

func (c *Client) handleInvocation(in inbound) {
	var kind scoring.Kind
	switch in.Target {
	case targetMatchUpdate:
		kind = scoring.KindUpdate
	case targetMatchAction:
		kind = scoring.KindAction
	default:
		return
	}
	if len(in.Arguments) == 0 {
		return
	}

	entries, skipped, err := scoring.DecodeEntries(kind, in.Arguments[0])
	if err != nil {
		c.metrics.RecordMalformed(c.courtID, 1)
		logging.Debug(c.logger, "live invocation skipped",
			logging.FieldCourtID, c.courtID,
			logging.FieldTarget, in.Target,
			"error", err,
		)
		return
	}
	c.metrics.RecordMalformed(c.courtID, skipped)

	for _, p := range entries {
		// The feed is not strictly scoped to the joined room.
		if p.Court() != c.courtID {
			continue
		}
		state, err := scoring.Interpret(p, c.now())
		if err != nil {
			c.metrics.RecordDropped(c.courtID, metrics.ReasonInterpret)
			logging.Debug(c.logger, "live entry not interpreted",
				logging.FieldCourtID, c.courtID,
				logging.FieldTarget, in.Target,
				"error", err,
			)
			continue
		}
		c.metrics.RecordUpdate(c.courtID, kind.String())
		c.deliver(state)
	}
}

func (c *Client) deliver(state live.CourtLiveState) {
	if c.onUpdate == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logging.Error(c.logger, "live update callback panicked", fmt.Errorf("%v", r),
				logging.FieldCourtID, c.courtID,
			)
		}
	}()
	c.onUpdate(state)
}

// setState records s unless the client has already stopped.
func (c *Client) setState(s State) {
	for {
		cur := c.state.Load()
		if State(cur) == StateStopped {
			return
		}
		if c.state.CompareAndSwap(cur, int32(s)) {
			return
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
