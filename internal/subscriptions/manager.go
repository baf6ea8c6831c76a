package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/court-live-service/internal/domain/live"
	"github.com/preston-bernstein/court-live-service/internal/livefeed"
	"github.com/preston-bernstein/court-live-service/internal/logging"
	"github.com/preston-bernstein/court-live-service/internal/metrics"
)

const (
	defaultSweepInterval  = 10 * time.Second
	defaultIdleTimeout    = 60 * time.Second
	defaultResolveTimeout = 2 * time.Second
)

var (
	// ErrInvalidCourtID is returned when a court id is not a decimal number.
	ErrInvalidCourtID = livefeed.ErrInvalidCourtID
	// ErrStopped is returned by Subscribe once the manager has been stopped.
	ErrStopped = errors.New("subscriptions: manager stopped")
)

// Resolver maps a court to the tournament that currently owns it.
type Resolver interface {
	TournamentForCourt(ctx context.Context, courtID string) (string, bool, error)
}

// Client is one court's live connection.
type Client interface {
	Start(ctx context.Context)
	Stop()
	Done() <-chan struct{}
}

// ClientFactory builds the client for a court. onUpdate runs on the client's own goroutine.
type ClientFactory func(courtID string, onUpdate func(live.CourtLiveState)) Client

// UpdateFunc receives every update whose court has a known owner.
// It runs on the court's client goroutine and should return quickly.
type UpdateFunc func(tournamentID string, state live.CourtLiveState)

// LiveClientFactory builds hub clients sharing cfg.
func LiveClientFactory(cfg livefeed.Config) ClientFactory {
	return func(courtID string, onUpdate func(live.CourtLiveState)) Client {
		return livefeed.New(courtID, onUpdate, cfg)
	}
}

// Options configures a Manager. Zero values fall back to defaults.
type Options struct {
	Factory        ClientFactory
	SweepInterval  time.Duration
	IdleTimeout    time.Duration
	ResolveTimeout time.Duration
	Logger         *slog.Logger
	Metrics        *metrics.Recorder
	Now            func() time.Time
}

// Manager owns one client per subscribed court and retires courts nobody touches.
type Manager struct {
	resolver       Resolver
	factory        ClientFactory
	sweepInterval  time.Duration
	idleTimeout    time.Duration
	resolveTimeout time.Duration
	logger         *slog.Logger
	metrics        *metrics.Recorder
	now            func() time.Time

	// ctx outlives any single request; clients run under it.
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	clients map[string]Client
	leases  map[string]time.Time
	closed  bool

	cbMu     sync.RWMutex
	callback UpdateFunc

	startMu   sync.Mutex
	started   bool
	done      chan struct{}
	sweepDone chan struct{}
	stopOnce  sync.Once
}

// NewManager constructs a Manager. Without a factory it builds hub clients with default settings.
func NewManager(resolver Resolver, opts Options) *Manager {
	factory := opts.Factory
	if factory == nil {
		factory = LiveClientFactory(livefeed.Config{Logger: opts.Logger, Metrics: opts.Metrics})
	}
	sweep := opts.SweepInterval
	if sweep <= 0 {
		sweep = defaultSweepInterval
	}
	idle := opts.IdleTimeout
	if idle <= 0 {
		idle = defaultIdleTimeout
	}
	resolve := opts.ResolveTimeout
	if resolve <= 0 {
		resolve = defaultResolveTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		resolver:       resolver,
		factory:        factory,
		sweepInterval:  sweep,
		idleTimeout:    idle,
		resolveTimeout: resolve,
		logger:         opts.Logger,
		metrics:        opts.Metrics,
		now:            now,
		ctx:            ctx,
		cancel:         cancel,
		clients:        make(map[string]Client),
		leases:         make(map[string]time.Time),
		done:           make(chan struct{}),
		sweepDone:      make(chan struct{}),
	}
}

// SetUpdateCallback registers the consumer of resolved updates.
func (m *Manager) SetUpdateCallback(fn UpdateFunc) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.callback = fn
}

// Subscribe refreshes the court's lease and starts a client if none exists.
// The error reports registration only; connecting happens in the background.
func (m *Manager) Subscribe(courtID string) error {
	id, err := livefeed.NormalizeCourtID(courtID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrStopped
	}
	m.leases[id] = m.now()
	if _, ok := m.clients[id]; ok {
		m.mu.Unlock()
		return nil
	}
	client := m.factory(id, func(state live.CourtLiveState) { m.dispatch(id, state) })
	m.clients[id] = client
	m.mu.Unlock()

	client.Start(m.ctx)
	m.metrics.RecordSubscriptionDelta(1)
	logging.Info(m.logger, "court subscribed", logging.FieldCourtID, id)
	return nil
}

// SubscribeMany subscribes every court and returns how many were registered.
func (m *Manager) SubscribeMany(courtIDs []string) (int, error) {
	var (
		n    int
		errs []error
	)
	for _, id := range courtIDs {
		if err := m.Subscribe(id); err != nil {
			errs = append(errs, fmt.Errorf("court %q: %w", id, err))
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}

// Unsubscribe stops the court's client and drops its lease. Unknown courts are ignored.
func (m *Manager) Unsubscribe(courtID string) {
	id, err := livefeed.NormalizeCourtID(courtID)
	if err != nil {
		return
	}

	m.mu.Lock()
	client, ok := m.clients[id]
	delete(m.clients, id)
	delete(m.leases, id)
	m.mu.Unlock()

	if !ok {
		return
	}
	m.retire(id, client)
	logging.Info(m.logger, "court unsubscribed", logging.FieldCourtID, id)
}

// Touch refreshes the lease of a subscribed court and reports whether it was subscribed.
func (m *Manager) Touch(courtID string) bool {
	id, err := livefeed.NormalizeCourtID(courtID)
	if err != nil {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[id]; !ok {
		return false
	}
	m.leases[id] = m.now()
	return true
}

// IsSubscribed reports whether the court currently has a client.
func (m *Manager) IsSubscribed(courtID string) bool {
	id, err := livefeed.NormalizeCourtID(courtID)
	if err != nil {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.clients[id]
	return ok
}

// ListSubscribed returns the subscribed court ids in ascending numeric order.
func (m *Manager) ListSubscribed() []string {
	m.mu.Lock()
	ids := make([]string, 0, len(m.clients))
	for id := range m.clients {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) < len(ids[j])
		}
		return ids[i] < ids[j]
	})
	return ids
}

// Start runs the idle sweep until Stop is called or ctx ends.
func (m *Manager) Start(ctx context.Context) {
	m.startMu.Lock()
	if m.started {
		m.startMu.Unlock()
		return
	}
	m.started = true
	m.startMu.Unlock()

	ticker := time.NewTicker(m.sweepInterval)
	go func() {
		defer close(m.sweepDone)
		defer ticker.Stop()
		logging.Info(m.logger, "subscription sweep started", logging.FieldDurationMS, m.sweepInterval.Milliseconds())
		for {
			select {
			case <-ctx.Done():
				return
			case <-m.done:
				return
			case <-ticker.C:
				m.sweepOnce()
			}
		}
	}()
}

// Stop halts the sweep, stops every client and clears all leases. It waits for
// the clients to exit until ctx ends.
func (m *Manager) Stop(ctx context.Context) error {
	m.stopOnce.Do(func() { close(m.done) })

	m.mu.Lock()
	m.closed = true
	clients := m.clients
	m.clients = make(map[string]Client)
	m.leases = make(map[string]time.Time)
	m.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for id, client := range clients {
		id, client := id, client
		m.metrics.RecordSubscriptionDelta(-1)
		g.Go(func() error {
			client.Stop()
			select {
			case <-client.Done():
				m.metrics.Forget(id)
				return nil
			case <-gctx.Done():
				return fmt.Errorf("subscriptions: court %s did not stop: %w", id, gctx.Err())
			}
		})
	}
	err := g.Wait()
	m.cancel()

	m.startMu.Lock()
	started := m.started
	m.startMu.Unlock()
	if started {
		select {
		case <-m.sweepDone:
		case <-ctx.Done():
			if err == nil {
				err = ctx.Err()
			}
		}
	}

	logging.Info(m.logger, "subscriptions stopped", logging.FieldCount, len(clients))
	return err
}

// sweepOnce retires every court whose lease is older than the idle timeout.
func (m *Manager) sweepOnce() int {
	start := time.Now()
	now := m.now()

	expired := make(map[string]Client)
	m.mu.Lock()
	for id, last := range m.leases {
		if now.Sub(last) <= m.idleTimeout {
			continue
		}
		if client, ok := m.clients[id]; ok {
			expired[id] = client
		}
		delete(m.leases, id)
		delete(m.clients, id)
	}
	m.mu.Unlock()

	for id, client := range expired {
		m.retire(id, client)
		logging.Info(m.logger, "idle court retired", logging.FieldCourtID, id)
	}
	m.metrics.RecordSweep(time.Since(start), len(expired))
	return len(expired)
}

// retire stops client and drops its court stats once it has exited. The stats
// stay when the court was subscribed again in the meantime.
func (m *Manager) retire(id string, client Client) {
	client.Stop()
	m.metrics.RecordSubscriptionDelta(-1)
	go func() {
		<-client.Done()
		m.mu.Lock()
		_, again := m.clients[id]
		m.mu.Unlock()
		if !again {
			m.metrics.Forget(id)
		}
	}()
}

func (m *Manager) dispatch(courtID string, state live.CourtLiveState) {
	ctx, cancel := context.WithTimeout(m.ctx, m.resolveTimeout)
	defer cancel()

	tournamentID, ok, err := m.resolver.TournamentForCourt(ctx, courtID)
	if err != nil {
		m.metrics.RecordDropped(courtID, metrics.ReasonResolveFail)
		logging.Warn(m.logger, "court owner lookup failed", logging.FieldCourtID, courtID, "error", err)
		return
	}
	if !ok {
		m.metrics.RecordDropped(courtID, metrics.ReasonNoOwner)
		logging.Debug(m.logger, "update dropped, court has no owner", logging.FieldCourtID, courtID)
		return
	}

	m.cbMu.RLock()
	fn := m.callback
	m.cbMu.RUnlock()
	if fn == nil {
		return
	}
	fn(tournamentID, state)
}
