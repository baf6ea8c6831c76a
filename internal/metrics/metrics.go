package metrics

import (
	"sync"
	"time"
)

type courtStats struct {
	connects             int
	disconnects          int
	negotiations         int
	negotiationFailures  int
	updates              int
	malformed            int
	dropped              int
	lastNegotiateLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about live court feeds and mirrors
// them to OpenTelemetry instruments when configured. A nil Recorder is a no-op.
type Recorder struct {
	mu    sync.Mutex
	stats map[string]*courtStats
	otel  *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*courtStats),
		otel:  otel,
	}
}

// RecordNegotiation counts a negotiation attempt for a court and stores its latency.
func (r *Recorder) RecordNegotiation(court string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.update(court, func(s *courtStats) {
		s.negotiations++
		s.lastNegotiateLatency = duration
		if err != nil {
			s.negotiationFailures++
		}
	})
	if r.otel != nil {
		r.otel.recordNegotiation(duration, err)
	}
}

// RecordConnect counts a successfully opened connection.
func (r *Recorder) RecordConnect(court string) {
	if r == nil {
		return
	}
	r.update(court, func(s *courtStats) { s.connects++ })
	if r.otel != nil {
		r.otel.recordCounter(r.otel.connects, 1)
	}
}

// RecordDisconnect counts a connection that closed or failed after opening.
func (r *Recorder) RecordDisconnect(court string) {
	if r == nil {
		return
	}
	r.update(court, func(s *courtStats) { s.disconnects++ })
	if r.otel != nil {
		r.otel.recordCounter(r.otel.disconnects, 1)
	}
}

// RecordUpdate counts an accepted update of the given payload kind.
func (r *Recorder) RecordUpdate(court, kind string) {
	if r == nil {
		return
	}
	r.update(court, func(s *courtStats) { s.updates++ })
	if r.otel != nil {
		r.otel.recordUpdate(kind)
	}
}

// RecordMalformed counts wire records or entries that could not be decoded.
func (r *Recorder) RecordMalformed(court string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.update(court, func(s *courtStats) { s.malformed += n })
	if r.otel != nil {
		r.otel.recordCounter(r.otel.malformed, int64(n))
	}
}

// RecordDropped counts an update that was produced but not delivered.
func (r *Recorder) RecordDropped(court, reason string) {
	if r == nil {
		return
	}
	r.update(court, func(s *courtStats) { s.dropped++ })
	if r.otel != nil {
		r.otel.recordDropped(reason)
	}
}

// RecordSubscriptionDelta tracks subscriptions being added (+) or retired (-).
func (r *Recorder) RecordSubscriptionDelta(delta int) {
	if r == nil || r.otel == nil || delta == 0 {
		return
	}
	r.otel.recordSubscriptions(int64(delta))
}

// RecordSweep tracks an idle sweep pass and how many courts it retired.
func (r *Recorder) RecordSweep(duration time.Duration, retired int) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordSweep(duration, retired)
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot is a copy of the current stats for one court.
type Snapshot struct {
	Connects             int
	Disconnects          int
	Negotiations         int
	NegotiationFailures  int
	Updates              int
	Malformed            int
	Dropped              int
	LastNegotiateLatency time.Duration
}

func (r *Recorder) Snapshot(court string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stats[court]
	if !ok || s == nil {
		return Snapshot{}
	}
	return Snapshot{
		Connects:             s.connects,
		Disconnects:          s.disconnects,
		Negotiations:         s.negotiations,
		NegotiationFailures:  s.negotiationFailures,
		Updates:              s.updates,
		Malformed:            s.malformed,
		Dropped:              s.dropped,
		LastNegotiateLatency: s.lastNegotiateLatency,
	}
}

// Updates returns the accepted updates recorded for a court.
func (r *Recorder) Updates(court string) int {
	return r.Snapshot(court).Updates
}

// Dropped returns the dropped updates recorded for a court.
func (r *Recorder) Dropped(court string) int {
	return r.Snapshot(court).Dropped
}

// Forget discards the stats of a court that is no longer subscribed.
func (r *Recorder) Forget(court string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stats, court)
}

func (r *Recorder) update(court string, fn func(*courtStats)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[court]
	if !ok {
		stats = &courtStats{}
		r.stats[court] = stats
	}
	fn(stats)
}
