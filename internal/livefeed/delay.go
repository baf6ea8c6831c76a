package livefeed

import "time"

// reconnectDelay is the wait applied between sessions. It doubles after every
// closed session up to max and snaps back to initial once a connection opens.
type reconnectDelay struct {
	initial time.Duration
	max     time.Duration
	current time.Duration
}

func newReconnectDelay(initial, max time.Duration) *reconnectDelay {
	if initial <= 0 {
		initial = defaultInitialDelay
	}
	if max < initial {
		max = initial
	}
	return &reconnectDelay{initial: initial, max: max, current: initial}
}

// Current is the wait that the next retry would use.
func (d *reconnectDelay) Current() time.Duration {
	return d.current
}

// Next returns the wait to apply now and grows the delay for the following close.
func (d *reconnectDelay) Next() time.Duration {
	wait := d.current
	d.current *= 2
	if d.current > d.max {
		d.current = d.max
	}
	return wait
}

func (d *reconnectDelay) Reset() {
	d.current = d.initial
}
