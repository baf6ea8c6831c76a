package livefeed

import (
	"testing"
	"time"
)

func TestReconnectDelayDoublesUpToCap(t *testing.T) {
	d := newReconnectDelay(5*time.Second, 60*time.Second)
	want := []time.Duration{5, 10, 20, 40, 60, 60}
	for i, w := range want {
		if got := d.Next(); got != w*time.Second {
			t.Fatalf("step %d: expected %s, got %s", i, w*time.Second, got)
		}
	}
}

func TestReconnectDelayResetsAfterOpen(t *testing.T) {
	d := newReconnectDelay(5*time.Second, 60*time.Second)
	d.Next()
	d.Next()
	d.Next()
	d.Reset()
	if got := d.Current(); got != 5*time.Second {
		t.Fatalf("expected reset to 5s, got %s", got)
	}
	if got := d.Next(); got != 5*time.Second {
		t.Fatalf("expected first wait after reset to be 5s, got %s", got)
	}
}

func TestReconnectDelayDefaults(t *testing.T) {
	d := newReconnectDelay(0, time.Second)
	if d.Current() != defaultInitialDelay {
		t.Fatalf("expected default initial delay, got %s", d.Current())
	}
	if d.max != defaultInitialDelay {
		t.Fatalf("expected max clamped to initial, got %s", d.max)
	}
}
