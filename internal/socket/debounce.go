package socket

import (
	"sync"
	"time"
)

// DefaultDebounceInterval is the minimum gap between refresh invocations.
const DefaultDebounceInterval = 500 * time.Millisecond

// Filter restricts which events wake a Debouncer. Zero fields match
// everything.
type Filter struct {
	Status    string
	ServiceNo string
}

func (f Filter) matches(e Event) bool {
	if f.Status != "" && f.Status != e.Status {
		return false
	}
	if f.ServiceNo != "" && f.ServiceNo != e.ServiceNo {
		return false
	}
	return true
}

// Debouncer coalesces a burst of events into at most one callback
// invocation per interval: the first trigger fires immediately, triggers
// inside the window collapse into a single trailing invocation. Bursts are
// coalesced, never queued.
type Debouncer struct {
	interval time.Duration
	filter   Filter
	fn       func()

	mu      sync.Mutex
	last    time.Time
	trailer *time.Timer
}

func NewDebouncer(interval time.Duration, filter Filter, fn func()) *Debouncer {
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}
	return &Debouncer{interval: interval, filter: filter, fn: fn}
}

// Trigger feeds an event to the debouncer. Non-matching events are
// ignored entirely.
func (d *Debouncer) Trigger(e Event) {
	if !d.filter.matches(e) {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.trailer != nil {
		// A trailing invocation is already queued; this burst collapses
		// into it.
		return
	}

	elapsed := time.Since(d.last)
	if elapsed >= d.interval {
		d.last = time.Now()
		go d.fn()
		return
	}

	d.trailer = time.AfterFunc(d.interval-elapsed, func() {
		d.mu.Lock()
		d.trailer = nil
		d.last = time.Now()
		d.mu.Unlock()
		d.fn()
	})
}

// NewBulkRefresh returns a debouncer whose callback broadcasts a
// bulk-update event to the given rooms, so a burst of item updates tells
// each listener to re-fetch once instead of per item.
func NewBulkRefresh(hub *Hub, interval time.Duration, filter Filter, rooms ...string) *Debouncer {
	return NewDebouncer(interval, filter, func() {
		hub.Broadcast(Event{Name: EventBulkUpdate}, rooms...)
	})
}

// Stop cancels any queued trailing invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.trailer != nil {
		d.trailer.Stop()
		d.trailer = nil
	}
}
