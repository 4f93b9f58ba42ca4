package socket

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerCoalescesBurst(t *testing.T) {
	var calls atomic.Int64
	d := NewDebouncer(50*time.Millisecond, Filter{}, func() { calls.Add(1) })
	defer d.Stop()

	for i := 0; i < 10; i++ {
		d.Trigger(Event{Name: EventBulkUpdate})
	}
	time.Sleep(120 * time.Millisecond)

	// One leading invocation plus at most one trailing one.
	assert.Equal(t, int64(2), calls.Load())
}

func TestDebouncerFirstTriggerFiresImmediately(t *testing.T) {
	var calls atomic.Int64
	d := NewDebouncer(200*time.Millisecond, Filter{}, func() { calls.Add(1) })
	defer d.Stop()

	d.Trigger(Event{Name: EventRequestUpdated})
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, int64(1), calls.Load())
}

func TestDebouncerSpacedTriggersAllFire(t *testing.T) {
	var calls atomic.Int64
	d := NewDebouncer(30*time.Millisecond, Filter{}, func() { calls.Add(1) })
	defer d.Stop()

	d.Trigger(Event{})
	time.Sleep(60 * time.Millisecond)
	d.Trigger(Event{})
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, int64(2), calls.Load())
}

func TestDebouncerStatusFilter(t *testing.T) {
	var calls atomic.Int64
	d := NewDebouncer(30*time.Millisecond, Filter{Status: "APPROVED"}, func() { calls.Add(1) })
	defer d.Stop()

	d.Trigger(Event{Name: EventRequestRejected, Status: "REJECTED"})
	d.Trigger(Event{Name: EventNotification})
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(0), calls.Load())

	d.Trigger(Event{Name: EventRequestApproved, Status: "APPROVED"})
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load())
}

func TestDebouncerServiceNoFilter(t *testing.T) {
	var calls atomic.Int64
	d := NewDebouncer(30*time.Millisecond, Filter{ServiceNo: "000100"}, func() { calls.Add(1) })
	defer d.Stop()

	d.Trigger(Event{ServiceNo: "000999"})
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(0), calls.Load())

	d.Trigger(Event{ServiceNo: "000100"})
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load())
}

func TestBulkRefreshCoalescesBroadcasts(t *testing.T) {
	hub := NewHub()
	verify := &fakeConn{}
	sender := &fakeConn{}
	hub.Register("c1", verify, RoleRoom("verify"))
	hub.Register("c2", sender, UserRoom("000100"))

	d := NewBulkRefresh(hub, 50*time.Millisecond, Filter{}, RoleRoom("verify"))
	defer d.Stop()

	for i := 0; i < 5; i++ {
		d.Trigger(Event{Name: EventBulkUpdate, RefNo: "GP-0001", ServiceNo: "000300"})
	}
	time.Sleep(120 * time.Millisecond)

	// One leading broadcast plus one trailing one, verify room only.
	assert.Equal(t, 2, verify.count())
	assert.Equal(t, 0, sender.count())
}

func TestDebouncerStopCancelsTrailer(t *testing.T) {
	var calls atomic.Int64
	d := NewDebouncer(50*time.Millisecond, Filter{}, func() { calls.Add(1) })

	d.Trigger(Event{})
	d.Trigger(Event{}) // queues the trailer
	d.Stop()
	time.Sleep(120 * time.Millisecond)

	assert.Equal(t, int64(1), calls.Load())
}
