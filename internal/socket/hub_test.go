package socket

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	fail     bool
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("connection gone")
	}
	f.messages = append(f.messages, data)
	return nil
}

func (f *fakeConn) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func TestBroadcastReachesRoomMembersOnly(t *testing.T) {
	hub := NewHub()
	exec := &fakeConn{}
	verify := &fakeConn{}
	hub.Register("c1", exec, UserRoom("000100"), RoleRoom("executive"), BranchRoom("HQ"))
	hub.Register("c2", verify, UserRoom("000200"), RoleRoom("verify"), BranchRoom("HQ"))

	hub.Broadcast(Event{Name: EventNewRequest, RefNo: "GP-0001"}, RoleRoom("executive"))

	assert.Equal(t, 1, exec.count())
	assert.Equal(t, 0, verify.count())

	var got Event
	require.NoError(t, json.Unmarshal(exec.messages[0], &got))
	assert.Equal(t, EventNewRequest, got.Name)
	assert.Equal(t, "GP-0001", got.RefNo)
}

func TestBroadcastDeliversOncePerClient(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	hub.Register("c1", conn, UserRoom("000100"), BranchRoom("HQ"))

	// Client is in both target rooms; it still gets one copy.
	hub.Broadcast(Event{Name: EventRequestApproved, RefNo: "GP-0001"}, UserRoom("000100"), BranchRoom("HQ"))

	assert.Equal(t, 1, conn.count())
}

func TestBroadcastSurvivesWriteFailure(t *testing.T) {
	hub := NewHub()
	broken := &fakeConn{fail: true}
	healthy := &fakeConn{}
	hub.Register("c1", broken, RoleRoom("dispatch"))
	hub.Register("c2", healthy, RoleRoom("dispatch"))

	hub.Broadcast(Event{Name: EventBulkUpdate}, RoleRoom("dispatch"))

	assert.Equal(t, 1, healthy.count())
}

func TestUnregisterLeavesAllRooms(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	hub.Register("c1", conn, UserRoom("000100"), RoleRoom("executive"))
	hub.Unregister("c1")

	hub.Broadcast(Event{Name: EventNotification}, UserRoom("000100"), RoleRoom("executive"))

	assert.Equal(t, 0, conn.count())
	assert.Equal(t, 0, hub.ClientCount())
}
