package socketio_types

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingEmitter) Emit(event string, args ...interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func TestJoinIsIdempotent(t *testing.T) {
	registry := NewRoomRegistry()
	conn := &recordingEmitter{}

	registry.Join("conn-1", "42", conn)
	registry.Join("conn-1", "42", conn)

	assert.Equal(t, 1, registry.MemberCount("42"))
}

func TestLeaveUnknownRoomIsNoOp(t *testing.T) {
	registry := NewRoomRegistry()

	registry.Leave("conn-1", "42")

	assert.Equal(t, 0, registry.MemberCount("42"))
}

func TestConnectionInMultipleRooms(t *testing.T) {
	registry := NewRoomRegistry()
	conn := &recordingEmitter{}

	registry.Join("conn-1", "42", conn)
	registry.Join("conn-1", "43", conn)

	assert.Equal(t, 1, registry.MemberCount("42"))
	assert.Equal(t, 1, registry.MemberCount("43"))

	registry.RemoveConnection("conn-1")

	assert.Equal(t, 0, registry.MemberCount("42"))
	assert.Equal(t, 0, registry.MemberCount("43"))
}

func TestBroadcastReachesOnlyRoomMembers(t *testing.T) {
	registry := NewRoomRegistry()
	inRoom := &recordingEmitter{}
	otherRoom := &recordingEmitter{}

	registry.Join("conn-1", "42", inRoom)
	registry.Join("conn-2", "43", otherRoom)

	delivered := registry.Broadcast("42", "lobby_updated", "payload")

	assert.Equal(t, 1, delivered)
	assert.Equal(t, []string{"lobby_updated"}, inRoom.events)
	assert.Empty(t, otherRoom.events)
}

func TestCloseRoomDropsAllMembers(t *testing.T) {
	registry := NewRoomRegistry()
	first := &recordingEmitter{}
	second := &recordingEmitter{}

	registry.Join("conn-1", "42", first)
	registry.Join("conn-2", "42", second)
	registry.Join("conn-1", "43", first)

	registry.CloseRoom("42")

	assert.Equal(t, 0, registry.MemberCount("42"))
	// Other rooms are untouched
	assert.Equal(t, 1, registry.MemberCount("43"))
	assert.Equal(t, 0, registry.Broadcast("42", "lobby_deleted", "payload"))
}

func TestBroadcastAfterLeave(t *testing.T) {
	registry := NewRoomRegistry()
	conn := &recordingEmitter{}

	registry.Join("conn-1", "42", conn)
	registry.Leave("conn-1", "42")

	delivered := registry.Broadcast("42", "lobby_updated", "payload")

	assert.Equal(t, 0, delivered)
	assert.Empty(t, conn.events)
}

func TestConcurrentJoinLeaveBroadcast(t *testing.T) {
	registry := NewRoomRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			connID := fmt.Sprintf("conn-%d", n)
			registry.Join(connID, "42", &recordingEmitter{})
			registry.Broadcast("42", "lobby_updated", n)
			if n%2 == 0 {
				registry.Leave(connID, "42")
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 25, registry.MemberCount("42"))
}

func TestSocketServerConnectionMap(t *testing.T) {
	sio := NewSocketServer()

	_, exists := sio.GetConnection("host@uni.es")
	assert.False(t, exists)

	sio.AddConnection("host@uni.es", nil)
	_, exists = sio.GetConnection("host@uni.es")
	assert.True(t, exists)

	sio.RemoveConnection("host@uni.es")
	_, exists = sio.GetConnection("host@uni.es")
	assert.False(t, exists)
}
