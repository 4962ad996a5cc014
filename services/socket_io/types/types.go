package socketio_types

import (
	"log"
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// Emitter is the slice of *socket.Socket the room registry needs.
// Tests substitute recording fakes.
type Emitter interface {
	Emit(event string, args ...interface{}) error
}

// RoomRegistry maps lobby rooms to the connections currently joined to
// them. socket.io keeps its own group table, but delivery goes through
// this registry so membership can be snapshotted, inspected and
// cleaned up explicitly when a connection drops.
type RoomRegistry struct {
	mutex sync.RWMutex
	// room -> connection id -> connection
	rooms map[string]map[string]Emitter
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[string]map[string]Emitter)}
}

// Join adds a connection to a room. Rejoining a room the connection is
// already in is a no-op. A connection may belong to multiple rooms.
func (r *RoomRegistry) Join(connID, room string, conn Emitter) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	members, ok := r.rooms[room]
	if !ok {
		members = make(map[string]Emitter)
		r.rooms[room] = members
	}
	members[connID] = conn
}

// Leave removes a connection from a room. Leaving a room the
// connection never joined is a no-op.
func (r *RoomRegistry) Leave(connID, room string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	members, ok := r.rooms[room]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
}

// CloseRoom drops a room and all its memberships. Called when the
// lobby behind the room is deleted, so the registry does not keep
// members of a lobby that no longer exists.
func (r *RoomRegistry) CloseRoom(room string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.rooms, room)
}

// RemoveConnection drops a connection from every room it belonged to.
// Called on disconnect so rooms do not leak dead members.
func (r *RoomRegistry) RemoveConnection(connID string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for room, members := range r.rooms {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
}

// MemberCount returns how many connections are currently in the room.
func (r *RoomRegistry) MemberCount(room string) int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.rooms[room])
}

// Broadcast delivers the same payload value to every connection that
// is a member of the room at call time. Membership is snapshotted
// under the read lock and emits happen outside it; a connection
// leaving mid-broadcast may or may not receive the event. Returns the
// number of connections the payload was sent to.
func (r *RoomRegistry) Broadcast(room, event string, payload interface{}) int {
	r.mutex.RLock()
	members := make([]Emitter, 0, len(r.rooms[room]))
	for _, conn := range r.rooms[room] {
		members = append(members, conn)
	}
	r.mutex.RUnlock()

	for _, conn := range members {
		if err := conn.Emit(event, payload); err != nil {
			log.Printf("[BROADCAST-ERROR] emit %s to room %s: %v", event, room, err)
		}
	}
	return len(members)
}

// SocketServer is a struct that contains the socket.io server, the
// room registry and a map of socket connections keyed by email.
type SocketServer struct {
	Sio_server *socket.Server
	Rooms      *RoomRegistry
	// Map to track email -> socket connection
	UserConnections map[string]*socket.Socket
	mutex           sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		Rooms:           NewRoomRegistry(),
		UserConnections: make(map[string]*socket.Socket),
	}
}

// Add methods to manage connections
func (s *SocketServer) AddConnection(email string, client *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.UserConnections[email] = client
}

func (s *SocketServer) RemoveConnection(email string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.UserConnections, email)
}

func (s *SocketServer) GetConnection(email string) (*socket.Socket, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	client, exists := s.UserConnections[email]
	return client, exists
}
