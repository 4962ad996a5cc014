package handlers

import (
	"log"

	"github.com/OshanDAS/algorthm-battle-arena-sub000/services/redis"
	socketio_types "github.com/OshanDAS/algorthm-battle-arena-sub000/services/socket_io/types"

	"github.com/zishang520/socket.io/v2/socket"
)

// HandleDisconnecting purges a dropped connection: out of every room
// in the registry, out of the email -> socket map, and out of the
// Redis presence keys.
func HandleDisconnecting(redisClient *redis.RedisClient, client *socket.Socket,
	email string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[DISCONNECT] User %s, Socket ID: %s", email, client.Id())

		sio.Rooms.RemoveConnection(string(client.Id()))
		sio.RemoveConnection(email)

		if err := redisClient.DeletePlayerPresence(email); err != nil {
			log.Printf("[DISCONNECT-ERROR] failed to delete presence for %s: %v", email, err)
		}
		if err := redisClient.ClearPlayerCurrentLobby(email); err != nil {
			log.Printf("[DISCONNECT-ERROR] failed to clear lobby for %s: %v", email, err)
		}
	}
}
