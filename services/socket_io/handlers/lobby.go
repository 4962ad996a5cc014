package handlers

import (
	"log"
	"strconv"

	"github.com/OshanDAS/algorthm-battle-arena-sub000/repositories"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/services/redis"
	socketio_types "github.com/OshanDAS/algorthm-battle-arena-sub000/services/socket_io/types"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// parseLobbyArg validates the single string argument every lobby event
// carries and returns the lobby id. Emits the protocol error to the
// caller only, never the room.
func parseLobbyArg(client *socket.Socket, args []interface{}) (int, bool) {
	if len(args) < 1 {
		client.Emit("error", gin.H{"error": "Missing lobby ID"})
		return 0, false
	}
	raw, ok := args[0].(string)
	if !ok {
		client.Emit("error", gin.H{"error": "Invalid lobby ID."})
		return 0, false
	}
	lobbyID, err := strconv.Atoi(raw)
	if err != nil {
		client.Emit("error", gin.H{"error": "Invalid lobby ID."})
		return 0, false
	}
	return lobbyID, true
}

// HandleJoinLobby joins the client's connection to the room for a
// lobby, records presence in Redis and broadcasts the fresh lobby
// snapshot to the room if the lobby still exists.
func HandleJoinLobby(redisClient *redis.RedisClient, client *socket.Socket,
	lobbies *repositories.LobbyRepository, email string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[JOIN] join_lobby - User: %s, Args: %v, Socket ID: %s",
			email, args, client.Id())

		if email == "" {
			client.Emit("error", gin.H{"error": "User not authenticated"})
			return
		}

		lobbyID, ok := parseLobbyArg(client, args)
		if !ok {
			return
		}
		room := strconv.Itoa(lobbyID)

		sio.Rooms.Join(string(client.Id()), room, client)
		client.Join(socket.Room(room))

		if err := redisClient.SetPlayerCurrentLobby(email, lobbyID); err != nil {
			log.Printf("[JOIN-ERROR] failed to record lobby for %s: %v", email, err)
		}

		lobby, err := lobbies.GetLobbyByID(lobbyID)
		if err != nil {
			log.Printf("[JOIN-ERROR] failed to load lobby %d: %v", lobbyID, err)
			client.Emit("error", gin.H{"error": "Database error"})
			return
		}
		if lobby != nil {
			sio.Rooms.Broadcast(room, "lobby_updated", lobby)
		}

		log.Printf("[JOIN-SUCCESS] User %s joined room %s", email, room)
	}
}

// HandleLeaveLobby removes the client's connection from the lobby room
// and broadcasts the remaining lobby snapshot if the lobby still
// exists.
func HandleLeaveLobby(redisClient *redis.RedisClient, client *socket.Socket,
	lobbies *repositories.LobbyRepository, email string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[LEAVE] leave_lobby - User: %s, Args: %v, Socket ID: %s",
			email, args, client.Id())

		if email == "" {
			client.Emit("error", gin.H{"error": "User not authenticated"})
			return
		}

		lobbyID, ok := parseLobbyArg(client, args)
		if !ok {
			return
		}
		room := strconv.Itoa(lobbyID)

		sio.Rooms.Leave(string(client.Id()), room)
		client.Leave(socket.Room(room))

		if err := redisClient.ClearPlayerCurrentLobby(email); err != nil {
			log.Printf("[LEAVE-ERROR] failed to clear lobby for %s: %v", email, err)
		}

		lobby, err := lobbies.GetLobbyByID(lobbyID)
		if err != nil {
			log.Printf("[LEAVE-ERROR] failed to load lobby %d: %v", lobbyID, err)
			return
		}
		if lobby != nil {
			sio.Rooms.Broadcast(room, "lobby_updated", lobby)
		}
	}
}
