package socket_io

import (
	"log"
	"time"

	"github.com/OshanDAS/algorthm-battle-arena-sub000/middleware"
	redis_models "github.com/OshanDAS/algorthm-battle-arena-sub000/models/redis"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/repositories"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/services/redis"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/services/socket_io/handlers"
	socketio_types "github.com/OshanDAS/algorthm-battle-arena-sub000/services/socket_io/types"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

// verifyConnection authenticates a fresh socket connection from the
// JWT carried in the handshake auth map. An unauthenticated socket
// gets an error event and is never registered.
func verifyConnection(client *socket.Socket) (string, bool) {
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		client.Emit("error", gin.H{"error": "Authentication failed: missing auth data"})
		return "", false
	}

	email, err := middleware.SocketJWTDecoder(authData)
	if err != nil {
		log.Printf("[SOCKET-AUTH] rejected connection %s: %v", client.Id(), err)
		client.Emit("error", gin.H{
			"error": "Authentication failed: invalid JWT. Remember to set it on the 'authorization' field with the 'Bearer ' prefix.",
		})
		return "", false
	}
	return email, true
}

// Start mounts the socket.io server on the router and wires the lobby
// room events.
func Start(router *gin.Engine, sio *socketio_types.SocketServer,
	lobbies *repositories.LobbyRepository, redisClient *redis.RedisClient) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load
	// and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		email, ok := verifyConnection(client)
		if !ok {
			return
		}

		sio.AddConnection(email, client)
		if err := redisClient.SavePlayerPresence(&redis_models.PlayerPresence{
			Email:    email,
			Status:   redis_models.StatusOnline,
			SocketID: string(client.Id()),
		}); err != nil {
			log.Printf("[SOCKET-ERROR] failed to save presence for %s: %v", email, err)
		}

		log.Printf("[SOCKET] %s connected with socket %s", email, client.Id())

		// Join the connection to the room corresponding to a lobby
		client.On("join_lobby", handlers.HandleJoinLobby(redisClient, client, lobbies, email, sio))

		// Exit a lobby room voluntarily
		client.On("leave_lobby", handlers.HandleLeaveLobby(redisClient, client, lobbies, email, sio))

		// NOTE: will remove the connection from every room
		client.On("disconnecting", handlers.HandleDisconnecting(redisClient, client, email, sio))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	log.Println("Socket server started")
}
