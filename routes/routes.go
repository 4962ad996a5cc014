package routes

import (
	"log"

	"github.com/OshanDAS/algorthm-battle-arena-sub000/controllers"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/middleware"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/repositories"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/services/chat"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/services/match_start"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/services/redis"
	socketio_types "github.com/OshanDAS/algorthm-battle-arena-sub000/services/socket_io/types"
	lobbysync "github.com/OshanDAS/algorthm-battle-arena-sub000/services/sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRoutes wires repositories, the start coordinator and the
// controllers onto the router. Everything except /ping, /swagger and
// the socket.io mount requires a Bearer token.
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.RedisClient,
	sio *socketio_types.SocketServer) *repositories.LobbyRepository {

	locks := lobbysync.NewLockManager()
	lobbies := repositories.NewLobbyRepository(db, locks)
	matches := repositories.NewMatchRepository(db)
	problems := repositories.NewProblemRepository(db)
	chatSvc := chat.NewRedisService(redisClient)

	coordinator := match_start.NewCoordinator(lobbies, matches, locks, sio.Rooms, chatSvc)

	lobbiesCtrl := controllers.NewLobbiesController(lobbies, sio.Rooms, chatSvc)
	matchesCtrl := controllers.NewMatchesController(coordinator)
	problemsCtrl := controllers.NewProblemsController(problems)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/ping", controllers.Ping)

	authorized := router.Group("/")
	authorized.Use(middleware.AuthRequired)
	authorized.Use(middleware.AuditLogger(db))
	{
		authorized.GET("/lobbies", lobbiesCtrl.GetOpenLobbies)
		authorized.POST("/lobbies", lobbiesCtrl.CreateLobby)
		authorized.GET("/lobbies/:lobbyId", lobbiesCtrl.GetLobby)
		authorized.DELETE("/lobbies/:lobbyId", lobbiesCtrl.DeleteLobby)
		authorized.POST("/lobbies/:lobbyId/join", lobbiesCtrl.JoinLobby)
		authorized.POST("/lobbies/:lobbyId/leave", lobbiesCtrl.LeaveLobby)
		authorized.POST("/lobbies/:lobbyId/close", lobbiesCtrl.CloseLobby)
		authorized.DELETE("/lobbies/:lobbyId/participants/:email", lobbiesCtrl.KickParticipant)
		authorized.PUT("/lobbies/:lobbyId/privacy", lobbiesCtrl.UpdatePrivacy)
		authorized.PUT("/lobbies/:lobbyId/difficulty", lobbiesCtrl.UpdateDifficulty)

		authorized.POST("/matches/:lobbyId/start", matchesCtrl.StartMatch)

		authorized.GET("/problems/pool", problemsCtrl.GetProblemPool)
	}

	log.Println("Routes set up")
	return lobbies
}
