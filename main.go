package main

import (
	"log"
	"os"

	"github.com/OshanDAS/algorthm-battle-arena-sub000/config"
	_ "github.com/OshanDAS/algorthm-battle-arena-sub000/config/swagger"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/middleware"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/routes"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/services/redis"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/services/socket_io"
	socketio_types "github.com/OshanDAS/algorthm-battle-arena-sub000/services/socket_io/types"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// @title Algorithm Battle Arena Lobby API
// @version 1.0
// @description Lobby lifecycle and match-start coordination service
// @BasePath /
func main() {
	godotenv.Load()
	log.Println("Setting up server...")

	if os.Getenv("PROD") == "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := config.ConnectGORM()
	if err != nil {
		log.Fatalf("Error connecting to PostgreSQL: %v", err)
	}
	log.Println("GORM Connected")

	// Only migrate in development or during deployment
	if os.Getenv("MIGRATE_POSTGRES") == "true" {
		log.Println("Migrating PostgreSQL database...")
		if err := config.MigrateDatabase(gormDB); err != nil {
			log.Printf("Warning: Database migration failed: %v", err)
		} else {
			log.Println("Database migrated successfully")
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
	}
	defer sqlDB.Close()

	redisClient, err := config.ConnectRedis()
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	log.Println("Connection to Redis successful")
	defer redis.CloseRedis(redisClient)

	r := gin.Default()

	middleware.SetUpMiddleware(r)

	sio := socketio_types.NewSocketServer()
	lobbies := routes.SetupRoutes(r, gormDB, redisClient, sio)
	socket_io.Start(r, sio, lobbies, redisClient)

	port := os.Getenv("PORT")
	if port == "" && os.Getenv("USE_HTTPS") == "true" {
		port = "443"
	} else if port == "" {
		port = "8080"
	}

	if os.Getenv("USE_HTTPS") == "true" {
		certFile := os.Getenv("TLS_CERT_FILE")
		keyFile := os.Getenv("TLS_KEY_FILE")
		if err := r.RunTLS(":"+port, certFile, keyFile); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	} else {
		if err := r.Run(":" + port); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}
}
