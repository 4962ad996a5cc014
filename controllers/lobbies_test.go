package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/OshanDAS/algorthm-battle-arena-sub000/middleware"
	models "github.com/OshanDAS/algorthm-battle-arena-sub000/models/postgres"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/repositories"
	socketio_types "github.com/OshanDAS/algorthm-battle-arena-sub000/services/socket_io/types"
	lobbysync "github.com/OshanDAS/algorthm-battle-arena-sub000/services/sync"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordedChat struct {
	kind     string
	entityID int
	calls    int
}

func (f *recordedChat) CreateConversation(kind string, entityID int, participantEmails []string) error {
	f.calls++
	f.kind = kind
	f.entityID = entityID
	return nil
}

type recordedEmitter struct {
	events []string
}

func (f *recordedEmitter) Emit(event string, args ...interface{}) error {
	f.events = append(f.events, event)
	return nil
}

func openMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gdb, mock
}

// newLobbyTestStack builds the controller with mocked storage and a
// real room registry, behind the real auth middleware.
func newLobbyTestStack(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *socketio_types.RoomRegistry, *recordedChat) {
	t.Setenv("TOKEN_KEY", "test-secret")
	gin.SetMode(gin.TestMode)

	gdb, mock := openMockDB(t)
	lobbies := repositories.NewLobbyRepository(gdb, lobbysync.NewLockManager())
	rooms := socketio_types.NewRoomRegistry()
	chatSvc := &recordedChat{}
	ctrl := NewLobbiesController(lobbies, rooms, chatSvc)

	router := gin.New()
	authorized := router.Group("/", middleware.AuthRequired)
	authorized.GET("/lobbies", ctrl.GetOpenLobbies)
	authorized.POST("/lobbies", ctrl.CreateLobby)
	authorized.GET("/lobbies/:lobbyId", ctrl.GetLobby)
	authorized.POST("/lobbies/:lobbyId/join", ctrl.JoinLobby)
	authorized.POST("/lobbies/:lobbyId/close", ctrl.CloseLobby)
	authorized.DELETE("/lobbies/:lobbyId", ctrl.DeleteLobby)

	return router, mock, rooms, chatSvc
}

func authHeader(t *testing.T, email string) string {
	token, err := middleware.CreateToken(email, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func expectLobbyByID(mock sqlmock.Sqlmock, lobbyID, maxPlayers int, status string, emails ...string) {
	mock.ExpectQuery(`SELECT \* FROM "lobbies" WHERE lobby_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"lobby_id", "lobby_name", "max_players",
			"host_email", "lobby_code", "status", "is_public"}).
			AddRow(lobbyID, "Test Lobby", maxPlayers, "host@uni.es", "ABC123", status, true))
	expectParticipants(mock, lobbyID, emails...)
}

func expectLobbyByCode(mock sqlmock.Sqlmock, lobbyID, maxPlayers int, status string, emails ...string) {
	mock.ExpectQuery(`SELECT \* FROM "lobbies" WHERE lobby_code =`).
		WillReturnRows(sqlmock.NewRows([]string{"lobby_id", "lobby_name", "max_players",
			"host_email", "lobby_code", "status", "is_public"}).
			AddRow(lobbyID, "Test Lobby", maxPlayers, "host@uni.es", "ABC123", status, true))
	expectParticipants(mock, lobbyID, emails...)
}

func expectParticipants(mock sqlmock.Sqlmock, lobbyID int, emails ...string) {
	rows := sqlmock.NewRows([]string{"lobby_id", "participant_email", "role", "joined_at"})
	for i, email := range emails {
		role := models.RolePlayer
		if i == 0 {
			role = models.RoleHost
		}
		rows.AddRow(lobbyID, email, role, time.Now().UTC())
	}
	mock.ExpectQuery(`SELECT \* FROM "lobby_participants"`).WillReturnRows(rows)
}

func TestListLobbiesUnauthorized(t *testing.T) {
	router, mock, _, _ := newLobbyTestStack(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/lobbies", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLobby(t *testing.T) {
	router, mock, _, chatSvc := newLobbyTestStack(t)

	// Code collision check comes up empty
	mock.ExpectQuery(`SELECT \* FROM "lobbies" WHERE lobby_code =`).
		WillReturnRows(sqlmock.NewRows([]string{"lobby_id"}))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "lobbies"`).
		WillReturnRows(sqlmock.NewRows([]string{"lobby_id"}).AddRow(5))
	mock.ExpectExec(`INSERT INTO "lobby_participants"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	expectLobbyByID(mock, 5, 4, models.LobbyStatusOpen, "host@uni.es")

	body, _ := json.Marshal(gin.H{
		"name": "Test Lobby", "maxPlayers": 4, "mode": "1v1", "difficulty": "Medium",
	})
	fmt.Println("Request: POST /lobbies", string(body))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/lobbies", bytes.NewBuffer(body))
	req.Header.Set("Authorization", authHeader(t, "host@uni.es"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	fmt.Println("Response:", w.Body.String())
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/lobbies/5", w.Header().Get("Location"))
	assert.Equal(t, 1, chatSvc.calls)
	assert.Equal(t, "lobby", chatSvc.kind)
	assert.Equal(t, 5, chatSvc.entityID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLobbyBadPayload(t *testing.T) {
	router, mock, _, _ := newLobbyTestStack(t)

	body := []byte(`{"name": "Test Lobby"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/lobbies", bytes.NewBuffer(body))
	req.Header.Set("Authorization", authHeader(t, "host@uni.es"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLobbyNotFound(t *testing.T) {
	router, mock, _, _ := newLobbyTestStack(t)

	mock.ExpectQuery(`SELECT \* FROM "lobbies" WHERE lobby_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"lobby_id"}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/lobbies/42", nil)
	req.Header.Set("Authorization", authHeader(t, "host@uni.es"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinLobbyByCodeNotFound(t *testing.T) {
	router, mock, _, _ := newLobbyTestStack(t)

	mock.ExpectQuery(`SELECT \* FROM "lobbies" WHERE lobby_code =`).
		WillReturnRows(sqlmock.NewRows([]string{"lobby_id"}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/lobbies/ZZZZZZ/join", nil)
	req.Header.Set("Authorization", authHeader(t, "player@uni.es"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinLobbyFullConflict(t *testing.T) {
	router, mock, _, _ := newLobbyTestStack(t)

	expectLobbyByCode(mock, 42, 1, models.LobbyStatusOpen, "host@uni.es")
	// The repository re-reads under the lobby lock before deciding
	expectLobbyByID(mock, 42, 1, models.LobbyStatusOpen, "host@uni.es")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/lobbies/ABC123/join", nil)
	req.Header.Set("Authorization", authHeader(t, "player@uni.es"))
	router.ServeHTTP(w, req)

	fmt.Println("Response:", w.Body.String())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot join lobby")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinLobbyByCode(t *testing.T) {
	router, mock, rooms, _ := newLobbyTestStack(t)

	// Someone already connected to the lobby room gets the update
	watcher := &recordedEmitter{}
	rooms.Join("conn-1", "42", watcher)

	expectLobbyByCode(mock, 42, 4, models.LobbyStatusOpen, "host@uni.es")
	// JoinLobby re-read plus insert
	expectLobbyByID(mock, 42, 4, models.LobbyStatusOpen, "host@uni.es")
	mock.ExpectExec(`INSERT INTO "lobby_participants"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Broadcast snapshot, then the response body snapshot
	expectLobbyByID(mock, 42, 4, models.LobbyStatusOpen, "host@uni.es", "player@uni.es")
	expectLobbyByID(mock, 42, 4, models.LobbyStatusOpen, "host@uni.es", "player@uni.es")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/lobbies/ABC123/join", nil)
	req.Header.Set("Authorization", authHeader(t, "player@uni.es"))
	router.ServeHTTP(w, req)

	fmt.Println("Response:", w.Body.String())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "player@uni.es")
	assert.Equal(t, []string{"lobby_updated"}, watcher.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteLobbyPurgesRoom(t *testing.T) {
	router, mock, rooms, _ := newLobbyTestStack(t)

	member := &recordedEmitter{}
	rooms.Join("conn-1", "42", member)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "lobbies"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "lobby_participants"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "lobbies"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/lobbies/42", nil)
	req.Header.Set("Authorization", authHeader(t, "host@uni.es"))
	router.ServeHTTP(w, req)

	fmt.Println("Response:", w.Body.String())
	assert.Equal(t, http.StatusOK, w.Code)

	// The member heard the deletion, then the room itself is gone
	assert.Equal(t, []string{"lobby_deleted"}, member.events)
	assert.Equal(t, 0, rooms.MemberCount("42"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseLobbyNonHostForbidden(t *testing.T) {
	router, mock, _, _ := newLobbyTestStack(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "lobbies"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/lobbies/42/close", nil)
	req.Header.Set("Authorization", authHeader(t, "player@uni.es"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
