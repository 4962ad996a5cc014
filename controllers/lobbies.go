package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/OshanDAS/algorthm-battle-arena-sub000/middleware"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/models"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/repositories"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/services/chat"
	socketio_types "github.com/OshanDAS/algorthm-battle-arena-sub000/services/socket_io/types"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/utils"

	"github.com/gin-gonic/gin"
)

const lobbyCodeLength = 6

// LobbiesController handles the lobby REST surface. Room broadcasts go
// through the same Broadcaster the realtime layer uses, so REST-driven
// state changes reach connected clients too.
type LobbiesController struct {
	Lobbies *repositories.LobbyRepository
	Rooms   *socketio_types.RoomRegistry
	Chat    chat.Service
}

func NewLobbiesController(lobbies *repositories.LobbyRepository,
	rooms *socketio_types.RoomRegistry, chatSvc chat.Service) *LobbiesController {
	return &LobbiesController{Lobbies: lobbies, Rooms: rooms, Chat: chatSvc}
}

// broadcastLobby pushes the fresh lobby snapshot to the lobby's room.
func (lc *LobbiesController) broadcastLobby(lobbyID int) {
	lobby, err := lc.Lobbies.GetLobbyByID(lobbyID)
	if err != nil {
		log.Printf("[LOBBY] failed to load lobby %d for broadcast: %v", lobbyID, err)
		return
	}
	if lobby != nil {
		lc.Rooms.Broadcast(strconv.Itoa(lobbyID), "lobby_updated", lobby)
	}
}

// parseLobbyID pulls the numeric lobby id from the route. Responds 400
// itself on garbage input.
func parseLobbyID(c *gin.Context, param string) (int, bool) {
	lobbyID, err := strconv.Atoi(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lobby ID"})
		return 0, false
	}
	return lobbyID, true
}

// GetOpenLobbies godoc
// @Summary List joinable lobbies
// @Description Returns every public lobby with status Open, with participants
// @Tags lobbies
// @Produce json
// @Success 200 {array} postgres.Lobby
// @Security ApiKeyAuth
// @Router /lobbies [get]
func (lc *LobbiesController) GetOpenLobbies(c *gin.Context) {
	lobbies, err := lc.Lobbies.GetOpenLobbies()
	if err != nil {
		log.Printf("[LOBBY] failed to list open lobbies: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, lobbies)
}

// GetLobby godoc
// @Summary Get a lobby by id
// @Tags lobbies
// @Produce json
// @Param lobbyId path int true "Lobby id"
// @Success 200 {object} postgres.Lobby
// @Failure 404 {object} map[string]string
// @Security ApiKeyAuth
// @Router /lobbies/{lobbyId} [get]
func (lc *LobbiesController) GetLobby(c *gin.Context) {
	lobbyID, ok := parseLobbyID(c, "lobbyId")
	if !ok {
		return
	}

	lobby, err := lc.Lobbies.GetLobbyByID(lobbyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if lobby == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
		return
	}
	c.JSON(http.StatusOK, lobby)
}

// CreateLobby godoc
// @Summary Create a lobby
// @Description Creates an Open lobby owned by the caller and returns it with its join code
// @Tags lobbies
// @Accept json
// @Produce json
// @Param request body models.LobbyCreation true "Lobby settings"
// @Success 201 {object} postgres.Lobby
// @Failure 400 {object} map[string]string
// @Security ApiKeyAuth
// @Router /lobbies [post]
func (lc *LobbiesController) CreateLobby(c *gin.Context) {
	email, ok := middleware.CallerEmail(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.LobbyCreation
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Regenerate on the (unlikely) code collision
	var code string
	for attempt := 0; attempt < 5; attempt++ {
		code = utils.GenerateLobbyCode(lobbyCodeLength)
		existing, err := lc.Lobbies.GetLobbyByCode(code)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if existing == nil {
			break
		}
		code = ""
	}
	if code == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not allocate a lobby code"})
		return
	}

	lobby, err := lc.Lobbies.CreateLobby(req.Name, req.MaxPlayers, req.Mode, req.Difficulty, email, code)
	if err != nil {
		log.Printf("[LOBBY] failed to create lobby for %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// Best-effort: the lobby is usable without its conversation
	if lc.Chat != nil {
		if err := lc.Chat.CreateConversation(chat.KindLobby, lobby.LobbyID, []string{email}); err != nil {
			log.Printf("[LOBBY] failed to create conversation for lobby %d: %v", lobby.LobbyID, err)
		}
	}

	c.Header("Location", fmt.Sprintf("/lobbies/%d", lobby.LobbyID))
	c.JSON(http.StatusCreated, lobby)
}

// JoinLobby godoc
// @Summary Join a lobby by code
// @Description Adds the caller as a Player. Fails when the lobby is full, closed or the caller already joined
// @Tags lobbies
// @Produce json
// @Param lobbyCode path string true "Join code"
// @Success 200 {object} postgres.Lobby
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security ApiKeyAuth
// @Router /lobbies/{lobbyCode}/join [post]
func (lc *LobbiesController) JoinLobby(c *gin.Context) {
	email, ok := middleware.CallerEmail(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	// The wildcard is named lobbyId to share the route segment with the
	// other lobby routes, but joins address the lobby by its code
	lobby, err := lc.Lobbies.GetLobbyByCode(c.Param("lobbyId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if lobby == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
		return
	}

	joined, err := lc.Lobbies.JoinLobby(lobby.LobbyID, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !joined {
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot join lobby. It might be full or closed."})
		return
	}

	lc.broadcastLobby(lobby.LobbyID)

	updated, err := lc.Lobbies.GetLobbyByID(lobby.LobbyID)
	if err != nil || updated == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// LeaveLobby godoc
// @Summary Leave a lobby
// @Description Removes the caller from the lobby. Leaving a lobby you are not in succeeds
// @Tags lobbies
// @Produce json
// @Param lobbyId path int true "Lobby id"
// @Success 200 {object} map[string]string
// @Security ApiKeyAuth
// @Router /lobbies/{lobbyId}/leave [post]
func (lc *LobbiesController) LeaveLobby(c *gin.Context) {
	email, ok := middleware.CallerEmail(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	lobbyID, ok := parseLobbyID(c, "lobbyId")
	if !ok {
		return
	}

	if _, err := lc.Lobbies.LeaveLobby(lobbyID, email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	lc.broadcastLobby(lobbyID)
	c.JSON(http.StatusOK, gin.H{"message": "Left lobby"})
}

// KickParticipant godoc
// @Summary Kick a participant
// @Description Host-only. Removes the target participant from the lobby
// @Tags lobbies
// @Produce json
// @Param lobbyId path int true "Lobby id"
// @Param email path string true "Participant email"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security ApiKeyAuth
// @Router /lobbies/{lobbyId}/participants/{email} [delete]
func (lc *LobbiesController) KickParticipant(c *gin.Context) {
	email, ok := middleware.CallerEmail(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	lobbyID, ok := parseLobbyID(c, "lobbyId")
	if !ok {
		return
	}

	kicked, err := lc.Lobbies.KickParticipant(lobbyID, email, c.Param("email"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !kicked {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can kick participants"})
		return
	}

	lc.broadcastLobby(lobbyID)
	c.JSON(http.StatusOK, gin.H{"message": "Participant removed"})
}

// CloseLobby godoc
// @Summary Close a lobby
// @Description Host-only. Moves the lobby to Closed so no one else can join
// @Tags lobbies
// @Produce json
// @Param lobbyId path int true "Lobby id"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security ApiKeyAuth
// @Router /lobbies/{lobbyId}/close [post]
func (lc *LobbiesController) CloseLobby(c *gin.Context) {
	email, ok := middleware.CallerEmail(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	lobbyID, ok := parseLobbyID(c, "lobbyId")
	if !ok {
		return
	}

	closed, err := lc.Lobbies.CloseLobby(lobbyID, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !closed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can close the lobby"})
		return
	}

	lc.broadcastLobby(lobbyID)
	c.JSON(http.StatusOK, gin.H{"message": "Lobby closed"})
}

// UpdatePrivacy godoc
// @Summary Set lobby visibility
// @Description Host-only. Public lobbies show up in the open lobby listing
// @Tags lobbies
// @Accept json
// @Produce json
// @Param lobbyId path int true "Lobby id"
// @Param request body models.UpdatePrivacy true "Visibility"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security ApiKeyAuth
// @Router /lobbies/{lobbyId}/privacy [put]
func (lc *LobbiesController) UpdatePrivacy(c *gin.Context) {
	email, ok := middleware.CallerEmail(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	lobbyID, ok := parseLobbyID(c, "lobbyId")
	if !ok {
		return
	}

	var req models.UpdatePrivacy
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isHost, err := lc.Lobbies.IsHost(lobbyID, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !isHost {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can change lobby settings"})
		return
	}

	updated, err := lc.Lobbies.UpdateLobbyPrivacy(lobbyID, *req.IsPublic)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
		return
	}

	lc.broadcastLobby(lobbyID)
	c.JSON(http.StatusOK, gin.H{"message": "Privacy updated"})
}

// UpdateDifficulty godoc
// @Summary Set lobby difficulty
// @Description Host-only
// @Tags lobbies
// @Accept json
// @Produce json
// @Param lobbyId path int true "Lobby id"
// @Param request body models.UpdateDifficulty true "Difficulty"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security ApiKeyAuth
// @Router /lobbies/{lobbyId}/difficulty [put]
func (lc *LobbiesController) UpdateDifficulty(c *gin.Context) {
	email, ok := middleware.CallerEmail(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	lobbyID, ok := parseLobbyID(c, "lobbyId")
	if !ok {
		return
	}

	var req models.UpdateDifficulty
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isHost, err := lc.Lobbies.IsHost(lobbyID, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !isHost {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can change lobby settings"})
		return
	}

	updated, err := lc.Lobbies.UpdateLobbyDifficulty(lobbyID, req.Difficulty)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
		return
	}

	lc.broadcastLobby(lobbyID)
	c.JSON(http.StatusOK, gin.H{"message": "Difficulty updated"})
}

// DeleteLobby godoc
// @Summary Delete a lobby
// @Description Host-only. Hard-deletes the lobby and its participants
// @Tags lobbies
// @Produce json
// @Param lobbyId path int true "Lobby id"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security ApiKeyAuth
// @Router /lobbies/{lobbyId} [delete]
func (lc *LobbiesController) DeleteLobby(c *gin.Context) {
	email, ok := middleware.CallerEmail(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	lobbyID, ok := parseLobbyID(c, "lobbyId")
	if !ok {
		return
	}

	isHost, err := lc.Lobbies.IsHost(lobbyID, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !isHost {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can delete the lobby"})
		return
	}

	deleted, err := lc.Lobbies.DeleteLobby(lobbyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
		return
	}

	room := strconv.Itoa(lobbyID)
	lc.Rooms.Broadcast(room, "lobby_deleted", gin.H{"lobbyId": lobbyID})
	lc.Rooms.CloseRoom(room)
	c.JSON(http.StatusOK, gin.H{"message": "Lobby deleted"})
}
