package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/OshanDAS/algorthm-battle-arena-sub000/middleware"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/models"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/services/match_start"

	"github.com/gin-gonic/gin"
)

// MatchesController exposes the match-start endpoint. All sequencing
// lives in the coordinator; this layer only translates its errors into
// status codes.
type MatchesController struct {
	Coordinator *match_start.Coordinator
}

func NewMatchesController(coordinator *match_start.Coordinator) *MatchesController {
	return &MatchesController{Coordinator: coordinator}
}

// StartMatch godoc
// @Summary Start the match for a lobby
// @Description Host-only. Creates the match, picks a single start instant and broadcasts it to the lobby room. The lobby must still be Open
// @Tags matches
// @Accept json
// @Produce json
// @Param lobbyId path int true "Lobby id"
// @Param request body models.StartMatchRequest true "Match settings"
// @Success 200 {object} models.MatchStarted
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security ApiKeyAuth
// @Router /matches/{lobbyId}/start [post]
func (mc *MatchesController) StartMatch(c *gin.Context) {
	lobbyID, ok := parseLobbyID(c, "lobbyId")
	if !ok {
		return
	}

	email, ok := middleware.CallerEmail(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.StartMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// An empty problem list is legal, a missing one is not
	if req.ProblemIds == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "problemIds is required"})
		return
	}

	event, err := mc.Coordinator.StartMatch(lobbyID, email, req)
	if err != nil {
		switch {
		case errors.Is(err, match_start.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can start the match"})
		case errors.Is(err, match_start.ErrLobbyNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
		case errors.Is(err, match_start.ErrLobbyNotOpen):
			c.JSON(http.StatusConflict, gin.H{"error": "Lobby is not open"})
		default:
			log.Printf("[MATCH] failed to start match for lobby %d: %v", lobbyID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	c.JSON(http.StatusOK, event)
}
