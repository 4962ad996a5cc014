package controllers

import (
	"net/http"
	"strconv"

	"github.com/OshanDAS/algorthm-battle-arena-sub000/repositories"

	"github.com/gin-gonic/gin"
)

// ProblemsController serves the problem pool hosts draw from when
// assembling a match.
type ProblemsController struct {
	Problems *repositories.ProblemRepository
}

func NewProblemsController(problems *repositories.ProblemRepository) *ProblemsController {
	return &ProblemsController{Problems: problems}
}

// GetProblemPool godoc
// @Summary Draw random problem ids
// @Description Returns up to count random problem ids matching the difficulty
// @Tags problems
// @Produce json
// @Param difficulty query string true "Difficulty"
// @Param count query int false "How many ids to draw" default(3)
// @Success 200 {array} int
// @Security ApiKeyAuth
// @Router /problems/pool [get]
func (pc *ProblemsController) GetProblemPool(c *gin.Context) {
	difficulty := c.Query("difficulty")
	if difficulty == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "difficulty is required"})
		return
	}

	count := 3
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid count"})
			return
		}
		count = parsed
	}

	ids, err := pc.Problems.GetRandomProblemIDs(difficulty, count)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, ids)
}
