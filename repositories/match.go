package repositories

import (
	"fmt"
	"time"

	models "github.com/OshanDAS/algorthm-battle-arena-sub000/models/postgres"

	"gorm.io/gorm"
)

// MatchRepository creates immutable match records. Nothing in this
// subsystem updates a match after insertion.
type MatchRepository struct {
	DB *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{DB: db}
}

// CreateMatch inserts the match row (StartedAt = now UTC) and one
// MatchProblem row per entry of problemIds, preserving input order.
// A nil slice is a programming error; an empty one is a legal match
// with no assigned problems.
func (r *MatchRepository) CreateMatch(lobbyID int, problemIds []int) (*models.Match, error) {
	if problemIds == nil {
		panic("CreateMatch: problemIds must not be nil")
	}

	match := models.Match{
		LobbyID:   lobbyID,
		StartedAt: time.Now().UTC(),
	}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&match).Error; err != nil {
			return err
		}
		for i, problemID := range problemIds {
			mp := models.MatchProblem{
				MatchID:   match.MatchID,
				Position:  i,
				ProblemID: problemID,
			}
			if err := tx.Create(&mp).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error creating match: %w", err)
	}

	return &match, nil
}
