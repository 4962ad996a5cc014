package repositories

import (
	models "github.com/OshanDAS/algorthm-battle-arena-sub000/models/postgres"

	"gorm.io/gorm"
)

// ProblemRepository is the narrow surface of the problem catalog this
// service needs: candidate problem ids for a match.
type ProblemRepository struct {
	DB *gorm.DB
}

func NewProblemRepository(db *gorm.DB) *ProblemRepository {
	return &ProblemRepository{DB: db}
}

// GetRandomProblemIDs picks count random problem ids, optionally
// filtered by difficulty.
func (r *ProblemRepository) GetRandomProblemIDs(difficulty string, count int) ([]int, error) {
	ids := []int{}
	q := r.DB.Model(&models.Problem{})
	if difficulty != "" {
		q = q.Where("difficulty = ?", difficulty)
	}
	err := q.Order("RANDOM()").Limit(count).Pluck("problem_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
