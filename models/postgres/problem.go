package postgres

/*
 * 'Problem' is the narrow slice of the problem catalog this service
 * needs: enough to pick candidate problem ids for a match. Statements,
 * test cases and grading live in the catalog service
 */
type Problem struct {
	ProblemID  int    `gorm:"primaryKey;autoIncrement" json:"problemId"`
	Title      string `gorm:"size:200;not null" json:"title"`
	Difficulty string `gorm:"size:50;index:idx_problems_difficulty" json:"difficulty"`
}
