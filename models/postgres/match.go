package postgres

import (
	"time"
)

/*
 * 'Match' is the immutable record of a started competition. StartedAt
 * is set once on creation and never mutated by this subsystem;
 * EndedAt is filled in by the grading pipeline when the match ends
 */
type Match struct {
	MatchID   int        `gorm:"primaryKey;autoIncrement" json:"matchId"`
	LobbyID   int        `gorm:"not null;index:idx_matches_lobby" json:"lobbyId"`
	StartedAt time.Time  `gorm:"not null" json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt"`

	// Ordered problem set assigned to the match
	Problems []MatchProblem `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE;" json:"problems"`
}

// MatchProblem keeps the problems of a match in request order.
// Duplicated problem ids are allowed, so Position is part of the key.
type MatchProblem struct {
	MatchID   int `gorm:"primaryKey;not null" json:"matchId"`
	Position  int `gorm:"primaryKey;not null" json:"position"`
	ProblemID int `gorm:"not null" json:"problemId"`
}
