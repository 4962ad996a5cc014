package postgres

import (
	"time"
)

// Lobby status values. A lobby only moves forward:
// Open -> InProgress -> Closed.
const (
	LobbyStatusOpen       = "Open"
	LobbyStatusInProgress = "InProgress"
	LobbyStatusClosed     = "Closed"
)

// Participant roles. Every lobby has exactly one Host row and it
// matches the lobby's HostEmail.
const (
	RoleHost   = "Host"
	RolePlayer = "Player"
)

/*
 * 'Lobby' defines the structure of a battle lobby. It contains the
 * relationship with its participants
 */
type Lobby struct {
	LobbyID    int       `gorm:"primaryKey;autoIncrement" json:"lobbyId"`
	LobbyName  string    `gorm:"size:100;not null" json:"lobbyName"`
	MaxPlayers int       `gorm:"not null" json:"maxPlayers"`
	Mode       string    `gorm:"size:50" json:"mode"`
	Difficulty string    `gorm:"size:50" json:"difficulty"`
	HostEmail  string    `gorm:"size:100;not null;index:idx_lobbies_host" json:"hostEmail"`
	LobbyCode  string    `gorm:"size:10;not null;uniqueIndex" json:"lobbyCode"`
	Status     string    `gorm:"size:20;not null;default:Open;index:idx_lobbies_status" json:"status"`
	IsPublic   bool      `gorm:"default:true" json:"isPublic"`
	CreatedAt  time.Time `json:"createdAt"`

	// Relationship with the players waiting in the lobby
	Participants []LobbyParticipant `gorm:"foreignKey:LobbyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"participants"`
}

/*
 * 'LobbyParticipant' represents a player (or the host) sitting in a
 * lobby. Composite primary key keeps one row per (lobby, email)
 */
type LobbyParticipant struct {
	LobbyID          int       `gorm:"primaryKey;not null" json:"lobbyId"`
	ParticipantEmail string    `gorm:"primaryKey;size:100;not null;index" json:"participantEmail"`
	Role             string    `gorm:"size:20;not null;default:Player" json:"role"`
	JoinedAt         time.Time `json:"joinedAt"`
}
