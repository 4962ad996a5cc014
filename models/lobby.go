package models

// LobbyCreation is the request body for creating a new lobby
type LobbyCreation struct {
	Name       string `json:"name" binding:"required"`
	MaxPlayers int    `json:"maxPlayers" binding:"required,min=1"`
	Mode       string `json:"mode" binding:"required"`
	Difficulty string `json:"difficulty" binding:"required"`
}

// UpdatePrivacy toggles a lobby between public and private
type UpdatePrivacy struct {
	IsPublic *bool `json:"isPublic" binding:"required"`
}

// UpdateDifficulty changes the difficulty of an open lobby
type UpdateDifficulty struct {
	Difficulty string `json:"difficulty" binding:"required"`
}
