package redis

type PlayerStatus string

const (
	StatusOnline  PlayerStatus = "online"
	StatusOffline PlayerStatus = "offline"
	StatusPlaying PlayerStatus = "playing"
)

// PlayerPresence tracks a connected player: which socket they hold and
// which lobby they are currently sitting in (0 = none).
type PlayerPresence struct {
	Email    string       `json:"email"`
	Status   PlayerStatus `json:"status"`
	LastPing int64        `json:"last_ping"` // Unix timestamp
	SocketID string       `json:"socket_id"` // For direct messaging
	LobbyID  int          `json:"lobby_id"`
}
