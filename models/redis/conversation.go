package redis

// Conversation is the bootstrap record for a chat room tied to a lobby
// or a match. The chat subsystem owns the messages; this service only
// creates the room and seeds its members.
type Conversation struct {
	Kind         string   `json:"kind"` // "lobby" or "match"
	EntityID     int      `json:"entity_id"`
	Participants []string `json:"participants"`
	CreatedAt    int64    `json:"created_at"` // Unix timestamp
}
