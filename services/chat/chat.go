package chat

import (
	"time"

	redis_models "github.com/OshanDAS/algorthm-battle-arena-sub000/models/redis"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/services/redis"
)

// Conversation kinds bootstrapped by this service.
const (
	KindLobby = "lobby"
	KindMatch = "match"
)

// Service is the narrow surface of the chat subsystem this service
// needs: spinning up a conversation when a lobby is created or a match
// starts. Message delivery is not our problem.
type Service interface {
	CreateConversation(kind string, entityID int, participantEmails []string) error
}

// RedisService bootstraps conversations in Redis, where the chat
// subsystem picks them up.
type RedisService struct {
	RC *redis.RedisClient
}

func NewRedisService(rc *redis.RedisClient) *RedisService {
	return &RedisService{RC: rc}
}

func (s *RedisService) CreateConversation(kind string, entityID int, participantEmails []string) error {
	conv := &redis_models.Conversation{
		Kind:         kind,
		EntityID:     entityID,
		Participants: participantEmails,
		CreatedAt:    time.Now().Unix(),
	}
	return s.RC.SaveConversation(conv)
}
