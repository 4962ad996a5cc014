package redis

import (
	"encoding/json"
	"fmt"

	redis_models "github.com/OshanDAS/algorthm-battle-arena-sub000/models/redis"

	"github.com/redis/go-redis/v9"
)

func conversationKey(kind string, entityID int) string {
	return fmt.Sprintf("conversation:%s:%d", kind, entityID)
}

// SaveConversation stores a conversation bootstrap record
func (rc *RedisClient) SaveConversation(conv *redis_models.Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("error serializing conversation: %w", err)
	}
	return rc.client.Set(rc.ctx, conversationKey(conv.Kind, conv.EntityID), data, 0).Err()
}

// GetConversation returns a conversation record, or nil when none was
// bootstrapped for that entity
func (rc *RedisClient) GetConversation(kind string, entityID int) (*redis_models.Conversation, error) {
	data, err := rc.client.Get(rc.ctx, conversationKey(kind, entityID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting conversation: %w", err)
	}
	var conv redis_models.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("error deserializing conversation: %w", err)
	}
	return &conv, nil
}
