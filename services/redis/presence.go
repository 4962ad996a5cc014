package redis

import (
	"encoding/json"
	"fmt"
	"time"

	redis_models "github.com/OshanDAS/algorthm-battle-arena-sub000/models/redis"

	"github.com/redis/go-redis/v9"
)

func presenceKey(email string) string {
	return fmt.Sprintf("player:%s", email)
}

// SavePlayerPresence stores the presence record of a connected player
func (rc *RedisClient) SavePlayerPresence(p *redis_models.PlayerPresence) error {
	p.LastPing = time.Now().Unix()
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("error serializing player presence: %w", err)
	}
	return rc.client.Set(rc.ctx, presenceKey(p.Email), data, 0).Err()
}

// GetPlayerPresence returns the presence record for a player, or nil
// when the player is not connected
func (rc *RedisClient) GetPlayerPresence(email string) (*redis_models.PlayerPresence, error) {
	data, err := rc.client.Get(rc.ctx, presenceKey(email)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting player presence: %w", err)
	}
	var p redis_models.PlayerPresence
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("error deserializing player presence: %w", err)
	}
	return &p, nil
}

// DeletePlayerPresence removes the presence record on disconnect
func (rc *RedisClient) DeletePlayerPresence(email string) error {
	return rc.client.Del(rc.ctx, presenceKey(email)).Err()
}

// SetPlayerCurrentLobby records the lobby a player's socket joined
func (rc *RedisClient) SetPlayerCurrentLobby(email string, lobbyID int) error {
	return rc.client.Set(rc.ctx, fmt.Sprintf("player_lobby:%s", email), lobbyID, 0).Err()
}

// GetPlayerCurrentLobby returns the lobby the player's socket is in,
// or 0 when they are not in any room
func (rc *RedisClient) GetPlayerCurrentLobby(email string) (int, error) {
	id, err := rc.client.Get(rc.ctx, fmt.Sprintf("player_lobby:%s", email)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("error getting player lobby: %w", err)
	}
	return id, nil
}

// ClearPlayerCurrentLobby removes the player -> lobby mapping
func (rc *RedisClient) ClearPlayerCurrentLobby(email string) error {
	return rc.client.Del(rc.ctx, fmt.Sprintf("player_lobby:%s", email)).Err()
}
