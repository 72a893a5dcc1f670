package services

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const presenceTTL = 60 * time.Second

// PresenceService tracks which users currently hold a websocket connection.
// Keys carry a TTL so a crashed connection ages out on its own; the hub
// refreshes them while the connection lives.
type PresenceService struct {
	client *redis.Client
}

func NewPresenceService(client *redis.Client) *PresenceService {
	return &PresenceService{client: client}
}

func presenceKey(userID int64) string {
	return "presence:" + strconv.FormatInt(userID, 10)
}

func (s *PresenceService) SetOnline(ctx context.Context, userID int64) error {
	return s.client.Set(ctx, presenceKey(userID), "1", presenceTTL).Err()
}

func (s *PresenceService) SetOffline(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, presenceKey(userID)).Err()
}

func (s *PresenceService) OnlineStatuses(
	ctx context.Context,
	userIDs []int64,
) (map[int64]bool, error) {
	statuses := make(map[int64]bool, len(userIDs))
	if len(userIDs) == 0 {
		return statuses, nil
	}

	keys := make([]string, 0, len(userIDs))
	for _, userID := range userIDs {
		keys = append(keys, presenceKey(userID))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for i, value := range values {
		statuses[userIDs[i]] = value != nil
	}
	return statuses, nil
}
