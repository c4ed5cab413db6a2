package registration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"telvia/models"
	"telvia/utils"

	"github.com/go-redis/redis/v8"
)

// saveSession persists the wizard session with a sliding TTL.
func (s *DefaultRegistrationService) saveSession(ctx context.Context, sess *models.RegistrationSession) error {
	sess.LastUpdatedAt = time.Now()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal registration session: %w", err)
	}
	key := utils.RegistrationSessionPrefix + sess.ID
	if err := s.SessionClient.Set(ctx, key, data, utils.RegistrationSessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save registration session: %w", err)
	}
	return nil
}

func (s *DefaultRegistrationService) getSession(ctx context.Context, sessionID string) (*models.RegistrationSession, error) {
	data, err := s.SessionClient.Get(ctx, utils.RegistrationSessionPrefix+sessionID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to retrieve registration session: %w", err)
	}
	var sess models.RegistrationSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal registration session: %w", err)
	}
	return &sess, nil
}

func (s *DefaultRegistrationService) deleteSession(ctx context.Context, sessionID string) error {
	return s.SessionClient.Del(ctx, utils.RegistrationSessionPrefix+sessionID).Err()
}

// GetSession exposes the current wizard state.
func (s *DefaultRegistrationService) GetSession(ctx context.Context, sessionID string) (*models.RegistrationSession, error) {
	return s.getSession(ctx, sessionID)
}
