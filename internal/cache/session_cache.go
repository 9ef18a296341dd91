package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gradpath/internal/model"
)

// SessionCache stores wizard sessions and the per-session submit lock
type SessionCache interface {
	Set(ctx context.Context, session *model.WizardSession) error
	Get(ctx context.Context, id string) (*model.WizardSession, error)
	Delete(ctx context.Context, id string) error
	// AcquireSubmitLock reports whether attemptID now holds the lock
	AcquireSubmitLock(ctx context.Context, id, attemptID string, ttl time.Duration) (bool, error)
	ReleaseSubmitLock(ctx context.Context, id, attemptID string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a Redis-backed session cache
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(id string) string {
	return fmt.Sprintf("wizard:%s", id)
}

func lockKey(id string) string {
	return fmt.Sprintf("wizard:%s:submit", id)
}

// releaseScript deletes the lock only if the caller still owns it
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (c *sessionCache) Set(ctx context.Context, session *model.WizardSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKey(session.ID), data, c.ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.WizardSession, error) {
	data, err := c.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.WizardSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, sessionKey(id), lockKey(id)).Err()
}

func (c *sessionCache) AcquireSubmitLock(ctx context.Context, id, attemptID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, lockKey(id), attemptID, ttl).Result()
}

func (c *sessionCache) ReleaseSubmitLock(ctx context.Context, id, attemptID string) error {
	return releaseScript.Run(ctx, c.client, []string{lockKey(id)}, attemptID).Err()
}
