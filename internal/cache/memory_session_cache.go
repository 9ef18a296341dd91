package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gradpath/internal/model"
)

type memoryEntry struct {
	data    []byte
	expires time.Time
}

type submitLock struct {
	owner   string
	expires time.Time
}

type memorySessionCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memoryEntry
	locks    map[string]submitLock
}

// NewMemorySessionCache keeps sessions in process memory with the same
// expiry semantics as the Redis cache
func NewMemorySessionCache(ttl time.Duration) SessionCache {
	return &memorySessionCache{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
		locks:    make(map[string]submitLock),
	}
}

func (c *memorySessionCache) Set(ctx context.Context, session *model.WizardSession) error {
	// stored encoded so callers never share maps with the cache
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[session.ID] = memoryEntry{data: data, expires: c.now().Add(c.ttl)}
	return nil
}

func (c *memorySessionCache) Get(ctx context.Context, id string) (*model.WizardSession, error) {
	c.mu.Lock()
	entry, ok := c.sessions[id]
	if ok && !c.now().Before(entry.expires) {
		delete(c.sessions, id)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var session model.WizardSession
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *memorySessionCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	delete(c.locks, id)
	return nil
}

func (c *memorySessionCache) AcquireSubmitLock(ctx context.Context, id, attemptID string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.locks[id]; ok && c.now().Before(l.expires) {
		return false, nil
	}
	c.locks[id] = submitLock{owner: attemptID, expires: c.now().Add(ttl)}
	return true, nil
}

func (c *memorySessionCache) ReleaseSubmitLock(ctx context.Context, id, attemptID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.locks[id]; ok && l.owner == attemptID {
		delete(c.locks, id)
	}
	return nil
}
