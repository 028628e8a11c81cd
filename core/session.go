package core

import (
	"time"

	"github.com/lanbeam/lanbeam/models"
)

// ExchangeToken converts a valid, unconsumed pairing token into a new
// session bound to ip. If existingSessionID already names a valid session
// for the same ip, that session is returned instead and the token is left
// alone, keeping QR re-entry idempotent. Expired sessions are swept
// opportunistically on every exchange.
func (c *Core) ExchangeToken(token, ip, existingSessionID string) (string, error) {
	if token == "" {
		return "", ErrTokenMissing
	}
	if ip == "" {
		return "", ErrOriginUnknown
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	c.sweepSessionsLocked(now)

	if existingSessionID != "" {
		if s, ok := c.validSessionLocked(existingSessionID, ip, now); ok {
			s.LastSeenAt = now
			return s.ID, nil
		}
	}

	if c.token.Value != token {
		return "", ErrTokenInvalid
	}
	if c.token.Consumed {
		return "", ErrTokenConsumed
	}
	if !c.token.ExpiresAt.After(now) {
		return "", ErrTokenExpired
	}

	c.token.Consumed = true
	id := newID()
	c.sessions[id] = &models.Session{
		ID:         id,
		BoundIP:    ip,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	return id, nil
}

// ValidateSession returns the session named by sessionID when it is bound
// to ip and within TTL, refreshing its last-seen time. An expired entry is
// removed as a side effect; lazy expiry replaces any background sweeper.
func (c *Core) ValidateSession(sessionID, ip string) (models.Session, bool) {
	if sessionID == "" || ip == "" {
		return models.Session{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	c.sweepSessionsLocked(now)
	s, ok := c.validSessionLocked(sessionID, ip, now)
	if !ok {
		return models.Session{}, false
	}
	s.LastSeenAt = now
	return *s, true
}

// PurgeSession removes a session unconditionally.
func (c *Core) PurgeSession(sessionID string) {
	c.mu.Lock()
	delete(c.sessions, sessionID)
	c.mu.Unlock()
}

func (c *Core) validSessionLocked(sessionID, ip string, now time.Time) (*models.Session, bool) {
	s, ok := c.sessions[sessionID]
	if !ok {
		return nil, false
	}
	if s.BoundIP != ip {
		return nil, false
	}
	if now.Sub(s.LastSeenAt) > c.sessionTTL {
		delete(c.sessions, sessionID)
		return nil, false
	}
	return s, true
}

func (c *Core) sweepSessionsLocked(now time.Time) {
	for id, s := range c.sessions {
		if now.Sub(s.LastSeenAt) > c.sessionTTL {
			delete(c.sessions, id)
		}
	}
}
