package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeTokenSingleUse(t *testing.T) {
	c, _ := newTestCore(Options{})
	token, _ := c.IssueToken(false)

	sessionID, err := c.ExchangeToken(token, "192.168.1.20", "")
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	_, err = c.ExchangeToken(token, "192.168.1.21", "")
	require.Error(t, err)
	kind, ok := IsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, AuthTokenConsumed, kind)
}

func TestExchangeTokenRejections(t *testing.T) {
	tests := []struct {
		name  string
		token func(c *Core) string
		ip    string
		want  AuthKind
	}{
		{"empty token", func(*Core) string { return "" }, "192.168.1.20", AuthTokenMissing},
		{"empty ip", func(c *Core) string { tk, _ := c.IssueToken(false); return tk }, "", AuthOriginUnknown},
		{"wrong token", func(c *Core) string { c.IssueToken(false); return "nope" }, "192.168.1.20", AuthTokenInvalid},
		{"expired token", func(c *Core) string {
			tk, _ := c.IssueToken(false)
			c.mu.Lock()
			c.token.ExpiresAt = time.Now().Add(-time.Second)
			c.mu.Unlock()
			return tk
		}, "192.168.1.20", AuthTokenExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCore(Options{})
			_, err := c.ExchangeToken(tt.token(c), tt.ip, "")
			kind, ok := IsAuthError(err)
			require.True(t, ok)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestExchangeTokenReusesValidSession(t *testing.T) {
	c, _ := newTestCore(Options{})
	token, _ := c.IssueToken(false)

	first, err := c.ExchangeToken(token, "192.168.1.20", "")
	require.NoError(t, err)

	// The same phone re-scans while its session is still alive; the stale
	// token must not produce an error or a second session.
	again, err := c.ExchangeToken(token, "192.168.1.20", first)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestValidateSessionIPBinding(t *testing.T) {
	c, _ := newTestCore(Options{})
	token, _ := c.IssueToken(false)
	sessionID, err := c.ExchangeToken(token, "192.168.1.20", "")
	require.NoError(t, err)

	_, ok := c.ValidateSession(sessionID, "192.168.1.99")
	assert.False(t, ok, "session must be rejected from a different IP")

	s, ok := c.ValidateSession(sessionID, "192.168.1.20")
	require.True(t, ok)
	assert.Equal(t, "192.168.1.20", s.BoundIP)
}

func TestValidateSessionExpiryRemovesEntry(t *testing.T) {
	c, _ := newTestCore(Options{SessionTTL: time.Minute})
	token, _ := c.IssueToken(false)
	sessionID, err := c.ExchangeToken(token, "192.168.1.20", "")
	require.NoError(t, err)

	c.mu.Lock()
	c.sessions[sessionID].LastSeenAt = time.Now().Add(-2 * time.Minute)
	c.mu.Unlock()

	_, ok := c.ValidateSession(sessionID, "192.168.1.20")
	assert.False(t, ok)

	c.mu.Lock()
	_, stillThere := c.sessions[sessionID]
	c.mu.Unlock()
	assert.False(t, stillThere, "expired entry must be removed on lookup")
}

func TestValidateSessionRefreshesLastSeen(t *testing.T) {
	c, _ := newTestCore(Options{})
	token, _ := c.IssueToken(false)
	sessionID, err := c.ExchangeToken(token, "192.168.1.20", "")
	require.NoError(t, err)

	c.mu.Lock()
	c.sessions[sessionID].LastSeenAt = time.Now().Add(-30 * time.Minute)
	stale := c.sessions[sessionID].LastSeenAt
	c.mu.Unlock()

	_, ok := c.ValidateSession(sessionID, "192.168.1.20")
	require.True(t, ok)

	c.mu.Lock()
	refreshed := c.sessions[sessionID].LastSeenAt
	c.mu.Unlock()
	assert.True(t, refreshed.After(stale))
}

func TestPurgeSession(t *testing.T) {
	c, _ := newTestCore(Options{})
	token, _ := c.IssueToken(false)
	sessionID, err := c.ExchangeToken(token, "192.168.1.20", "")
	require.NoError(t, err)

	c.PurgeSession(sessionID)
	_, ok := c.ValidateSession(sessionID, "192.168.1.20")
	assert.False(t, ok)
}
