package core

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueTokenIdempotentWhileFresh(t *testing.T) {
	c, _ := newTestCore(Options{})

	first, firstExpiry := c.IssueToken(false)
	second, secondExpiry := c.IssueToken(false)

	assert.Equal(t, first, second)
	assert.Equal(t, firstExpiry, secondExpiry)
	assert.Len(t, first, tokenLength)
	for _, ch := range first {
		assert.True(t, strings.ContainsRune(tokenAlphabet, ch), "unexpected character %q", ch)
	}
}

func TestIssueTokenForceRotates(t *testing.T) {
	c, _ := newTestCore(Options{})

	first, _ := c.IssueToken(false)
	second, _ := c.IssueToken(true)

	assert.NotEqual(t, first, second)
}

func TestIssueTokenRotatesAfterConsume(t *testing.T) {
	c, _ := newTestCore(Options{})

	token, _ := c.IssueToken(false)
	_, err := c.ExchangeToken(token, "192.168.1.20", "")
	require.NoError(t, err)

	rotated, _ := c.IssueToken(false)
	assert.NotEqual(t, token, rotated)
}

func TestIssueTokenRotatesAfterExpiry(t *testing.T) {
	c, _ := newTestCore(Options{})

	token, _ := c.IssueToken(false)
	c.mu.Lock()
	c.token.ExpiresAt = time.Now().Add(-time.Second)
	c.mu.Unlock()

	rotated, _ := c.IssueToken(false)
	assert.NotEqual(t, token, rotated)
}
