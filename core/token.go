package core

import (
	"crypto/rand"
	"math/big"
	"time"
)

// tokenAlphabet excludes characters that read ambiguously when a pairing
// code is shown on screen (0/O, 1/l/I).
const tokenAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

const tokenLength = 12

// IssueToken returns the active pairing token and its expiry. When forceNew
// is false and the current token is unconsumed and unexpired it is returned
// unchanged, so redisplaying the pairing code stays idempotent. Otherwise a
// fresh token replaces the single process-wide slot.
func (c *Core) IssueToken(forceNew bool) (string, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	reuse := !forceNew &&
		c.token.Value != "" &&
		!c.token.Consumed &&
		c.token.ExpiresAt.After(now)
	if reuse {
		return c.token.Value, c.token.ExpiresAt
	}

	c.token.Value = randomToken(tokenLength)
	c.token.ExpiresAt = now.Add(c.tokenTTL)
	c.token.Consumed = false
	return c.token.Value, c.token.ExpiresAt
}

func randomToken(length int) string {
	max := big.NewInt(int64(len(tokenAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken;
			// nothing sensible can continue from there.
			panic(err)
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return string(buf)
}
