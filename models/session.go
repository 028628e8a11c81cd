package models

import "time"

// PairingToken is the single process-wide one-time token a phone exchanges
// for a session. A consumed or expired token can never be exchanged again.
type PairingToken struct {
	Value     string
	ExpiresAt time.Time
	Consumed  bool
}

// Session is an IP-bound credential created by a successful token exchange.
// It is valid only from its bound IP and within TTL of LastSeenAt; every
// valid use refreshes LastSeenAt.
type Session struct {
	ID         string    `json:"id"`
	BoundIP    string    `json:"bound_ip"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}
