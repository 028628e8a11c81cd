package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lanbeam/lanbeam/core"
	"github.com/lanbeam/lanbeam/utils"
)

const (
	// ContextIsDesktopKey marks a request from the trusted desktop origin.
	ContextIsDesktopKey = "is_desktop"
	// ContextSessionIDKey stores the validated session id, if any.
	ContextSessionIDKey = "session_id"

	// SessionCookieName carries the session id in browsers.
	SessionCookieName = "lanbeam_session"
	// HeaderSessionID carries the session id for non-cookie clients.
	HeaderSessionID = "X-Session-Id"
	// HeaderDeviceID and HeaderDeviceName carry the declared device identity.
	HeaderDeviceID   = "X-Device-Id"
	HeaderDeviceName = "X-Device-Name"
)

// Auth authorizes requests either by trusted network origin or by a valid
// IP-bound session. The trust decision uses the socket peer address, never
// forwarded headers.
type Auth struct {
	core       *core.Core
	trustedIPs map[string]struct{}
}

// NewAuth builds the authorization middleware around the shared core and
// the allow-list of desktop addresses (loopback plus the LAN address).
func NewAuth(c *core.Core, trusted []string) *Auth {
	set := make(map[string]struct{}, len(trusted))
	for _, ip := range trusted {
		if ip != "" {
			set[ip] = struct{}{}
		}
	}
	return &Auth{core: c, trustedIPs: set}
}

// IsTrustedIP reports whether ip is on the desktop allow-list.
func (a *Auth) IsTrustedIP(ip string) bool {
	_, ok := a.trustedIPs[ip]
	return ok
}

// Core exposes the shared core to handlers wired with this middleware.
func (a *Auth) Core() *core.Core { return a.core }

// Require rejects requests that are neither trusted-origin nor hold a valid
// session. allowQuerySession additionally accepts the session id as a query
// parameter, needed only for the websocket handshake.
func (a *Auth) Require(allowQuerySession bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ip := ctx.RemoteIP()
		if a.IsTrustedIP(ip) {
			ctx.Set(ContextIsDesktopKey, true)
			ctx.Next()
			return
		}

		sessionID := SessionID(ctx, allowQuerySession)
		if _, ok := a.core.ValidateSession(sessionID, ip); !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "unauthorized")
			ctx.Abort()
			return
		}
		ctx.Set(ContextIsDesktopKey, false)
		ctx.Set(ContextSessionIDKey, sessionID)
		ctx.Next()
	}
}

// RequireTrusted rejects everything but the trusted desktop origin.
func (a *Auth) RequireTrusted() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !a.IsTrustedIP(ctx.RemoteIP()) {
			utils.Error(ctx, http.StatusForbidden, 40301, "desktop origin required")
			ctx.Abort()
			return
		}
		ctx.Set(ContextIsDesktopKey, true)
		ctx.Next()
	}
}

// SessionID extracts the presented session id from header, cookie or (when
// allowed) query parameter, in that order.
func SessionID(ctx *gin.Context, allowQuery bool) string {
	if v := ctx.GetHeader(HeaderSessionID); v != "" {
		return v
	}
	if allowQuery {
		if v := ctx.Query("session_id"); v != "" {
			return v
		}
	}
	if v, err := ctx.Cookie(SessionCookieName); err == nil {
		return v
	}
	return ""
}

// IsDesktop reports whether the authorized request came from the trusted
// desktop origin.
func IsDesktop(ctx *gin.Context) bool {
	return ctx.GetBool(ContextIsDesktopKey)
}

// DeclaredDevice returns the device identity headers, falling back to query
// parameters when allowed (websocket handshake only).
func DeclaredDevice(ctx *gin.Context, allowQuery bool) (string, string) {
	id := ctx.GetHeader(HeaderDeviceID)
	if id == "" && allowQuery {
		id = ctx.Query("device_id")
	}
	name := ctx.GetHeader(HeaderDeviceName)
	if name == "" && allowQuery {
		name = ctx.Query("device_name")
	}
	return id, name
}
