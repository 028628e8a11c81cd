package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lanbeam/lanbeam/core"
	"github.com/lanbeam/lanbeam/middleware"
	"github.com/lanbeam/lanbeam/utils"
)

// AuthController handles token exchange and pairing-token refresh.
type AuthController struct {
	core    *core.Core
	auth    *middleware.Auth
	baseURL string
}

// NewAuthController builds the controller. baseURL is the LAN-reachable
// root the pairing URL is built from.
func NewAuthController(c *core.Core, auth *middleware.Auth, baseURL string) *AuthController {
	return &AuthController{core: c, auth: auth, baseURL: baseURL}
}

// Index serves the single-page entry. A token query parameter triggers the
// exchange and sets the session cookie; a bare trusted-origin or
// already-authenticated request just gets the page. Anything else is
// rejected so a stray LAN visitor sees nothing.
func (a *AuthController) Index(ctx *gin.Context) {
	ip := ctx.RemoteIP()
	token := ctx.Query("token")

	if token != "" {
		existing := middleware.SessionID(ctx, false)
		sessionID, err := a.core.ExchangeToken(token, ip, existing)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.SetCookie(middleware.SessionCookieName, sessionID,
			int(a.core.SessionTTL().Seconds()), "/", "", false, true)
		ctx.File("./static/index.html")
		return
	}

	if a.auth.IsTrustedIP(ip) {
		ctx.File("./static/index.html")
		return
	}
	if sid := middleware.SessionID(ctx, false); sid != "" {
		if _, ok := a.core.ValidateSession(sid, ip); ok {
			ctx.File("./static/index.html")
			return
		}
	}
	utils.Error(ctx, http.StatusForbidden, 40303, "scan the pairing code on the desktop to sign in")
}

// MobileToken returns the pairing URL for the phone. force defaults to
// true, rotating the token; force=false re-reads the current one so the
// desktop page can redisplay the same code.
func (a *AuthController) MobileToken(ctx *gin.Context) {
	force := true
	if v := ctx.Query("force"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			force = parsed
		}
	}
	token, expiresAt := a.core.IssueToken(force)
	utils.Success(ctx, gin.H{
		"token":            token,
		"mobile_url":       a.baseURL + "/?token=" + token,
		"token_expires_at": expiresAt.Unix(),
	})
}
