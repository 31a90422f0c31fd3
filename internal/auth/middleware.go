package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-catalog/internal/api"
	"github.com/mrlokans/library-catalog/internal/config"
)

// Context keys for session data
const (
	ContextKeyClaims = "auth_claims"
	ContextKeyUserID = "auth_user_id"
)

// AnonymousUserID is reported for requests without a valid session.
const AnonymousUserID = uint(0)

// Guard checks the session cookie in front of protected routes.
type Guard struct {
	tokens *TokenCodec
}

func NewGuard(tokens *TokenCodec) *Guard {
	return &Guard{tokens: tokens}
}

// RequireAuth rejects requests without a valid session with 401
// {data: null, message: "not authorized"}.
func (g *Guard) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.identify(c) {
			api.AbortFail(c, http.StatusUnauthorized, api.MessageNotAuthorized)
			return
		}
		c.Next()
	}
}

// Identify records the session user when the cookie is valid and lets every
// request through.
func (g *Guard) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		g.identify(c)
		c.Next()
	}
}

// ForMode returns the gate for catalog routes under the given auth mode:
// "all" guards everything, "writes" guards unsafe methods only, and "none"
// only identifies.
func (g *Guard) ForMode(mode config.AuthMode) gin.HandlerFunc {
	switch mode {
	case config.AuthModeAll:
		return g.RequireAuth()
	case config.AuthModeWrites:
		require := g.RequireAuth()
		identify := g.Identify()
		return func(c *gin.Context) {
			if isSafeMethod(c.Request.Method) {
				identify(c)
				return
			}
			require(c)
		}
	default:
		return g.Identify()
	}
}

func (g *Guard) identify(c *gin.Context) bool {
	claims, err := g.tokens.Verify(SessionToken(c))
	if err != nil {
		return false
	}
	c.Set(ContextKeyClaims, claims)
	c.Set(ContextKeyUserID, claims.UserID)
	return true
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// GetClaims returns the verified session claims, if any.
func GetClaims(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(ContextKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// GetUserID extracts the session user's ID from the Gin context.
// Returns AnonymousUserID when no valid session was presented.
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get(ContextKeyUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return AnonymousUserID
}
