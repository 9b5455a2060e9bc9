package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"rageventura-api/internal/session"
)

// Identity is the resolved "current user" for one request: the user id
// plus the token that proved it. The token travels along so password
// change can spare the requesting session.
type Identity struct {
	UserID string
	Token  string
}

// unexported, collision-proof context key
type identityContextKeyType struct{}

var identityKey = identityContextKeyType{}

// IdentityFromContext extracts the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// WithIdentity returns a context carrying the identity. Exposed for
// handler tests.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Auth resolves the session cookie on every request. Resolve attaches
// the identity when the token is live and lets the request continue
// either way; RequireAuth aborts with 401 when no identity resolved.
type Auth struct {
	store  session.Store
	cookie string
}

func NewAuth(store session.Store, cookieName string) *Auth {
	if cookieName == "" {
		cookieName = session.DefaultCookieName
	}
	return &Auth{store: store, cookie: cookieName}
}

// Resolve looks the token up in the session store. The store is the
// ground truth: no cached login state survives past this check.
func (a *Auth) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Request.Cookie(a.cookie)
		if err != nil || cookie.Value == "" {
			c.Next()
			return
		}

		sess, err := a.store.Get(c.Request.Context(), cookie.Value)
		if err != nil || sess == nil {
			c.Next()
			return
		}

		ctx := WithIdentity(c.Request.Context(), Identity{
			UserID: sess.UserID,
			Token:  sess.Token,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAuth rejects requests that carry no resolved identity.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFromContext(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "not signed in",
			})
			return
		}
		c.Next()
	}
}
