package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rageventura-api/internal/session"
)

func newAuthRouter(t *testing.T) (*gin.Engine, session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := session.NewMemoryStore()
	auth := NewAuth(store, "")

	r := gin.New()
	r.Use(auth.Resolve())

	r.GET("/whoami", func(c *gin.Context) {
		id, ok := IdentityFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"authenticated": ok, "user_id": id.UserID})
	})
	r.GET("/private", RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r, store
}

func issue(t *testing.T, store session.Store, token, userID string, ttl time.Duration) {
	t.Helper()
	now := time.Now()
	require.NoError(t, store.Create(context.Background(), session.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}))
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestResolveAttachesIdentity(t *testing.T) {
	r, store := newAuthRouter(t)
	issue(t, store, "live-token", "u-1", time.Hour)

	w := get(r, "/whoami", "live-token")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Authenticated bool   `json:"authenticated"`
		UserID        string `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Authenticated)
	assert.Equal(t, "u-1", body.UserID)
}

func TestResolveContinuesWithoutIdentity(t *testing.T) {
	r, store := newAuthRouter(t)
	issue(t, store, "stale-token", "u-1", -time.Minute)

	for name, token := range map[string]string{
		"no cookie":     "",
		"unknown token": "never-issued",
		"expired token": "stale-token",
	} {
		t.Run(name, func(t *testing.T) {
			w := get(r, "/whoami", token)
			require.Equal(t, http.StatusOK, w.Code)

			var body struct {
				Authenticated bool `json:"authenticated"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Authenticated)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	r, store := newAuthRouter(t)
	issue(t, store, "live-token", "u-1", time.Hour)

	w := get(r, "/private", "live-token")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(r, "/private", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "not signed in", body.Error)
}

func TestIdentityFromContextMiss(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: "u-1", Token: "tok"})
	id, ok := IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u-1", id.UserID)
	assert.Equal(t, "tok", id.Token)
}
