package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rageventura-api/internal/apperror"
)

func serve(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/t", handler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/t", nil))
	return w
}

func TestOKMergesFields(t *testing.T) {
	w := serve(func(c *gin.Context) {
		OK(c, gin.H{"message": "done"})
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"done"}`, w.Body.String())
}

func TestFailMapsKindToStatus(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Fail(c, zap.NewNop(), apperror.Conflict("this email is already registered"))
	})

	require.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"this email is already registered"}`, w.Body.String())
}

func TestFailHidesInternalCause(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Fail(c, zap.NewNop(), errors.New("pq: connection refused"))
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Contains(t, w.Body.String(), "something went wrong")
}
