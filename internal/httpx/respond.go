package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rageventura-api/internal/apperror"
)

// OK writes a success envelope. Extra fields are merged next to
// "success": true.
func OK(c *gin.Context, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Fail translates an error into the failure envelope. Internal errors
// are logged with their cause; the client only sees the safe message.
func Fail(c *gin.Context, logger *zap.Logger, err error) {
	ae := apperror.From(err)
	if ae.Kind == apperror.KindInternal {
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(ae.HTTPStatus(), gin.H{"success": false, "error": ae.Message})
}
