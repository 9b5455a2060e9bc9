package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rageventura-api/internal/apperror"
	"rageventura-api/internal/auth"
	"rageventura-api/internal/httpx"
	"rageventura-api/internal/session"
)

// Handler exposes the authentication endpoints.
type Handler struct {
	svc    *auth.Service
	cookie session.CookieOptions
	logger *zap.Logger
}

func NewHandler(svc *auth.Service, cookie session.CookieOptions, logger *zap.Logger) *Handler {
	return &Handler{
		svc:    svc,
		cookie: cookie,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/logout", h.logout)
	g.GET("/check", h.check)
	g.POST("/forgot-password", h.forgotPassword)
}

func (h *Handler) client(c *gin.Context) auth.Client {
	return auth.Client{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func (h *Handler) token(c *gin.Context) string {
	cookie, err := c.Request.Cookie(h.cookie.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *Handler) forgotPassword(c *gin.Context) {
	// Password reset is not self-service yet; support handles it.
	httpx.Fail(c, h.logger, apperror.Validation("password reset is not available yet, contact support"))
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), h.token(c)); err != nil {
		httpx.Fail(c, h.logger, err)
		return
	}

	session.ClearCookie(c.Writer, h.cookie)
	httpx.OK(c, gin.H{"message": "signed out"})
}

func (h *Handler) check(c *gin.Context) {
	u, badges, err := h.svc.Check(c.Request.Context(), h.token(c))
	if err != nil {
		h.logger.Error("session check failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	if u == nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user":          u,
		"badges":        badges,
	})
}
