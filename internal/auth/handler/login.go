package handler

import (
	"github.com/gin-gonic/gin"

	"rageventura-api/internal/apperror"
	"rageventura-api/internal/httpx"
	"rageventura-api/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, h.logger, apperror.Validation("email and password are required"))
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.Fail(c, h.logger, apperror.Validation("email and password are required"))
		return
	}

	u, badges, sess, err := h.svc.Login(c.Request.Context(), req.Email, req.Password, h.client(c))
	if err != nil {
		httpx.Fail(c, h.logger, err)
		return
	}

	session.SetCookie(c.Writer, sess.Token, sess.ExpiresAt, h.cookie)

	httpx.OK(c, gin.H{
		"user":    u,
		"badges":  badges,
		"message": "Welcome back!",
	})
}
