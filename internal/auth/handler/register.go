package handler

import (
	"github.com/gin-gonic/gin"

	"rageventura-api/internal/apperror"
	"rageventura-api/internal/auth"
	"rageventura-api/internal/httpx"
	"rageventura-api/internal/session"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, h.logger, apperror.Validation("invalid request body"))
		return
	}

	u, sess, err := h.svc.Register(c.Request.Context(), auth.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	}, h.client(c))
	if err != nil {
		httpx.Fail(c, h.logger, err)
		return
	}

	session.SetCookie(c.Writer, sess.Token, sess.ExpiresAt, h.cookie)

	httpx.OK(c, gin.H{
		"user":    u,
		"message": "Welcome to RageVentura!",
	})
}
