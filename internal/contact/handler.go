package contact

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rageventura-api/internal/apperror"
	"rageventura-api/internal/httpx"
)

type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/contact")
	g.POST("", h.submit)
	g.POST("/newsletter", h.newsletter)
	g.POST("/event-register", h.eventRegister)
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

func (h *Handler) submit(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, h.logger, apperror.Validation("invalid request body"))
		return
	}

	err := h.svc.Submit(c.Request.Context(), Message{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Body:    req.Message,
		Source:  req.Source,
	})
	if err != nil {
		httpx.Fail(c, h.logger, err)
		return
	}

	httpx.OK(c, gin.H{"message": "Message sent! We'll get back to you soon."})
}

type newsletterRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *Handler) newsletter(c *gin.Context) {
	var req newsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, h.logger, apperror.Validation("invalid request body"))
		return
	}

	msg, err := h.svc.Subscribe(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		httpx.Fail(c, h.logger, err)
		return
	}

	httpx.OK(c, gin.H{"message": msg})
}

type eventRegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Event string `json:"event"`
}

func (h *Handler) eventRegister(c *gin.Context) {
	var req eventRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, h.logger, apperror.Validation("invalid request body"))
		return
	}

	err := h.svc.RegisterForEvent(c.Request.Context(), req.Name, req.Email, req.Phone, req.Event)
	if err != nil {
		httpx.Fail(c, h.logger, err)
		return
	}

	httpx.OK(c, gin.H{"message": "Registered! We'll send you the event details."})
}
