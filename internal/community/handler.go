package community

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rageventura-api/internal/httpx"
)

// Handler serves the public community endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/users")
	g.GET("", h.list)
	g.GET("/search", h.search)
	g.GET("/featured", h.featured)
	g.GET("/stats", h.stats)
}

func (h *Handler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	members, total, err := h.svc.List(c.Request.Context(), ListParams{
		Page:  page,
		Limit: limit,
		Order: c.DefaultQuery("order", "newest"),
		Role:  c.Query("role"),
	})
	if err != nil {
		httpx.Fail(c, h.logger, err)
		return
	}

	httpx.OK(c, gin.H{
		"users": members,
		"total": total,
		"page":  page,
	})
}

func (h *Handler) search(c *gin.Context) {
	members, err := h.svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		httpx.Fail(c, h.logger, err)
		return
	}

	httpx.OK(c, gin.H{
		"users": members,
		"count": len(members),
	})
}

func (h *Handler) featured(c *gin.Context) {
	featured, err := h.svc.FeaturedMembers(c.Request.Context())
	if err != nil {
		httpx.Fail(c, h.logger, err)
		return
	}

	httpx.OK(c, gin.H{
		"featured_djs": featured.FeaturedDJs,
		"top_users":    featured.TopUsers,
		"new_members":  featured.NewMembers,
	})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.svc.CommunityStats(c.Request.Context())
	if err != nil {
		httpx.Fail(c, h.logger, err)
		return
	}

	httpx.OK(c, gin.H{"stats": stats})
}
