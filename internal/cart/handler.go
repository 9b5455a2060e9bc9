package cart

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rageventura-api/internal/apperror"
	"rageventura-api/internal/httpx"
)

// CartCookieName identifies the anonymous cart owner. Separate from
// the session cookie: carts never require a signed-in user.
const CartCookieName = "rv_cart"

const cartCookieMaxAge = 365 * 24 * time.Hour

// Handler serves the cart endpoints. Each request materializes the
// client's cart from storage, applies one mutation, and responds with
// the resulting lines and totals.
type Handler struct {
	storage Storage
	pricing Pricing
	secure  bool
	logger  *zap.Logger
}

func NewHandler(storage Storage, pricing Pricing, secure bool, logger *zap.Logger) *Handler {
	return &Handler{
		storage: storage,
		pricing: pricing,
		secure:  secure,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/cart")
	g.GET("", h.get)
	g.POST("/items", h.addItem)
	g.PATCH("/items", h.updateQuantity)
	g.DELETE("/items", h.removeItem)
	g.DELETE("", h.clear)
}

// cartID reads the cart cookie, minting a fresh id (and cookie) for
// first-time clients.
func (h *Handler) cartID(c *gin.Context) string {
	if cookie, err := c.Request.Cookie(CartCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CartCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(cartCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (h *Handler) load(c *gin.Context) *Cart {
	return New(c.Request.Context(), h.cartID(c), h.storage, h.pricing, h.logger)
}

// itemView is the response shape of a cart line. Money leaves the API
// as plain JSON numbers; decimals stay internal.
type itemView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Variant  string  `json:"variant,omitempty"`
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
}

func viewItems(items []Item) []itemView {
	views := make([]itemView, len(items))
	for i, it := range items {
		views[i] = itemView{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price.InexactFloat64(),
			Image:    it.Image,
			Variant:  it.Variant,
			Category: it.Category,
			Quantity: it.Quantity,
		}
	}
	return views
}

func (h *Handler) respond(c *gin.Context, cart *Cart, extra gin.H) {
	totals := cart.Totals()
	body := gin.H{
		"cart": gin.H{
			"items":      viewItems(cart.Items()),
			"item_count": cart.ItemCount(),
			"subtotal":   totals.Subtotal.InexactFloat64(),
			"shipping":   totals.Shipping.InexactFloat64(),
			"tax":        totals.Tax.InexactFloat64(),
			"total":      totals.GrandTotal.InexactFloat64(),
		},
	}
	for k, v := range extra {
		body[k] = v
	}
	httpx.OK(c, body)
}

func (h *Handler) get(c *gin.Context) {
	h.respond(c, h.load(c), nil)
}

type addItemRequest struct {
	ID       string          `json:"id" binding:"required"`
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Variant  string          `json:"variant"`
	Category string          `json:"category"`
	Quantity int             `json:"quantity"`
}

func (h *Handler) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, h.logger, apperror.Validation("product id and name are required"))
		return
	}
	if req.Price.IsNegative() {
		httpx.Fail(c, h.logger, apperror.Validation("price cannot be negative"))
		return
	}

	cart := h.load(c)
	msg := cart.AddItem(c.Request.Context(), Item{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Image:    req.Image,
		Variant:  req.Variant,
		Category: req.Category,
		Quantity: req.Quantity,
	})
	h.respond(c, cart, gin.H{"message": msg})
}

type updateQuantityRequest struct {
	ID       string `json:"id" binding:"required"`
	Variant  string `json:"variant"`
	Quantity int    `json:"quantity"`
}

func (h *Handler) updateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, h.logger, apperror.Validation("product id is required"))
		return
	}

	cart := h.load(c)
	cart.UpdateQuantity(c.Request.Context(), req.ID, req.Quantity, req.Variant)
	h.respond(c, cart, nil)
}

func (h *Handler) removeItem(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		httpx.Fail(c, h.logger, apperror.Validation("product id is required"))
		return
	}

	cart := h.load(c)
	cart.RemoveItem(c.Request.Context(), id, c.Query("variant"))
	h.respond(c, cart, nil)
}

func (h *Handler) clear(c *gin.Context) {
	cart := h.load(c)
	cart.Clear(c.Request.Context())
	h.respond(c, cart, nil)
}
