package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Item is one line in the cart. Lines merge on (ID, Variant); Image is
// an opaque presentation string carried through untouched.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Variant  string          `json:"variant,omitempty"`
	Category string          `json:"category"`
	Quantity int             `json:"quantity"`
}

func (i Item) sameLine(id, variant string) bool {
	return i.ID == id && i.Variant == variant
}

// Totals are derived from the current lines on every call, never
// cached.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Shipping   decimal.Decimal `json:"shipping"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"total"`
}

// Listener receives the full line collection after every mutation.
type Listener func(items []Item)

// Cart is the ordered line collection for one client, persisted whole
// to durable storage on every mutation. Storage failures are logged
// and swallowed: the in-memory state stays authoritative and a
// mutation never fails because persistence did.
type Cart struct {
	mu        sync.Mutex
	key       string
	items     []Item
	storage   Storage
	pricing   Pricing
	logger    *zap.Logger
	listeners map[int]Listener
	nextID    int
}

// New loads the cart persisted under key. A missing, corrupt or
// unreadable blob yields an empty cart; that is never an error.
func New(ctx context.Context, key string, storage Storage, pricing Pricing, logger *zap.Logger) *Cart {
	c := &Cart{
		key:       key,
		items:     []Item{},
		storage:   storage,
		pricing:   pricing,
		logger:    logger,
		listeners: make(map[int]Listener),
	}

	data, err := storage.Load(ctx, key)
	if err != nil {
		logger.Warn("cart load failed, starting empty",
			zap.String("cart", key), zap.Error(err))
		return c
	}
	if len(data) == 0 {
		return c
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn("cart blob corrupt, starting empty",
			zap.String("cart", key), zap.Error(err))
		return c
	}

	for _, it := range items {
		if it.ID == "" || it.Quantity < 1 {
			continue
		}
		c.items = append(c.items, it)
	}
	return c
}

// AddItem merges into an existing (id, variant) line or appends a new
// one. Returns the user-facing notification message.
func (c *Cart) AddItem(ctx context.Context, item Item) string {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	c.mu.Lock()
	merged := false
	for i := range c.items {
		if c.items[i].sameLine(item.ID, item.Variant) {
			c.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		c.items = append(c.items, item)
	}
	c.persistAndNotify(ctx)
	c.mu.Unlock()

	return fmt.Sprintf("%s added to cart", item.Name)
}

// RemoveItem deletes every line matching id, narrowed to one line when
// variant is set. Missing lines are a no-op.
func (c *Cart) RemoveItem(ctx context.Context, id, variant string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0]
	for _, it := range c.items {
		match := it.ID == id
		if variant != "" {
			match = it.sameLine(id, variant)
		}
		if !match {
			kept = append(kept, it)
		}
	}
	c.items = kept
	c.persistAndNotify(ctx)
}

// UpdateQuantity sets the line's quantity, clamped to a minimum of 1.
// An empty variant matches the first line with the id, same as
// RemoveItem. Removal only ever happens through RemoveItem. Unknown
// lines are a no-op.
func (c *Cart) UpdateQuantity(ctx context.Context, id string, quantity int, variant string) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		match := c.items[i].ID == id
		if variant != "" {
			match = c.items[i].sameLine(id, variant)
		}
		if match {
			c.items[i].Quantity = quantity
			c.persistAndNotify(ctx)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = []Item{}
	c.persistAndNotify(ctx)
}

// Items returns a copy of the current lines.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Item(nil), c.items...)
}

// ItemCount is the total quantity across all lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, it := range c.items {
		count += it.Quantity
	}
	return count
}

// Totals recomputes all derived amounts from the current lines.
func (c *Cart) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()

	subtotal := decimal.Zero
	for _, it := range c.items {
		subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return c.pricing.totals(subtotal)
}

// Subscribe registers a change listener and returns the id to
// unsubscribe with.
func (c *Cart) Subscribe(fn Listener) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	c.listeners[c.nextID] = fn
	return c.nextID
}

// Unsubscribe removes a previously registered listener.
func (c *Cart) Unsubscribe(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.listeners, id)
}

// persistAndNotify runs under the cart lock: persist first, then call
// every listener synchronously with the resulting lines.
func (c *Cart) persistAndNotify(ctx context.Context) {
	data, err := json.Marshal(c.items)
	if err != nil {
		c.logger.Error("cart marshal failed", zap.String("cart", c.key), zap.Error(err))
	} else if err := c.storage.Save(ctx, c.key, data); err != nil {
		c.logger.Error("cart save failed", zap.String("cart", c.key), zap.Error(err))
	}

	snapshot := append([]Item(nil), c.items...)
	for _, fn := range c.listeners {
		fn(snapshot)
	}
}
