package models

import "time"

// CartItem is a product snapshot plus quantity, keyed by product ID. Adding
// an item that is already present merges into the existing line instead of
// duplicating it.
type CartItem struct {
	ProductID    string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Image        string  `json:"image,omitempty"`
	Quantity     int     `json:"quantity"`
	SelectedSize string  `json:"selectedSize,omitempty"`
}

// Cart is the per-session cart state cached locally and mirrored to the
// upstream profile store for authenticated users.
type Cart struct {
	UserEmail string     `json:"userEmail,omitempty"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Find returns the index of the line item with the given product ID, or -1.
func (c *Cart) Find(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// Count is the number of distinct line items. Badge counts deliberately do
// not sum quantities.
func (c *Cart) Count() int {
	return len(c.Items)
}

// Total is the cart subtotal across all line items.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Clone copies the cart and its items so callers can snapshot state before
// an optimistic write.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	dup := *c
	dup.Items = append([]CartItem(nil), c.Items...)
	return &dup
}

// Wishlist holds presence-only product snapshots keyed by product ID.
type Wishlist struct {
	UserEmail string    `json:"userEmail,omitempty"`
	Items     []Product `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *Wishlist) Find(productID string) int {
	for i, item := range w.Items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

func (w *Wishlist) Contains(productID string) bool {
	return w.Find(productID) >= 0
}

func (w *Wishlist) Count() int {
	return len(w.Items)
}

func (w *Wishlist) Clone() *Wishlist {
	if w == nil {
		return nil
	}
	dup := *w
	dup.Items = append([]Product(nil), w.Items...)
	return &dup
}

// Pending item kinds, set when a guest attempts a gated mutation so the item
// can be replayed right after login.
const (
	PendingKindCart     = "cart"
	PendingKindWishlist = "wishlist"
)

// PendingItem is the single-slot queue for an item a guest tried to add
// before logging in.
type PendingItem struct {
	Kind         string  `json:"kind"`
	Product      Product `json:"product"`
	Quantity     int     `json:"quantity,omitempty"`
	SelectedSize string  `json:"selectedSize,omitempty"`
}
