package models

import "time"

// Product is a catalog entry as the storefront serves it. Products come from
// the upstream catalog API and are never mutated locally; the only transform
// applied on the way in is identifier normalization (see UpstreamProduct).
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	SubCategory string    `json:"subCategory,omitempty"`
	Images      []string  `json:"images,omitempty"`
	InStock     bool      `json:"inStock"`
	Description string    `json:"description,omitempty"`
	Rating      float64   `json:"rating,omitempty"`
	Sizes       []string  `json:"sizes,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// UpstreamProduct mirrors the wire shape of the catalog API, which is loose
// about identifiers (any of _id, productId, id) and omits inStock for
// stocked items.
type UpstreamProduct struct {
	MongoID     string   `json:"_id"`
	ProductID   string   `json:"productId"`
	PlainID     string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory"`
	Images      []string `json:"images"`
	InStock     *bool    `json:"inStock"`
	Description string   `json:"description"`
	Rating      float64  `json:"rating"`
	Sizes       []string `json:"sizes"`
	CreatedAt   string   `json:"createdAt"`
}

// Normalize converts an upstream document into a Product. The identifier is
// the first non-empty of _id, productId, id. A missing inStock flag means
// the item is purchasable; only an explicit false marks it out of stock.
func (u UpstreamProduct) Normalize() Product {
	id := u.MongoID
	if id == "" {
		id = u.ProductID
	}
	if id == "" {
		id = u.PlainID
	}

	inStock := true
	if u.InStock != nil {
		inStock = *u.InStock
	}

	var createdAt time.Time
	if u.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, u.CreatedAt); err == nil {
			createdAt = t
		}
	}

	return Product{
		ID:          id,
		Name:        u.Name,
		Price:       u.Price,
		Category:    u.Category,
		SubCategory: u.SubCategory,
		Images:      u.Images,
		InStock:     inStock,
		Description: u.Description,
		Rating:      u.Rating,
		Sizes:       u.Sizes,
		CreatedAt:   createdAt,
	}
}

// NormalizeAll maps a page of upstream documents into Products.
func NormalizeAll(docs []UpstreamProduct) []Product {
	products := make([]Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.Normalize())
	}
	return products
}
