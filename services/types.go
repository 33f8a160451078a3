package services

import (
	"context"

	"github.com/rscollections/storefront/clients"
	"github.com/rscollections/storefront/models"
)

// CatalogAPI is the slice of the upstream client the catalog service needs.
type CatalogAPI interface {
	GetProducts(ctx context.Context, q clients.ProductQuery) ([]models.UpstreamProduct, error)
	GetProduct(ctx context.Context, id string) (models.UpstreamProduct, error)
	GetPopularWeeklyByCategory(ctx context.Context, limit int) (map[string][]models.UpstreamProduct, error)
}

// ProfileAPI is the upstream per-user profile store that cart and wishlist
// state reconciles against.
type ProfileAPI interface {
	SaveAddress(ctx context.Context, email string, addr models.Address) error
	FetchCart(ctx context.Context, email string) (*models.Cart, error)
	SaveCart(ctx context.Context, email string, cart *models.Cart) error
	FetchWishlist(ctx context.Context, email string) (*models.Wishlist, error)
	SaveWishlist(ctx context.Context, email string, wl *models.Wishlist) error
}

// AuthAPI is the upstream OTP backend.
type AuthAPI interface {
	RequestOTP(ctx context.Context, email string) error
	ResendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (clients.OTPUser, error)
}

// OrderAPI places orders upstream.
type OrderAPI interface {
	PlaceOrder(ctx context.Context, order models.Order) (models.Order, error)
}

// PaymentProvider opens a payment for the card branch of checkout.
type PaymentProvider interface {
	CreatePaymentIntent(amount int64, currency string) (id, clientSecret string, err error)
}

// OrderEventPublisher emits best-effort order events.
type OrderEventPublisher interface {
	SendOrderPlaced(ctx context.Context, order models.Order) error
}
