package repository

import (
	"context"

	"github.com/rscollections/storefront/models"
)

// SessionStore holds all per-session storefront state: the cart and wishlist
// caches, the single pending-item slot, the OTP login flow state, the
// pre-login redirect path, and the pending card-checkout record.
//
// Get methods return (nil, nil) when no state exists for the session.
type SessionStore interface {
	GetCart(ctx context.Context, sid string) (*models.Cart, error)
	SaveCart(ctx context.Context, sid string, cart *models.Cart) error
	DeleteCart(ctx context.Context, sid string) error

	GetWishlist(ctx context.Context, sid string) (*models.Wishlist, error)
	SaveWishlist(ctx context.Context, sid string, wl *models.Wishlist) error
	DeleteWishlist(ctx context.Context, sid string) error

	GetPending(ctx context.Context, sid string) (*models.PendingItem, error)
	SetPending(ctx context.Context, sid string, item *models.PendingItem) error
	ClearPending(ctx context.Context, sid string) error

	GetLoginState(ctx context.Context, sid string) (*models.LoginState, error)
	SaveLoginState(ctx context.Context, sid string, state *models.LoginState) error
	ClearLoginState(ctx context.Context, sid string) error

	GetRedirectPath(ctx context.Context, sid string) (string, error)
	SetRedirectPath(ctx context.Context, sid, path string) error
	ClearRedirectPath(ctx context.Context, sid string) error

	GetCheckout(ctx context.Context, sid string) (*models.CheckoutState, error)
	SaveCheckout(ctx context.Context, sid string, state *models.CheckoutState) error
	ClearCheckout(ctx context.Context, sid string) error

	// ClearSession drops every key for the session (logout, order placed
	// only clears the cart).
	ClearSession(ctx context.Context, sid string) error
}
