package services

import (
	"context"
	"errors"

	"github.com/rscollections/storefront/clients"
	"github.com/rscollections/storefront/models"
)

// memStore is an in-memory SessionStore for service tests.
type memStore struct {
	carts       map[string]*models.Cart
	wishlists   map[string]*models.Wishlist
	pending     map[string]*models.PendingItem
	logins      map[string]*models.LoginState
	redirects   map[string]string
	checkouts   map[string]*models.CheckoutState
	saveCartErr error
}

func newMemStore() *memStore {
	return &memStore{
		carts:     map[string]*models.Cart{},
		wishlists: map[string]*models.Wishlist{},
		pending:   map[string]*models.PendingItem{},
		logins:    map[string]*models.LoginState{},
		redirects: map[string]string{},
		checkouts: map[string]*models.CheckoutState{},
	}
}

func (m *memStore) GetCart(_ context.Context, sid string) (*models.Cart, error) {
	return m.carts[sid].Clone(), nil
}

func (m *memStore) SaveCart(_ context.Context, sid string, cart *models.Cart) error {
	if m.saveCartErr != nil {
		return m.saveCartErr
	}
	m.carts[sid] = cart.Clone()
	return nil
}

func (m *memStore) DeleteCart(_ context.Context, sid string) error {
	delete(m.carts, sid)
	return nil
}

func (m *memStore) GetWishlist(_ context.Context, sid string) (*models.Wishlist, error) {
	return m.wishlists[sid].Clone(), nil
}

func (m *memStore) SaveWishlist(_ context.Context, sid string, wl *models.Wishlist) error {
	m.wishlists[sid] = wl.Clone()
	return nil
}

func (m *memStore) DeleteWishlist(_ context.Context, sid string) error {
	delete(m.wishlists, sid)
	return nil
}

func (m *memStore) GetPending(_ context.Context, sid string) (*models.PendingItem, error) {
	return m.pending[sid], nil
}

func (m *memStore) SetPending(_ context.Context, sid string, item *models.PendingItem) error {
	m.pending[sid] = item
	return nil
}

func (m *memStore) ClearPending(_ context.Context, sid string) error {
	delete(m.pending, sid)
	return nil
}

func (m *memStore) GetLoginState(_ context.Context, sid string) (*models.LoginState, error) {
	return m.logins[sid], nil
}

func (m *memStore) SaveLoginState(_ context.Context, sid string, state *models.LoginState) error {
	m.logins[sid] = state
	return nil
}

func (m *memStore) ClearLoginState(_ context.Context, sid string) error {
	delete(m.logins, sid)
	return nil
}

func (m *memStore) GetRedirectPath(_ context.Context, sid string) (string, error) {
	return m.redirects[sid], nil
}

func (m *memStore) SetRedirectPath(_ context.Context, sid, path string) error {
	m.redirects[sid] = path
	return nil
}

func (m *memStore) ClearRedirectPath(_ context.Context, sid string) error {
	delete(m.redirects, sid)
	return nil
}

func (m *memStore) GetCheckout(_ context.Context, sid string) (*models.CheckoutState, error) {
	return m.checkouts[sid], nil
}

func (m *memStore) SaveCheckout(_ context.Context, sid string, state *models.CheckoutState) error {
	m.checkouts[sid] = state
	return nil
}

func (m *memStore) ClearCheckout(_ context.Context, sid string) error {
	delete(m.checkouts, sid)
	return nil
}

func (m *memStore) ClearSession(_ context.Context, sid string) error {
	delete(m.carts, sid)
	delete(m.wishlists, sid)
	delete(m.pending, sid)
	delete(m.logins, sid)
	delete(m.redirects, sid)
	delete(m.checkouts, sid)
	return nil
}

// fakeProfile stands in for the upstream profile store.
type fakeProfile struct {
	carts     map[string]*models.Cart
	wishlists map[string]*models.Wishlist
	addresses map[string]models.Address

	saveCartErr     error
	saveWishlistErr error
	saveAddressErr  error
}

func newFakeProfile() *fakeProfile {
	return &fakeProfile{
		carts:     map[string]*models.Cart{},
		wishlists: map[string]*models.Wishlist{},
		addresses: map[string]models.Address{},
	}
}

func (f *fakeProfile) SaveAddress(_ context.Context, email string, addr models.Address) error {
	if f.saveAddressErr != nil {
		return f.saveAddressErr
	}
	f.addresses[email] = addr
	return nil
}

func (f *fakeProfile) FetchCart(_ context.Context, email string) (*models.Cart, error) {
	return f.carts[email].Clone(), nil
}

func (f *fakeProfile) SaveCart(_ context.Context, email string, cart *models.Cart) error {
	if f.saveCartErr != nil {
		return f.saveCartErr
	}
	f.carts[email] = cart.Clone()
	return nil
}

func (f *fakeProfile) FetchWishlist(_ context.Context, email string) (*models.Wishlist, error) {
	return f.wishlists[email].Clone(), nil
}

func (f *fakeProfile) SaveWishlist(_ context.Context, email string, wl *models.Wishlist) error {
	if f.saveWishlistErr != nil {
		return f.saveWishlistErr
	}
	f.wishlists[email] = wl.Clone()
	return nil
}

// fakeAuth stands in for the upstream OTP backend.
type fakeAuth struct {
	requestErr error
	resendErr  error
	verifyErr  error
	user       clients.OTPUser

	requested []string
	resent    []string
}

func (f *fakeAuth) RequestOTP(_ context.Context, email string) error {
	f.requested = append(f.requested, email)
	return f.requestErr
}

func (f *fakeAuth) ResendOTP(_ context.Context, email string) error {
	f.resent = append(f.resent, email)
	return f.resendErr
}

func (f *fakeAuth) VerifyOTP(_ context.Context, email, code string) (clients.OTPUser, error) {
	if f.verifyErr != nil {
		return clients.OTPUser{}, f.verifyErr
	}
	if f.user.Email == "" {
		f.user.Email = email
	}
	return f.user, nil
}

// fakeOrders records placed orders.
type fakeOrders struct {
	placeErr error
	placed   []models.Order
}

func (f *fakeOrders) PlaceOrder(_ context.Context, order models.Order) (models.Order, error) {
	if f.placeErr != nil {
		return models.Order{}, f.placeErr
	}
	f.placed = append(f.placed, order)
	return order, nil
}

// fakePayments returns canned payment intents.
type fakePayments struct {
	intentErr error
	amounts   []int64
}

func (f *fakePayments) CreatePaymentIntent(amount int64, _ string) (string, string, error) {
	if f.intentErr != nil {
		return "", "", f.intentErr
	}
	f.amounts = append(f.amounts, amount)
	return "pi_test_123", "pi_test_123_secret", nil
}

// fakeEvents records published order events.
type fakeEvents struct {
	sendErr error
	orders  []models.Order
}

func (f *fakeEvents) SendOrderPlaced(_ context.Context, order models.Order) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.orders = append(f.orders, order)
	return nil
}

var errUpstreamDown = errors.New("upstream down")
