package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rscollections/storefront/models"
	"github.com/rscollections/storefront/pkg/apperrors"
)

func validAddress() models.Address {
	return models.Address{
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		Phone:        "9876543210",
		DoorNo:       "12B",
		Landmark:     "Near the park",
		Pincode:      "600001",
		AddressLine1: "4 Marina Street",
		City:         "Chennai",
		State:        "TN",
		Country:      "India",
	}
}

type checkoutFixture struct {
	store    *memStore
	profile  *fakeProfile
	orders   *fakeOrders
	payments *fakePayments
	events   *fakeEvents
	cart     *CartService
	svc      *CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		store:    newMemStore(),
		profile:  newFakeProfile(),
		orders:   &fakeOrders{},
		payments: &fakePayments{},
		events:   &fakeEvents{},
	}
	f.cart = NewCartService(f.store, f.profile)
	f.svc = NewCheckoutService(f.store, f.profile, f.orders, f.payments, f.events, f.cart)
	return f
}

func (f *checkoutFixture) fillCart(t *testing.T, sess models.Session) {
	t.Helper()
	_, err := f.cart.AddItem(context.Background(), sess, product("p1", "Amber Ring", "rings", 300), 2, "")
	require.NoError(t, err)
}

func TestCheckoutStartValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("Guest Is Gated", func(t *testing.T) {
		f := newCheckoutFixture()
		_, err := f.svc.Start(ctx, guestSession(), validAddress(), models.PaymentMethodCOD)
		assert.ErrorIs(t, err, apperrors.ErrLoginRequired)
	})

	t.Run("Missing Fields Come Back Keyed By Field", func(t *testing.T) {
		f := newCheckoutFixture()
		sess := customerSession()
		f.fillCart(t, sess)

		addr := validAddress()
		addr.City = ""
		addr.Pincode = ""
		_, err := f.svc.Start(ctx, sess, addr, models.PaymentMethodCOD)

		var fieldErr *apperrors.FieldValidation
		require.True(t, errors.As(err, &fieldErr))
		assert.Contains(t, fieldErr.Fields, "city")
		assert.Contains(t, fieldErr.Fields, "pincode")
		assert.NotContains(t, fieldErr.Fields, "name")
	})

	t.Run("Bad Email Flagged", func(t *testing.T) {
		f := newCheckoutFixture()
		sess := customerSession()
		f.fillCart(t, sess)

		addr := validAddress()
		addr.Email = "not-an-email"
		_, err := f.svc.Start(ctx, sess, addr, models.PaymentMethodCOD)

		var fieldErr *apperrors.FieldValidation
		require.True(t, errors.As(err, &fieldErr))
		assert.Contains(t, fieldErr.Fields, "email")
	})

	t.Run("Address Line Two Optional", func(t *testing.T) {
		f := newCheckoutFixture()
		sess := customerSession()
		f.fillCart(t, sess)

		_, err := f.svc.Start(ctx, sess, validAddress(), models.PaymentMethodCOD)
		assert.NoError(t, err)
	})

	t.Run("Empty Cart Is A Conflict", func(t *testing.T) {
		f := newCheckoutFixture()
		_, err := f.svc.Start(ctx, customerSession(), validAddress(), models.PaymentMethodCOD)
		assert.ErrorIs(t, err, apperrors.ErrEmptyCart)
	})

	t.Run("Unknown Payment Method Rejected", func(t *testing.T) {
		f := newCheckoutFixture()
		sess := customerSession()
		f.fillCart(t, sess)
		_, err := f.svc.Start(ctx, sess, validAddress(), "crypto")
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})
}

func TestCheckoutCashOnDelivery(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	sess := customerSession()
	f.fillCart(t, sess)

	result, err := f.svc.Start(ctx, sess, validAddress(), models.PaymentMethodCOD)
	require.NoError(t, err)

	assert.Equal(t, CheckoutStepDone, result.Step)
	require.NotNil(t, result.Order)
	assert.Equal(t, models.PaymentMethodCOD, result.Order.Payment.Method)
	assert.Equal(t, models.PaymentStatusPending, result.Order.Payment.Status)
	assert.InDelta(t, 600.0, result.Order.Total, 1e-9)

	// Order went upstream, cart is gone, event published.
	require.Len(t, f.orders.placed, 1)
	cart, err := f.cart.Get(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 0, cart.Count())
	assert.Len(t, f.events.orders, 1)

	// Address saved to the profile as a side effect.
	assert.Equal(t, "Chennai", f.profile.addresses[sess.Email].City)
	assert.Equal(t, "4 Marina Street", f.profile.addresses[sess.Email].AddressLine)
}

func TestCheckoutCard(t *testing.T) {
	ctx := context.Background()

	t.Run("Start Opens Intent And Parks State", func(t *testing.T) {
		f := newCheckoutFixture()
		sess := customerSession()
		f.fillCart(t, sess)

		result, err := f.svc.Start(ctx, sess, validAddress(), models.PaymentMethodCard)
		require.NoError(t, err)

		assert.Equal(t, CheckoutStepPayment, result.Step)
		assert.Equal(t, "pi_test_123_secret", result.ClientSecret)
		assert.Nil(t, result.Order)

		// Amount is converted to the smallest currency unit.
		require.Len(t, f.payments.amounts, 1)
		assert.Equal(t, int64(60000), f.payments.amounts[0])

		// Nothing placed yet; cart untouched.
		assert.Empty(t, f.orders.placed)
		cart, err := f.cart.Get(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, 1, cart.Count())
	})

	t.Run("Confirm Places Paid Order", func(t *testing.T) {
		f := newCheckoutFixture()
		sess := customerSession()
		f.fillCart(t, sess)

		_, err := f.svc.Start(ctx, sess, validAddress(), models.PaymentMethodCard)
		require.NoError(t, err)

		result, err := f.svc.Confirm(ctx, sess, "pi_test_123")
		require.NoError(t, err)

		assert.Equal(t, CheckoutStepDone, result.Step)
		require.NotNil(t, result.Order)
		assert.Equal(t, models.PaymentStatusPaid, result.Order.Payment.Status)
		assert.Equal(t, "pi_test_123", result.Order.Payment.Reference)

		cart, err := f.cart.Get(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, 0, cart.Count())
		assert.Nil(t, f.store.checkouts[sess.ID])
	})

	t.Run("Confirm Without Pending Checkout Fails", func(t *testing.T) {
		f := newCheckoutFixture()
		_, err := f.svc.Confirm(ctx, customerSession(), "pi_test_123")
		assert.Error(t, err)
	})

	t.Run("Gateway Failure Surfaces As Payment Error", func(t *testing.T) {
		f := newCheckoutFixture()
		f.payments.intentErr = errUpstreamDown
		sess := customerSession()
		f.fillCart(t, sess)

		_, err := f.svc.Start(ctx, sess, validAddress(), models.PaymentMethodCard)
		var appErr *apperrors.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ErrPaymentFailed.Code, appErr.Code)
	})
}

func TestCheckoutOrderFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.orders.placeErr = errUpstreamDown
	sess := customerSession()
	f.fillCart(t, sess)

	_, err := f.svc.Start(ctx, sess, validAddress(), models.PaymentMethodCOD)
	require.Error(t, err)

	// The cart is only cleared once the order is recorded upstream.
	cart, err := f.cart.Get(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Count())
}

func TestCheckoutEventFailureDoesNotFailOrder(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.events.sendErr = errUpstreamDown
	sess := customerSession()
	f.fillCart(t, sess)

	result, err := f.svc.Start(ctx, sess, validAddress(), models.PaymentMethodCOD)
	require.NoError(t, err)
	assert.Equal(t, CheckoutStepDone, result.Step)
}

func TestCheckoutAddressSaveFailureDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.profile.saveAddressErr = errUpstreamDown
	sess := customerSession()
	f.fillCart(t, sess)

	_, err := f.svc.Start(ctx, sess, validAddress(), models.PaymentMethodCOD)
	assert.NoError(t, err)
}
