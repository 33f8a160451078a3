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

func customerSession() models.Session {
	return models.Session{ID: "sid-1", Email: "jane@example.com", Role: models.RoleCustomer}
}

func guestSession() models.Session {
	return models.Session{ID: "sid-guest", Role: models.RoleGuest}
}

func TestCartAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Add Then Increment Same Line", func(t *testing.T) {
		store := newMemStore()
		profile := newFakeProfile()
		svc := NewCartService(store, profile)
		sess := customerSession()

		ring := product("p1", "Amber Ring", "rings", 300)
		cart, err := svc.AddItem(ctx, sess, ring, 1, "M")
		require.NoError(t, err)
		assert.Equal(t, 1, cart.Count())

		cart, err = svc.AddItem(ctx, sess, ring, 2, "")
		require.NoError(t, err)
		assert.Equal(t, 1, cart.Count())
		assert.Equal(t, 3, cart.Items[0].Quantity)
		assert.Equal(t, "M", cart.Items[0].SelectedSize)
	})

	t.Run("Count Is Distinct Lines Not Quantity Sum", func(t *testing.T) {
		store := newMemStore()
		svc := NewCartService(store, newFakeProfile())
		sess := customerSession()

		_, err := svc.AddItem(ctx, sess, product("p1", "A", "rings", 100), 5, "")
		require.NoError(t, err)
		cart, err := svc.AddItem(ctx, sess, product("p2", "B", "rings", 100), 4, "")
		require.NoError(t, err)
		assert.Equal(t, 2, cart.Count())
	})

	t.Run("Syncs To Profile Store", func(t *testing.T) {
		store := newMemStore()
		profile := newFakeProfile()
		svc := NewCartService(store, profile)
		sess := customerSession()

		_, err := svc.AddItem(ctx, sess, product("p1", "A", "rings", 100), 1, "")
		require.NoError(t, err)

		remote := profile.carts[sess.Email]
		require.NotNil(t, remote)
		assert.Equal(t, 1, remote.Count())
	})

	t.Run("Guest Parks Pending And Gets Login Required", func(t *testing.T) {
		store := newMemStore()
		svc := NewCartService(store, newFakeProfile())
		sess := guestSession()

		_, err := svc.AddItem(ctx, sess, product("p1", "A", "rings", 100), 2, "L")
		assert.ErrorIs(t, err, apperrors.ErrLoginRequired)

		pending := store.pending[sess.ID]
		require.NotNil(t, pending)
		assert.Equal(t, models.PendingKindCart, pending.Kind)
		assert.Equal(t, "p1", pending.Product.ID)
		assert.Equal(t, 2, pending.Quantity)
		assert.Equal(t, "L", pending.SelectedSize)
	})

	t.Run("Upstream Failure Rolls Back Local Write", func(t *testing.T) {
		store := newMemStore()
		profile := newFakeProfile()
		svc := NewCartService(store, profile)
		sess := customerSession()

		_, err := svc.AddItem(ctx, sess, product("p1", "A", "rings", 100), 1, "")
		require.NoError(t, err)

		profile.saveCartErr = errUpstreamDown
		_, err = svc.AddItem(ctx, sess, product("p2", "B", "rings", 200), 1, "")
		require.Error(t, err)

		var appErr *apperrors.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ErrUpstream.Code, appErr.Code)

		cart, err := svc.Get(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, 1, cart.Count())
		assert.Equal(t, "p1", cart.Items[0].ProductID)
	})
}

func TestCartSetQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("Overwrites Not Increments", func(t *testing.T) {
		store := newMemStore()
		svc := NewCartService(store, newFakeProfile())
		sess := customerSession()

		_, err := svc.AddItem(ctx, sess, product("p1", "A", "rings", 100), 3, "")
		require.NoError(t, err)

		cart, err := svc.SetQuantity(ctx, sess, "p1", 2)
		require.NoError(t, err)
		assert.Equal(t, 2, cart.Items[0].Quantity)
	})

	t.Run("Rejects Quantity Below One", func(t *testing.T) {
		store := newMemStore()
		svc := NewCartService(store, newFakeProfile())
		sess := customerSession()

		_, err := svc.AddItem(ctx, sess, product("p1", "A", "rings", 100), 1, "")
		require.NoError(t, err)

		_, err = svc.SetQuantity(ctx, sess, "p1", 0)
		assert.ErrorIs(t, err, apperrors.ErrInvalidQuantity)

		cart, err := svc.Get(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, 1, cart.Items[0].Quantity)
	})

	t.Run("Unknown Product Is Not Found", func(t *testing.T) {
		svc := NewCartService(newMemStore(), newFakeProfile())
		_, err := svc.SetQuantity(ctx, customerSession(), "missing", 2)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestCartRemoveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Removes Line", func(t *testing.T) {
		store := newMemStore()
		svc := NewCartService(store, newFakeProfile())
		sess := customerSession()

		_, err := svc.AddItem(ctx, sess, product("p1", "A", "rings", 100), 1, "")
		require.NoError(t, err)

		cart, err := svc.RemoveItem(ctx, sess, "p1")
		require.NoError(t, err)
		assert.Equal(t, 0, cart.Count())
	})

	t.Run("Absent Product Is A No Op", func(t *testing.T) {
		store := newMemStore()
		svc := NewCartService(store, newFakeProfile())
		sess := customerSession()

		_, err := svc.AddItem(ctx, sess, product("p1", "A", "rings", 100), 1, "")
		require.NoError(t, err)

		cart, err := svc.RemoveItem(ctx, sess, "never-added")
		require.NoError(t, err)
		assert.Equal(t, 1, cart.Count())
	})
}

func TestCartClear(t *testing.T) {
	ctx := context.Background()

	t.Run("Empties Local And Upstream", func(t *testing.T) {
		store := newMemStore()
		profile := newFakeProfile()
		svc := NewCartService(store, profile)
		sess := customerSession()

		_, err := svc.AddItem(ctx, sess, product("p1", "A", "rings", 100), 1, "")
		require.NoError(t, err)

		require.NoError(t, svc.Clear(ctx, sess))
		cart, err := svc.Get(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, 0, cart.Count())
		assert.Equal(t, 0, profile.carts[sess.Email].Count())
	})

	t.Run("Guest Is Gated", func(t *testing.T) {
		store := newMemStore()
		svc := NewCartService(store, newFakeProfile())

		err := svc.Clear(ctx, guestSession())
		assert.ErrorIs(t, err, apperrors.ErrLoginRequired)
	})
}

func TestCartTotals(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewCartService(store, newFakeProfile())
	sess := customerSession()

	_, err := svc.AddItem(ctx, sess, product("p1", "A", "rings", 150), 2, "")
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, sess, product("p2", "B", "rings", 99.5), 1, "")
	require.NoError(t, err)

	assert.InDelta(t, 399.5, cart.Total(), 1e-9)
}

func TestCartHydrate(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	profile := newFakeProfile()
	svc := NewCartService(store, profile)
	sess := customerSession()

	profile.carts[sess.Email] = &models.Cart{Items: []models.CartItem{
		{ProductID: "remote-1", Name: "Saved", Price: 50, Quantity: 1},
	}}

	require.NoError(t, svc.Hydrate(ctx, sess))

	cart, err := svc.Get(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, 1, cart.Count())
	assert.Equal(t, "remote-1", cart.Items[0].ProductID)
}
