package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/rscollections/storefront/models"
	"github.com/rscollections/storefront/pkg/apperrors"
	"github.com/rscollections/storefront/repository"
)

// CartService maintains the session cart as a cache over the upstream
// profile store. Writes land locally first and are pushed upstream; when the
// upstream push fails the local write is rolled back so the caller can
// retry from a consistent state.
//
// AddItem increments and SetQuantity overwrites; they are deliberately
// separate operations.
type CartService struct {
	store   repository.SessionStore
	profile ProfileAPI
}

func NewCartService(store repository.SessionStore, profile ProfileAPI) *CartService {
	return &CartService{store: store, profile: profile}
}

// Get returns the session cart, empty when none exists yet.
func (s *CartService) Get(ctx context.Context, sess models.Session) (*models.Cart, error) {
	cart, err := s.store.GetCart(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &models.Cart{UserEmail: sess.Email, Items: []models.CartItem{}}
	}
	return cart, nil
}

// AddItem inserts a new line or increments an existing one. Guests get the
// item parked in the pending slot and ErrLoginRequired back.
func (s *CartService) AddItem(ctx context.Context, sess models.Session, product models.Product, quantity int, size string) (*models.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}
	if !sess.Authenticated() {
		if err := s.store.SetPending(ctx, sess.ID, &models.PendingItem{
			Kind:         models.PendingKindCart,
			Product:      product,
			Quantity:     quantity,
			SelectedSize: size,
		}); err != nil {
			zap.L().Warn("failed to park pending cart item", zap.Error(err))
		}
		return nil, apperrors.ErrLoginRequired
	}

	cart, err := s.Get(ctx, sess)
	if err != nil {
		return nil, err
	}
	prev := cart.Clone()

	if idx := cart.Find(product.ID); idx >= 0 {
		cart.Items[idx].Quantity += quantity
		if size != "" {
			cart.Items[idx].SelectedSize = size
		}
	} else {
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		cart.Items = append(cart.Items, models.CartItem{
			ProductID:    product.ID,
			Name:         product.Name,
			Price:        product.Price,
			Image:        image,
			Quantity:     quantity,
			SelectedSize: size,
		})
	}

	if err := s.persist(ctx, sess, prev, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// SetQuantity overwrites a line's quantity. Values below 1 are rejected and
// leave the cart unchanged.
func (s *CartService) SetQuantity(ctx context.Context, sess models.Session, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, apperrors.ErrInvalidQuantity
	}
	if !sess.Authenticated() {
		return nil, apperrors.ErrLoginRequired
	}

	cart, err := s.Get(ctx, sess)
	if err != nil {
		return nil, err
	}
	idx := cart.Find(productID)
	if idx < 0 {
		return nil, apperrors.ErrNotFound
	}
	prev := cart.Clone()
	cart.Items[idx].Quantity = quantity

	if err := s.persist(ctx, sess, prev, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem deletes a line by product ID; an absent ID is a no-op, not an
// error.
func (s *CartService) RemoveItem(ctx context.Context, sess models.Session, productID string) (*models.Cart, error) {
	if !sess.Authenticated() {
		return nil, apperrors.ErrLoginRequired
	}

	cart, err := s.Get(ctx, sess)
	if err != nil {
		return nil, err
	}
	idx := cart.Find(productID)
	if idx < 0 {
		return cart, nil
	}
	prev := cart.Clone()
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

	if err := s.persist(ctx, sess, prev, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the cart locally and upstream. Used after a placed order and
// from the cart screen; gated like every other mutation.
func (s *CartService) Clear(ctx context.Context, sess models.Session) error {
	if !sess.Authenticated() {
		return apperrors.ErrLoginRequired
	}
	if err := s.store.DeleteCart(ctx, sess.ID); err != nil {
		return err
	}
	empty := &models.Cart{UserEmail: sess.Email, Items: []models.CartItem{}}
	if err := s.profile.SaveCart(ctx, sess.Email, empty); err != nil {
		zap.L().Warn("failed to clear upstream cart", zap.Error(err))
	}
	return nil
}

// Hydrate pulls the profile-store cart into the session, replacing whatever
// local state exists. Called right after login.
func (s *CartService) Hydrate(ctx context.Context, sess models.Session) error {
	remote, err := s.profile.FetchCart(ctx, sess.Email)
	if err != nil {
		return err
	}
	if remote == nil {
		return nil
	}
	remote.UserEmail = sess.Email
	return s.store.SaveCart(ctx, sess.ID, remote)
}

func (s *CartService) persist(ctx context.Context, sess models.Session, prev, next *models.Cart) error {
	if err := s.store.SaveCart(ctx, sess.ID, next); err != nil {
		return err
	}
	if err := s.profile.SaveCart(ctx, sess.Email, next); err != nil {
		s.rollback(ctx, sess, prev)
		return apperrors.Wrap(apperrors.ErrUpstream, err)
	}
	return nil
}

func (s *CartService) rollback(ctx context.Context, sess models.Session, prev *models.Cart) {
	var err error
	if prev == nil || len(prev.Items) == 0 {
		err = s.store.DeleteCart(ctx, sess.ID)
	} else {
		err = s.store.SaveCart(ctx, sess.ID, prev)
	}
	if err != nil {
		zap.L().Error("cart rollback failed", zap.String("session", sess.ID), zap.Error(err))
	}
}
