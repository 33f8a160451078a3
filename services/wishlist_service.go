package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/rscollections/storefront/models"
	"github.com/rscollections/storefront/pkg/apperrors"
	"github.com/rscollections/storefront/repository"
)

// WishlistService mirrors the cart layering for presence-only saved items.
// Membership is keyed by product ID; adding an existing product is a no-op.
type WishlistService struct {
	store   repository.SessionStore
	profile ProfileAPI
}

func NewWishlistService(store repository.SessionStore, profile ProfileAPI) *WishlistService {
	return &WishlistService{store: store, profile: profile}
}

func (s *WishlistService) Get(ctx context.Context, sess models.Session) (*models.Wishlist, error) {
	wl, err := s.store.GetWishlist(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	if wl == nil {
		wl = &models.Wishlist{UserEmail: sess.Email, Items: []models.Product{}}
	}
	return wl, nil
}

// Add saves a product to the wishlist. Guests get the item parked in the
// pending slot and ErrLoginRequired back.
func (s *WishlistService) Add(ctx context.Context, sess models.Session, product models.Product) (*models.Wishlist, error) {
	if !sess.Authenticated() {
		if err := s.store.SetPending(ctx, sess.ID, &models.PendingItem{
			Kind:    models.PendingKindWishlist,
			Product: product,
		}); err != nil {
			zap.L().Warn("failed to park pending wishlist item", zap.Error(err))
		}
		return nil, apperrors.ErrLoginRequired
	}

	wl, err := s.Get(ctx, sess)
	if err != nil {
		return nil, err
	}
	if wl.Contains(product.ID) {
		return wl, nil
	}
	prev := wl.Clone()
	wl.Items = append(wl.Items, product)

	if err := s.persist(ctx, sess, prev, wl); err != nil {
		return nil, err
	}
	return wl, nil
}

// Remove drops a product from the wishlist; an absent ID is a no-op.
func (s *WishlistService) Remove(ctx context.Context, sess models.Session, productID string) (*models.Wishlist, error) {
	if !sess.Authenticated() {
		return nil, apperrors.ErrLoginRequired
	}

	wl, err := s.Get(ctx, sess)
	if err != nil {
		return nil, err
	}
	idx := wl.Find(productID)
	if idx < 0 {
		return wl, nil
	}
	prev := wl.Clone()
	wl.Items = append(wl.Items[:idx], wl.Items[idx+1:]...)

	if err := s.persist(ctx, sess, prev, wl); err != nil {
		return nil, err
	}
	return wl, nil
}

// Hydrate pulls the profile-store wishlist into the session after login.
func (s *WishlistService) Hydrate(ctx context.Context, sess models.Session) error {
	remote, err := s.profile.FetchWishlist(ctx, sess.Email)
	if err != nil {
		return err
	}
	if remote == nil {
		return nil
	}
	remote.UserEmail = sess.Email
	return s.store.SaveWishlist(ctx, sess.ID, remote)
}

func (s *WishlistService) persist(ctx context.Context, sess models.Session, prev, next *models.Wishlist) error {
	if err := s.store.SaveWishlist(ctx, sess.ID, next); err != nil {
		return err
	}
	if err := s.profile.SaveWishlist(ctx, sess.Email, next); err != nil {
		s.rollback(ctx, sess, prev)
		return apperrors.Wrap(apperrors.ErrUpstream, err)
	}
	return nil
}

func (s *WishlistService) rollback(ctx context.Context, sess models.Session, prev *models.Wishlist) {
	var err error
	if prev == nil || len(prev.Items) == 0 {
		err = s.store.DeleteWishlist(ctx, sess.ID)
	} else {
		err = s.store.SaveWishlist(ctx, sess.ID, prev)
	}
	if err != nil {
		zap.L().Error("wishlist rollback failed", zap.String("session", sess.ID), zap.Error(err))
	}
}
