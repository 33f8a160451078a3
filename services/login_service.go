package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rscollections/storefront/clients"
	"github.com/rscollections/storefront/models"
	"github.com/rscollections/storefront/pkg/apperrors"
	"github.com/rscollections/storefront/repository"
)

// LoginService drives the OTP login flow: email step, code step, done. The
// flow state lives in the session store so a page reload lands back on the
// same step.
type LoginService struct {
	store    repository.SessionStore
	auth     AuthAPI
	cart     *CartService
	wishlist *WishlistService
	cooldown time.Duration
}

func NewLoginService(store repository.SessionStore, auth AuthAPI, cart *CartService, wishlist *WishlistService, cooldown time.Duration) *LoginService {
	return &LoginService{
		store:    store,
		auth:     auth,
		cart:     cart,
		wishlist: wishlist,
		cooldown: cooldown,
	}
}

// State returns the current flow state, defaulting to the email step.
func (s *LoginService) State(ctx context.Context, sess models.Session) (*models.LoginState, error) {
	state, err := s.store.GetLoginState(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = &models.LoginState{Step: models.LoginStepEmail}
	}
	return state, nil
}

// RequestOTP asks the upstream to send a code and advances to the code step.
// An upstream validation rejection keeps the flow on the email step; any
// other upstream failure still advances, flagged degraded, so the user can
// retry the code or resend rather than being stuck.
func (s *LoginService) RequestOTP(ctx context.Context, sess models.Session, email string) (*models.LoginState, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.NewFieldValidation(map[string]string{"email": "Enter a valid email address"})
	}

	state := &models.LoginState{
		Step:          models.LoginStepOTP,
		Email:         email,
		CooldownUntil: time.Now().Add(s.cooldown).Unix(),
	}

	if err := s.auth.RequestOTP(ctx, email); err != nil {
		var ue *clients.UpstreamError
		if errors.As(err, &ue) && ue.IsValidation() {
			return nil, apperrors.NewFieldValidation(map[string]string{"email": "Enter a valid email address"})
		}
		zap.L().Warn("otp request failed, advancing degraded", zap.String("email", email), zap.Error(err))
		state.Degraded = true
	}

	if err := s.store.SaveLoginState(ctx, sess.ID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Resend re-sends the code for the email already under verification. Resends
// inside the cooldown window are rejected.
func (s *LoginService) Resend(ctx context.Context, sess models.Session) (*models.LoginState, error) {
	state, err := s.State(ctx, sess)
	if err != nil {
		return nil, err
	}
	if state.Step != models.LoginStepOTP || state.Email == "" {
		return nil, apperrors.ErrBadRequest
	}

	now := time.Now()
	if now.Unix() < state.CooldownUntil {
		remaining := state.CooldownUntil - now.Unix()
		return nil, apperrors.New(apperrors.ErrResendCooldown.Code,
			fmt.Sprintf("Please wait %ds before requesting another code", remaining), nil)
	}

	if err := s.auth.ResendOTP(ctx, state.Email); err != nil {
		var ue *clients.UpstreamError
		if errors.As(err, &ue) && ue.IsValidation() {
			return nil, apperrors.Wrap(apperrors.ErrBadRequest, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrUpstream, err)
	}

	state.CooldownUntil = now.Add(s.cooldown).Unix()
	state.Degraded = false
	if err := s.store.SaveLoginState(ctx, sess.ID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Verify checks the code with the upstream. A rejection maps to ErrInvalidOTP
// and the flow stays on the code step.
func (s *LoginService) Verify(ctx context.Context, sess models.Session, code string) (clients.OTPUser, error) {
	state, err := s.State(ctx, sess)
	if err != nil {
		return clients.OTPUser{}, err
	}
	if state.Step != models.LoginStepOTP || state.Email == "" {
		return clients.OTPUser{}, apperrors.ErrBadRequest
	}

	user, err := s.auth.VerifyOTP(ctx, state.Email, strings.TrimSpace(code))
	if err != nil {
		var ue *clients.UpstreamError
		if errors.As(err, &ue) && (ue.IsValidation() || ue.Status == http.StatusUnauthorized) {
			return clients.OTPUser{}, apperrors.Wrap(apperrors.ErrInvalidOTP, err)
		}
		return clients.OTPUser{}, apperrors.Wrap(apperrors.ErrUpstream, err)
	}
	return user, nil
}

// Finalize runs after the session has been promoted: hydrate the cart and
// wishlist from the profile store, replay the pending guest item if one is
// parked, and hand back the pre-login redirect path. Hydration failures are
// logged, not fatal; the session simply starts from its local state.
func (s *LoginService) Finalize(ctx context.Context, sess models.Session) (string, error) {
	if err := s.cart.Hydrate(ctx, sess); err != nil {
		zap.L().Warn("cart hydrate failed", zap.String("email", sess.Email), zap.Error(err))
	}
	if err := s.wishlist.Hydrate(ctx, sess); err != nil {
		zap.L().Warn("wishlist hydrate failed", zap.String("email", sess.Email), zap.Error(err))
	}

	if pending, err := s.store.GetPending(ctx, sess.ID); err == nil && pending != nil {
		s.replay(ctx, sess, pending)
		if err := s.store.ClearPending(ctx, sess.ID); err != nil {
			zap.L().Warn("failed to clear pending item", zap.Error(err))
		}
	}

	redirect, err := s.store.GetRedirectPath(ctx, sess.ID)
	if err != nil {
		zap.L().Warn("failed to read redirect path", zap.Error(err))
		redirect = ""
	}
	if redirect == "" {
		redirect = "/"
	} else {
		if err := s.store.ClearRedirectPath(ctx, sess.ID); err != nil {
			zap.L().Warn("failed to clear redirect path", zap.Error(err))
		}
	}

	if err := s.store.SaveLoginState(ctx, sess.ID, &models.LoginState{
		Step:  models.LoginStepDone,
		Email: sess.Email,
	}); err != nil {
		zap.L().Warn("failed to save login state", zap.Error(err))
	}
	return redirect, nil
}

// RememberPath records where to send the user after they finish logging in.
func (s *LoginService) RememberPath(ctx context.Context, sess models.Session, path string) error {
	if path == "" || !strings.HasPrefix(path, "/") {
		return apperrors.ErrBadRequest
	}
	return s.store.SetRedirectPath(ctx, sess.ID, path)
}

// Logout drops every piece of session state.
func (s *LoginService) Logout(ctx context.Context, sess models.Session) error {
	return s.store.ClearSession(ctx, sess.ID)
}

func (s *LoginService) replay(ctx context.Context, sess models.Session, pending *models.PendingItem) {
	var err error
	switch pending.Kind {
	case models.PendingKindCart:
		_, err = s.cart.AddItem(ctx, sess, pending.Product, pending.Quantity, pending.SelectedSize)
	case models.PendingKindWishlist:
		_, err = s.wishlist.Add(ctx, sess, pending.Product)
	}
	if err != nil {
		zap.L().Warn("pending item replay failed",
			zap.String("kind", pending.Kind),
			zap.String("product", pending.Product.ID),
			zap.Error(err))
	}
}
