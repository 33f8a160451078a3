package services

import (
	"context"
	"math"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rscollections/storefront/models"
	"github.com/rscollections/storefront/pkg/apperrors"
	"github.com/rscollections/storefront/repository"
)

// Checkout steps returned to the client so it knows which screen to render
// next.
const (
	CheckoutStepPayment = "payment"
	CheckoutStepDone    = "done"
)

// CheckoutResult is the outcome of starting or confirming a checkout. For the
// card branch ClientSecret carries the gateway handle the client confirms
// against; for cash on delivery the order is final immediately.
type CheckoutResult struct {
	Step         string        `json:"step"`
	Order        *models.Order `json:"order,omitempty"`
	ClientSecret string        `json:"clientSecret,omitempty"`
	Total        float64       `json:"total,omitempty"`
}

// CheckoutService runs the two-step checkout: validate address and open a
// payment, then place the order once the payment settles. Cash on delivery
// skips the payment step.
type CheckoutService struct {
	store    repository.SessionStore
	profile  ProfileAPI
	orders   OrderAPI
	payments PaymentProvider
	events   OrderEventPublisher
	cart     *CartService
	validate *validator.Validate
}

func NewCheckoutService(store repository.SessionStore, profile ProfileAPI, orders OrderAPI, payments PaymentProvider, events OrderEventPublisher, cart *CartService) *CheckoutService {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CheckoutService{
		store:    store,
		profile:  profile,
		orders:   orders,
		payments: payments,
		events:   events,
		cart:     cart,
		validate: v,
	}
}

// Start validates the address and opens the payment. An empty cart is a
// conflict so the client can redirect to shopping. The address is also saved
// to the profile store best effort; a failed save never blocks the order.
func (s *CheckoutService) Start(ctx context.Context, sess models.Session, addr models.Address, method string) (*CheckoutResult, error) {
	if !sess.Authenticated() {
		return nil, apperrors.ErrLoginRequired
	}
	if method != models.PaymentMethodCard && method != models.PaymentMethodCOD {
		return nil, apperrors.ErrBadRequest
	}

	if err := s.validate.Struct(addr); err != nil {
		return nil, fieldErrors(err)
	}
	addr.AddressLine = joinAddressLines(addr.AddressLine1, addr.AddressLine2)

	cart, err := s.cart.Get(ctx, sess)
	if err != nil {
		return nil, err
	}
	if cart.Count() == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	if err := s.profile.SaveAddress(ctx, sess.Email, addr); err != nil {
		zap.L().Warn("address save failed", zap.String("email", sess.Email), zap.Error(err))
	}

	total := cart.Total()

	if method == models.PaymentMethodCOD {
		order, err := s.placeOrder(ctx, sess, cart, addr, models.Payment{
			Method: models.PaymentMethodCOD,
			Status: models.PaymentStatusPending,
		})
		if err != nil {
			return nil, err
		}
		return &CheckoutResult{Step: CheckoutStepDone, Order: order, Total: total}, nil
	}

	intentID, clientSecret, err := s.payments.CreatePaymentIntent(toMinorUnits(total), "inr")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPaymentFailed, err)
	}
	if err := s.store.SaveCheckout(ctx, sess.ID, &models.CheckoutState{
		Address:       addr,
		PaymentMethod: models.PaymentMethodCard,
		PaymentIntent: intentID,
		Total:         total,
	}); err != nil {
		return nil, err
	}
	return &CheckoutResult{Step: CheckoutStepPayment, ClientSecret: clientSecret, Total: total}, nil
}

// Confirm finalizes a card checkout after the client reports the payment
// settled. Without a pending checkout there is nothing to confirm.
func (s *CheckoutService) Confirm(ctx context.Context, sess models.Session, paymentRef string) (*CheckoutResult, error) {
	if !sess.Authenticated() {
		return nil, apperrors.ErrLoginRequired
	}

	state, err := s.store.GetCheckout(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, apperrors.New(http.StatusNotFound, "No checkout in progress", nil)
	}
	if paymentRef == "" {
		paymentRef = state.PaymentIntent
	}

	cart, err := s.cart.Get(ctx, sess)
	if err != nil {
		return nil, err
	}
	if cart.Count() == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	order, err := s.placeOrder(ctx, sess, cart, state.Address, models.Payment{
		Method:    models.PaymentMethodCard,
		Status:    models.PaymentStatusPaid,
		Reference: paymentRef,
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.ClearCheckout(ctx, sess.ID); err != nil {
		zap.L().Warn("failed to clear checkout state", zap.Error(err))
	}
	return &CheckoutResult{Step: CheckoutStepDone, Order: order, Total: order.Total}, nil
}

// Cancel drops a pending card checkout so the payment step can be restarted.
func (s *CheckoutService) Cancel(ctx context.Context, sess models.Session) error {
	return s.store.ClearCheckout(ctx, sess.ID)
}

// placeOrder records the order upstream, then clears the cart. The cart is
// only cleared when the order went through; the event publish is best effort.
func (s *CheckoutService) placeOrder(ctx context.Context, sess models.Session, cart *models.Cart, addr models.Address, payment models.Payment) (*models.Order, error) {
	order := models.Order{
		ID:        uuid.NewString(),
		UserEmail: sess.Email,
		Address:   addr,
		Payment:   payment,
		Items:     cart.Items,
		Total:     cart.Total(),
		CreatedAt: time.Now().UTC(),
	}

	placed, err := s.orders.PlaceOrder(ctx, order)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, err)
	}

	if err := s.cart.Clear(ctx, sess); err != nil {
		zap.L().Warn("failed to clear cart after order", zap.String("order", placed.ID), zap.Error(err))
	}
	if s.events != nil {
		if err := s.events.SendOrderPlaced(ctx, placed); err != nil {
			zap.L().Warn("order event publish failed", zap.String("order", placed.ID), zap.Error(err))
		}
	}
	return &placed, nil
}

func fieldErrors(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Wrap(apperrors.ErrValidation, err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "email":
			fields[fe.Field()] = "Enter a valid email address"
		default:
			fields[fe.Field()] = "This field is required"
		}
	}
	return apperrors.NewFieldValidation(fields)
}

func joinAddressLines(line1, line2 string) string {
	if strings.TrimSpace(line2) == "" {
		return line1
	}
	return line1 + ", " + line2
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
