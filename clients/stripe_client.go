package clients

import (
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
)

// StripeService creates payment intents for the card checkout branch. The
// client confirms the intent against Stripe's hosted surface; the storefront
// only learns the outcome through the checkout confirm call.
type StripeService struct {
	SecretKey string
}

func NewStripeService(secretKey string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{SecretKey: secretKey}
}

// CreatePaymentIntent registers an intent for the given amount (in the
// currency's smallest unit) and returns its id and client secret.
func (s *StripeService) CreatePaymentIntent(amount int64, currency string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	pi, err := paymentintent.New(params)
	if err != nil {
		return "", "", err
	}
	return pi.ID, pi.ClientSecret, nil
}
