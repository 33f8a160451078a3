package models

// Session roles. Guests can browse but every state mutation is gated behind
// login; admins additionally reach the /admin surface.
const (
	RoleGuest    = "guest"
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Session identifies the caller across requests. Guest sessions are minted
// lazily and carry no email.
type Session struct {
	ID    string `json:"sid"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

func (s Session) Authenticated() bool {
	return s.Role == RoleCustomer || s.Role == RoleAdmin
}

// Login flow steps for the OTP state machine.
const (
	LoginStepEmail = "email"
	LoginStepOTP   = "otp"
	LoginStepDone  = "done"
)

// LoginState is the per-session OTP flow state: which step the session is
// on, the email under verification, and the resend cooldown deadline
// (unix seconds).
type LoginState struct {
	Step          string `json:"step"`
	Email         string `json:"email"`
	CooldownUntil int64  `json:"cooldownUntil"`
	Degraded      bool   `json:"degraded,omitempty"`
}

// CheckoutState is the pending card-payment record between starting checkout
// and confirming the payment.
type CheckoutState struct {
	Address       Address `json:"address"`
	PaymentMethod string  `json:"paymentMethod"`
	PaymentIntent string  `json:"paymentIntent"`
	Total         float64 `json:"total"`
}
