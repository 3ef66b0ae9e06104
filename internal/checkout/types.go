package checkout

import (
	"context"

	"github.com/shopspring/decimal"
)

// CartItem is one purchasable unit as submitted by the storefront.
type CartItem struct {
	Name        string
	Image       string
	Description string
	Price       decimal.Decimal
	Quantity    int64
}

// Input captures a single checkout attempt. It is assembled once per request
// and never mutated afterwards.
type Input struct {
	Items    []CartItem
	Language string
	// Origin is the scheme+host the redirect URLs are built from, derived
	// from the incoming request so no host is hard-coded.
	Origin string
	// Nonce is a client-generated value mixed into the gateway idempotency
	// key. Empty means the caller opted out of duplicate protection.
	Nonce string
}

// LineItem is the gateway-facing normalized form of a CartItem. Amounts are
// integers in the currency's smallest unit.
type LineItem struct {
	Name            string
	Description     string
	Image           string
	Currency        string
	UnitAmountMinor int64
	Quantity        int64
}

// SessionSpec is the complete session specification handed to the gateway.
type SessionSpec struct {
	LineItems         []LineItem
	PaymentMethods    []string
	Locale            string
	ShippingCountries []string
	SuccessURL        string
	CancelURL         string
	IdempotencyKey    string
}

// Session is the hosted payment session created by the gateway. URL is the
// redirect target the shopper's browser navigates to.
type Session struct {
	ID  string
	URL string
}

// Gateway creates hosted payment sessions with the external processor.
type Gateway interface {
	CreateSession(ctx context.Context, spec SessionSpec) (*Session, error)
}
