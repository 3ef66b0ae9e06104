package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"

	pkgerrors "github.com/blumenwerk/shop-backend/pkg/errors"
	pkgstripe "github.com/blumenwerk/shop-backend/pkg/stripe"
)

type stripeGateway struct {
	client *pkgstripe.Client
}

// NewStripeGateway adapts the Stripe client to the Gateway interface.
func NewStripeGateway(client *pkgstripe.Client) (Gateway, error) {
	if client == nil {
		return nil, fmt.Errorf("stripe client required")
	}
	return &stripeGateway{client: client}, nil
}

func (g *stripeGateway) CreateSession(ctx context.Context, spec SessionSpec) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		Locale:             stripe.String(spec.Locale),
		SuccessURL:         stripe.String(spec.SuccessURL),
		CancelURL:          stripe.String(spec.CancelURL),
		PaymentMethodTypes: stripe.StringSlice(spec.PaymentMethods),
	}
	if len(spec.ShippingCountries) > 0 {
		params.ShippingAddressCollection = &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(spec.ShippingCountries),
		}
	}
	for _, item := range spec.LineItems {
		priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(item.Currency),
			UnitAmount: stripe.Int64(item.UnitAmountMinor),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(item.Name),
			},
		}
		if item.Description != "" {
			priceData.ProductData.Description = stripe.String(item.Description)
		}
		if item.Image != "" {
			priceData.ProductData.Images = stripe.StringSlice([]string{item.Image})
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: priceData,
			Quantity:  stripe.Int64(item.Quantity),
		})
	}
	params.Context = ctx
	if spec.IdempotencyKey != "" {
		params.SetIdempotencyKey(spec.IdempotencyKey)
	}

	created, err := session.New(params)
	if err != nil {
		return nil, mapStripeError(err)
	}
	return &Session{ID: created.ID, URL: created.URL}, nil
}

// mapStripeError exposes Stripe's own user-facing message when one exists;
// anything else collapses into a generic gateway failure.
func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return pkgerrors.Wrap(pkgerrors.CodeGateway, err, stripeErr.Msg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "payment session could not be created")
}
