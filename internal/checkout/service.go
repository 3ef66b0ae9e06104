package checkout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blumenwerk/shop-backend/pkg/config"
	pkgerrors "github.com/blumenwerk/shop-backend/pkg/errors"
	"github.com/blumenwerk/shop-backend/pkg/logger"
	"github.com/blumenwerk/shop-backend/pkg/metrics"
	"github.com/blumenwerk/shop-backend/pkg/money"
)

const (
	outcomeSuccess    = "success"
	outcomeValidation = "validation_error"
	outcomeGateway    = "gateway_error"

	// sessionIDPlaceholder is substituted by the gateway after session
	// creation; it is passed through verbatim and never resolved here.
	sessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"
)

// Service turns a validated checkout attempt into a hosted payment session.
type Service interface {
	CreateSession(ctx context.Context, input Input) (*Session, error)
}

type service struct {
	cfg     config.CheckoutConfig
	gateway Gateway
	metrics *metrics.CheckoutMetrics
	logg    *logger.Logger
}

// NewService builds the checkout service.
func NewService(cfg config.CheckoutConfig, gateway Gateway, m *metrics.CheckoutMetrics, logg *logger.Logger) (Service, error) {
	if gateway == nil {
		return nil, fmt.Errorf("gateway required")
	}
	return &service{
		cfg:     cfg,
		gateway: gateway,
		metrics: m,
		logg:    logg,
	}, nil
}

// CreateSession validates the cart, normalizes prices to minor units, and
// submits a session specification to the gateway. It is a pure function of
// its input: no ambient state is read, nothing is persisted. Validation runs
// before any gateway traffic, and a gateway failure is surfaced to the caller
// instead of retried, since session creation must not be silently duplicated.
func (s *service) CreateSession(ctx context.Context, input Input) (*Session, error) {
	lineItems, err := s.normalizeItems(input.Items)
	if err != nil {
		s.metrics.IncOutcome(outcomeValidation)
		return nil, err
	}

	origin := strings.TrimRight(strings.TrimSpace(input.Origin), "/")
	if origin == "" {
		s.metrics.IncOutcome(outcomeValidation)
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "request origin unavailable")
	}

	spec := SessionSpec{
		LineItems:         lineItems,
		PaymentMethods:    s.cfg.PaymentMethods,
		Locale:            ResolveLocale(input.Language, s.cfg.DefaultLocale),
		ShippingCountries: s.cfg.ShippingCountries,
		SuccessURL:        origin + s.cfg.SuccessPath + "?session_id=" + sessionIDPlaceholder,
		CancelURL:         origin + s.cfg.CancelPath + "?canceled=true",
		IdempotencyKey:    idempotencyKey(lineItems, input.Nonce),
	}

	gatewayCtx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()

	start := time.Now()
	session, err := s.gateway.CreateSession(gatewayCtx, spec)
	s.metrics.ObserveGatewayDuration(time.Since(start))
	if err != nil {
		s.metrics.IncOutcome(outcomeGateway)
		return nil, s.mapGatewayError(ctx, err)
	}
	if session == nil || session.URL == "" {
		s.metrics.IncOutcome(outcomeGateway)
		return nil, pkgerrors.New(pkgerrors.CodeGateway, "payment gateway returned no redirect url")
	}

	s.metrics.IncOutcome(outcomeSuccess)
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"session_id": session.ID,
			"items":      len(lineItems),
			"locale":     spec.Locale,
		})
		s.logg.Info(logCtx, "checkout.session_created")
	}
	return session, nil
}

// normalizeItems applies the validation order the storefront relies on: the
// cart must not be empty, then each item is checked in sequence and fails
// with a message specific to the violated rule.
func (s *service) normalizeItems(items []CartItem) ([]LineItem, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lineItems := make([]LineItem, 0, len(items))
	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: name is required", i+1))
		}
		if item.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %q: price must not be negative", item.Name))
		}
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %q: quantity must be at least 1", item.Name))
		}
		unitAmount, err := money.ToMinorUnits(item.Price)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("item %q: %v", item.Name, err))
		}
		lineItems = append(lineItems, LineItem{
			Name:            item.Name,
			Description:     item.Description,
			Image:           item.Image,
			Currency:        s.cfg.Currency,
			UnitAmountMinor: unitAmount,
			Quantity:        item.Quantity,
		})
	}
	return lineItems, nil
}

func (s *service) mapGatewayError(ctx context.Context, err error) error {
	if s.logg != nil {
		s.logg.Error(ctx, "checkout.gateway_failed", err)
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "payment gateway timed out, please try again")
	}
	return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "payment session could not be created")
}

// idempotencyKey derives a stable key from the normalized cart plus a
// client-generated nonce, so a duplicate submission of the same attempt maps
// onto the same gateway session while a deliberate retry (new nonce) does not.
func idempotencyKey(items []LineItem, nonce string) string {
	if strings.TrimSpace(nonce) == "" {
		return ""
	}
	h := sha256.New()
	for _, item := range items {
		fmt.Fprintf(h, "%s|%s|%d|%d\n", item.Name, item.Currency, item.UnitAmountMinor, item.Quantity)
	}
	fmt.Fprintf(h, "nonce=%s", nonce)
	return hex.EncodeToString(h.Sum(nil))
}
