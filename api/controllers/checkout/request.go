package checkout

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	checkoutsvc "github.com/blumenwerk/shop-backend/internal/checkout"
)

type checkoutItem struct {
	Name        string          `json:"name" validate:"max=250"`
	Image       string          `json:"image" validate:"max=2000"`
	Description string          `json:"description" validate:"max=500"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
}

type checkoutRequest struct {
	Items    []checkoutItem `json:"items" validate:"max=100,dive"`
	Language string         `json:"language" validate:"max=8"`
}

type checkoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

func toCheckoutInput(payload checkoutRequest, origin, nonce string) checkoutsvc.Input {
	items := make([]checkoutsvc.CartItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, checkoutsvc.CartItem{
			Name:        item.Name,
			Image:       item.Image,
			Description: item.Description,
			Price:       item.Price,
			Quantity:    item.Quantity,
		})
	}
	return checkoutsvc.Input{
		Items:    items,
		Language: payload.Language,
		Origin:   origin,
		Nonce:    nonce,
	}
}

// requestOrigin derives the absolute base the redirect URLs are built from.
// Browsers send Origin on cross-site POSTs; same-site and non-browser callers
// fall back to the forwarded proto and host.
func requestOrigin(r *http.Request) string {
	if origin := strings.TrimSpace(r.Header.Get("Origin")); origin != "" && origin != "null" {
		return origin
	}
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}
	if host == "" {
		return ""
	}
	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		if r.TLS != nil {
			scheme = "https"
		} else {
			scheme = "http"
		}
	}
	return scheme + "://" + host
}
