package checkout

import (
	"net/http"
	"strings"

	"github.com/blumenwerk/shop-backend/api/responses"
	"github.com/blumenwerk/shop-backend/api/validators"
	checkoutsvc "github.com/blumenwerk/shop-backend/internal/checkout"
	pkgerrors "github.com/blumenwerk/shop-backend/pkg/errors"
	"github.com/blumenwerk/shop-backend/pkg/logger"
)

// CreateSession handles submission of a cart and responds with the hosted
// payment session's id and redirect URL.
func CreateSession(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := toCheckoutInput(
			payload,
			requestOrigin(r),
			strings.TrimSpace(r.Header.Get("Idempotency-Key")),
		)

		session, err := svc.CreateSession(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, checkoutResponse{
			SessionID: session.ID,
			URL:       session.URL,
		})
	}
}
