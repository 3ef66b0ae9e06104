package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	checkoutsvc "github.com/blumenwerk/shop-backend/internal/checkout"
	pkgerrors "github.com/blumenwerk/shop-backend/pkg/errors"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal fixture %q: %v", s, err)
	}
	return d
}

type stubCheckoutService struct {
	session *checkoutsvc.Session
	err     error
	input   checkoutsvc.Input
	calls   int
}

func (s *stubCheckoutService) CreateSession(ctx context.Context, input checkoutsvc.Input) (*checkoutsvc.Session, error) {
	s.calls++
	s.input = input
	return s.session, s.err
}

func postJSON(handler http.HandlerFunc, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateSessionSuccess(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{session: &checkoutsvc.Session{ID: "cs_1", URL: "https://gateway.example/pay/cs_1"}}
	handler := CreateSession(svc, nil)

	rec := postJSON(handler, `{"items":[{"name":"Shirt","price":19.99,"quantity":2,"image":"http://x/a.png","description":""}],"language":"de"}`, map[string]string{
		"Origin":          "https://shop.example",
		"Idempotency-Key": "nonce-1",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body["sessionId"] != "cs_1" || body["url"] != "https://gateway.example/pay/cs_1" {
		t.Fatalf("unexpected body %v", body)
	}

	if svc.input.Language != "de" {
		t.Fatalf("expected language de, got %q", svc.input.Language)
	}
	if svc.input.Origin != "https://shop.example" {
		t.Fatalf("expected origin from header, got %q", svc.input.Origin)
	}
	if svc.input.Nonce != "nonce-1" {
		t.Fatalf("expected nonce from idempotency header, got %q", svc.input.Nonce)
	}
	if len(svc.input.Items) != 1 {
		t.Fatalf("expected one item, got %d", len(svc.input.Items))
	}
	if !svc.input.Items[0].Price.Equal(decimalFromString(t, "19.99")) {
		t.Fatalf("price lost precision: %s", svc.input.Items[0].Price)
	}
}

func TestCreateSessionMalformedBody(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{}
	rec := postJSON(CreateSession(svc, nil), `{"items":`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("service must not be called for malformed bodies")
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("expected error message in body")
	}
}

func TestCreateSessionValidationErrorPassesThrough(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")}
	rec := postJSON(CreateSession(svc, nil), `{"items":[]}`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["error"] != "cart is empty" {
		t.Fatalf("expected specific message, got %q", body["error"])
	}
}

func TestCreateSessionGatewayErrorIs500(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeGateway, "payment session could not be created")}
	rec := postJSON(CreateSession(svc, nil), `{"items":[{"name":"Shirt","price":5,"quantity":1}]}`, nil)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["error"] != "payment session could not be created" {
		t.Fatalf("unexpected message %q", body["error"])
	}
}

func TestRequestOriginFallbacks(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	req.Host = "shop.example"
	if got := requestOrigin(req); got != "http://shop.example" {
		t.Fatalf("expected host fallback, got %q", got)
	}

	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "www.shop.example")
	if got := requestOrigin(req); got != "https://www.shop.example" {
		t.Fatalf("expected forwarded origin, got %q", got)
	}

	req.Header.Set("Origin", "https://storefront.example")
	if got := requestOrigin(req); got != "https://storefront.example" {
		t.Fatalf("origin header should win, got %q", got)
	}
}
