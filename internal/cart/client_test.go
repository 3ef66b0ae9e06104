package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type recordingNavigator struct {
	mu   sync.Mutex
	urls []string
}

func (n *recordingNavigator) Navigate(url string) {
	n.mu.Lock()
	n.urls = append(n.urls, url)
	n.mu.Unlock()
}

func (n *recordingNavigator) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.urls...)
}

func seededStore() *Store {
	store := NewStore()
	store.Add(Item{Name: "Shirt", Price: decimal.New(1999, -2), Quantity: 2})
	return store
}

func newTestClient(t *testing.T, serverURL string, store *Store, nav Navigator) *Client {
	t.Helper()
	client, err := NewClient(ClientOptions{
		Endpoint:  serverURL + "/checkout",
		Language:  "de",
		Navigator: nav,
		Store:     store,
	})
	if err != nil {
		t.Fatalf("building client: %v", err)
	}
	return client
}

func TestInitiateCheckoutNavigatesOnSuccess(t *testing.T) {
	var gotPayload checkoutRequestPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Idempotency-Key") == "" {
			t.Errorf("expected idempotency key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"sessionId": "cs_1",
			"url":       "https://gateway.example/pay/cs_1",
		})
	}))
	defer server.Close()

	store := seededStore()
	nav := &recordingNavigator{}
	client := newTestClient(t, server.URL, store, nav)

	if err := client.InitiateCheckout(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := nav.visited(); len(got) != 1 || got[0] != "https://gateway.example/pay/cs_1" {
		t.Fatalf("expected navigation to gateway url, got %v", got)
	}
	if gotPayload.Language != "de" {
		t.Fatalf("expected language de, got %q", gotPayload.Language)
	}
	if len(gotPayload.Items) != 1 || gotPayload.Items[0].Quantity != 2 {
		t.Fatalf("unexpected serialized items %+v", gotPayload.Items)
	}
	if client.Err() != "" {
		t.Fatalf("no error expected after success, got %q", client.Err())
	}
}

func TestInitiateCheckoutSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "cart is empty"})
	}))
	defer server.Close()

	store := seededStore()
	nav := &recordingNavigator{}
	client := newTestClient(t, server.URL, store, nav)

	err := client.InitiateCheckout(context.Background())
	if err == nil || err.Error() != "cart is empty" {
		t.Fatalf("expected verbatim server message, got %v", err)
	}
	if len(nav.visited()) != 0 {
		t.Fatalf("must not navigate on failure")
	}
	if store.Len() != 1 {
		t.Fatalf("cart must be untouched on failure")
	}
	if client.Err() != "cart is empty" {
		t.Fatalf("error state should hold the message, got %q", client.Err())
	}
	if client.InFlight() {
		t.Fatalf("loading state must reset after failure")
	}
}

func TestInitiateCheckoutMissingURLIsProtocolViolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"sessionId": "cs_1"})
	}))
	defer server.Close()

	nav := &recordingNavigator{}
	client := newTestClient(t, server.URL, seededStore(), nav)

	err := client.InitiateCheckout(context.Background())
	if err == nil || err.Error() != genericCheckoutError {
		t.Fatalf("expected generic error for missing url, got %v", err)
	}
	if len(nav.visited()) != 0 {
		t.Fatalf("must not navigate without a url")
	}
}

func TestInitiateCheckoutRejectsConcurrentAttempt(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(map[string]string{"sessionId": "cs_1", "url": "https://gateway.example/pay"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, seededStore(), &recordingNavigator{})

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- client.InitiateCheckout(context.Background())
	}()

	for !client.InFlight() {
		time.Sleep(time.Millisecond)
	}

	if err := client.InitiateCheckout(context.Background()); !errors.Is(err, ErrCheckoutInFlight) {
		t.Fatalf("expected in-flight rejection, got %v", err)
	}

	close(release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first attempt should succeed: %v", err)
	}
}

func TestRetryAfterFailureSucceeds(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "gateway down"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"sessionId": "cs_2", "url": "https://gateway.example/pay/cs_2"})
	}))
	defer server.Close()

	store := seededStore()
	nav := &recordingNavigator{}
	client := newTestClient(t, server.URL, store, nav)

	if err := client.InitiateCheckout(context.Background()); err == nil {
		t.Fatalf("expected first attempt to fail")
	}

	fail.Store(false)
	if err := client.InitiateCheckout(context.Background()); err != nil {
		t.Fatalf("retry should not be blocked by prior failure: %v", err)
	}
	if client.Err() != "" {
		t.Fatalf("error state should clear on retry, got %q", client.Err())
	}
	if got := nav.visited(); len(got) != 1 || got[0] != "https://gateway.example/pay/cs_2" {
		t.Fatalf("expected navigation after retry, got %v", got)
	}
}

func TestNetworkErrorIsGeneric(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(t, server.URL, seededStore(), &recordingNavigator{})
	err := client.InitiateCheckout(context.Background())
	if err == nil || err.Error() != genericCheckoutError {
		t.Fatalf("expected generic network error, got %v", err)
	}
}
