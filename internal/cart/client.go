package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrCheckoutInFlight is returned when a checkout attempt is started while a
// previous one is still pending. The gateway does not guarantee idempotency
// on duplicate submissions from this path, so concurrent attempts are
// rejected rather than queued.
var ErrCheckoutInFlight = errors.New("checkout already in progress")

const genericCheckoutError = "checkout failed, please try again"

// Navigator performs the redirect to the hosted payment page. In the browser
// build this is a full-page navigation; tests substitute a recorder.
type Navigator interface {
	Navigate(url string)
}

// Client drives checkout attempts for a cart store. One attempt may be in
// flight at a time; a failed attempt resets the guard so the shopper can
// retry with the cart untouched.
type Client struct {
	endpoint   string
	language   string
	httpClient *http.Client
	navigator  Navigator
	store      *Store

	mu       sync.Mutex
	inFlight bool
	lastErr  string
}

// ClientOptions configures a checkout client.
type ClientOptions struct {
	// Endpoint is the absolute URL of the checkout route.
	Endpoint string
	// Language is the storefront's current two-letter language code.
	Language string
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
	Navigator  Navigator
	Store      *Store
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("endpoint required")
	}
	if opts.Navigator == nil {
		return nil, fmt.Errorf("navigator required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:   opts.Endpoint,
		language:   opts.Language,
		httpClient: httpClient,
		navigator:  opts.Navigator,
		store:      opts.Store,
	}, nil
}

type checkoutItemPayload struct {
	Name        string          `json:"name"`
	Image       string          `json:"image,omitempty"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
}

type checkoutRequestPayload struct {
	Items    []checkoutItemPayload `json:"items"`
	Language string                `json:"language,omitempty"`
}

type checkoutSuccessPayload struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type checkoutFailurePayload struct {
	Error string `json:"error"`
}

// InitiateCheckout serializes the current cart and submits it. The cart is
// sent as-is: all pricing rules live server-side so there is a single source
// of truth. On success the navigator is invoked with the gateway URL; on any
// failure the error message is retained for display and the cart is left
// unchanged.
func (c *Client) InitiateCheckout(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrCheckoutInFlight
	}
	c.inFlight = true
	c.lastErr = ""
	c.mu.Unlock()

	err := c.submit(ctx)

	c.mu.Lock()
	c.inFlight = false
	if err != nil {
		c.lastErr = err.Error()
	}
	c.mu.Unlock()
	return err
}

func (c *Client) submit(ctx context.Context) error {
	items := c.store.Items()
	payload := checkoutRequestPayload{
		Items:    make([]checkoutItemPayload, 0, len(items)),
		Language: c.language,
	}
	for _, item := range items {
		payload.Items = append(payload.Items, checkoutItemPayload{
			Name:        item.Name,
			Image:       item.Image,
			Description: item.Description,
			Price:       item.Price,
			Quantity:    item.Quantity,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.New(genericCheckoutError)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.New(genericCheckoutError)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.New(genericCheckoutError)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure checkoutFailurePayload
		if decodeErr := json.NewDecoder(resp.Body).Decode(&failure); decodeErr != nil || failure.Error == "" {
			return errors.New(genericCheckoutError)
		}
		return errors.New(failure.Error)
	}

	var success checkoutSuccessPayload
	if err := json.NewDecoder(resp.Body).Decode(&success); err != nil {
		return errors.New(genericCheckoutError)
	}
	if success.URL == "" {
		// A 200 without a redirect URL breaks the API contract; treat it
		// like any other integration failure.
		return errors.New(genericCheckoutError)
	}

	c.navigator.Navigate(success.URL)
	return nil
}

// InFlight reports whether a checkout attempt is currently pending.
func (c *Client) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Err returns the message of the last failed attempt, empty after a success
// or while no attempt has failed.
func (c *Client) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
