package stripe

import (
	"context"
	"testing"

	"github.com/blumenwerk/shop-backend/pkg/config"
)

func TestNewClientValidatesKeyAgainstEnv(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.StripeConfig
		ok   bool
	}{
		{"test key in test env", config.StripeConfig{APIKey: "sk_test_123", Env: "test"}, true},
		{"restricted test key", config.StripeConfig{APIKey: "rk_test_123", Env: "test"}, true},
		{"live key in live env", config.StripeConfig{APIKey: "sk_live_123", Env: "live"}, true},
		{"live key in test env", config.StripeConfig{APIKey: "sk_live_123", Env: "test"}, false},
		{"test key in live env", config.StripeConfig{APIKey: "sk_test_123", Env: "live"}, false},
		{"missing key", config.StripeConfig{Env: "test"}, false},
		{"unknown env", config.StripeConfig{APIKey: "sk_test_123", Env: "staging"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), tc.cfg, nil)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected error")
			}
			if tc.ok && client.API() == nil {
				t.Fatalf("expected initialized api client")
			}
		})
	}
}

func TestEnvDefaultsToTest(t *testing.T) {
	client, err := NewClient(context.Background(), config.StripeConfig{APIKey: "sk_test_abc"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Environment() != "test" {
		t.Fatalf("expected test env, got %q", client.Environment())
	}
}
