package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "shop"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	Checkout CheckoutConfig
	Stripe   StripeConfig
	Redis    RedisConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CheckoutConfig carries the storefront's payment-session policy. The shop
// sells in a single currency; shipping destinations and accepted payment
// methods are a fixed allow-list the gateway enforces.
type CheckoutConfig struct {
	Currency          string        `envconfig:"SHOP_CHECKOUT_CURRENCY" default:"eur"`
	DefaultLocale     string        `envconfig:"SHOP_CHECKOUT_DEFAULT_LOCALE" default:"en"`
	ShippingCountries []string      `envconfig:"SHOP_CHECKOUT_SHIPPING_COUNTRIES" default:"DE,AT,CH,NL,BE,LU,FR"`
	PaymentMethods    []string      `envconfig:"SHOP_CHECKOUT_PAYMENT_METHODS" default:"card,klarna,sepa_debit"`
	SuccessPath       string        `envconfig:"SHOP_CHECKOUT_SUCCESS_PATH" default:"/success"`
	CancelPath        string        `envconfig:"SHOP_CHECKOUT_CANCEL_PATH" default:"/cart"`
	GatewayTimeout    time.Duration `envconfig:"SHOP_CHECKOUT_GATEWAY_TIMEOUT" default:"15s"`
}

func (c CheckoutConfig) validate() error {
	if len(c.ShippingCountries) == 0 {
		return fmt.Errorf("at least one shipping country is required")
	}
	for _, country := range c.ShippingCountries {
		if len(country) != 2 {
			return fmt.Errorf("shipping country %q is not a two-letter ISO code", country)
		}
	}
	if len(c.PaymentMethods) == 0 {
		return fmt.Errorf("at least one payment method is required")
	}
	if !strings.HasPrefix(c.SuccessPath, "/") {
		return fmt.Errorf("success path must be absolute, got %q", c.SuccessPath)
	}
	if !strings.HasPrefix(c.CancelPath, "/") {
		return fmt.Errorf("cancel path must be absolute, got %q", c.CancelPath)
	}
	if c.GatewayTimeout <= 0 {
		return fmt.Errorf("gateway timeout must be positive")
	}
	return nil
}

type StripeConfig struct {
	APIKey string `envconfig:"SHOP_STRIPE_API_KEY"`
	Env    string `envconfig:"SHOP_STRIPE_ENV" default:"test"`
}

func (s StripeConfig) Environment() string {
	return s.Env
}

// RedisConfig is optional; without a URL the API runs with response-replay
// idempotency disabled.
type RedisConfig struct {
	URL          string        `envconfig:"SHOP_REDIS_URL"`
	Address      string        `envconfig:"SHOP_REDIS_ADDR"`
	Password     string        `envconfig:"SHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type CORSConfig struct {
	Origins []string `envconfig:"SHOP_CORS_ORIGINS" default:"http://localhost:3000"`
}
