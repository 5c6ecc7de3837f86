package onepay

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	DefaultAppID       = "app_d9589ab005e18dcf362d2ea26aef669e"
	DefaultAPIURL      = "https://onepay.money/api"
	DefaultDeepLinkURL = "https://worldcoin.org/mini-app"

	DefaultPollInterval   = time.Second
	DefaultRequestTimeout = 10 * time.Second
	DefaultRetryBackoff   = 500 * time.Millisecond
)

// Config carries everything the link builder, status client and poller need.
// Zero values are replaced by the package defaults.
type Config struct {
	AppID       string
	APIURL      string
	DeepLinkURL string

	// PollInterval is the delay between two status requests.
	PollInterval time.Duration
	// RequestTimeout bounds a single status request.
	RequestTimeout time.Duration
	// TransportRetries is how many times a failed status request is retried
	// before the watch is ended as failed. Zero ends it on the first failure.
	TransportRetries uint64
	// RetryBackoff is the initial delay of the exponential retry backoff.
	RetryBackoff time.Duration

	HTTPClient  *http.Client
	IDGenerator func() string
	Logger      *zap.Logger
}

// DefaultConfig returns the configuration of the production storefront.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.AppID == "" {
		c.AppID = DefaultAppID
	}
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.DeepLinkURL == "" {
		c.DeepLinkURL = DefaultDeepLinkURL
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = DefaultRetryBackoff
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if c.IDGenerator == nil {
		c.IDGenerator = CreateID
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
