package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"checkout-service/onepay"
)

// StorefrontRecipient receives every storefront payment
const StorefrontRecipient = "0x02d5fae7ffa927ebed2324c0f46ceb2edfc679f2"

// Config holds application configuration
type Config struct {
	ServiceName  string
	OTELEndpoint string
	Port         string

	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	PollInterval     time.Duration
	RequestTimeout   time.Duration
	TransportRetries int
	TokenDecimals    int
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		ServiceName:      "checkout-service",
		OTELEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		Port:             getEnv("PORT", "8081"),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		SessionTTL:       getEnvDuration("SESSION_TTL", 24*time.Hour),
		KafkaBrokers:     getEnvList("KAFKA_BROKERS"),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "checkout.events"),
		PollInterval:     getEnvDuration("PAYMENT_POLL_INTERVAL", onepay.DefaultPollInterval),
		RequestTimeout:   getEnvDuration("PAYMENT_REQUEST_TIMEOUT", onepay.DefaultRequestTimeout),
		TransportRetries: getEnvInt("PAYMENT_TRANSPORT_RETRIES", 0),
		TokenDecimals:    getEnvInt("TOKEN_DECIMALS", 6),
	}
}

// OnePay returns the payment provider configuration. The provider constants
// are fixed at build time; only the polling knobs come from the environment.
func (c *Config) OnePay() onepay.Config {
	retries := c.TransportRetries
	if retries < 0 {
		retries = 0
	}

	return onepay.Config{
		AppID:            onepay.DefaultAppID,
		APIURL:           onepay.DefaultAPIURL,
		DeepLinkURL:      onepay.DefaultDeepLinkURL,
		PollInterval:     c.PollInterval,
		RequestTimeout:   c.RequestTimeout,
		TransportRetries: uint64(retries),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvList(key string) []string {
	var values []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
