package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"checkout-service/onepay"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "REDIS_ADDR", "KAFKA_BROKERS", "PAYMENT_POLL_INTERVAL", "PAYMENT_TRANSPORT_RETRIES", "TOKEN_DECIMALS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "checkout-service", cfg.ServiceName)
	assert.Equal(t, "8081", cfg.Port)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 0, cfg.TransportRetries)
	assert.Equal(t, 6, cfg.TokenDecimals)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("PAYMENT_POLL_INTERVAL", "250ms")
	t.Setenv("PAYMENT_TRANSPORT_RETRIES", "3")
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 3, cfg.TransportRetries)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
}

func TestOnePay(t *testing.T) {
	cfg := &Config{PollInterval: 2 * time.Second, TransportRetries: -1}

	op := cfg.OnePay()
	assert.Equal(t, onepay.DefaultAppID, op.AppID)
	assert.Equal(t, onepay.DefaultAPIURL, op.APIURL)
	assert.Equal(t, 2*time.Second, op.PollInterval)
	assert.Zero(t, op.TransportRetries)
}
