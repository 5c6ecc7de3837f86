package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkout-service/models"
	"checkout-service/onepay"
)

func testSession() *models.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.Session{
		ID:        "6f1c8c1e-9a55-4df5-9a0e-3c2f8a0f1b7a",
		PaymentID: "tz4a98xxat96iws9zmbrgj3a",
		URL:       "https://worldcoin.org/mini-app?app_id=app&path=%2Fpay",
		Recipient: "0x02d5fae7ffa927ebed2324c0f46ceb2edfc679f2",
		Total:     decimal.RequireFromString("12.5"),
		Amount:    "12500000",
		Status:    onepay.StatusSuccess,
		Payment:   &onepay.Payment{ID: "tz4a98xxat96iws9zmbrgj3a", TransactionHash: "0xabc"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func testStore(t *testing.T, s SessionStore) {
	ctx := context.Background()
	session := testSession()

	_, err := s.Get(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, s.Save(ctx, session))

	actual, err := s.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, actual.ID)
	assert.Equal(t, session.PaymentID, actual.PaymentID)
	assert.Equal(t, session.URL, actual.URL)
	assert.Equal(t, session.Amount, actual.Amount)
	assert.Equal(t, session.Status, actual.Status)
	assert.True(t, session.Total.Equal(actual.Total))
	assert.True(t, session.CreatedAt.Equal(actual.CreatedAt))
	require.NotNil(t, actual.Payment)
	assert.Equal(t, "0xabc", actual.Payment.TransactionHash)

	// Mutating the returned copy must not leak into the store.
	actual.Status = onepay.StatusFailed
	again, err := s.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, onepay.StatusSuccess, again.Status)

	session.ClearCart = true
	require.NoError(t, s.Save(ctx, session))
	again, err = s.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, again.ClearCart)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	testStore(t, NewRedisStore(client, time.Hour))
}

func TestRedisStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s := NewRedisStore(client, time.Minute)
	session := testSession()
	require.NoError(t, s.Save(context.Background(), session))

	assert.Equal(t, time.Minute, mr.TTL(sessionKey(session.ID)))

	mr.FastForward(2 * time.Minute)
	_, err := s.Get(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
