package events

import (
	"context"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkout-service/models"
	"checkout-service/onepay"
)

func TestNewEvent(t *testing.T) {
	session := &models.Session{
		ID:        "session-1",
		PaymentID: "tz4a98xxat96iws9zmbrgj3a",
		Amount:    "1000000",
		Status:    onepay.StatusSuccess,
		Payment:   &onepay.Payment{TransactionHash: "0xabc"},
	}

	event := NewEvent(TypeCompleted, session)
	assert.Equal(t, TypeCompleted, event.Type)
	assert.Equal(t, "session-1", event.SessionID)
	assert.Equal(t, "success", event.Status)
	assert.Equal(t, "0xabc", event.TransactionHash)
	assert.False(t, event.Timestamp.IsZero())
}

func TestNewMessage(t *testing.T) {
	event := NewEvent(TypeFailed, &models.Session{
		ID:     "session-2",
		Status: onepay.StatusFailed,
		Error:  "payment failed",
	})

	msg, err := newMessage(event)
	require.NoError(t, err)
	assert.Equal(t, []byte("session-2"), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("checkout.failed"), msg.Headers[0].Value)

	var decoded map[string]interface{}
	require.NoError(t, sonic.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "checkout.failed", decoded["type"])
	assert.Equal(t, "payment failed", decoded["error"])
	assert.NotContains(t, decoded, "transaction_hash")
}

func TestNewKafkaPublisher(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "checkout.events")
	defer p.Close()

	assert.Equal(t, "checkout.events", p.writer.Topic)
	assert.Equal(t, publishBatchTimeout, p.writer.BatchTimeout)
	assert.IsType(t, &kafka.Hash{}, p.writer.Balancer)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{}))
	assert.NoError(t, p.Close())
}
