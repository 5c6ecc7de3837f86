package events

import (
	"context"
	"time"

	"checkout-service/models"
)

// Type names a checkout lifecycle event
type Type string

const (
	TypeCreated   Type = "checkout.created"
	TypeCompleted Type = "checkout.completed"
	TypeFailed    Type = "checkout.failed"
	TypeClosed    Type = "checkout.closed"
)

// Event is published whenever a checkout session changes state
type Event struct {
	Type            Type      `json:"type"`
	SessionID       string    `json:"session_id"`
	PaymentID       string    `json:"payment_id"`
	Status          string    `json:"status"`
	Amount          string    `json:"amount"`
	TransactionHash string    `json:"transaction_hash,omitempty"`
	Error           string    `json:"error,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// NewEvent captures the current state of a session as an event of type t
func NewEvent(t Type, s *models.Session) Event {
	event := Event{
		Type:      t,
		SessionID: s.ID,
		PaymentID: s.PaymentID,
		Status:    string(s.Status),
		Amount:    s.Amount,
		Error:     s.Error,
		Timestamp: time.Now().UTC(),
	}
	if s.Payment != nil {
		event.TransactionHash = s.Payment.TransactionHash
	}
	return event
}

// Publisher delivers checkout events to downstream consumers
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
