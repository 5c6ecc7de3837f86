package store

import (
	"context"
	"errors"

	"checkout-service/models"
)

var ErrSessionNotFound = errors.New("checkout session not found")

// SessionStore persists checkout sessions.
type SessionStore interface {
	Save(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
}
