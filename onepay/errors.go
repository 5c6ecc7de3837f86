package onepay

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidRecipient = errors.New("invalid recipient address")
	ErrInvalidAmount    = errors.New("amount must be a positive integer in base units")
	ErrInvalidLink      = errors.New("invalid payment link")
	ErrTransport        = errors.New("failed to fetch payment status")
	ErrPaymentFailed    = errors.New("payment failed")
	ErrUnexpectedStatus = errors.New("unexpected payment status")
)

// TransportError is returned when the status endpoint could not be reached,
// answered with a non-2xx code, or sent a body that could not be decoded.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: status code %d", ErrTransport, e.StatusCode)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status code %d: %v", ErrTransport, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
