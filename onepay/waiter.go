package onepay

import (
	"context"
	"sync"
)

// Waiter follows whichever payment identifier is current. Changing the
// identifier cancels the previous watch and starts over from StatusPending.
type Waiter struct {
	poller  *Poller
	handler Handler

	mu        sync.Mutex
	paymentID string
	sub       *Subscription
}

func NewWaiter(poller *Poller, h Handler) *Waiter {
	return &Waiter{
		poller:  poller,
		handler: h,
	}
}

// SetPaymentID switches the waiter to paymentID. Setting the identifier that
// is already being watched is a no-op; setting "" stops watching.
func (w *Waiter) SetPaymentID(ctx context.Context, paymentID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if paymentID == w.paymentID && w.sub != nil {
		return
	}

	if w.sub != nil {
		w.sub.Cancel()
		w.sub = nil
	}

	w.paymentID = paymentID
	if paymentID == "" {
		return
	}

	w.sub = w.poller.Watch(ctx, paymentID, w.handler)
}

// PaymentID returns the identifier currently being watched.
func (w *Waiter) PaymentID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.paymentID
}

// Status returns the status for the current identifier.
func (w *Waiter) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sub == nil {
		return StatusPending
	}
	return w.sub.Status()
}

// Subscription returns the active subscription, or nil when no identifier
// is set.
func (w *Waiter) Subscription() *Subscription {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sub
}

// Stop cancels the current watch.
func (w *Waiter) Stop() {
	w.SetPaymentID(context.Background(), "")
}
