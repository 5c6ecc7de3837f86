package onepay

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Handler receives the progress of a watched payment. All callbacks are
// optional. OnStatus is called with StatusPending when the watch starts and
// with the resulting status after every poll. At most one of OnSuccess and
// OnError is called per subscription.
type Handler struct {
	OnStatus  func(Status)
	OnSuccess func(*Payment)
	OnError   func(error)
}

// Poller watches payments by polling a StatusFetcher on a fixed interval.
type Poller struct {
	fetcher        StatusFetcher
	interval       time.Duration
	requestTimeout time.Duration
	retries        uint64
	retryBackoff   time.Duration
	log            *zap.Logger
}

func NewPoller(fetcher StatusFetcher, cfg Config) *Poller {
	cfg = cfg.withDefaults()
	return &Poller{
		fetcher:        fetcher,
		interval:       cfg.PollInterval,
		requestTimeout: cfg.RequestTimeout,
		retries:        cfg.TransportRetries,
		retryBackoff:   cfg.RetryBackoff,
		log:            cfg.Logger,
	}
}

// Subscription is a running watch of one payment identifier.
type Subscription struct {
	paymentID string
	cancel    context.CancelFunc
	done      chan struct{}

	mu        sync.Mutex
	status    Status
	err       error
	cancelled bool
}

// PaymentID returns the watched identifier.
func (s *Subscription) PaymentID() string {
	return s.paymentID
}

// Status returns the current status of the watched payment.
func (s *Subscription) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the error that ended the watch, if it ended as failed.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Done is closed once the watch has stopped, either because the payment
// reached a terminal status or because the subscription was cancelled.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Cancel stops the tick source. A request already in flight is not aborted,
// but its result is discarded. Cancel is safe to call more than once.
func (s *Subscription) Cancel() {
	s.mu.Lock()
	s.cancelled = true
	s.mu.Unlock()

	s.cancel()
}

// finish moves the subscription into a terminal status. It returns false if
// the subscription is already terminal or cancelled, in which case no
// callback may fire.
func (s *Subscription) finish(status Status, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelled || s.status.IsTerminal() {
		return false
	}

	s.status = status
	s.err = err
	return true
}

func (s *Subscription) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.cancelled && !s.status.IsTerminal()
}

// Watch starts polling paymentID until it succeeds, fails, ctx is done or the
// returned subscription is cancelled. An empty paymentID yields a subscription
// that is already done and never reaches the network.
func (p *Poller) Watch(ctx context.Context, paymentID string, h Handler) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		paymentID: paymentID,
		cancel:    cancel,
		done:      make(chan struct{}),
		status:    StatusPending,
	}

	if paymentID == "" {
		cancel()
		close(sub.done)
		return sub
	}

	if h.OnStatus != nil {
		h.OnStatus(StatusPending)
	}

	go p.run(ctx, sub, h)
	return sub
}

func (p *Poller) run(ctx context.Context, sub *Subscription, h Handler) {
	defer close(sub.done)
	defer sub.cancel()

	log := p.log.With(zap.String("payment_id", sub.paymentID))
	log.Debug("Watching payment")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("Stopped watching payment", zap.Error(ctx.Err()))
			return
		case <-ticker.C:
			if !sub.active() {
				return
			}
			if p.poll(ctx, sub, h, log) {
				return
			}
		}
	}
}

// poll performs one status check and reports whether the watch is over.
func (p *Poller) poll(ctx context.Context, sub *Subscription, h Handler, log *zap.Logger) bool {
	resp, err := p.fetch(ctx, sub.paymentID)

	// Cancelled while the request was in flight.
	if ctx.Err() != nil {
		return true
	}

	if err != nil {
		log.Warn("Payment status request failed", zap.Error(err))
		p.fail(sub, h, err)
		return true
	}

	switch resp.Status {
	case StatusSuccess:
		if sub.finish(StatusSuccess, nil) {
			log.Info("Payment succeeded", zap.String("transaction_hash", resp.Payment.TransactionHash))
			if h.OnStatus != nil {
				h.OnStatus(StatusSuccess)
			}
			if h.OnSuccess != nil {
				h.OnSuccess(resp.Payment)
			}
		}
		return true
	case StatusFailed:
		log.Info("Payment failed")
		p.fail(sub, h, ErrPaymentFailed)
		return true
	default:
		if h.OnStatus != nil {
			h.OnStatus(StatusPending)
		}
		return false
	}
}

func (p *Poller) fail(sub *Subscription, h Handler, err error) {
	if !sub.finish(StatusFailed, err) {
		return
	}
	if h.OnStatus != nil {
		h.OnStatus(StatusFailed)
	}
	if h.OnError != nil {
		h.OnError(err)
	}
}

// fetch issues one status request, retrying transport errors up to the
// configured number of times.
func (p *Poller) fetch(ctx context.Context, paymentID string) (*StatusResponse, error) {
	var resp *StatusResponse

	// Cancelling the watch does not abort a request in flight; poll discards
	// its result instead.
	detached := context.WithoutCancel(ctx)

	operation := func() error {
		reqCtx, cancel := context.WithTimeout(detached, p.requestTimeout)
		defer cancel()

		r, err := p.fetcher.GetPaymentStatus(reqCtx, paymentID)
		if err != nil {
			if errors.Is(err, ErrTransport) {
				return err
			}
			return backoff.Permanent(err)
		}

		resp = r
		return nil
	}

	if err := backoff.Retry(operation, p.newBackOff(ctx)); err != nil {
		return nil, err
	}
	return resp, nil
}

func (p *Poller) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.retryBackoff
	exp.MaxInterval = 10 * p.retryBackoff
	exp.MaxElapsedTime = 0
	exp.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(exp, p.retries), ctx)
}
