package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"checkout-service/events"
	"checkout-service/logging"
	"checkout-service/models"
	"checkout-service/monitoring"
	"checkout-service/onepay"
	"checkout-service/store"
)

var (
	ErrEmptyCart    = errors.New("cart total must be greater than zero")
	ErrShuttingDown = errors.New("checkout service is shutting down")
)

const (
	// USDC on World Chain
	DefaultTokenDecimals = 6

	updateTimeout = 5 * time.Second
)

// Config describes where storefront payments go
type Config struct {
	Recipient     string
	TokenDecimals int32
}

// Service runs checkout sessions: it mints a payment link for a cart total and
// watches the payment until it settles or the session is closed.
type Service struct {
	cfg       Config
	links     *onepay.LinkBuilder
	poller    *onepay.Poller
	store     store.SessionStore
	publisher events.Publisher
	tracer    trace.Tracer
	log       *zap.Logger

	// serialises read-modify-write of stored sessions
	updateMu sync.Mutex

	mu      sync.Mutex
	watches map[string]*onepay.Waiter
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewService creates a checkout service. A nil publisher drops events and a
// nil tracer falls back to the global tracer provider.
func NewService(cfg Config, op onepay.Config, st store.SessionStore, pub events.Publisher, tracer trace.Tracer) *Service {
	if cfg.TokenDecimals <= 0 {
		cfg.TokenDecimals = DefaultTokenDecimals
	}
	if pub == nil {
		pub = events.NopPublisher{}
	}
	if tracer == nil {
		tracer = otel.Tracer("checkout-service")
	}
	if op.Logger == nil {
		op.Logger = logging.Named("onepay")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		cfg:       cfg,
		links:     onepay.NewLinkBuilder(op),
		poller:    onepay.NewPoller(&instrumentedFetcher{next: onepay.NewStatusClient(op)}, op),
		store:     st,
		publisher: pub,
		tracer:    tracer,
		log:       logging.Named("checkout"),
		watches:   make(map[string]*onepay.Waiter),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Create starts a checkout for the given display total
func (s *Service) Create(ctx context.Context, total decimal.Decimal) (*models.Session, error) {
	ctx, span := s.tracer.Start(ctx, "create_checkout")
	defer span.End()

	logger := logging.WithTraceContext(span)

	if s.ctx.Err() != nil {
		return nil, ErrShuttingDown
	}

	// Totals below one base unit count as empty.
	amount := onepay.ToBaseUnits(total, s.cfg.TokenDecimals)
	if !total.IsPositive() || !amount.IsPositive() {
		return nil, ErrEmptyCart
	}

	link, err := s.links.Build(s.cfg.Recipient, amount)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to build payment link: %w", err)
	}

	now := time.Now().UTC()
	session := &models.Session{
		ID:        uuid.NewString(),
		PaymentID: link.Request.PaymentID,
		URL:       link.URL,
		Recipient: link.Request.Recipient,
		Total:     total,
		Amount:    link.Request.Amount,
		Status:    onepay.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	span.SetAttributes(
		attribute.String("checkout.session_id", session.ID),
		attribute.String("checkout.payment_id", session.PaymentID),
		attribute.String("checkout.amount", session.Amount),
	)

	if err := s.store.Save(ctx, session); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to save checkout session: %w", err)
	}

	s.publish(ctx, events.TypeCreated, session)
	monitoring.CheckoutSessions.Add(ctx, 1)

	logger.Info("Checkout session created",
		zap.String("session_id", session.ID),
		zap.String("payment_id", session.PaymentID),
		zap.String("total", total.String()),
		zap.String("amount", session.Amount),
	)

	s.watch(session)

	return session, nil
}

// Get returns a checkout session by id
func (s *Service) Get(ctx context.Context, id string) (*models.Session, error) {
	return s.store.Get(ctx, id)
}

// Close ends a checkout session. The watch is cancelled; the cart is cleared
// only when the payment went through.
func (s *Service) Close(ctx context.Context, id string) (*models.Session, error) {
	ctx, span := s.tracer.Start(ctx, "close_checkout")
	defer span.End()

	span.SetAttributes(attribute.String("checkout.session_id", id))

	s.stopWatch(id)

	alreadyClosed := false
	session, err := s.update(ctx, id, func(session *models.Session) {
		alreadyClosed = session.Closed
		session.Closed = true
		if session.Status == onepay.StatusSuccess {
			session.ClearCart = true
		}
	})
	if err != nil {
		return nil, err
	}

	if !alreadyClosed {
		s.publish(ctx, events.TypeClosed, session)
		logging.WithTraceContext(span).Info("Checkout session closed",
			zap.String("session_id", id),
			zap.String("status", string(session.Status)),
			zap.Bool("clear_cart", session.ClearCart),
		)
	}

	return session, nil
}

// Shutdown cancels every active watch
func (s *Service) Shutdown() {
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, waiter := range s.watches {
		waiter.Stop()
		delete(s.watches, id)
	}
}

// Watching reports whether the session's payment is still being watched
func (s *Service) Watching(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.watches[id]
	return ok
}

func (s *Service) watch(session *models.Session) {
	id := session.ID
	log := s.log.With(zap.String("session_id", id), zap.String("payment_id", session.PaymentID))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return
	}

	waiter := onepay.NewWaiter(s.poller, onepay.Handler{
		OnStatus: func(status onepay.Status) {
			log.Debug("Payment status", zap.String("status", string(status)))
		},
		OnSuccess: func(payment *onepay.Payment) {
			s.complete(id, payment)
		},
		OnError: func(err error) {
			s.fail(id, err)
		},
	})
	waiter.SetPaymentID(s.ctx, session.PaymentID)
	s.watches[id] = waiter
}

func (s *Service) stopWatch(id string) {
	s.mu.Lock()
	waiter, ok := s.watches[id]
	delete(s.watches, id)
	s.mu.Unlock()

	if ok {
		waiter.Stop()
	}
}

func (s *Service) complete(id string, payment *onepay.Payment) {
	s.forget(id)

	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	session, err := s.update(ctx, id, func(session *models.Session) {
		session.Status = onepay.StatusSuccess
		session.Payment = payment
		session.Error = ""
		if session.Closed {
			session.ClearCart = true
		}
	})
	if err != nil {
		s.log.Error("Failed to record completed payment", zap.String("session_id", id), zap.Error(err))
		return
	}

	monitoring.PaymentOutcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(onepay.StatusSuccess))))
	s.publish(ctx, events.TypeCompleted, session)

	s.log.Info("Checkout completed",
		zap.String("session_id", id),
		zap.String("transaction_hash", payment.TransactionHash),
	)
}

func (s *Service) fail(id string, cause error) {
	s.forget(id)

	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	session, err := s.update(ctx, id, func(session *models.Session) {
		session.Status = onepay.StatusFailed
		session.Error = cause.Error()
	})
	if err != nil {
		s.log.Error("Failed to record failed payment", zap.String("session_id", id), zap.Error(err))
		return
	}

	reason := "payment"
	if errors.Is(cause, onepay.ErrTransport) {
		reason = "transport"
	}
	monitoring.PaymentOutcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", string(onepay.StatusFailed)),
		attribute.String("reason", reason),
	))
	s.publish(ctx, events.TypeFailed, session)

	s.log.Warn("Checkout failed", zap.String("session_id", id), zap.Error(cause))
}

// forget drops a finished watch from the active set
func (s *Service) forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watches, id)
}

func (s *Service) update(ctx context.Context, id string, fn func(*models.Session)) (*models.Session, error) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fn(session)
	session.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save checkout session: %w", err)
	}
	return session, nil
}

func (s *Service) publish(ctx context.Context, t events.Type, session *models.Session) {
	if err := s.publisher.Publish(ctx, events.NewEvent(t, session)); err != nil {
		s.log.Warn("Failed to publish checkout event",
			zap.String("event_type", string(t)),
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
	}
}
