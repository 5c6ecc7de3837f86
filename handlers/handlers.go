package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"checkout-service/checkout"
	"checkout-service/logging"
	"checkout-service/models"
	"checkout-service/store"
)

// CheckoutHandler handles HTTP requests for checkout sessions
type CheckoutHandler struct {
	checkoutService *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// CreateCheckout starts a checkout for the cart total in the request body
func (h *CheckoutHandler) CreateCheckout(c *gin.Context) {
	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)

	var req models.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.checkoutService.Create(ctx, req.Total)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, checkout.ErrShuttingDown) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}

		logging.WithTraceContext(span).Error("Checkout creation failed",
			zap.Error(err),
			zap.String("total", req.Total.String()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout creation failed"})
		return
	}

	span.AddEvent("checkout_created")
	c.JSON(http.StatusCreated, models.NewCheckoutResponse(session))
}

// GetCheckout returns the current state of a checkout session
func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	session, err := h.checkoutService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewCheckoutResponse(session))
}

// CloseCheckout ends a checkout session
func (h *CheckoutHandler) CloseCheckout(c *gin.Context) {
	session, err := h.checkoutService.Close(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewCheckoutResponse(session))
}

// HealthCheck handles health check requests
func (h *CheckoutHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *CheckoutHandler) sessionError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	logging.WithTraceContext(trace.SpanFromContext(c.Request.Context())).Error("Checkout session lookup failed",
		zap.Error(err),
		zap.String("session_id", c.Param("id")),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout session lookup failed"})
}
