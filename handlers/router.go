package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"checkout-service/monitoring"
)

// NewRouter wires the checkout routes behind the tracing and metrics middleware
func NewRouter(serviceName string, checkoutHandler *CheckoutHandler) *gin.Engine {
	r := gin.Default()

	// OpenTelemetry middleware
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMetricsMiddleware())

	r.GET("/health", checkoutHandler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/checkout")
	{
		api.POST("", checkoutHandler.CreateCheckout)
		api.GET("/:id", checkoutHandler.GetCheckout)
		api.POST("/:id/close", checkoutHandler.CloseCheckout)
	}

	return r
}

// httpMetricsMiddleware records HTTP request metrics
func httpMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := float64(time.Since(start).Milliseconds())

		monitoring.HTTPServerDuration.Record(c.Request.Context(), duration,
			metric.WithAttributes(
				attribute.String("http_method", c.Request.Method),
				attribute.String("http_route", c.FullPath()),
				attribute.String("http_status_code", strconv.Itoa(c.Writer.Status())),
			),
		)
	}
}
