package checkout

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"checkout-service/monitoring"
	"checkout-service/onepay"
)

// instrumentedFetcher records poll counts and provider latency
type instrumentedFetcher struct {
	next onepay.StatusFetcher
}

func (f *instrumentedFetcher) GetPaymentStatus(ctx context.Context, paymentID string) (*onepay.StatusResponse, error) {
	start := time.Now()
	resp, err := f.next.GetPaymentStatus(ctx, paymentID)
	duration := time.Since(start).Seconds()

	result := "error"
	if err == nil {
		result = string(resp.Status)
	}
	attrs := metric.WithAttributes(attribute.String("result", result))

	monitoring.PaymentPolls.Add(ctx, 1, attrs)
	monitoring.PaymentStatusDuration.Record(ctx, duration, attrs)

	return resp, err
}
