package onepay

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// maxResponseSize caps how much of a status response is read.
const maxResponseSize = 1 << 20

// StatusFetcher looks up the current status of a payment.
type StatusFetcher interface {
	GetPaymentStatus(ctx context.Context, paymentID string) (*StatusResponse, error)
}

// StatusClient queries the payment provider's status endpoint.
type StatusClient struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewStatusClient(cfg Config) *StatusClient {
	cfg = cfg.withDefaults()
	return &StatusClient{
		baseURL:    strings.TrimRight(cfg.APIURL, "/"),
		httpClient: cfg.HTTPClient,
		log:        cfg.Logger,
	}
}

// GetPaymentStatus implements StatusFetcher.GetPaymentStatus
func (c *StatusClient) GetPaymentStatus(ctx context.Context, paymentID string) (*StatusResponse, error) {
	endpoint := c.baseURL + "/payments?id=" + url.QueryEscape(paymentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &TransportError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: errors.Wrap(err, "failed to read response")}
	}

	var status StatusResponse
	if err := sonic.Unmarshal(body, &status); err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: errors.Wrap(err, "failed to decode response")}
	}

	if !status.Status.valid() {
		return nil, errors.Wrapf(ErrUnexpectedStatus, "%q", status.Status)
	}
	if status.Status == StatusSuccess && status.Payment == nil {
		return nil, errors.Wrap(ErrUnexpectedStatus, "success without payment")
	}

	c.log.Debug("Polled payment status",
		zap.String("payment_id", paymentID),
		zap.String("status", string(status.Status)),
	)

	return &status, nil
}
