package onepay

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const payPath = "/pay"

// LinkBuilder mints payment requests and the deep links that carry them.
type LinkBuilder struct {
	appID       string
	deepLinkURL string
	newID       func() string
}

func NewLinkBuilder(cfg Config) *LinkBuilder {
	cfg = cfg.withDefaults()
	return &LinkBuilder{
		appID:       cfg.AppID,
		deepLinkURL: cfg.DeepLinkURL,
		newID:       cfg.IDGenerator,
	}
}

// Build creates a new payment request for recipient and amount and returns it
// with its deep link. Amount is in the token's base units; use ToBaseUnits to
// scale a display amount. Every call mints a fresh identifier, so two calls
// with the same inputs are two distinct payment attempts.
func (b *LinkBuilder) Build(recipient string, amount decimal.Decimal) (*PaymentLink, error) {
	if !IsAddress(recipient) {
		return nil, errors.Wrapf(ErrInvalidRecipient, "%q", recipient)
	}
	if amount.Sign() <= 0 || !amount.Equal(amount.Truncate(0)) {
		return nil, errors.Wrapf(ErrInvalidAmount, "%s", amount.String())
	}

	request := PaymentRequest{
		PaymentID: b.newID(),
		Recipient: recipient,
		Amount:    amount.StringFixed(0),
	}

	path := payPath + "?" + encodeParams(
		param{"paymentId", request.PaymentID},
		param{"recipient", request.Recipient},
		param{"amount", request.Amount},
	)

	link := b.deepLinkURL + "?" + encodeParams(
		param{"app_id", b.appID},
		param{"path", path},
	)

	return &PaymentLink{
		Request: request,
		URL:     link,
	}, nil
}

// ToBaseUnits scales a display amount to the token's base units, dropping any
// dust below one base unit.
func ToBaseUnits(display decimal.Decimal, decimals int32) decimal.Decimal {
	return display.Shift(decimals).Truncate(0)
}

// ParseLink decodes a deep link produced by Build into its payment request
// and application identifier.
func ParseLink(link string) (*PaymentRequest, string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return nil, "", errors.Wrap(ErrInvalidLink, err.Error())
	}

	query := u.Query()
	appID := query.Get("app_id")
	path := query.Get("path")
	if appID == "" || !strings.HasPrefix(path, payPath+"?") {
		return nil, "", ErrInvalidLink
	}

	params, err := url.ParseQuery(strings.TrimPrefix(path, payPath+"?"))
	if err != nil {
		return nil, "", errors.Wrap(ErrInvalidLink, err.Error())
	}

	return &PaymentRequest{
		PaymentID: params.Get("paymentId"),
		Recipient: params.Get("recipient"),
		Amount:    params.Get("amount"),
	}, appID, nil
}

type param struct {
	key   string
	value string
}

// encodeParams form-encodes params in the given order, the way a browser's
// URLSearchParams does. The wallet app compares links byte for byte, so key
// order and escaping must not drift.
func encodeParams(params ...param) string {
	var sb strings.Builder
	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(formEscape(p.key))
		sb.WriteByte('=')
		sb.WriteString(formEscape(p.value))
	}
	return sb.String()
}

var formReplacer = strings.NewReplacer("~", "%7E", "%2A", "*")

func formEscape(s string) string {
	return formReplacer.Replace(url.QueryEscape(s))
}
