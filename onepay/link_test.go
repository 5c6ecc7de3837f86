package onepay

import (
	"net/url"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRecipient = "0x02d5fae7ffa927ebed2324c0f46ceb2edfc679f2"

func TestBuild(t *testing.T) {
	builder := NewLinkBuilder(Config{})

	link, err := builder.Build(testRecipient, decimal.NewFromInt(1000000))
	require.NoError(t, err)

	assert.Equal(t, testRecipient, link.Request.Recipient)
	assert.Equal(t, "1000000", link.Request.Amount)
	assert.Len(t, link.Request.PaymentID, IDLength)
	assert.Contains(t, link.URL, "app_id=app_d9589ab005e18dcf362d2ea26aef669e")

	u, err := url.Parse(link.URL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u.Query().Get("path"), "/pay?"))
}

func TestBuild_Encoding(t *testing.T) {
	builder := NewLinkBuilder(Config{
		IDGenerator: func() string { return "tz4a98xxat96iws9zmbrgj3a" },
	})

	link, err := builder.Build(testRecipient, decimal.NewFromInt(1000000))
	require.NoError(t, err)

	expected := "https://worldcoin.org/mini-app" +
		"?app_id=app_d9589ab005e18dcf362d2ea26aef669e" +
		"&path=%2Fpay%3FpaymentId%3Dtz4a98xxat96iws9zmbrgj3a" +
		"%26recipient%3D0x02d5fae7ffa927ebed2324c0f46ceb2edfc679f2" +
		"%26amount%3D1000000"
	assert.Equal(t, expected, link.URL)
}

func TestBuild_CustomDeepLink(t *testing.T) {
	builder := NewLinkBuilder(Config{
		AppID:       "app_test",
		DeepLinkURL: "https://example.com/open",
	})

	link, err := builder.Build(testRecipient, decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link.URL, "https://example.com/open?app_id=app_test&path="))
}

func TestBuild_InvalidRecipient(t *testing.T) {
	var generated int
	builder := NewLinkBuilder(Config{
		IDGenerator: func() string {
			generated++
			return CreateID()
		},
	})

	for _, recipient := range []string{
		"",
		"0x123",
		"not an address",
		"02d5fae7ffa927ebed2324c0f46ceb2edfc679f2",
		"0x02d5fae7ffa927ebed2324c0f46ceb2edfc679g2",
	} {
		link, err := builder.Build(recipient, decimal.NewFromInt(1000000))
		assert.Nil(t, link)
		assert.True(t, errors.Is(err, ErrInvalidRecipient), recipient)
	}

	assert.Zero(t, generated)
}

func TestBuild_InvalidAmount(t *testing.T) {
	builder := NewLinkBuilder(Config{})

	for _, amount := range []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(-5),
		decimal.RequireFromString("1.5"),
	} {
		_, err := builder.Build(testRecipient, amount)
		assert.True(t, errors.Is(err, ErrInvalidAmount), amount.String())
	}
}

func TestBuild_DistinctRequests(t *testing.T) {
	builder := NewLinkBuilder(Config{})
	amount := decimal.NewFromInt(42000000)

	first, err := builder.Build(testRecipient, amount)
	require.NoError(t, err)
	second, err := builder.Build(testRecipient, amount)
	require.NoError(t, err)

	assert.NotEqual(t, first.Request.PaymentID, second.Request.PaymentID)
	assert.NotEqual(t, first.URL, second.URL)

	for _, link := range []*PaymentLink{first, second} {
		request, appID, err := ParseLink(link.URL)
		require.NoError(t, err)

		assert.Equal(t, DefaultAppID, appID)
		assert.Equal(t, link.Request, *request)
		assert.Equal(t, testRecipient, request.Recipient)
		assert.Equal(t, "42000000", request.Amount)
	}
}

func TestParseLink_Invalid(t *testing.T) {
	for _, link := range []string{
		"https://worldcoin.org/mini-app",
		"https://worldcoin.org/mini-app?app_id=x",
		"https://worldcoin.org/mini-app?app_id=x&path=%2Fother",
		"%zz",
	} {
		_, _, err := ParseLink(link)
		assert.True(t, errors.Is(err, ErrInvalidLink), link)
	}
}

func TestToBaseUnits(t *testing.T) {
	assert.Equal(t, "12500000", ToBaseUnits(decimal.RequireFromString("12.5"), 6).String())
	assert.Equal(t, "3000000", ToBaseUnits(decimal.NewFromInt(3), 6).String())
	assert.Equal(t, "1", ToBaseUnits(decimal.RequireFromString("0.0000019"), 6).String())
	assert.True(t, ToBaseUnits(decimal.RequireFromString("0.0000001"), 6).IsZero())
}

func TestFormEscape(t *testing.T) {
	assert.Equal(t, "a+b", formEscape("a b"))
	assert.Equal(t, "*-._", formEscape("*-._"))
	assert.Equal(t, "%7E", formEscape("~"))
	assert.Equal(t, "%2Fpay%3Fa%3D1%26b%3D2", formEscape("/pay?a=1&b=2"))
}
