package onepay

// Status is the state of a payment as reported by the payment provider.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// IsTerminal reports whether no further transitions can happen for the
// payment identifier that produced this status.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

func (s Status) valid() bool {
	switch s {
	case StatusPending, StatusSuccess, StatusFailed:
		return true
	}
	return false
}

// PaymentRequest is the payload embedded in a payment deep link.
type PaymentRequest struct {
	PaymentID string `json:"paymentId"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

// PaymentLink is a payment request together with the deep link that opens it
// in the wallet mini app.
type PaymentLink struct {
	Request PaymentRequest `json:"paymentRequest"`
	URL     string         `json:"url"`
}

type User struct {
	Address  string `json:"address"`
	Username string `json:"username"`
	ImageURL string `json:"imageUrl"`
}

type Token struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
	Address  string `json:"address"`
}

type Vendor struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	LogoURI string `json:"logoUri"`
	Website string `json:"website"`
}

// Payment is the settled payment record owned by the payment provider.
type Payment struct {
	ID              string `json:"id"`
	Payer           *User  `json:"payer,omitempty"`
	PayerAddress    string `json:"payerAddress"`
	Recipient       string `json:"recipient"`
	TokenIn         Token  `json:"tokenIn"`
	AmountIn        string `json:"amountIn"`
	AmountOut       string `json:"amountOut"`
	TransactionHash string `json:"transactionHash"`
	Timestamp       string `json:"timestamp"`
	Vendor          Vendor `json:"vendor"`
}

// StatusResponse is the body returned by the payment status endpoint.
type StatusResponse struct {
	Status  Status   `json:"status"`
	Payment *Payment `json:"payment"`
	Error   *string  `json:"error"`
}
