package api

import (
	"encoding/json"
	"strings"
)

// Invoice statuses as stored by the API
const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
)

// Amount is a decimal amount that the API may send either as a JSON string
// or as a JSON number. It is always kept as its decimal text.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}

func (a Amount) String() string { return string(a) }

// Invoice is a server-side payment request
type Invoice struct {
	ID              string `json:"id"`
	MerchantAddress string `json:"merchantAddress"`
	CustomerEmail   string `json:"customerEmail,omitempty"`
	CustomerPhone   string `json:"customerPhone,omitempty"`
	Amount          Amount `json:"amount"`
	TokenAddress    string `json:"tokenAddress"`
	Memo            string `json:"memo"`
	Status          string `json:"status"`
	CreatedAt       string `json:"createdAt,omitempty"`
	PaidAt          string `json:"paidAt,omitempty"`
	PaymentLink     string `json:"paymentLink,omitempty"`
	TxHash          string `json:"tempoTxHash,omitempty"`
	PayerAddress    string `json:"payerAddress,omitempty"`
	ChainID         string `json:"tempoChainId,omitempty"`
}

// Paid reports whether the invoice has settled.
func (i Invoice) Paid() bool {
	return strings.EqualFold(i.Status, StatusPaid)
}

// CreateInvoiceRequest is the body of POST /api/invoices
type CreateInvoiceRequest struct {
	MerchantAddress string      `json:"merchantAddress"`
	CustomerEmail   string      `json:"customerEmail,omitempty"`
	CustomerPhone   string      `json:"customerPhone,omitempty"`
	Amount          json.Number `json:"amount"`
	TokenAddress    string      `json:"tokenAddress"`
	Memo            string      `json:"memo,omitempty"`
}

// MarkPaidRequest is the body of POST /api/invoices/{id}/pay
type MarkPaidRequest struct {
	TxHash       string `json:"txHash"`
	PayerAddress string `json:"payerAddress"`
}

// Contact is a saved recipient
type Contact struct {
	ID          string `json:"id"`
	OwnerWallet string `json:"ownerWallet"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// CreateContactRequest is the body of POST /api/contacts
type CreateContactRequest struct {
	OwnerWallet   string `json:"ownerWallet"`
	Name          string `json:"name"`
	WalletAddress string `json:"walletAddress"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
}

// LookupResult is returned by the contact lookup endpoint
type LookupResult struct {
	Found   bool     `json:"found"`
	Contact *Contact `json:"contact,omitempty"`
}

// errorBody covers both the plain and the validation error shapes:
// {"detail": "..."} and {"detail": [{"msg": "..."}]}.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}
