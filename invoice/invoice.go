// Package invoice validates and submits new invoices, resolving email and
// phone recipients through the contacts API.
package invoice

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"payme-tui/api"
	"payme-tui/helpers"
)

// Mode selects how the recipient is identified.
type Mode string

const (
	ModeAddress Mode = "address"
	ModeEmail   Mode = "email"
	ModePhone   Mode = "phone"
)

// FailureMessage is shown when the API gives no detail.
const FailureMessage = "failed to create invoice"

var (
	ErrInvalidRecipient = errors.New("invalid recipient address")
	ErrInvalidToken     = errors.New("invalid token address")
	ErrMissingEmail     = errors.New("email is required")
	ErrMissingPhone     = errors.New("phone is required")
	ErrNoWallet         = errors.New("set your wallet address first")
)

// Draft is the user's input before submission.
type Draft struct {
	Mode      Mode
	Recipient string
	Email     string
	Phone     string
	Amount    string
	Memo      string
	Token     string
}

// Validate checks the draft locally. No network call is made.
func (d Draft) Validate() error {
	if !helpers.IsPositiveAmount(d.Amount) {
		return helpers.ErrInvalidAmount
	}
	switch d.Mode {
	case ModeEmail:
		if strings.TrimSpace(d.Email) == "" {
			return ErrMissingEmail
		}
	case ModePhone:
		if strings.TrimSpace(d.Phone) == "" {
			return ErrMissingPhone
		}
	default:
		if !helpers.IsValidEthAddress(strings.TrimSpace(d.Recipient)) {
			return ErrInvalidRecipient
		}
	}
	if !helpers.IsValidEthAddress(strings.TrimSpace(d.Token)) {
		return ErrInvalidToken
	}
	return nil
}

// ContactFinder looks contacts up by email or phone.
type ContactFinder interface {
	LookupContact(ctx context.Context, wallet, email, phone string) (api.LookupResult, error)
}

// Service is the part of the API used to create invoices.
type Service interface {
	ContactFinder
	CreateInvoice(ctx context.Context, req api.CreateInvoiceRequest) (api.Invoice, error)
}

// Lookup resolves an email or phone to a saved contact. It never fails: a
// miss and a broken lookup both report found=false.
func Lookup(ctx context.Context, contacts ContactFinder, wallet string, mode Mode, value string) (api.Contact, bool) {
	value = strings.TrimSpace(value)
	if contacts == nil || value == "" {
		return api.Contact{}, false
	}
	var email, phone string
	switch mode {
	case ModeEmail:
		email = value
	case ModePhone:
		phone = value
	default:
		return api.Contact{}, false
	}
	res, err := contacts.LookupContact(ctx, wallet, email, phone)
	if err != nil || !res.Found || res.Contact == nil {
		return api.Contact{}, false
	}
	return *res.Contact, true
}

// Result describes a created invoice.
type Result struct {
	InvoiceID   string
	PaymentLink string
	// Direct is set when an email or phone matched a contact and the
	// invoice pays that contact's wallet.
	Direct  bool
	Contact *api.Contact
	Invoice api.Invoice
}

// Shareable reports whether the link must be sent to the customer by hand.
func (r Result) Shareable() bool {
	return !r.Direct && r.PaymentLink != ""
}

// Submit validates d and creates the invoice. self is the caller's own
// wallet, used as merchant when an email or phone has no matching contact.
func Submit(ctx context.Context, svc Service, d Draft, self string) (Result, error) {
	if err := d.Validate(); err != nil {
		return Result{}, err
	}
	amount, _ := helpers.ParseAmount(d.Amount)
	req := api.CreateInvoiceRequest{
		Amount:       json.Number(amount.String()),
		TokenAddress: strings.TrimSpace(d.Token),
		Memo:         strings.TrimSpace(d.Memo),
	}

	var res Result
	switch d.Mode {
	case ModeEmail, ModePhone:
		value := d.Email
		if d.Mode == ModePhone {
			value = d.Phone
		}
		if c, ok := Lookup(ctx, svc, self, d.Mode, value); ok && helpers.IsValidEthAddress(c.Address) {
			req.MerchantAddress = c.Address
			res.Direct = true
			res.Contact = &c
			break
		}
		if !helpers.IsValidEthAddress(self) {
			return Result{}, ErrNoWallet
		}
		req.MerchantAddress = self
		if d.Mode == ModeEmail {
			req.CustomerEmail = strings.TrimSpace(d.Email)
		} else {
			req.CustomerPhone = strings.TrimSpace(d.Phone)
		}
	default:
		req.MerchantAddress = strings.TrimSpace(d.Recipient)
	}

	inv, err := svc.CreateInvoice(ctx, req)
	if err != nil {
		return Result{}, err
	}
	res.InvoiceID = inv.ID
	res.PaymentLink = inv.PaymentLink
	res.Invoice = inv
	return res, nil
}

// ErrorText is the message to show for a Submit error.
func ErrorText(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return api.ErrorMessage(err, FailureMessage)
	}
	if err == nil {
		return ""
	}
	// local validation errors are already user-facing
	switch {
	case errors.Is(err, helpers.ErrInvalidAmount),
		errors.Is(err, ErrInvalidRecipient),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrMissingEmail),
		errors.Is(err, ErrMissingPhone),
		errors.Is(err, ErrNoWallet):
		return err.Error()
	}
	return FailureMessage
}
