package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// WalletHeader carries the caller's wallet address on mutating requests.
const WalletHeader = "X-Wallet-Address"

// Client talks to the invoice and contacts API
type Client struct {
	BaseURL string
	HTTP    *http.Client
	wallet  string
}

// New creates an unauthenticated client for baseURL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// WithWallet returns a copy of the client that sends the wallet header on
// every request. An empty address yields an unauthenticated copy.
func (c *Client) WithWallet(address string) *Client {
	cp := *c
	cp.wallet = address
	return &cp
}

// Wallet returns the address the client authenticates as.
func (c *Client) Wallet() string {
	return c.wallet
}

// CreateInvoice creates an invoice and returns the stored record.
func (c *Client) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (Invoice, error) {
	var inv Invoice
	err := c.do(ctx, http.MethodPost, "/api/invoices", nil, req, &inv)
	return inv, err
}

// GetInvoice fetches one invoice by id.
func (c *Client) GetInvoice(ctx context.Context, id string) (Invoice, error) {
	var inv Invoice
	err := c.do(ctx, http.MethodGet, "/api/invoices/"+url.PathEscape(id), nil, nil, &inv)
	return inv, err
}

// ListInvoices lists invoices where wallet is merchant or payer, newest first.
func (c *Client) ListInvoices(ctx context.Context, wallet string) ([]Invoice, error) {
	q := url.Values{}
	if wallet != "" {
		q.Set("wallet", wallet)
	}
	var out []Invoice
	err := c.do(ctx, http.MethodGet, "/api/invoices", q, nil, &out)
	return out, err
}

// DeleteInvoice removes an invoice.
func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/invoices/"+url.PathEscape(id), nil, nil, nil)
}

// MarkPaid records an on-chain settlement for the invoice.
func (c *Client) MarkPaid(ctx context.Context, id string, req MarkPaidRequest) (Invoice, error) {
	var inv Invoice
	err := c.do(ctx, http.MethodPost, "/api/invoices/"+url.PathEscape(id)+"/pay", nil, req, &inv)
	return inv, err
}

// ListContacts lists contacts owned by wallet.
func (c *Client) ListContacts(ctx context.Context, wallet string) ([]Contact, error) {
	q := url.Values{}
	if wallet != "" {
		q.Set("wallet", wallet)
	}
	var out []Contact
	err := c.do(ctx, http.MethodGet, "/api/contacts", q, nil, &out)
	return out, err
}

// CreateContact saves a new contact.
func (c *Client) CreateContact(ctx context.Context, req CreateContactRequest) (Contact, error) {
	var out Contact
	err := c.do(ctx, http.MethodPost, "/api/contacts", nil, req, &out)
	return out, err
}

// DeleteContact removes a contact.
func (c *Client) DeleteContact(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/contacts/"+url.PathEscape(id), nil, nil, nil)
}

// LookupContact finds a contact by email or phone. A miss is a result with
// Found false, not an error.
func (c *Client) LookupContact(ctx context.Context, wallet, email, phone string) (LookupResult, error) {
	q := url.Values{}
	if wallet != "" {
		q.Set("wallet", wallet)
	}
	if email != "" {
		q.Set("email", email)
	}
	if phone != "" {
		q.Set("phone", phone)
	}
	var out LookupResult
	err := c.do(ctx, http.MethodGet, "/api/contacts/lookup", q, nil, &out)
	if IsNotFound(err) {
		return LookupResult{}, nil
	}
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return &Error{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.wallet != "" {
		req.Header.Set(WalletHeader, c.wallet)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &Error{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode >= 400 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		return &Error{
			Status:  resp.StatusCode,
			Message: parseDetail(eb.Detail),
			Err:     fmt.Errorf("%s %s: %s", method, path, resp.Status),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
