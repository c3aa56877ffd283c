// Package receipt renders settled invoices for the terminal and as a
// printable HTML page.
package receipt

import (
	"errors"
	"strings"
	"time"

	"payme-tui/api"
	"payme-tui/helpers"
)

// ErrNotPaid is returned for invoices that have not settled.
var ErrNotPaid = errors.New("invoice is not paid")

// Options carry the display context of a receipt.
type Options struct {
	Network     string
	ExplorerURL string
	Brand       string
}

func (o Options) withDefaults() Options {
	if o.Network == "" {
		o.Network = "tempo testnet"
	}
	if o.Brand == "" {
		o.Brand = "payme"
	}
	o.ExplorerURL = strings.TrimRight(o.ExplorerURL, "/")
	return o
}

// Line is one labelled row of a receipt. Link is set for rows that point to
// an explorer.
type Line struct {
	Label string
	Value string
	Link  string
	Mono  bool
}

// Receipt is the display model shared by every renderer.
type Receipt struct {
	Brand   string
	Title   string
	Amount  string
	Lines   []Line
	Footer  string
	ShortID string
}

// Build turns a paid invoice into its display model.
func Build(inv api.Invoice, opts Options) (Receipt, error) {
	if !inv.Paid() {
		return Receipt{}, ErrNotPaid
	}
	opts = opts.withDefaults()

	memo := strings.TrimSpace(inv.Memo)
	if memo == "" {
		memo = "n/a"
	}

	r := Receipt{
		Brand:   opts.Brand,
		Title:   opts.Brand + " receipt - " + prefix(inv.ID, 8),
		Amount:  "$" + inv.Amount.String(),
		ShortID: prefix(inv.ID, 8),
		Footer:  "verified on-chain · " + opts.Network + " · " + opts.Brand,
	}
	r.Lines = append(r.Lines,
		Line{Label: "reference", Value: memo},
		Line{Label: "invoice id", Value: helpers.Truncate(inv.ID, 8, 4), Mono: true},
		Line{Label: "recipient", Value: helpers.Truncate(inv.MerchantAddress, 6, 4), Mono: true},
	)
	if inv.PayerAddress != "" {
		r.Lines = append(r.Lines, Line{Label: "payer", Value: helpers.Truncate(inv.PayerAddress, 6, 4), Mono: true})
	}
	if inv.TxHash != "" {
		l := Line{Label: "tx hash", Value: helpers.Truncate(inv.TxHash, 10, 6), Mono: true}
		if opts.ExplorerURL != "" {
			l.Link = ExplorerTxURL(opts.ExplorerURL, inv.TxHash)
		}
		r.Lines = append(r.Lines, l)
	}
	r.Lines = append(r.Lines,
		Line{Label: "date", Value: Date(inv)},
		Line{Label: "network", Value: opts.Network},
	)
	return r, nil
}

// ExplorerTxURL links a transaction on the block explorer.
func ExplorerTxURL(explorer, hash string) string {
	return strings.TrimRight(explorer, "/") + "/tx/" + hash
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Date is the settlement date of inv: paidAt, else createdAt, else "n/a".
// Timestamps that cannot be parsed are shown as sent.
func Date(inv api.Invoice) string {
	raw := inv.PaidAt
	if raw == "" {
		raw = inv.CreatedAt
	}
	if raw == "" {
		return "n/a"
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format("Jan 2, 2006")
		}
	}
	return raw
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
