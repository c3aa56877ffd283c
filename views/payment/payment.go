package payment

import (
	"strings"

	"payme-tui/api"
	"payme-tui/helpers"
	"payme-tui/rpc"
	"payme-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for the payment view
func Nav(width int, paid bool) string {
	keys := []string{styles.Key("c") + " copy link"}
	if paid {
		keys = append(keys, styles.Key("d")+" download receipt", styles.Key("y")+" copy tx hash")
	} else {
		keys = append(keys, styles.Key("p")+" pay", styles.Key("r")+" refresh")
	}
	keys = append(keys, styles.Key("Esc")+" back", styles.Key("l")+" debug log")

	return styles.NavStyle.Width(width).Render(strings.Join(keys, "   "))
}

// State is what the payment view shows for one invoice.
type State struct {
	Invoice  api.Invoice
	Symbol   string
	Loading  bool
	Paying   bool
	Stage    string
	Err      string
	Receipt  string
	Transfer string
}

// Render renders the invoice, its pay QR code while pending, and the receipt
// once paid.
func Render(s State, spinnerView string) string {
	h := styles.TitleStyle.Render("payment")

	if s.Loading {
		return h + "\n\n" + spinnerView + " loading invoice…"
	}
	if s.Invoice.ID == "" {
		msg := "no invoice selected"
		if s.Err != "" {
			msg = s.Err
		}
		return h + "\n\n" + lipgloss.NewStyle().Foreground(styles.CWarn).Render("⚠ "+msg)
	}

	if s.Invoice.Paid() && s.Receipt != "" {
		return h + "\n\n" + s.Receipt
	}

	inv := s.Invoice
	amount := lipgloss.NewStyle().Foreground(styles.CText).Bold(true).Render("$" + inv.Amount.String())
	memo := inv.Memo
	if memo == "" {
		memo = "n/a"
	}

	details := []string{
		amount + "  " + styles.Badge(inv.Status),
		"",
		styles.Muted("invoice   ") + helpers.Truncate(inv.ID, 8, 4),
		styles.Muted("pay to    ") + helpers.FadeString(helpers.ShortenAddr(inv.MerchantAddress), "#F25D94", "#EDFF82"),
		styles.Muted("token     ") + s.Symbol,
		styles.Muted("memo      ") + memo,
	}

	switch {
	case s.Paying:
		details = append(details, "", spinnerView+" "+s.Stage)
	case s.Err != "":
		details = append(details, "", lipgloss.NewStyle().Foreground(styles.CError).Bold(true).Render("✗ "+s.Err))
	}

	left := strings.Join(details, "\n")
	if s.Transfer == "" {
		return h + "\n\n" + left
	}

	qr := rpc.GenerateQRCode(s.Transfer)
	right := qr + "\n" + styles.Muted("scan with any EIP-681 wallet")

	return h + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(48).Render(left),
		right,
	)
}
