package create

import (
	"strings"

	"payme-tui/helpers"
	"payme-tui/invoice"
	"payme-tui/styles"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for the invoice view
func Nav(width int, hasResult bool) string {
	keys := []string{
		styles.Key("Enter") + " next/submit",
		styles.Key("Shift+Tab") + " back",
	}
	if hasResult {
		keys = []string{
			styles.Key("o") + " open payment",
			styles.Key("c") + " copy link",
			styles.Key("n") + " new invoice",
		}
	}
	keys = append(keys, styles.Key("Ctrl+n")+" next page", styles.Key("Ctrl+c")+" quit")

	return styles.NavStyle.Width(width).Render(strings.Join(keys, "   "))
}

// Render renders the invoice form, or the outcome of the last submission.
func Render(form *huh.Form, submitting bool, spinnerView string, result *invoice.Result) string {
	h := styles.TitleStyle.Render("create invoice")

	if submitting {
		return h + "\n\n" + spinnerView + " creating invoice…"
	}

	if result != nil {
		return h + "\n\n" + renderResult(*result)
	}

	if form == nil {
		return h + "\n\n" + "Loading form..."
	}
	return h + "\n\n" + form.View()
}

func renderResult(r invoice.Result) string {
	ok := lipgloss.NewStyle().Foreground(styles.CAccent).Bold(true)
	lines := []string{ok.Render("✓ invoice generated successfully"), ""}

	lines = append(lines, styles.Muted("invoice   ")+helpers.Truncate(r.InvoiceID, 8, 4))

	switch {
	case r.Direct && r.Contact != nil:
		lines = append(lines,
			styles.Muted("pays      ")+r.Contact.Name+"  "+styles.Muted(helpers.ShortenAddr(r.Contact.Address)),
			"",
			styles.Muted("matched a saved contact; the invoice pays their wallet directly."))
	case r.Shareable():
		lines = append(lines,
			"",
			styles.Muted("no wallet on file for this customer. share the link:"),
			lipgloss.NewStyle().Foreground(styles.CAccent2).Underline(true).Render(r.PaymentLink))
	default:
		if r.PaymentLink != "" {
			lines = append(lines, styles.Muted("link      ")+lipgloss.NewStyle().Foreground(styles.CAccent2).Render(r.PaymentLink))
		}
	}

	return strings.Join(lines, "\n")
}
