package history

import (
	"strings"

	"payme-tui/api"
	"payme-tui/helpers"
	"payme-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for the activity view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("←/→/↑/↓") + " select",
		styles.Key("Enter") + " open",
		styles.Key("x") + " delete",
		styles.Key("r") + " refresh",
		styles.Key("l") + " debug log",
		styles.Key("Tab") + " next page",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}

// Columns is the number of invoice cards per grid row.
const Columns = 3

func cardStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Width(30).
		Height(7).
		Align(lipgloss.Center, lipgloss.Center).
		Background(styles.CPanel).
		Padding(0, 1).
		BorderStyle(lipgloss.HiddenBorder())
}

func cardFocusedStyle() lipgloss.Style {
	return cardStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("69"))
}

// SymbolFunc resolves a token address to its symbol.
type SymbolFunc func(addr string) string

func renderCard(inv api.Invoice, self string, symbol SymbolFunc, focused bool) string {
	direction := "incoming"
	counterparty := inv.PayerAddress
	if !strings.EqualFold(inv.MerchantAddress, self) {
		direction = "outgoing"
		counterparty = inv.MerchantAddress
	}
	who := styles.Muted("awaiting payer")
	switch {
	case counterparty != "":
		who = helpers.FadeString(helpers.ShortenAddr(counterparty), "#F25D94", "#EDFF82")
	case inv.CustomerEmail != "":
		who = styles.Muted(inv.CustomerEmail)
	case inv.CustomerPhone != "":
		who = styles.Muted(inv.CustomerPhone)
	}

	amount := lipgloss.NewStyle().Foreground(styles.CText).Bold(true).
		Render(inv.Amount.String() + " " + symbol(inv.TokenAddress))
	memo := inv.Memo
	if memo == "" {
		memo = "n/a"
	}

	content := styles.Muted(direction) + "\n" +
		amount + "\n" +
		lipgloss.NewStyle().Foreground(styles.CAccent2).Render(helpers.Truncate(memo, 22, 0)) + "\n" +
		who + "\n" +
		styles.Badge(inv.Status)

	if focused {
		return cardFocusedStyle().Render(content)
	}
	return cardStyle().Render(content)
}

// Render renders the invoice grid, newest first.
func Render(invoices []api.Invoice, selectedIdx int, self string, symbol SymbolFunc, loading bool, spinnerView string) string {
	h := styles.TitleStyle.Render("activity")

	if loading {
		return h + "\n\n" + spinnerView + " loading invoices…"
	}

	if len(invoices) == 0 {
		return h + "\n\n" + styles.Muted("No invoices yet.") + "\n\n" +
			styles.Muted("Create one on the ") + styles.Key("send") + styles.Muted(" page.")
	}

	var rows []string
	for i := 0; i < len(invoices); i += Columns {
		var cards []string
		for j := 0; j < Columns && i+j < len(invoices); j++ {
			idx := i + j
			cards = append(cards, renderCard(invoices[idx], self, symbol, idx == selectedIdx))
			if j < Columns-1 && idx+1 < len(invoices) {
				cards = append(cards, "  ")
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	return h + "\n\n" + strings.Join(rows, "\n")
}
