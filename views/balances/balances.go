package balances

import (
	"fmt"
	"strings"

	"payme-tui/helpers"
	"payme-tui/rpc"
	"payme-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Render renders the token balances of the active wallet. Balances are
// informational only; the chain is the source of truth.
func Render(b rpc.Balances, explorer string, loading bool, spinnerView string) string {
	h := styles.TitleStyle.Render("balances")

	if b.Address == "" {
		return h + "\n" + styles.Muted("no wallet configured")
	}

	// OSC 8 hyperlink to the explorer
	url := fmt.Sprintf("%s/address/%s", strings.TrimRight(explorer, "/"), b.Address)
	addrStyle := lipgloss.NewStyle().Foreground(styles.CMuted).Underline(true)
	sub := fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", url, addrStyle.Render(helpers.ShortenAddr(b.Address)))

	if loading {
		return h + "\n" + sub + "\n\n" + spinnerView + " fetching balances…"
	}

	if b.ErrMessage != "" {
		msg := lipgloss.NewStyle().Foreground(styles.CWarn).Render("⚠ " + b.ErrMessage)
		hint := styles.Muted("Tip: set ") + lipgloss.NewStyle().Foreground(styles.CAccent).Render("ETH_RPC_URL") +
			styles.Muted(" then press ") + styles.Key("r") + styles.Muted(" to refresh.")
		return h + "\n" + sub + "\n\n" + msg + "\n\n" + hint
	}

	lines := []string{h, sub, ""}
	if len(b.Tokens) == 0 {
		lines = append(lines, styles.Muted("no token balances"))
		return strings.Join(lines, "\n")
	}

	for _, t := range b.Tokens {
		row := fmt.Sprintf("%-10s %s",
			lipgloss.NewStyle().Foreground(styles.CAccent).Render(t.Symbol),
			lipgloss.NewStyle().Foreground(styles.CText).Render(helpers.FormatToken(t.Balance, t.Decimals, "")),
		)
		lines = append(lines, row)
	}
	lines = append(lines, "", styles.Muted("updated "+helpers.LoadedAt(b.LoadedAt, false)))

	return strings.Join(lines, "\n")
}
