package settings

import (
	"strings"

	"payme-tui/config"
	"payme-tui/helpers"
	"payme-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for settings view
func Nav(width int, settingsMode string) string {
	var left string
	if settingsMode != "list" {
		left = strings.Join([]string{
			styles.Key("Enter") + " save",
			styles.Key("Esc") + " cancel",
		}, "   ")
	} else {
		left = strings.Join([]string{
			styles.Key("↑/↓") + " select",
			styles.Key("Enter") + " activate",
			styles.Key("p") + " edit profile",
			styles.Key("a") + " add rpc",
			styles.Key("e") + " edit",
			styles.Key("d") + " delete",
			styles.Key("l") + " debug log",
			styles.Key("Tab") + " next page",
		}, "   ")
	}

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders the profile and RPC settings view. signer is the address of
// the configured signing key, if any; it overrides the stored address.
func Render(profile config.Profile, signer string, rpcURLs []config.RPCUrl, selectedIdx int) string {
	lines := []string{styles.TitleStyle.Render("profile"), ""}

	name := profile.DisplayName
	if name == "" {
		name = styles.Muted("not set")
	}
	lines = append(lines, styles.Muted("display name  ")+lipgloss.NewStyle().Foreground(styles.CText).Render(name))

	addr := profile.Address
	switch {
	case signer != "":
		addr = helpers.FadeString(signer, "#7EE787", "#82CFFD") + "  " + styles.Muted("(signing key)")
	case addr == "":
		addr = styles.Muted("not set")
	}
	lines = append(lines, styles.Muted("wallet        ")+addr, "", "")

	lines = append(lines, styles.TitleStyle.Render("rpc endpoints"), "")

	if len(rpcURLs) == 0 {
		lines = append(lines, styles.Muted("No RPC URLs configured."))
		lines = append(lines, "")
		lines = append(lines, styles.Muted("Press ")+styles.Key("a")+styles.Muted(" to add your first RPC URL."))
		return strings.Join(lines, "\n")
	}

	for i, rpc := range rpcURLs {
		var marker string
		if rpc.Active {
			marker = lipgloss.NewStyle().Foreground(styles.CAccent).Render("● ")
		} else {
			marker = lipgloss.NewStyle().Foreground(styles.CMuted).Render("○ ")
		}

		nameStyle := lipgloss.NewStyle().Foreground(styles.CText)
		urlStyle := lipgloss.NewStyle().Foreground(styles.CMuted)

		if i == selectedIdx {
			nameStyle = nameStyle.Background(styles.CPanel).Foreground(styles.CAccent2).Bold(true)
			urlStyle = urlStyle.Background(styles.CPanel)
			marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Render("▶ ")
		}

		lines = append(lines, marker+nameStyle.Render(rpc.Name))
		lines = append(lines, "  "+urlStyle.Render(rpc.URL))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
