package contacts

import (
	"fmt"
	"strings"

	"payme-tui/api"
	"payme-tui/config"
	"payme-tui/helpers"
	"payme-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// listTop is the row of the first entry inside the page panel: border and
// padding (2), title, subtitle and blank line (3).
const listTop = 5

// Nav returns the navigation bar for contacts view
func Nav(width int, adding bool) string {
	var left string
	if adding {
		left = strings.Join([]string{
			styles.Key("Enter") + " next/save",
			styles.Key("Esc") + " cancel",
		}, "   ")
	} else {
		left = strings.Join([]string{
			styles.Key("↑/↓") + " move",
			styles.Key("Enter") + " invoice",
			styles.Key("m") + " multi-send",
			styles.Key("a") + " add",
			styles.Key("d") + " delete",
			styles.Key("r") + " refresh",
			styles.Key("l") + " debug log",
			styles.Key("Tab") + " next page",
		}, "   ")
	}

	return styles.NavStyle.Width(width).Render(left)
}

// RenderList renders the contact list and the mouse targets of its entries.
func RenderList(list []api.Contact, selectedIdx int) (string, []config.ClickableArea) {
	var items []string
	var areas []config.ClickableArea
	y := listTop

	if len(list) == 0 {
		return styles.Muted("No contacts yet. Press 'a' to add one."), nil
	}

	for i, c := range list {
		var marker, addr string
		var nameStyle lipgloss.Style

		if i == selectedIdx {
			marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render("▶ ")
			nameStyle = lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true)
			addr = lipgloss.NewStyle().Foreground(styles.CText).Render(c.Address)
		} else {
			marker = "  "
			nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e1a2aa"))
			addr = helpers.FadeString(c.Address, "#7D5AFC", "#FF87D7")
		}

		var reach []string
		if c.Email != "" {
			reach = append(reach, c.Email)
		}
		if c.Phone != "" {
			reach = append(reach, c.Phone)
		}
		title := nameStyle.Render(c.Name)
		if len(reach) > 0 {
			title += "  " + styles.Muted(strings.Join(reach, " · "))
		}
		items = append(items, marker+title+"\n  "+addr)

		areas = append(areas, config.ClickableArea{X: 3, Y: y, Width: 46, Height: 2, Index: i})
		y += 3
	}

	return strings.Join(items, "\n\n"), areas
}

// Render renders the full contacts view
func Render(list []api.Contact, selectedIdx int, loading bool, spinnerView string) (string, []config.ClickableArea) {
	header := styles.TitleStyle.Render("address book")
	subtitle := styles.Muted("saved recipients for invoices and multi-send")

	if loading {
		return header + "\n" + subtitle + "\n\n" + spinnerView + " loading contacts…", nil
	}

	listView, areas := RenderList(list, selectedIdx)
	status := styles.Muted(fmt.Sprintf("%d contacts", len(list)))

	return header + "\n" + subtitle + "\n\n" + listView + "\n\n" + status, areas
}
