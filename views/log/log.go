package log

import (
	"fmt"

	"payme-tui/helpers"
	"payme-tui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// reservedHeight covers header (3), nav (1), status line (1), panel chrome (4)
// and margins.
const reservedHeight = 11

// PanelHeight returns the viewport height the log panel gets for a terminal of
// the given height: at most a third of the screen and never above 15 lines.
func PanelHeight(height int) int {
	available := helpers.Max(5, height-reservedHeight)
	return helpers.Min(available, helpers.Min(height/3, 15))
}

// Render renders the log panel with dynamic height calculation
func Render(width, height int, logReady bool, logSpinnerView string, vp viewport.Model) string {
	title := lipgloss.NewStyle().
		Foreground(styles.CAccent2).
		Bold(true).
		Render("log")

	logPanelHeight := PanelHeight(height)
	vp.Height = logPanelHeight

	border := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.CBorder).
		Padding(0, 1).
		Width(helpers.Max(0, width-2)).
		Height(logPanelHeight + 2)

	if !logReady {
		return border.Render(title + "\n\n" + "initializing...\n" + logSpinnerView)
	}

	scrollInfo := ""
	if vp.TotalLineCount() > vp.Height {
		scrollInfo = lipgloss.NewStyle().
			Foreground(styles.CMuted).
			Render(fmt.Sprintf(" [%d%%]", int(vp.ScrollPercent()*100)))
	}

	return border.Render(title + scrollInfo + "\n\n" + vp.View())
}
