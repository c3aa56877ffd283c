package multisend

import (
	"fmt"
	"strings"

	"payme-tui/helpers"
	"payme-tui/multisend"
	"payme-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for the multi-send view
func Nav(width int, editing bool) string {
	var left string
	if editing {
		left = strings.Join([]string{
			styles.Key("Enter") + " save",
			styles.Key("Tab") + " next cell",
			styles.Key("Ctrl+v") + " paste",
			styles.Key("Esc") + " cancel",
		}, "   ")
	} else {
		left = strings.Join([]string{
			styles.Key("↑/↓/←/→") + " move",
			styles.Key("Enter") + " edit",
			styles.Key("a") + " add",
			styles.Key("x") + " remove",
			styles.Key("t") + " token",
			styles.Key("s") + " send all",
			styles.Key("n") + " new batch",
			styles.Key("Tab") + " next page",
		}, "   ")
	}

	return styles.NavStyle.Width(width).Render(left)
}

// Sheet is everything the multi-send view needs to draw the batch.
type Sheet struct {
	Rows       []multisend.Row
	FocusRow   int
	FocusField multisend.Field
	Editing    bool
	InputView  string
	Token      string
	Total      string
	Sending    bool
	Summary    string
}

var columnWidths = map[multisend.Field]int{
	multisend.FieldAddress: 46,
	multisend.FieldAmount:  14,
	multisend.FieldMemo:    20,
}

func cellStyle(f multisend.Field) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(columnWidths[f]).
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.CBorder)
}

func cellFocusedStyle(f multisend.Field) lipgloss.Style {
	return cellStyle(f).
		BorderForeground(styles.CAccent).
		BorderStyle(lipgloss.ThickBorder())
}

func placeholder(f multisend.Field) string {
	switch f {
	case multisend.FieldAddress:
		return "0x..."
	case multisend.FieldAmount:
		return "0.00"
	}
	return "memo"
}

func value(r multisend.Row, f multisend.Field) string {
	switch f {
	case multisend.FieldAddress:
		return r.Address
	case multisend.FieldAmount:
		return r.Amount
	}
	return r.Memo
}

func renderCell(r multisend.Row, f multisend.Field, focused bool, inputView string) string {
	v := value(r, f)
	var content string
	switch {
	case focused && inputView != "":
		content = inputView
	case v == "":
		content = styles.Muted(placeholder(f))
	case f == multisend.FieldAddress && !helpers.IsValidEthAddress(v):
		content = lipgloss.NewStyle().Foreground(styles.CError).Render(v)
	case !r.Editable():
		content = styles.Muted(v)
	default:
		content = lipgloss.NewStyle().Foreground(styles.CText).Render(v)
	}

	if focused {
		return cellFocusedStyle(f).Render(content)
	}
	return cellStyle(f).Render(content)
}

func renderStatus(r multisend.Row) string {
	switch r.Status {
	case multisend.StatusConfirmed:
		return styles.Badge(string(r.Status)) + " " + styles.Muted(helpers.Truncate(r.TxHash, 10, 6))
	case multisend.StatusFailed:
		return styles.Badge(string(r.Status)) + " " + lipgloss.NewStyle().Foreground(styles.CError).Render(helpers.Truncate(r.Err, 28, 0))
	case multisend.StatusPending:
		return styles.Badge(string(r.Status))
	}
	return ""
}

// Render renders the batch as a grid of editable cells, one line per row.
func Render(s Sheet, spinnerView string) string {
	h := styles.TitleStyle.Render("multi-send")
	sub := styles.Muted(fmt.Sprintf("send %s to several recipients at once", s.Token))

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(columnWidths[multisend.FieldAddress]+4).Foreground(styles.CMuted).Render("  recipient"),
		lipgloss.NewStyle().Width(columnWidths[multisend.FieldAmount]+4).Foreground(styles.CMuted).Render("  amount"),
		lipgloss.NewStyle().Width(columnWidths[multisend.FieldMemo]+4).Foreground(styles.CMuted).Render("  memo"),
	)

	lines := []string{h, sub, "", header}
	for i, r := range s.Rows {
		cells := make([]string, 0, 4)
		for _, f := range []multisend.Field{multisend.FieldAddress, multisend.FieldAmount, multisend.FieldMemo} {
			focused := i == s.FocusRow && f == s.FocusField
			input := ""
			if focused && s.Editing {
				input = s.InputView
			}
			cells = append(cells, renderCell(r, f, focused, input))
		}
		status := lipgloss.NewStyle().Height(3).PaddingTop(1).PaddingLeft(1).Render(renderStatus(r))
		cells = append(cells, status)
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	total := lipgloss.NewStyle().Foreground(styles.CText).Bold(true).Render(s.Total + " " + s.Token)
	lines = append(lines, "", styles.Muted(fmt.Sprintf("%d recipient(s) · total ", len(s.Rows)))+total)

	switch {
	case s.Sending:
		lines = append(lines, "", spinnerView+" sending payments…")
	case s.Summary != "":
		lines = append(lines, "", lipgloss.NewStyle().Foreground(styles.CAccent).Bold(true).Render(s.Summary))
	}

	return strings.Join(lines, "\n")
}
