package main

import (
	"payme-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- THEME (Lip Gloss) --------------------
// Styles come from the styles package

var (
	cBg      = styles.CBg
	cPanel   = styles.CPanel
	cBorder  = styles.CBorder
	cMuted   = styles.CMuted
	cText    = styles.CText
	cAccent  = styles.CAccent
	cAccent2 = styles.CAccent2
	cWarn    = styles.CWarn
	cError   = styles.CError

	appStyle       = styles.AppStyle
	titleStyle     = styles.TitleStyle
	panelStyle     = styles.PanelStyle
	navStyle       = styles.NavStyle
	hotkeyStyle    = lipgloss.NewStyle().Foreground(styles.CMuted)
	hotkeyKeyStyle = lipgloss.NewStyle().Foreground(styles.CAccent).Bold(true)
	helpRightStyle = lipgloss.NewStyle().Foreground(styles.CMuted)

	statusStyles = map[string]lipgloss.Style{
		"info":    lipgloss.NewStyle().Foreground(styles.CAccent2),
		"success": lipgloss.NewStyle().Foreground(styles.CAccent).Bold(true),
		"warning": lipgloss.NewStyle().Foreground(styles.CWarn),
		"error":   lipgloss.NewStyle().Foreground(styles.CError).Bold(true),
	}
)
