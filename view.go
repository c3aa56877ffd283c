package main

import (
	"strings"
	"time"

	"payme-tui/config"
	"payme-tui/helpers"
	"payme-tui/invoice"
	"payme-tui/receipt"
	"payme-tui/styles"
	"payme-tui/views/balances"
	"payme-tui/views/contacts"
	"payme-tui/views/create"
	"payme-tui/views/history"
	logview "payme-tui/views/log"
	msview "payme-tui/views/multisend"
	"payme-tui/views/payment"
	"payme-tui/views/settings"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- VIEW --------------------

const statusTTL = 6 * time.Second

func (m model) renderDeleteDialog() string {
	var (
		dialogBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#874BFD")).
				Padding(1, 0).
				BorderTop(true).
				BorderLeft(true).
				BorderRight(true).
				BorderBottom(true)

		buttonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFF7DB")).
				Background(lipgloss.Color("#888B7E")).
				Padding(0, 3).
				MarginTop(1)

		activeButtonStyle = buttonStyle.
					Foreground(lipgloss.Color("#FFF7DB")).
					Background(lipgloss.Color("#F25D94")).
					MarginRight(2).
					Underline(true)
	)
	msg := helpers.FadeString("Are you sure you want to delete "+m.deleteDialogLabel+"?", "#F25D94", "#EDFF82")
	question := lipgloss.NewStyle().Width(50).Align(lipgloss.Center).Render(msg)

	// Apply active style to the selected button
	var okButton, cancelButton string
	if m.deleteDialogYesSelected {
		okButton = activeButtonStyle.Render("Yes")
		cancelButton = buttonStyle.Render("No")
	} else {
		okButton = buttonStyle.MarginRight(2).Render("Yes")
		cancelButton = activeButtonStyle.MarginRight(0).Render("No")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top, okButton, cancelButton)
	ui := lipgloss.JoinVertical(lipgloss.Center, question, buttons)

	dialog := dialogBoxStyle.Render(ui)

	// Center the dialog on screen
	return lipgloss.Place(
		m.w, m.h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

func (m *model) globalHeader() string {
	availableWidth := max(0, m.w-8) // Account for panel padding

	var walletDisplay string
	if self := m.self(); self != "" {
		label := helpers.FadeString(helpers.ShortenAddr(self), "#F25D94", "#EDFF82")
		if name := strings.TrimSpace(m.cfg.Profile.DisplayName); name != "" {
			label = name + " " + label
		}
		mode := ""
		if m.signer == "" {
			mode = lipgloss.NewStyle().Foreground(cMuted).Render(" (watch-only)")
		}
		walletDisplay = lipgloss.NewStyle().
			Foreground(cAccent2).
			Bold(true).
			Render("Wallet: "+label) + mode
	} else {
		walletDisplay = lipgloss.NewStyle().
			Foreground(cMuted).
			Render("Wallet: not set")
	}

	// RPC Status with green dot
	var statusIcon string
	var statusColor lipgloss.Color
	var statusText string

	if m.rpcURL == "" {
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "No RPC"
	} else if m.rpcConnecting {
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "Connecting..."
	} else if !m.rpcConnected {
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "Connection Failed"
	} else {
		statusIcon = "●"
		statusColor = cAccent
		// Find active RPC name
		for _, r := range m.rpcURLs {
			if r.Active && r.URL == m.rpcURL {
				statusText = r.Name
				break
			}
		}
		if statusText == "" {
			statusText = "Connected"
		}
	}

	rpcDisplay := lipgloss.NewStyle().
		Foreground(statusColor).
		Bold(true).
		Render(statusIcon + " " + statusText)

	// Center title
	titleText := lipgloss.NewStyle().
		Foreground(cAccent).
		Bold(true).
		Render(helpers.FadeString("payme", "#7EE787", "#82CFFD"))

	walletWidth := lipgloss.Width(walletDisplay)
	rpcWidth := lipgloss.Width(rpcDisplay)
	titleWidth := lipgloss.Width(titleText)
	totalOtherWidth := walletWidth + rpcWidth + titleWidth

	var headerLine string
	if totalOtherWidth+4 > availableWidth {
		// Not enough space, stack vertically
		headerLine = walletDisplay + "\n" + titleText + "\n" + rpcDisplay
	} else {
		// Three-column layout: Wallet | Title (centered) | RPC
		remainingSpace := availableWidth - totalOtherWidth
		leftPadding := remainingSpace / 2
		rightPadding := remainingSpace - leftPadding

		leftSpacer := strings.Repeat(" ", max(1, leftPadding))
		rightSpacer := strings.Repeat(" ", max(1, rightPadding))

		headerLine = walletDisplay + leftSpacer + titleText + rightSpacer + rpcDisplay
	}

	separator := lipgloss.NewStyle().
		Foreground(cBorder).
		Render(strings.Repeat("─", availableWidth))

	return headerLine + "\n" + separator + "\n" + m.tabs()
}

// tabs renders the page switcher line of the header.
func (m *model) tabs() string {
	current := m.activePage
	if current == config.PagePayment {
		current = m.prevPage
	}
	parts := make([]string, 0, len(config.NavPages))
	for i, p := range config.NavPages {
		label := string(rune('1'+i)) + " " + p.String()
		if p == current {
			parts = append(parts, lipgloss.NewStyle().Foreground(cBg).Background(cAccent2).Bold(true).Padding(0, 1).Render(label))
		} else {
			parts = append(parts, lipgloss.NewStyle().Foreground(cMuted).Padding(0, 1).Render(label))
		}
	}
	return strings.Join(parts, " ")
}

// statusLine renders the most recent notification while it is fresh.
func (m *model) statusLine() string {
	if m.status == "" || time.Since(m.statusTime) > statusTTL {
		return ""
	}
	style, ok := statusStyles[m.statusKind]
	if !ok {
		style = statusStyles["info"]
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(style.Render(m.status))
}

func (m *model) symbol(addr string) string {
	return m.cfg.TokenSymbol(addr)
}

func (m *model) paymentState() payment.State {
	inv := m.payment
	s := payment.State{
		Invoice: inv,
		Symbol:  m.symbol(inv.TokenAddress),
		Loading: m.paymentLoading,
		Paying:  m.paying,
		Stage:   m.payStage,
		Err:     m.paymentErr,
	}
	if inv.Paid() {
		if r, err := receipt.Render(inv, m.receiptOptions()); err == nil {
			s.Receipt = r
		}
		return s
	}
	if dec, ok := m.decimals[strings.ToLower(inv.TokenAddress)]; ok {
		if req, err := invoice.PaymentRequest(inv, dec, m.cfg.ChainID); err == nil {
			s.Transfer = req.URI()
		}
	}
	return s
}

func (m *model) sheetState() msview.Sheet {
	token := m.batchToken()
	return msview.Sheet{
		Rows:       m.sheet.Rows(),
		FocusRow:   m.msFocusRow,
		FocusField: m.msFocusField,
		Editing:    m.msEditing,
		InputView:  m.msInput.View(),
		Token:      token.Symbol,
		Total:      m.sheet.Total().StringFixed(2),
		Sending:    m.msSending,
		Summary:    m.msSummary,
	}
}

func (m *model) View() string {
	// Clear clickable areas for fresh render
	m.clickableAreas = nil

	if m.showDeleteDialog {
		return m.renderDeleteDialog()
	}

	headerPanel := panelStyle.Width(max(0, m.w-2)).Render(m.globalHeader())
	fullWidth := max(0, m.w-2)

	var pageContent string
	var nav string

	switch m.activePage {
	case config.PageCreate:
		content := create.Render(m.invoiceForm, m.submitting, m.spin.View(), m.invoiceResult)
		pageContent = m.withBalances(content)
		nav = create.Nav(fullWidth, m.invoiceResult != nil)

	case config.PageMultiSend:
		content := msview.Render(m.sheetState(), m.spin.View())
		pageContent = m.withBalances(content)
		nav = msview.Nav(fullWidth, m.msEditing)

	case config.PageContacts:
		if m.contactForm != nil {
			content := styles.TitleStyle.Render("new contact") + "\n\n" + m.contactForm.View()
			pageContent = panelStyle.Width(fullWidth).Render(content)
		} else {
			content, areas := contacts.Render(m.contacts, m.selectedContact, m.contactsLoading, m.spin.View())
			pageContent = panelStyle.Width(fullWidth).Render(content)

			// Areas are relative to the page panel
			offset := lipgloss.Height(headerPanel)
			for _, area := range areas {
				area.Y += offset
				m.clickableAreas = append(m.clickableAreas, area)
			}
		}
		nav = contacts.Nav(fullWidth, m.contactForm != nil)

	case config.PageHistory:
		content := history.Render(m.invoices, m.selectedInvoice, m.self(), m.symbol, m.invoicesLoading, m.spin.View())
		pageContent = panelStyle.Width(fullWidth).Render(content)
		nav = history.Nav(fullWidth)

	case config.PagePayment:
		content := payment.Render(m.paymentState(), m.spin.View())
		pageContent = panelStyle.Width(fullWidth).Render(content)
		nav = payment.Nav(fullWidth, m.payment.Paid())

	case config.PageSettings:
		settingsContent := settings.Render(m.cfg.Profile, m.signer, m.rpcURLs, m.selectedRPCIdx)

		// Show form if in add/edit/profile mode
		if m.settingsMode != "list" && m.form != nil {
			title := "RPC Settings"
			if m.settingsMode == "profile" {
				title = "Profile"
			}
			settingsContent = styles.TitleStyle.Render(title) + "\n\n" + m.form.View()
		}

		pageContent = panelStyle.Width(fullWidth).Render(settingsContent)
		nav = settings.Nav(fullWidth, m.settingsMode)
	}

	sections := []string{headerPanel, pageContent}
	if status := m.statusLine(); status != "" {
		sections = append(sections, status)
	}
	sections = append(sections, nav)

	// Render log panel only if enabled
	if m.logEnabled {
		// Ensure viewport height stays in sync with the rendered panel
		m.logViewport.Height = logview.PanelHeight(m.h)
		sections = append(sections, logview.Render(m.w, m.h, m.logReady, m.logSpinner.View(), m.logViewport))
	}

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// withBalances puts content next to the wallet's token balances when the
// terminal is wide enough.
func (m *model) withBalances(content string) string {
	side := balances.Render(m.balances, m.cfg.ExplorerURL, m.balancesLoading, m.spin.View())
	if m.w < 110 {
		return panelStyle.Width(max(0, m.w-2)).Render(content)
	}

	// Calculate panel widths (split 65/35)
	mainWidth := max(0, (m.w*65)/100-2)
	sideWidth := max(0, m.w-mainWidth-6)

	leftPanel := panelStyle.Width(mainWidth).Render(content)
	leftPanelHeight := lipgloss.Height(leftPanel)

	// Set the right panel to match the left panel height
	rightPanel := panelStyle.
		Width(sideWidth).
		Height(max(0, leftPanelHeight-2)).
		Render(side)

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)
}
