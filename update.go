package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"payme-tui/api"
	"payme-tui/config"
	"payme-tui/helpers"
	"payme-tui/invoice"
	"payme-tui/multisend"
	"payme-tui/rpc"
	"payme-tui/views/history"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
)

// Update implements tea.Model. Results of commands are folded in first so
// that an open form never swallows them; everything else goes to the form
// of the active page, then to the key and mouse handlers.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.handleResult(msg); ok {
		return m, cmd
	}

	if cmd, ok := m.updateForms(msg); ok {
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}

	// cursor blink of the cell editor
	if m.msEditing {
		var cmd tea.Cmd
		m.msInput, cmd = m.msInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) handleResult(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {

	case logInitMsg:
		if !m.logEnabled {
			return nil, true
		}
		// Create logger that writes to our buffer
		m.logger = log.NewWithOptions(m.logBuffer, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
			Prefix:          "",
		})
		// Set log level and styling
		m.logger.SetLevel(log.DebugLevel)
		m.logger.SetStyles(&log.Styles{
			Timestamp: lipgloss.NewStyle().Foreground(cMuted),
			Caller:    lipgloss.NewStyle().Faint(true),
			Prefix:    lipgloss.NewStyle().Bold(true).Foreground(cAccent2),
			Message:   lipgloss.NewStyle().Foreground(cText),
			Key:       lipgloss.NewStyle().Foreground(cAccent),
			Value:     lipgloss.NewStyle().Foreground(cText),
			Separator: lipgloss.NewStyle().Faint(true),
			Levels: map[log.Level]lipgloss.Style{
				log.DebugLevel: lipgloss.NewStyle().Foreground(cMuted).SetString("DEBUG"),
				log.InfoLevel:  lipgloss.NewStyle().Foreground(cAccent2).SetString("INFO"),
				log.WarnLevel:  lipgloss.NewStyle().Foreground(cWarn).SetString("WARN"),
				log.ErrorLevel: lipgloss.NewStyle().Foreground(cError).SetString("ERROR"),
			},
		})
		m.logReady = true
		m.addLog("info", "Logger enabled")
		return nil, true

	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height
		if m.logEnabled {
			// Width accounts for border and padding
			m.logViewport.Width = max(0, msg.Width-6)
			if m.logReady {
				m.updateLogViewport()
			}
		}
		return nil, true

	case spinner.TickMsg:
		var cmd tea.Cmd
		var cmds []tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		// Update log spinner too if log is enabled but not ready
		if m.logEnabled && !m.logReady {
			m.logSpinner, cmd = m.logSpinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return tea.Batch(cmds...), true

	case rpcConnectedMsg:
		m.rpcConnecting = false
		if msg.err != nil {
			m.ethClient = nil
			m.wallet = nil
			m.rpcConnected = false
			m.addLog("error", fmt.Sprintf("RPC connection failed: `%s`", msg.err.Error()))
			return nil, true
		}
		m.ethClient = msg.client
		m.rpcConnected = true
		m.addLog("success", fmt.Sprintf("RPC connected to `%s`", msg.client.URL))

		w, err := rpc.NewWallet(msg.client, m.privateKey, m.cfg.Profile.Address)
		if err != nil {
			m.addLog("error", fmt.Sprintf("Wallet unavailable: %s", err))
			return nil, true
		}
		m.wallet = w
		if !w.CanSign() {
			m.addLog("warning", "No signing key: set PAYME_PRIVATE_KEY to pay invoices and send batches")
		}
		return tea.Batch(m.refreshBalances(), m.maybeLoadDecimals()), true

	case balancesLoadedMsg:
		m.balancesLoading = false
		m.balances = msg.b
		if msg.b.ErrMessage != "" {
			m.addLog("error", fmt.Sprintf("Balances of `%s`: %s", helpers.ShortenAddr(msg.b.Address), msg.b.ErrMessage))
		} else {
			m.addLog("debug", fmt.Sprintf("Loaded %d token balance(s) for `%s`", len(msg.b.Tokens), helpers.ShortenAddr(msg.b.Address)))
		}
		return nil, true

	case contactsLoadedMsg:
		m.contactsLoading = false
		if msg.err != nil {
			// quick-select data only; the flows work without it
			m.addLog("warning", api.ErrorMessage(msg.err, "failed to load contacts"))
			return nil, true
		}
		m.contacts = msg.contacts
		if m.selectedContact >= len(m.contacts) {
			m.selectedContact = max(0, len(m.contacts)-1)
		}
		if m.invoiceFormPristine() {
			m.buildInvoiceForm()
		}
		m.addLog("debug", fmt.Sprintf("Loaded %d contact(s)", len(m.contacts)))
		return nil, true

	case contactCreatedMsg:
		if msg.err != nil {
			m.notify("error", api.ErrorMessage(msg.err, "failed to save contact"))
			return nil, true
		}
		m.contacts = append(m.contacts, msg.contact)
		m.selectedContact = len(m.contacts) - 1
		m.notify("success", fmt.Sprintf("saved contact %s", msg.contact.Name))
		return nil, true

	case contactDeletedMsg:
		if msg.err != nil {
			m.notify("error", api.ErrorMessage(msg.err, "failed to delete contact"))
			return nil, true
		}
		for i, c := range m.contacts {
			if c.ID == msg.id {
				m.contacts = append(m.contacts[:i], m.contacts[i+1:]...)
				break
			}
		}
		if m.selectedContact >= len(m.contacts) {
			m.selectedContact = max(0, len(m.contacts)-1)
		}
		m.notify("warning", "contact deleted")
		return nil, true

	case invoicesLoadedMsg:
		m.invoicesLoading = false
		if msg.err != nil {
			m.notify("error", api.ErrorMessage(msg.err, "failed to load invoices"))
			return nil, true
		}
		list := msg.invoices
		sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt > list[j].CreatedAt })
		m.invoices = list
		if m.selectedInvoice >= len(m.invoices) {
			m.selectedInvoice = max(0, len(m.invoices)-1)
		}
		m.addLog("debug", fmt.Sprintf("Loaded %d invoice(s)", len(m.invoices)))
		return nil, true

	case invoiceLoadedMsg:
		m.paymentLoading = false
		if msg.err != nil {
			m.paymentErr = api.ErrorMessage(msg.err, "failed to load invoice")
			if api.IsNotFound(msg.err) {
				m.paymentErr = "invoice not found"
			}
			m.addLog("error", m.paymentErr)
			return nil, true
		}
		m.payment = msg.invoice
		m.paymentErr = ""
		m.addLog("info", fmt.Sprintf("Loaded invoice `%s` (%s)", helpers.Truncate(msg.invoice.ID, 8, 4), strings.ToLower(msg.invoice.Status)))
		return m.maybeLoadDecimals(), true

	case invoiceDeletedMsg:
		if msg.err != nil {
			m.notify("error", api.ErrorMessage(msg.err, "failed to delete invoice"))
			return nil, true
		}
		for i, inv := range m.invoices {
			if inv.ID == msg.id {
				m.invoices = append(m.invoices[:i], m.invoices[i+1:]...)
				break
			}
		}
		if m.selectedInvoice >= len(m.invoices) {
			m.selectedInvoice = max(0, len(m.invoices)-1)
		}
		m.notify("warning", "invoice deleted")
		return nil, true

	case invoiceSubmittedMsg:
		m.submitting = false
		if msg.err != nil {
			m.notify("error", invoice.ErrorText(msg.err))
			// keep what was typed
			m.buildInvoiceForm()
			return nil, true
		}
		res := msg.result
		m.invoiceResult = &res
		switch {
		case res.Direct && res.Contact != nil:
			m.notify("success", fmt.Sprintf("invoice created, billed to %s", res.Contact.Name))
		case res.Shareable():
			m.notify("success", "invoice created, share the payment link")
			m.addLog("info", "Payment link: "+res.PaymentLink)
		default:
			m.notify("success", "invoice generated successfully")
		}
		return nil, true

	case decimalsLoadedMsg:
		if msg.err != nil {
			m.addLog("warning", fmt.Sprintf("Could not read decimals of `%s`: %s", helpers.ShortenAddr(msg.token), msg.err))
			return nil, true
		}
		m.decimals[strings.ToLower(msg.token)] = msg.decimals
		return nil, true

	case batchPreparedMsg:
		if msg.err != nil {
			m.msSending = false
			m.msPlan = nil
			m.notify("error", msg.err.Error())
			return nil, true
		}
		if msg.prepared.SwitchErr != nil {
			m.addLog("warning", fmt.Sprintf("Network check failed, sending anyway: %s", msg.prepared.SwitchErr))
		}
		m.sheet.MarkPending(m.msPlan)
		m.addLog("info", fmt.Sprintf("Sending %d payment(s) of %s", len(m.msPlan), m.batchToken().Symbol))
		token := common.HexToAddress(m.batchToken().Address)
		return executeBatch(m.chain(), token, m.msPlan, msg.prepared.Decimals), true

	case batchSettledMsg:
		m.msSending = false
		m.msPlan = nil
		m.sheet.Settle(msg.outcomes)
		for _, o := range msg.outcomes {
			if o.Err != nil {
				m.addLog("error", fmt.Sprintf("Row %s failed: %s", helpers.Truncate(o.RowID, 8, 0), o.Err))
			} else {
				m.addLog("success", fmt.Sprintf("Row %s confirmed in `%s`", helpers.Truncate(o.RowID, 8, 0), helpers.Truncate(o.TxHash, 10, 6)))
			}
		}
		summary := multisend.Summarize(msg.outcomes)
		m.msSummary = summary.String()
		if summary.OK() {
			m.notify("success", m.msSummary)
		} else {
			m.notify("warning", m.msSummary)
		}
		return m.refreshBalances(), true

	case paymentSentMsg:
		if msg.switchErr != nil {
			m.addLog("warning", fmt.Sprintf("Network check failed, paying anyway: %s", msg.switchErr))
		}
		if msg.err != nil {
			m.paying = false
			m.notify("error", "payment failed: "+msg.err.Error())
			return nil, true
		}
		m.payStage = "waiting for confirmation…"
		m.addLog("info", fmt.Sprintf("Payment broadcast: `%s`", msg.txHash))
		return waitPayment(m.wallet, msg.invoiceID, msg.txHash), true

	case paymentMinedMsg:
		if msg.err != nil {
			m.paying = false
			if errors.Is(msg.err, rpc.ErrReverted) {
				m.notify("error", "payment reverted on-chain")
			} else {
				m.notify("error", "payment failed: "+msg.err.Error())
			}
			return nil, true
		}
		m.payStage = "recording payment…"
		m.addLog("success", fmt.Sprintf("Payment confirmed: `%s`", helpers.Truncate(msg.txHash, 10, 6)))
		return recordPayment(m.client(), msg.invoiceID, msg.txHash, m.self()), true

	case paymentRecordedMsg:
		m.paying = false
		if msg.err != nil {
			m.notify("error", api.ErrorMessage(msg.err, "payment confirmed but could not be recorded"))
			return nil, true
		}
		if m.payment.ID == msg.invoice.ID {
			m.payment = msg.invoice
		}
		m.notify("success", "invoice paid")
		return m.refreshBalances(), true

	case receiptSavedMsg:
		if msg.err != nil {
			m.notify("error", "failed to save receipt: "+msg.err.Error())
		} else {
			m.notify("success", "receipt saved to "+msg.path)
		}
		return nil, true

	case clipboardCopiedMsg:
		if msg.err != nil {
			m.notify("error", "clipboard unavailable: "+msg.err.Error())
		} else {
			m.notify("info", msg.what+" copied to clipboard")
		}
		return nil, true
	}

	return nil, false
}

// invoiceFormPristine reports whether the invoice form can be rebuilt
// without losing anything the user typed.
func (m *model) invoiceFormPristine() bool {
	return m.invoiceResult == nil && !m.submitting &&
		tempInvoiceRecipient == "" && tempInvoiceEmail == "" && tempInvoicePhone == "" &&
		tempInvoiceAmount == "" && tempInvoiceMemo == ""
}

// maybeLoadDecimals fetches the precision of the open invoice's token so its
// QR code can be drawn.
func (m *model) maybeLoadDecimals() tea.Cmd {
	token := m.payment.TokenAddress
	if m.wallet == nil || m.payment.Paid() || !helpers.IsValidEthAddress(token) {
		return nil
	}
	if _, ok := m.decimals[strings.ToLower(token)]; ok {
		return nil
	}
	return loadDecimals(m.wallet, token)
}

// -------------------- NAVIGATION --------------------

// switchPage moves delta steps through the navigation pages.
func (m *model) switchPage(delta int) tea.Cmd {
	current := m.activePage
	if current == config.PagePayment {
		current = m.prevPage
	}
	idx := 0
	for i, p := range config.NavPages {
		if p == current {
			idx = i
			break
		}
	}
	n := len(config.NavPages)
	return m.gotoPage(config.NavPages[((idx+delta)%n+n)%n])
}

// gotoPage shows page and starts whatever it needs to load.
func (m *model) gotoPage(page config.Page) tea.Cmd {
	if page != config.PagePayment && m.payLocked() {
		return nil
	}
	if m.msEditing {
		m.msEditing = false
		m.msInput.Blur()
	}
	m.activePage = page
	switch page {
	case config.PageContacts:
		if self := m.self(); self != "" {
			m.contactsLoading = len(m.contacts) == 0
			return loadContacts(m.client(), self)
		}
	case config.PageHistory:
		if self := m.self(); self != "" {
			m.invoicesLoading = true
			return loadInvoices(m.client(), self)
		}
		m.notify("warning", invoice.ErrNoWallet.Error())
	case config.PageMultiSend:
		return m.refreshBalances()
	case config.PageSettings:
		m.settingsMode = "list"
	}
	return nil
}

// payLocked reports whether the payment page must stay on its invoice.
func (m *model) payLocked() bool {
	if m.paying && m.activePage == config.PagePayment {
		m.notify("warning", "wait for the payment to finish")
		return true
	}
	return false
}

// openPayment shows the payment view for invoice id.
func (m *model) openPayment(id string) tea.Cmd {
	if m.payLocked() {
		return nil
	}
	if m.activePage != config.PagePayment {
		m.prevPage = m.activePage
	}
	m.activePage = config.PagePayment
	m.payment = api.Invoice{ID: id}
	m.paymentErr = ""
	m.paymentLoading = true
	return tea.Batch(m.spin.Tick, loadInvoice(m.client(), id))
}

// activateRPC makes endpoint idx the active one and reconnects.
func (m *model) activateRPC(idx int) tea.Cmd {
	if idx < 0 || idx >= len(m.rpcURLs) {
		return nil
	}
	if m.msSending || m.paying {
		m.notify("warning", "wait for pending payments before switching endpoints")
		return nil
	}
	for i := range m.rpcURLs {
		m.rpcURLs[i].Active = i == idx
	}
	m.rpcURL = m.rpcURLs[idx].URL
	m.saveConfig()

	if m.ethClient != nil {
		m.ethClient.Close()
	}
	m.ethClient = nil
	m.wallet = nil
	// Set connecting state and reconnect with new RPC
	m.rpcConnecting = true
	m.rpcConnected = false
	return connectRPC(m.rpcURL)
}

// walletChanged reloads everything keyed by the active wallet.
func (m *model) walletChanged() tea.Cmd {
	if m.ethClient != nil && m.signer == "" {
		if w, err := rpc.NewWallet(m.ethClient, "", m.cfg.Profile.Address); err == nil {
			m.wallet = w
		}
	}
	m.contacts = nil
	m.invoices = nil
	m.balances = rpc.Balances{}
	self := m.self()
	if self == "" {
		return nil
	}
	return tea.Batch(loadContacts(m.client(), self), m.refreshBalances())
}

// -------------------- KEYS --------------------

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.showDeleteDialog {
		return m.handleDeleteDialog(msg)
	}

	if m.activePage == config.PageMultiSend && m.msEditing {
		return m.handleCellEditor(msg)
	}

	// global keys
	if !m.textInputActive() {
		switch msg.String() {
		case "ctrl+c", "q":
			return tea.Quit

		case "l", "L":
			// Toggle logger
			m.logEnabled = !m.logEnabled
			if m.logEnabled {
				if m.w > 0 {
					m.logViewport.Width = m.w - 6
				}
				m.logReady = false
				m.saveConfig()
				return tea.Batch(initLogViewport(), m.logSpinner.Tick)
			}
			// Clear logs and de-initialize when disabling
			if m.logBuffer != nil {
				m.logBuffer.Reset()
			}
			m.logger = nil
			m.logReady = false
			m.saveConfig()
			return nil

		case "pageup", "pagedown":
			// Allow scrolling in log viewport when enabled
			if m.logEnabled && m.logReady {
				var cmd tea.Cmd
				m.logViewport, cmd = m.logViewport.Update(msg)
				return cmd
			}

		case "tab", "ctrl+n":
			return m.switchPage(1)

		case "shift+tab", "ctrl+p":
			return m.switchPage(-1)

		case "1", "2", "3", "4", "5":
			return m.gotoPage(config.NavPages[int(msg.String()[0]-'1')])
		}
	}

	// page-specific behavior
	switch m.activePage {
	case config.PageCreate:
		return m.handleCreateKey(msg)
	case config.PageMultiSend:
		return m.handleMultiSendKey(msg)
	case config.PageContacts:
		return m.handleContactsKey(msg)
	case config.PageHistory:
		return m.handleHistoryKey(msg)
	case config.PagePayment:
		return m.handlePaymentKey(msg)
	case config.PageSettings:
		return m.handleSettingsKey(msg)
	}
	return nil
}

func (m *model) handleCreateKey(msg tea.KeyMsg) tea.Cmd {
	if m.invoiceResult == nil {
		return nil
	}
	switch msg.String() {
	case "o", "enter":
		return m.openPayment(m.invoiceResult.InvoiceID)
	case "c":
		if m.invoiceResult.PaymentLink != "" {
			return copyToClipboard(m.invoiceResult.PaymentLink, "payment link")
		}
	case "n", "esc":
		m.invoiceResult = nil
		m.createInvoiceForm("")
	}
	return nil
}

var cellOrder = []multisend.Field{multisend.FieldAddress, multisend.FieldAmount, multisend.FieldMemo}

func cellValue(r multisend.Row, f multisend.Field) string {
	switch f {
	case multisend.FieldAddress:
		return r.Address
	case multisend.FieldAmount:
		return r.Amount
	}
	return r.Memo
}

// focusedRow returns the row under the cursor.
func (m *model) focusedRow() (multisend.Row, bool) {
	rows := m.sheet.Rows()
	if m.msFocusRow < 0 || m.msFocusRow >= len(rows) {
		return multisend.Row{}, false
	}
	return rows[m.msFocusRow], true
}

// startEditing opens the cell editor on the focused cell if its row is idle.
func (m *model) startEditing() tea.Cmd {
	if m.sheetLocked() {
		return nil
	}
	r, ok := m.focusedRow()
	if !ok || !r.Editable() {
		return nil
	}
	m.msEditing = true
	m.msInput.SetValue(cellValue(r, m.msFocusField))
	m.msInput.CursorEnd()
	return m.msInput.Focus()
}

// commitCell writes the editor value into the focused cell.
func (m *model) commitCell() {
	if r, ok := m.focusedRow(); ok {
		m.sheet.Edit(r.ID, m.msFocusField, strings.TrimSpace(m.msInput.Value()))
	}
}

// moveCell steps the focus through the grid in reading order.
func (m *model) moveCell(delta int) {
	n := len(cellOrder)
	pos := m.msFocusRow*n + int(m.msFocusField) + delta
	total := m.sheet.Len() * n
	pos = ((pos % total) + total) % total
	m.msFocusRow = pos / n
	m.msFocusField = cellOrder[pos%n]
}

func (m *model) handleCellEditor(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		m.msEditing = false
		m.msInput.Blur()
		return nil
	case "enter":
		m.commitCell()
		m.msEditing = false
		m.msInput.Blur()
		return nil
	case "tab", "shift+tab":
		m.commitCell()
		if msg.String() == "tab" {
			m.moveCell(1)
		} else {
			m.moveCell(-1)
		}
		m.msEditing = false
		m.msInput.Blur()
		return m.startEditing()
	}

	var cmd tea.Cmd
	m.msInput, cmd = m.msInput.Update(msg)
	return cmd
}

func (m *model) handleMultiSendKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.msFocusRow > 0 {
			m.msFocusRow--
		}
	case "down", "j":
		if m.msFocusRow < m.sheet.Len()-1 {
			m.msFocusRow++
		}
	case "left":
		if m.msFocusField > multisend.FieldAddress {
			m.msFocusField--
		}
	case "right":
		if m.msFocusField < multisend.FieldMemo {
			m.msFocusField++
		}
	case "enter":
		return m.startEditing()
	case "a", "A":
		if m.sheetLocked() {
			return nil
		}
		m.sheet.Add()
		m.msFocusRow = m.sheet.Len() - 1
		m.msFocusField = multisend.FieldAddress
		return m.startEditing()
	case "x", "delete":
		r, ok := m.focusedRow()
		if !ok || m.sheetLocked() {
			return nil
		}
		if !m.sheet.Remove(r.ID) {
			m.notify("warning", "can't remove this row")
			return nil
		}
		if m.msFocusRow >= m.sheet.Len() {
			m.msFocusRow = m.sheet.Len() - 1
		}
	case "t", "T":
		if m.msSending || m.sheet.Busy() {
			return nil
		}
		if len(m.cfg.Tokens) > 0 {
			m.msToken = (m.msToken + 1) % len(m.cfg.Tokens)
		}
	case "n", "N":
		if m.msSending {
			return nil
		}
		m.sheet.Reset()
		m.msFocusRow, m.msFocusField = 0, multisend.FieldAddress
		m.msSummary = ""
	case "s", "S":
		return m.sendAll()
	}
	return nil
}

// sheetLocked reports whether the sheet must not change. Planned rows stay
// idle until the pre-flight ends, so the whole batch counts as in flight.
func (m *model) sheetLocked() bool {
	if m.msSending {
		m.notify("warning", "a batch is still sending")
		return true
	}
	return false
}

// sendAll starts a batch. Rows turn pending once the pre-flight succeeds.
func (m *model) sendAll() tea.Cmd {
	if m.msSending {
		return nil
	}
	if err := multisend.Ready(m.chain()); err != nil {
		m.notify("error", err.Error())
		return nil
	}
	plan, err := m.sheet.Plan()
	if err != nil {
		m.notify("error", err.Error())
		return nil
	}
	token := m.batchToken()
	if !helpers.IsValidEthAddress(token.Address) {
		m.notify("error", invoice.ErrInvalidToken.Error())
		return nil
	}

	m.msPlan = plan
	m.msSending = true
	m.msSummary = ""
	m.addLog("info", fmt.Sprintf("Preparing batch of %d row(s)", len(plan)))
	return tea.Batch(m.spin.Tick, prepareBatch(m.chain(), common.HexToAddress(token.Address), m.cfg.ChainID))
}

func (m *model) handleContactsKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.selectedContact > 0 {
			m.selectedContact--
		}
	case "down", "j":
		if m.selectedContact < len(m.contacts)-1 {
			m.selectedContact++
		}
	case "a", "A":
		if m.self() == "" {
			m.notify("error", invoice.ErrNoWallet.Error())
			return nil
		}
		m.createContactForm()
	case "r", "R":
		if self := m.self(); self != "" {
			m.contactsLoading = true
			return loadContacts(m.client(), self)
		}
	case "enter":
		if c, ok := m.selectedContactEntry(); ok {
			m.invoiceResult = nil
			m.createInvoiceForm(c.Address)
			m.activePage = config.PageCreate
			m.addLog("info", fmt.Sprintf("Invoice for contact `%s`", c.Name))
		}
	case "m", "M":
		if c, ok := m.selectedContactEntry(); ok {
			if m.sheetLocked() {
				return nil
			}
			r := m.sheet.Fill(c.Address)
			for i, row := range m.sheet.Rows() {
				if row.ID == r.ID {
					m.msFocusRow = i
				}
			}
			m.msFocusField = multisend.FieldAmount
			m.activePage = config.PageMultiSend
			m.addLog("info", fmt.Sprintf("Added `%s` to the batch", c.Name))
		}
	case "d", "delete":
		if c, ok := m.selectedContactEntry(); ok {
			m.openDeleteDialog("contact", c.Name, m.selectedContact)
		}
	}
	return nil
}

func (m *model) selectedContactEntry() (api.Contact, bool) {
	if m.selectedContact < 0 || m.selectedContact >= len(m.contacts) {
		return api.Contact{}, false
	}
	return m.contacts[m.selectedContact], true
}

func (m *model) handleHistoryKey(msg tea.KeyMsg) tea.Cmd {
	n := len(m.invoices)
	switch msg.String() {
	case "left", "h":
		if m.selectedInvoice > 0 {
			m.selectedInvoice--
		}
	case "right":
		if m.selectedInvoice < n-1 {
			m.selectedInvoice++
		}
	case "up", "k":
		if m.selectedInvoice-history.Columns >= 0 {
			m.selectedInvoice -= history.Columns
		}
	case "down", "j":
		if m.selectedInvoice+history.Columns < n {
			m.selectedInvoice += history.Columns
		}
	case "r", "R":
		return m.gotoPage(config.PageHistory)
	case "enter":
		if m.selectedInvoice < n {
			return m.openPayment(m.invoices[m.selectedInvoice].ID)
		}
	case "x", "delete":
		if m.selectedInvoice >= n {
			return nil
		}
		inv := m.invoices[m.selectedInvoice]
		if !strings.EqualFold(inv.MerchantAddress, m.self()) {
			m.notify("warning", "only the invoice owner can delete it")
			return nil
		}
		m.openDeleteDialog("invoice", "invoice "+helpers.Truncate(inv.ID, 8, 4), m.selectedInvoice)
	}
	return nil
}

func (m *model) handlePaymentKey(msg tea.KeyMsg) tea.Cmd {
	inv := m.payment
	switch msg.String() {
	case "esc", "backspace":
		if m.paying {
			return nil
		}
		return m.gotoPage(m.prevPage)
	case "r", "R":
		if m.paying || inv.ID == "" {
			return nil
		}
		return m.openPayment(inv.ID)
	case "c":
		if inv.PaymentLink != "" {
			return copyToClipboard(inv.PaymentLink, "payment link")
		}
	case "y":
		if inv.TxHash != "" {
			return copyToClipboard(inv.TxHash, "transaction hash")
		}
	case "d":
		if inv.Paid() {
			return saveReceipt(inv, m.receiptOptions())
		}
	case "p", "P":
		if m.paying || inv.ID == "" || m.paymentLoading {
			return nil
		}
		if inv.Paid() {
			m.notify("info", invoice.ErrAlreadyPaid.Error())
			return nil
		}
		if m.wallet == nil || !m.wallet.CanSign() {
			m.notify("error", multisend.ErrNotConnected.Error())
			return nil
		}
		m.paying = true
		m.payStage = "sending payment…"
		m.addLog("info", fmt.Sprintf("Paying invoice `%s`: %s to `%s`", helpers.Truncate(inv.ID, 8, 4), inv.Amount, helpers.ShortenAddr(inv.MerchantAddress)))
		return tea.Batch(m.spin.Tick, sendPayment(m.wallet, inv, m.cfg.ChainID))
	}
	return nil
}

func (m *model) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	if m.settingsMode != "list" {
		return nil
	}
	switch msg.String() {
	case "p", "P":
		m.settingsMode = "profile"
		m.createProfileForm()
	case "a", "A":
		m.settingsMode = "add"
		m.createAddRPCForm()
	case "e", "E":
		if len(m.rpcURLs) > 0 {
			m.settingsMode = "edit"
			m.createEditRPCForm(m.selectedRPCIdx)
		}
	case "d", "delete", "backspace":
		if len(m.rpcURLs) > 0 && m.selectedRPCIdx < len(m.rpcURLs) {
			name := strings.TrimSpace(m.rpcURLs[m.selectedRPCIdx].Name)
			if name == "" {
				name = m.rpcURLs[m.selectedRPCIdx].URL
			}
			m.openDeleteDialog("rpc", "RPC endpoint "+name, m.selectedRPCIdx)
		}
	case "up", "k":
		if m.selectedRPCIdx > 0 {
			m.selectedRPCIdx--
		}
	case "down", "j":
		if m.selectedRPCIdx < len(m.rpcURLs)-1 {
			m.selectedRPCIdx++
		}
	case "enter", " ":
		return m.activateRPC(m.selectedRPCIdx)
	}
	return nil
}

// -------------------- DELETE DIALOG --------------------

func (m *model) openDeleteDialog(kind, label string, idx int) {
	m.showDeleteDialog = true
	m.deleteDialogKind = kind
	m.deleteDialogLabel = label
	m.deleteDialogIdx = idx
	m.deleteDialogYesSelected = true
}

func (m *model) handleDeleteDialog(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "left", "right", "tab":
		// Toggle between Yes and No buttons
		m.deleteDialogYesSelected = !m.deleteDialogYesSelected
		return nil
	case "esc":
		m.showDeleteDialog = false
		return nil
	case "enter":
	default:
		return nil
	}

	m.showDeleteDialog = false
	if !m.deleteDialogYesSelected {
		return nil
	}

	idx := m.deleteDialogIdx
	switch m.deleteDialogKind {
	case "contact":
		if idx >= 0 && idx < len(m.contacts) {
			return deleteContact(m.client(), m.contacts[idx].ID)
		}
	case "invoice":
		if idx >= 0 && idx < len(m.invoices) {
			return deleteInvoice(m.client(), m.invoices[idx].ID)
		}
	case "rpc":
		if idx >= 0 && idx < len(m.rpcURLs) {
			wasActive := m.rpcURLs[idx].Active
			m.rpcURLs = append(m.rpcURLs[:idx], m.rpcURLs[idx+1:]...)
			if m.selectedRPCIdx >= len(m.rpcURLs) && m.selectedRPCIdx > 0 {
				m.selectedRPCIdx--
			}
			m.saveConfig()
			m.addLog("warning", fmt.Sprintf("Deleted %s", m.deleteDialogLabel))
			if wasActive {
				m.rpcURL = ""
			}
		}
	}
	return nil
}

// -------------------- MOUSE --------------------

func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if m.logEnabled && m.logReady {
			var cmd tea.Cmd
			m.logViewport, cmd = m.logViewport.Update(msg)
			return cmd
		}
	case tea.MouseButtonLeft:
		for _, area := range m.clickableAreas {
			if area.Contains(msg.X, msg.Y) {
				m.addLog("debug", fmt.Sprintf("Click at (%d,%d) selected entry %d", msg.X, msg.Y, area.Index))
				if m.activePage == config.PageContacts {
					m.selectedContact = area.Index
				}
				return nil
			}
		}
	}
	return nil
}
