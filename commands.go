package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"payme-tui/api"
	"payme-tui/config"
	"payme-tui/invoice"
	"payme-tui/multisend"
	"payme-tui/receipt"
	"payme-tui/rpc"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
)

// -------------------- COMMAND FUNCTIONS --------------------
// Functions that return tea.Cmd for async operations

const apiTimeout = 15 * time.Second

// connectRPC establishes an RPC connection to the node
func connectRPC(url string) tea.Cmd {
	return func() tea.Msg {
		result := rpc.Connect(url)
		return rpcConnectedMsg{client: result.Client, err: result.Error}
	}
}

// initLogViewport initializes the log viewport
func initLogViewport() tea.Cmd {
	return func() tea.Msg {
		return logInitMsg{}
	}
}

// loadBalances loads token balances asynchronously
func loadBalances(client *rpc.Client, addr common.Address, watch []rpc.WatchedToken) tea.Cmd {
	return func() tea.Msg {
		return balancesLoadedMsg{b: rpc.LoadBalances(client, addr, watch)}
	}
}

func loadContacts(client *api.Client, wallet string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()
		list, err := client.ListContacts(ctx, wallet)
		return contactsLoadedMsg{contacts: list, err: err}
	}
}

func createContact(client *api.Client, req api.CreateContactRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()
		c, err := client.CreateContact(ctx, req)
		return contactCreatedMsg{contact: c, err: err}
	}
}

func deleteContact(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()
		return contactDeletedMsg{id: id, err: client.DeleteContact(ctx, id)}
	}
}

func loadInvoices(client *api.Client, wallet string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()
		list, err := client.ListInvoices(ctx, wallet)
		return invoicesLoadedMsg{invoices: list, err: err}
	}
}

func loadInvoice(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()
		inv, err := client.GetInvoice(ctx, id)
		return invoiceLoadedMsg{invoice: inv, err: err}
	}
}

func deleteInvoice(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()
		return invoiceDeletedMsg{id: id, err: client.DeleteInvoice(ctx, id)}
	}
}

// submitInvoice runs the contact lookup and the create call
func submitInvoice(client *api.Client, d invoice.Draft, self string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()
		res, err := invoice.Submit(ctx, client, d, self)
		return invoiceSubmittedMsg{result: res, err: err}
	}
}

// loadDecimals reads the precision of token for the payment QR code
func loadDecimals(w *rpc.Wallet, token string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()
		dec, err := w.TokenDecimals(ctx, common.HexToAddress(token))
		return decimalsLoadedMsg{token: token, decimals: dec, err: err}
	}
}

// prepareBatch checks the network and reads the token precision once
func prepareBatch(chain multisend.Chain, token common.Address, chainID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()
		p, err := multisend.Prepare(ctx, chain, token, chainID)
		return batchPreparedMsg{prepared: p, err: err}
	}
}

// executeBatch sends every planned row and waits for all of them. In-flight
// transfers are not cancellable.
func executeBatch(chain multisend.Chain, token common.Address, plan multisend.Plan, decimals uint8) tea.Cmd {
	return func() tea.Msg {
		return batchSettledMsg{outcomes: multisend.Execute(context.Background(), chain, token, plan, decimals)}
	}
}

// sendPayment broadcasts the transfer that settles inv
func sendPayment(w *rpc.Wallet, inv api.Invoice, chainID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		if !w.CanSign() {
			return paymentSentMsg{invoiceID: inv.ID, err: rpc.ErrNoSigner}
		}
		switchErr := w.SwitchChain(ctx, chainID)

		dec, err := w.TokenDecimals(ctx, common.HexToAddress(inv.TokenAddress))
		if err != nil {
			return paymentSentMsg{invoiceID: inv.ID, switchErr: switchErr, err: fmt.Errorf("%w: %v", multisend.ErrDecimals, err)}
		}
		req, err := invoice.PaymentRequest(inv, dec, chainID)
		if err != nil {
			return paymentSentMsg{invoiceID: inv.ID, switchErr: switchErr, err: err}
		}
		hash, err := w.Transfer(ctx, req.Token, req.To, req.Amount)
		if err != nil {
			return paymentSentMsg{invoiceID: inv.ID, switchErr: switchErr, err: err}
		}
		return paymentSentMsg{invoiceID: inv.ID, txHash: hash.Hex(), switchErr: switchErr}
	}
}

// waitPayment blocks until the payment transaction for invoice id is mined
func waitPayment(w *rpc.Wallet, id, txHash string) tea.Cmd {
	return func() tea.Msg {
		_, err := w.WaitMined(context.Background(), common.HexToHash(txHash))
		return paymentMinedMsg{invoiceID: id, txHash: txHash, err: err}
	}
}

// recordPayment tells the API which transaction paid the invoice
func recordPayment(client *api.Client, id, txHash, payer string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()
		inv, err := client.MarkPaid(ctx, id, api.MarkPaidRequest{TxHash: txHash, PayerAddress: payer})
		return paymentRecordedMsg{invoice: inv, err: err}
	}
}

// saveReceipt writes the printable receipt into the working directory
func saveReceipt(inv api.Invoice, opts receipt.Options) tea.Cmd {
	return func() tea.Msg {
		path := receipt.FileName(inv)
		return receiptSavedMsg{path: path, err: receipt.Save(path, inv, opts)}
	}
}

// copyToClipboard copies text to clipboard
func copyToClipboard(text, what string) tea.Cmd {
	return func() tea.Msg {
		return clipboardCopiedMsg{what: what, err: clipboard.WriteAll(text)}
	}
}

// -------------------- MODEL HELPERS --------------------

// addLog adds a log message to the log buffer using charmbracelet/log
func (m *model) addLog(logType, message string) {
	if !m.logEnabled || !m.logReady || m.logger == nil {
		return
	}

	switch logType {
	case "info":
		m.logger.Info(message)
	case "success":
		m.logger.Info("✓", "msg", message)
	case "error":
		m.logger.Error(message)
	case "warning":
		m.logger.Warn(message)
	case "debug":
		m.logger.Debug(message)
	default:
		m.logger.Print(message)
	}

	m.updateLogViewport()
}

// updateLogViewport updates the viewport content with current log buffer
func (m *model) updateLogViewport() {
	if !m.logReady || m.logBuffer == nil {
		return
	}

	m.logViewport.SetContent(m.logBuffer.String())
	m.logViewport.GotoBottom()
}

// notify shows message on the status line and mirrors it to the log.
func (m *model) notify(kind, message string) {
	m.status = message
	m.statusKind = kind
	m.statusTime = time.Now()
	m.addLog(kind, message)
}

// textInputActive returns true if any text input field is currently active
func (m model) textInputActive() bool {
	switch m.activePage {
	case config.PageCreate:
		return m.invoiceForm != nil && m.invoiceResult == nil && !m.submitting
	case config.PageMultiSend:
		return m.msEditing
	case config.PageContacts:
		return m.contactForm != nil
	case config.PageSettings:
		return m.settingsMode != "list" && m.form != nil
	}
	return false
}

// self is the wallet the user acts as: the signing key's account if one is
// configured, the profile address otherwise.
func (m model) self() string {
	if m.signer != "" {
		return m.signer
	}
	return strings.TrimSpace(m.cfg.Profile.Address)
}

// client returns the API client authenticated as the active wallet
func (m model) client() *api.Client {
	return m.api.WithWallet(m.self())
}

// chain returns the wallet as a multisend chain, nil when not connected
func (m model) chain() multisend.Chain {
	if m.wallet == nil {
		return nil
	}
	return m.wallet
}

func (m model) batchToken() config.Token {
	if len(m.cfg.Tokens) == 0 {
		return config.Token{}
	}
	return m.cfg.Tokens[m.msToken%len(m.cfg.Tokens)]
}

func (m model) receiptOptions() receipt.Options {
	return receipt.Options{Network: m.cfg.ChainName, ExplorerURL: m.cfg.ExplorerURL}
}

func (m model) watchList() []rpc.WatchedToken {
	watch := make([]rpc.WatchedToken, 0, len(m.cfg.Tokens))
	for _, t := range m.cfg.Tokens {
		watch = append(watch, rpc.WatchedToken{Symbol: t.Symbol, Address: common.HexToAddress(t.Address)})
	}
	return watch
}

// refreshBalances reloads balances of the active wallet when connected
func (m *model) refreshBalances() tea.Cmd {
	addr := m.self()
	if m.ethClient == nil || addr == "" {
		return nil
	}
	m.balancesLoading = true
	return loadBalances(m.ethClient, common.HexToAddress(addr), m.watchList())
}

// saveConfig persists the editable parts of the config
func (m *model) saveConfig() {
	m.cfg.RPCURLs = m.rpcURLs
	m.cfg.Logger = m.logEnabled
	if err := config.Save(m.configPath, m.cfg); err != nil {
		m.addLog("error", fmt.Sprintf("Failed to save config: %s", err))
	}
}
