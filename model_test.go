package main

import (
	"path/filepath"
	"testing"

	"payme-tui/api"
	"payme-tui/config"
	"payme-tui/invoice"
	"payme-tui/multisend"
	"payme-tui/rpc"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const merchant = "0x1111111111111111111111111111111111111111"

func newTestModel(t *testing.T) *model {
	t.Helper()
	m, err := newModel(options{configPath: filepath.Join(t.TempDir(), "config.json")})
	require.NoError(t, err)
	return &m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelRejectsBadKey(t *testing.T) {
	_, err := newModel(options{
		configPath: filepath.Join(t.TempDir(), "config.json"),
		env:        config.Env{PrivateKey: "not-a-key"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAYME_PRIVATE_KEY")
}

func TestDeepLinkOpensPaymentPage(t *testing.T) {
	m, err := newModel(options{
		configPath: filepath.Join(t.TempDir(), "config.json"),
		invoiceID:  "inv-42",
	})
	require.NoError(t, err)
	assert.Equal(t, config.PagePayment, m.activePage)
	assert.Equal(t, "inv-42", m.payment.ID)
	assert.True(t, m.paymentLoading)
}

func TestSwitchPageCycles(t *testing.T) {
	m := newTestModel(t)

	m.switchPage(1)
	assert.Equal(t, config.PageMultiSend, m.activePage)

	m.switchPage(-1)
	m.switchPage(-1)
	assert.Equal(t, config.PageSettings, m.activePage)

	// payment is not part of the cycle
	m.activePage = config.PageContacts
	m.openPayment("abc")
	m.switchPage(1)
	assert.Equal(t, config.PageHistory, m.activePage)
}

func TestEscLeavesPaymentPage(t *testing.T) {
	m := newTestModel(t)
	m.activePage = config.PageMultiSend
	m.openPayment("abc")
	require.Equal(t, config.PagePayment, m.activePage)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, config.PageMultiSend, m.activePage)
}

func TestInvoiceResultKeys(t *testing.T) {
	m := newTestModel(t)
	m.submitting = true

	m.Update(invoiceSubmittedMsg{result: invoice.Result{InvoiceID: "inv-1", PaymentLink: "http://localhost/?invoiceId=inv-1"}})
	require.NotNil(t, m.invoiceResult)
	assert.False(t, m.submitting)
	assert.Equal(t, "success", m.statusKind)

	m.Update(runes("o"))
	assert.Equal(t, config.PagePayment, m.activePage)
	assert.Equal(t, "inv-1", m.payment.ID)
	assert.Equal(t, config.PageCreate, m.prevPage)
}

func TestInvoiceSubmitErrorKeepsForm(t *testing.T) {
	m := newTestModel(t)
	m.submitting = true
	tempInvoiceAmount = "5"

	m.Update(invoiceSubmittedMsg{err: invoice.ErrNoWallet})
	assert.Nil(t, m.invoiceResult)
	assert.Equal(t, "error", m.statusKind)
	assert.Equal(t, "5", tempInvoiceAmount)
}

func TestCellEditing(t *testing.T) {
	m := newTestModel(t)
	m.activePage = config.PageMultiSend

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.msEditing)

	m.Update(runes(merchant))
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, m.msEditing)
	assert.Equal(t, multisend.FieldAmount, m.msFocusField)

	m.Update(runes("2.5"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.msEditing)

	row := m.sheet.Rows()[0]
	assert.Equal(t, merchant, row.Address)
	assert.Equal(t, "2.5", row.Amount)
}

func TestSendAllWithoutWallet(t *testing.T) {
	m := newTestModel(t)
	m.activePage = config.PageMultiSend

	m.Update(runes("s"))
	assert.False(t, m.msSending)
	assert.Equal(t, multisend.ErrNotConnected.Error(), m.status)
}

func TestContactQuickSelect(t *testing.T) {
	m := newTestModel(t)
	m.activePage = config.PageContacts
	m.Update(contactsLoadedMsg{contacts: []api.Contact{{ID: "c1", Name: "Alice", Address: merchant}}})

	m.Update(runes("m"))
	assert.Equal(t, config.PageMultiSend, m.activePage)
	assert.Equal(t, merchant, m.sheet.Rows()[0].Address)
	assert.Equal(t, multisend.FieldAmount, m.msFocusField)

	m.activePage = config.PageContacts
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, config.PageCreate, m.activePage)
	assert.Equal(t, merchant, tempInvoiceRecipient)
}

func TestContactsLoadFailureIsNotFatal(t *testing.T) {
	m := newTestModel(t)
	m.contactsLoading = true

	m.Update(contactsLoadedMsg{err: &api.Error{Status: 500, Message: "boom"}})
	assert.False(t, m.contactsLoading)
	assert.Empty(t, m.contacts)
	assert.Empty(t, m.status)
}

func TestDeleteRPCEndpoint(t *testing.T) {
	m := newTestModel(t)
	m.activePage = config.PageSettings
	m.rpcURLs = append(m.rpcURLs, config.RPCUrl{Name: "local", URL: "http://127.0.0.1:8545"})
	before := len(m.rpcURLs)
	m.selectedRPCIdx = before - 1

	m.Update(runes("d"))
	require.True(t, m.showDeleteDialog)

	// No keeps the endpoint
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.showDeleteDialog)
	assert.Len(t, m.rpcURLs, before)

	m.Update(runes("d"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, m.rpcURLs, before-1)

	saved := config.Load(m.configPath)
	assert.Len(t, saved.RPCURLs, before-1)
}

func TestOnlyOwnerDeletesInvoice(t *testing.T) {
	m := newTestModel(t)
	m.activePage = config.PageHistory
	m.Update(invoicesLoadedMsg{invoices: []api.Invoice{
		{ID: "old", MerchantAddress: merchant, CreatedAt: "2025-01-01T00:00:00Z"},
		{ID: "new", MerchantAddress: "0x2222222222222222222222222222222222222222", CreatedAt: "2025-02-01T00:00:00Z"},
	}})
	require.Len(t, m.invoices, 2)
	assert.Equal(t, "new", m.invoices[0].ID)

	m.Update(runes("x"))
	assert.False(t, m.showDeleteDialog)
	assert.Equal(t, "warning", m.statusKind)

	m.cfg.Profile.Address = merchant
	m.selectedInvoice = 1
	m.Update(runes("x"))
	assert.True(t, m.showDeleteDialog)
	assert.Equal(t, "invoice", m.deleteDialogKind)
}

func TestBatchSettledSummary(t *testing.T) {
	m := newTestModel(t)
	m.msSending = true

	m.Update(batchSettledMsg{outcomes: []multisend.Outcome{
		{RowID: "row-1", TxHash: "0xaa"},
		{RowID: "row-2", Err: multisend.ErrReverted},
	}})
	assert.False(t, m.msSending)
	assert.NotEmpty(t, m.msSummary)
	assert.Equal(t, "warning", m.statusKind)
}

func TestSheetFrozenWhileBatchSends(t *testing.T) {
	m := newTestModel(t)
	m.activePage = config.PageMultiSend
	first := m.sheet.Rows()[0]
	second := m.sheet.Add()
	m.sheet.Edit(first.ID, multisend.FieldAddress, merchant)
	m.sheet.Edit(first.ID, multisend.FieldAmount, "1")
	m.sheet.Edit(second.ID, multisend.FieldAddress, "0x2222222222222222222222222222222222222222")
	m.sheet.Edit(second.ID, multisend.FieldAmount, "2")

	plan, err := m.sheet.Plan()
	require.NoError(t, err)
	require.Len(t, plan, 2)
	m.msPlan = plan
	m.msSending = true

	m.msFocusRow = 1
	m.Update(runes("x"))
	assert.Equal(t, 2, m.sheet.Len())
	assert.Equal(t, "warning", m.statusKind)

	m.Update(runes("a"))
	assert.Equal(t, 2, m.sheet.Len())

	m.msFocusRow = 0
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.msEditing)
	assert.Equal(t, merchant, m.sheet.Rows()[0].Address)

	m.msSending = false
	m.Update(runes("x"))
	assert.Equal(t, 1, m.sheet.Len())
}

func TestPaymentPageHeldWhilePaying(t *testing.T) {
	m := newTestModel(t)
	m.activePage = config.PageHistory
	m.openPayment("inv-a")
	m.paying = true

	m.Update(runes("4"))
	assert.Equal(t, config.PagePayment, m.activePage)
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, config.PagePayment, m.activePage)

	assert.Nil(t, m.openPayment("inv-b"))
	assert.Equal(t, "inv-a", m.payment.ID)
	assert.Equal(t, "warning", m.statusKind)
}

func TestPaymentMessagesCarryInvoice(t *testing.T) {
	w, err := rpc.NewWallet(nil, "", merchant)
	require.NoError(t, err)

	msg := sendPayment(w, api.Invoice{ID: "inv-a"}, 1)()
	sent, ok := msg.(paymentSentMsg)
	require.True(t, ok)
	assert.Equal(t, "inv-a", sent.invoiceID)
	assert.ErrorIs(t, sent.err, rpc.ErrNoSigner)

	m := newTestModel(t)
	m.payment = api.Invoice{ID: "inv-b"}
	m.paying = true
	m.Update(paymentRecordedMsg{invoice: api.Invoice{ID: "inv-a", Status: api.StatusPaid}})
	assert.False(t, m.paying)
	assert.Equal(t, "inv-b", m.payment.ID)
	assert.Equal(t, "success", m.statusKind)
}
