package main

import (
	"payme-tui/api"
	"payme-tui/invoice"
	"payme-tui/multisend"
	"payme-tui/rpc"
)

// -------------------- TEA MESSAGES --------------------
// All custom message types for The Elm Architecture

// logInitMsg signals that log viewport should be initialized
type logInitMsg struct{}

// clipboardCopiedMsg reports a clipboard write
type clipboardCopiedMsg struct {
	what string
	err  error
}

// rpcConnectedMsg contains result of RPC connection attempt
type rpcConnectedMsg struct {
	client *rpc.Client
	err    error
}

// balancesLoadedMsg contains token balances of the active wallet
type balancesLoadedMsg struct {
	b rpc.Balances
}

// contactsLoadedMsg contains the address book of the active wallet
type contactsLoadedMsg struct {
	contacts []api.Contact
	err      error
}

// contactCreatedMsg is the result of saving a new contact
type contactCreatedMsg struct {
	contact api.Contact
	err     error
}

// contactDeletedMsg is the result of deleting a contact
type contactDeletedMsg struct {
	id  string
	err error
}

// invoicesLoadedMsg contains the invoice history of the active wallet
type invoicesLoadedMsg struct {
	invoices []api.Invoice
	err      error
}

// invoiceLoadedMsg contains a single invoice for the payment view
type invoiceLoadedMsg struct {
	invoice api.Invoice
	err     error
}

// invoiceDeletedMsg is the result of deleting an invoice
type invoiceDeletedMsg struct {
	id  string
	err error
}

// invoiceSubmittedMsg is the result of the invoice form
type invoiceSubmittedMsg struct {
	result invoice.Result
	err    error
}

// decimalsLoadedMsg carries the precision of a token
type decimalsLoadedMsg struct {
	token    string
	decimals uint8
	err      error
}

// batchPreparedMsg ends the pre-flight of a multi-send batch
type batchPreparedMsg struct {
	prepared multisend.Prepared
	err      error
}

// batchSettledMsg carries every outcome of a multi-send batch
type batchSettledMsg struct {
	outcomes []multisend.Outcome
}

// paymentSentMsg reports the broadcast of an invoice payment
type paymentSentMsg struct {
	invoiceID string
	txHash    string
	switchErr error
	err       error
}

// paymentMinedMsg reports the confirmation of an invoice payment
type paymentMinedMsg struct {
	invoiceID string
	txHash    string
	err       error
}

// paymentRecordedMsg is the API's answer to marking an invoice paid
type paymentRecordedMsg struct {
	invoice api.Invoice
	err     error
}

// receiptSavedMsg reports a receipt download
type receiptSavedMsg struct {
	path string
	err  error
}
