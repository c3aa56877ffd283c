package devserver

import (
	"testing"
	"time"

	"payme-tui/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "0x1111111111111111111111111111111111111111"
	bob   = "0x2222222222222222222222222222222222222222"
	token = "0x20c0000000000000000000000000000000000000"
)

func TestCreateInvoiceDefaults(t *testing.T) {
	s := NewStore("http://pay.local/", 42431)
	inv := s.CreateInvoice(api.CreateInvoiceRequest{MerchantAddress: alice, Amount: "10", TokenAddress: token})

	assert.Equal(t, api.StatusPending, inv.Status)
	assert.Equal(t, "http://pay.local/?invoiceId="+inv.ID, inv.PaymentLink)
	assert.Equal(t, "INV-"+inv.ID[:8], inv.Memo)
	assert.Equal(t, "42431", inv.ChainID)
}

func TestInvoicesNewestFirstForMerchantOrPayer(t *testing.T) {
	s := NewStore("http://pay.local", 1)
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { clock = clock.Add(time.Second); return clock }

	first := s.CreateInvoice(api.CreateInvoiceRequest{MerchantAddress: alice, Amount: "1", TokenAddress: token})
	second := s.CreateInvoice(api.CreateInvoiceRequest{MerchantAddress: bob, Amount: "2", TokenAddress: token})
	_, ok := s.MarkPaid(second.ID, api.MarkPaidRequest{TxHash: "0xabc", PayerAddress: alice})
	require.True(t, ok)

	list := s.Invoices(alice)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.True(t, list[0].Paid())

	assert.Len(t, s.Invoices(bob), 1)
}

func TestMarkPaidUnknown(t *testing.T) {
	s := NewStore("", 1)
	_, ok := s.MarkPaid("missing", api.MarkPaidRequest{TxHash: "0x1"})
	assert.False(t, ok)
}

func TestLookupScopesAndNormalizes(t *testing.T) {
	s := NewStore("", 1)
	s.CreateContact(api.CreateContactRequest{OwnerWallet: alice, Name: "Carol", WalletAddress: bob, Email: "Carol@Example.com", Phone: "+1 (555) 010-0"})

	c, ok := s.Lookup(alice, "carol@example.com", "")
	require.True(t, ok)
	assert.Equal(t, bob, c.Address)

	_, ok = s.Lookup(alice, "", "+1 555 0100")
	assert.True(t, ok)

	_, ok = s.Lookup(bob, "carol@example.com", "")
	assert.False(t, ok)
}

func TestContactsSortedAndDeleted(t *testing.T) {
	s := NewStore("", 1)
	z := s.CreateContact(api.CreateContactRequest{OwnerWallet: alice, Name: "zed", WalletAddress: bob})
	s.CreateContact(api.CreateContactRequest{OwnerWallet: alice, Name: "Amy", WalletAddress: bob})

	list := s.Contacts(alice)
	require.Len(t, list, 2)
	assert.Equal(t, "Amy", list[0].Name)

	s.DeleteContact(z.ID)
	assert.Len(t, s.Contacts(alice), 1)
}
