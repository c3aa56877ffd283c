package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"payme-tui/api"
	"payme-tui/devserver"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	merchant = "0x1111111111111111111111111111111111111111"
	payer    = "0x2222222222222222222222222222222222222222"
	token    = "0x20c0000000000000000000000000000000000000"
)

func setupServer(t *testing.T) *api.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(devserver.NewRouter(devserver.NewStore("http://localhost:5173", 42431)))
	t.Cleanup(srv.Close)
	return api.New(srv.URL)
}

func TestInvoiceLifecycle(t *testing.T) {
	ctx := context.Background()
	c := setupServer(t).WithWallet(merchant)

	inv, err := c.CreateInvoice(ctx, api.CreateInvoiceRequest{
		MerchantAddress: merchant,
		Amount:          json.Number("12.50"),
		TokenAddress:    token,
		Memo:            "design work",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, inv.ID)
	assert.Equal(t, api.StatusPending, inv.Status)
	assert.Equal(t, "12.50", inv.Amount.String())
	assert.Contains(t, inv.PaymentLink, "?invoiceId="+inv.ID)

	got, err := c.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, got.ID)

	paid, err := c.WithWallet(payer).MarkPaid(ctx, inv.ID, api.MarkPaidRequest{TxHash: "0xabc", PayerAddress: payer})
	require.NoError(t, err)
	assert.True(t, paid.Paid())
	assert.Equal(t, "0xabc", paid.TxHash)

	// payer sees the invoice in their activity too
	list, err := c.ListInvoices(ctx, payer)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, c.DeleteInvoice(ctx, inv.ID))
	_, err = c.GetInvoice(ctx, inv.ID)
	assert.True(t, api.IsNotFound(err))
	assert.Equal(t, "invoice not found", api.ErrorMessage(err, "failed"))
}

func TestMutatingRequestsNeedWallet(t *testing.T) {
	c := setupServer(t)

	_, err := c.CreateInvoice(context.Background(), api.CreateInvoiceRequest{
		MerchantAddress: merchant,
		Amount:          json.Number("1"),
		TokenAddress:    token,
	})
	require.Error(t, err)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "X-Wallet-Address header required", apiErr.Message)
}

func TestValidationDetailIsSurfaced(t *testing.T) {
	c := setupServer(t).WithWallet(merchant)

	_, err := c.CreateInvoice(context.Background(), api.CreateInvoiceRequest{
		MerchantAddress: merchant,
		Amount:          json.Number("0"),
		TokenAddress:    token,
	})
	require.Error(t, err)
	assert.Equal(t, "amount must be greater than 0", api.ErrorMessage(err, "failed to create invoice"))
}

func TestContactsAndLookup(t *testing.T) {
	ctx := context.Background()
	c := setupServer(t).WithWallet(merchant)

	created, err := c.CreateContact(ctx, api.CreateContactRequest{
		OwnerWallet:   merchant,
		Name:          "alice",
		WalletAddress: payer,
		Email:         "alice@example.com",
		Phone:         "+1 (555) 010-0000",
	})
	require.NoError(t, err)
	assert.Equal(t, payer, created.Address)

	list, err := c.ListContacts(ctx, merchant)
	require.NoError(t, err)
	require.Len(t, list, 1)

	res, err := c.LookupContact(ctx, merchant, "ALICE@example.com", "")
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, "alice", res.Contact.Name)

	res, err = c.LookupContact(ctx, merchant, "", "+15550100000")
	require.NoError(t, err)
	assert.True(t, res.Found)

	res, err = c.LookupContact(ctx, merchant, "a@b.com", "")
	require.NoError(t, err)
	assert.False(t, res.Found)

	// someone else cannot delete it
	err = c.WithWallet(payer).DeleteContact(ctx, created.ID)
	assert.Error(t, err)

	require.NoError(t, c.DeleteContact(ctx, created.ID))
	list, err = c.ListContacts(ctx, merchant)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAmountAcceptsNumbersAndStrings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"x","amount":12.5,"status":"PAID"}`))
	}))
	defer srv.Close()

	inv, err := api.New(srv.URL).GetInvoice(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "12.5", inv.Amount.String())
	assert.True(t, inv.Paid())
}

func TestWalletHeaderIsSent(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(api.WalletHeader)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	base := api.New(srv.URL)
	require.NoError(t, base.WithWallet(merchant).DeleteInvoice(context.Background(), "x"))
	assert.Equal(t, merchant, seen)

	require.NoError(t, base.DeleteInvoice(context.Background(), "x"))
	assert.Empty(t, seen)
}
