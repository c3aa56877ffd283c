package receipt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"payme-tui/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paidInvoice() api.Invoice {
	return api.Invoice{
		ID:              "3f9a1c2e-7b4d-4e8f-9a0b-1c2d3e4f5a6b",
		MerchantAddress: "0x1111111111111111111111111111111111111111",
		PayerAddress:    "0x2222222222222222222222222222222222222abc",
		Amount:          "12.50",
		Memo:            "design work",
		Status:          api.StatusPaid,
		CreatedAt:       "2026-03-01T09:00:00.000000Z",
		PaidAt:          "2026-03-02T10:30:00.000000Z",
		TxHash:          "0xaaaaaaaaaabbbbbbbbbbccccccccccddddddddddeeeeeeeeeeff00112233445566",
	}
}

var opts = Options{Network: "tempo testnet", ExplorerURL: "https://explore.tempo.xyz/"}

func line(t *testing.T, r Receipt, label string) Line {
	t.Helper()
	for _, l := range r.Lines {
		if l.Label == label {
			return l
		}
	}
	t.Fatalf("no %q line", label)
	return Line{}
}

func TestBuildTruncations(t *testing.T) {
	inv := paidInvoice()
	r, err := Build(inv, opts)
	require.NoError(t, err)

	assert.Equal(t, "$12.50", r.Amount)
	assert.Equal(t, "design work", line(t, r, "reference").Value)
	assert.Equal(t, "3f9a1c2e...5a6b", line(t, r, "invoice id").Value)
	assert.Equal(t, "0x1111...1111", line(t, r, "recipient").Value)
	assert.Equal(t, "0x2222...2abc", line(t, r, "payer").Value)

	tx := line(t, r, "tx hash")
	assert.Equal(t, "0xaaaaaaaa...445566", tx.Value)
	assert.Equal(t, "https://explore.tempo.xyz/tx/"+inv.TxHash, tx.Link)

	assert.Equal(t, "Mar 2, 2026", line(t, r, "date").Value)
	assert.Equal(t, "tempo testnet", line(t, r, "network").Value)
}

func TestOptionalRows(t *testing.T) {
	inv := paidInvoice()
	inv.PayerAddress = ""
	inv.TxHash = ""
	inv.Memo = "  "
	inv.PaidAt = ""

	r, err := Build(inv, Options{})
	require.NoError(t, err)

	labels := make([]string, 0, len(r.Lines))
	for _, l := range r.Lines {
		labels = append(labels, l.Label)
	}
	assert.Equal(t, []string{"reference", "invoice id", "recipient", "date", "network"}, labels)
	assert.Equal(t, "n/a", line(t, r, "reference").Value)
	// falls back to the creation date
	assert.Equal(t, "Mar 1, 2026", line(t, r, "date").Value)
}

func TestDate(t *testing.T) {
	assert.Equal(t, "n/a", Date(api.Invoice{}))
	assert.Equal(t, "Jan 5, 2026", Date(api.Invoice{PaidAt: "2026-01-05T08:00:00"}))
	assert.Equal(t, "yesterday", Date(api.Invoice{PaidAt: "yesterday"}))
}

func TestNotPaid(t *testing.T) {
	inv := paidInvoice()
	inv.Status = api.StatusPending

	_, err := Render(inv, opts)
	assert.ErrorIs(t, err, ErrNotPaid)
	_, err = RenderHTML(inv, opts)
	assert.ErrorIs(t, err, ErrNotPaid)
	assert.ErrorIs(t, Save(filepath.Join(t.TempDir(), "r.html"), inv, opts), ErrNotPaid)
}

func TestRenderIsIdempotent(t *testing.T) {
	inv := paidInvoice()

	first, err := Render(inv, opts)
	require.NoError(t, err)
	second, err := Render(inv, opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	h1, err := RenderHTML(inv, opts)
	require.NoError(t, err)
	h2, err := RenderHTML(inv, opts)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestRenderContent(t *testing.T) {
	out, err := Render(paidInvoice(), opts)
	require.NoError(t, err)
	for _, want := range []string{"payme", "$12.50", "paid", "REFERENCE", "3f9a1c2e...5a6b", "0xaaaaaaaa...445566"} {
		assert.Contains(t, out, want)
	}
}

func TestSaveHTML(t *testing.T) {
	inv := paidInvoice()
	path := filepath.Join(t.TempDir(), FileName(inv))
	require.NoError(t, Save(path, inv, opts))

	page, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(page)
	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, "<title>payme receipt - 3f9a1c2e</title>")
	assert.Contains(t, html, `href="https://explore.tempo.xyz/tx/`+inv.TxHash+`"`)
	assert.Contains(t, html, "verified on-chain · tempo testnet · payme")
	assert.Equal(t, "payme-receipt-3f9a1c2e.html", FileName(inv))
}
