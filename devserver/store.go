package devserver

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"payme-tui/api"

	"github.com/google/uuid"
)

// Store keeps invoices and contacts in memory
type Store struct {
	mu       sync.RWMutex
	invoices map[string]api.Invoice
	contacts map[string]api.Contact
	linkBase string
	chainID  string
	now      func() time.Time
}

// NewStore creates an empty store. linkBase prefixes generated payment links.
func NewStore(linkBase string, chainID int64) *Store {
	return &Store{
		invoices: make(map[string]api.Invoice),
		contacts: make(map[string]api.Contact),
		linkBase: strings.TrimRight(linkBase, "/"),
		chainID:  fmt.Sprint(chainID),
		now:      time.Now,
	}
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format("2006-01-02T15:04:05.000000") + "Z"
}

// CreateInvoice stores a new pending invoice.
func (s *Store) CreateInvoice(req api.CreateInvoiceRequest) api.Invoice {
	id := uuid.NewString()
	memo := req.Memo
	if memo == "" {
		memo = "INV-" + id[:8]
	}
	inv := api.Invoice{
		ID:              id,
		MerchantAddress: req.MerchantAddress,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		Amount:          api.Amount(req.Amount.String()),
		TokenAddress:    req.TokenAddress,
		Memo:            memo,
		Status:          api.StatusPending,
		CreatedAt:       s.timestamp(),
		PaymentLink:     s.linkBase + "/?invoiceId=" + id,
		ChainID:         s.chainID,
	}

	s.mu.Lock()
	s.invoices[id] = inv
	s.mu.Unlock()
	return inv
}

// Invoice returns one invoice.
func (s *Store) Invoice(id string) (api.Invoice, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	return inv, ok
}

// Invoices lists invoices for wallet (merchant or payer), newest first.
func (s *Store) Invoices(wallet string) []api.Invoice {
	s.mu.RLock()
	out := make([]api.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		if wallet == "" ||
			strings.EqualFold(inv.MerchantAddress, wallet) ||
			strings.EqualFold(inv.PayerAddress, wallet) {
			out = append(out, inv)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// DeleteInvoice removes an invoice if present.
func (s *Store) DeleteInvoice(id string) {
	s.mu.Lock()
	delete(s.invoices, id)
	s.mu.Unlock()
}

// MarkPaid settles an invoice.
func (s *Store) MarkPaid(id string, req api.MarkPaidRequest) (api.Invoice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return api.Invoice{}, false
	}
	inv.Status = api.StatusPaid
	inv.PaidAt = s.timestamp()
	inv.TxHash = req.TxHash
	inv.PayerAddress = req.PayerAddress
	s.invoices[id] = inv
	return inv, true
}

// CreateContact stores a contact.
func (s *Store) CreateContact(req api.CreateContactRequest) api.Contact {
	c := api.Contact{
		ID:          uuid.NewString(),
		OwnerWallet: req.OwnerWallet,
		Name:        req.Name,
		Address:     req.WalletAddress,
		Email:       req.Email,
		Phone:       req.Phone,
	}
	s.mu.Lock()
	s.contacts[c.ID] = c
	s.mu.Unlock()
	return c
}

// Contacts lists contacts owned by wallet, sorted by name.
func (s *Store) Contacts(wallet string) []api.Contact {
	s.mu.RLock()
	out := make([]api.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		if wallet == "" || strings.EqualFold(c.OwnerWallet, wallet) {
			out = append(out, c)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out
}

// Contact returns one contact.
func (s *Store) Contact(id string) (api.Contact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contacts[id]
	return c, ok
}

// DeleteContact removes a contact if present.
func (s *Store) DeleteContact(id string) {
	s.mu.Lock()
	delete(s.contacts, id)
	s.mu.Unlock()
}

// Lookup finds the first contact matching email or phone, scoped to wallet
// when given.
func (s *Store) Lookup(wallet, email, phone string) (api.Contact, bool) {
	email = strings.TrimSpace(email)
	phone = normalizePhone(phone)
	for _, c := range s.Contacts(wallet) {
		if email != "" && strings.EqualFold(c.Email, email) {
			return c, true
		}
		if phone != "" && normalizePhone(c.Phone) == phone {
			return c, true
		}
	}
	return api.Contact{}, false
}

func normalizePhone(p string) string {
	var b strings.Builder
	for _, r := range p {
		if r >= '0' && r <= '9' || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
