package main

import (
	"errors"
	"fmt"
	"strings"

	"payme-tui/api"
	"payme-tui/config"
	"payme-tui/helpers"
	"payme-tui/invoice"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// -------------------- TEMP FORM STORAGE --------------------
// Temporary form field storage (package-level to avoid pointer-to-copy issues)
var (
	tempInvoiceMode      string
	tempInvoiceContact   string
	tempInvoiceRecipient string
	tempInvoiceEmail     string
	tempInvoicePhone     string
	tempInvoiceAmount    string
	tempInvoiceMemo      string
	tempInvoiceToken     string

	tempContactName    string
	tempContactAddress string
	tempContactEmail   string
	tempContactPhone   string

	tempProfileName    string
	tempProfileAddress string

	tempRPCFormName string
	tempRPCFormURL  string
)

func validateAddress(s string) error {
	if !helpers.IsValidEthAddress(strings.TrimSpace(s)) {
		return errors.New("invalid wallet address")
	}
	return nil
}

func validateOptionalAddress(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validateAddress(s)
}

func validateRequired(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

// createInvoiceForm resets the invoice form, optionally with a recipient
// address already filled in.
func (m *model) createInvoiceForm(recipient string) {
	tempInvoiceMode = string(invoice.ModeAddress)
	tempInvoiceContact = ""
	tempInvoiceRecipient = recipient
	tempInvoiceEmail = ""
	tempInvoicePhone = ""
	tempInvoiceAmount = ""
	tempInvoiceMemo = ""
	tempInvoiceToken = ""
	if len(m.cfg.Tokens) > 0 {
		tempInvoiceToken = m.cfg.Tokens[0].Address
	}
	m.buildInvoiceForm()
}

// buildInvoiceForm builds the invoice form from the current temp values.
func (m *model) buildInvoiceForm() {
	contactOpts := []huh.Option[string]{huh.NewOption("enter an address", "")}
	for _, c := range m.contacts {
		if helpers.IsValidEthAddress(c.Address) {
			contactOpts = append(contactOpts, huh.NewOption(c.Name+"  "+helpers.ShortenAddr(c.Address), c.Address))
		}
	}
	hasContacts := len(contactOpts) > 1

	tokenOpts := make([]huh.Option[string], 0, len(m.cfg.Tokens))
	for _, t := range m.cfg.Tokens {
		tokenOpts = append(tokenOpts, huh.NewOption(t.Symbol, t.Address))
	}

	m.invoiceForm = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Who pays you?").
				Description("Bill a wallet directly, or a customer by email or phone").
				Options(
					huh.NewOption("wallet address", string(invoice.ModeAddress)),
					huh.NewOption("email", string(invoice.ModeEmail)),
					huh.NewOption("phone", string(invoice.ModePhone)),
				).
				Value(&tempInvoiceMode),
		),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Saved contact").
				Options(contactOpts...).
				Value(&tempInvoiceContact),
		).WithHideFunc(func() bool {
			return tempInvoiceMode != string(invoice.ModeAddress) || !hasContacts
		}),

		huh.NewGroup(
			huh.NewInput().
				Title("Wallet address").
				Description("Ctrl+v to paste").
				Value(&tempInvoiceRecipient).
				Placeholder("0x...").
				Validate(validateAddress),
		).WithHideFunc(func() bool {
			return tempInvoiceMode != string(invoice.ModeAddress) || tempInvoiceContact != ""
		}),

		huh.NewGroup(
			huh.NewInput().
				Title("Customer email").
				Description("A saved contact is paid directly, anyone else gets a link").
				Value(&tempInvoiceEmail).
				Placeholder("name@example.com").
				Validate(validateRequired("email")),
		).WithHideFunc(func() bool { return tempInvoiceMode != string(invoice.ModeEmail) }),

		huh.NewGroup(
			huh.NewInput().
				Title("Customer phone").
				Description("A saved contact is paid directly, anyone else gets a link").
				Value(&tempInvoicePhone).
				Placeholder("+1 555 0100").
				Validate(validateRequired("phone")),
		).WithHideFunc(func() bool { return tempInvoiceMode != string(invoice.ModePhone) }),

		huh.NewGroup(
			huh.NewInput().
				Title("Amount").
				Value(&tempInvoiceAmount).
				Placeholder("0.00").
				Validate(func(s string) error {
					if !helpers.IsPositiveAmount(s) {
						return errors.New("amount must be greater than 0")
					}
					return nil
				}),

			huh.NewInput().
				Title("Memo").
				Description("Optional, shown on the receipt").
				Value(&tempInvoiceMemo).
				Placeholder("coffee"),

			huh.NewSelect[string]().
				Title("Token").
				Options(tokenOpts...).
				Value(&tempInvoiceToken),
		),
	).WithTheme(huh.ThemeCatppuccin())

	// Initialize the form
	m.invoiceForm.Init()
}

// invoiceDraft collects the form values.
func invoiceDraft() invoice.Draft {
	recipient := tempInvoiceRecipient
	if tempInvoiceContact != "" {
		recipient = tempInvoiceContact
	}
	return invoice.Draft{
		Mode:      invoice.Mode(tempInvoiceMode),
		Recipient: strings.TrimSpace(recipient),
		Email:     strings.TrimSpace(tempInvoiceEmail),
		Phone:     strings.TrimSpace(tempInvoicePhone),
		Amount:    strings.TrimSpace(tempInvoiceAmount),
		Memo:      strings.TrimSpace(tempInvoiceMemo),
		Token:     tempInvoiceToken,
	}
}

func (m *model) createContactForm() {
	tempContactName = ""
	tempContactAddress = ""
	tempContactEmail = ""
	tempContactPhone = ""

	m.contactForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&tempContactName).
				Placeholder("Alice").
				Validate(validateRequired("name")),

			huh.NewInput().
				Title("Wallet address").
				Description("Ctrl+v to paste").
				Value(&tempContactAddress).
				Placeholder("0x...").
				Validate(validateAddress),

			huh.NewInput().
				Title("Email").
				Description("Optional, used to match invoices billed by email").
				Value(&tempContactEmail).
				Placeholder("alice@example.com"),

			huh.NewInput().
				Title("Phone").
				Description("Optional, used to match invoices billed by phone").
				Value(&tempContactPhone).
				Placeholder("+1 555 0100"),
		),
	).WithTheme(huh.ThemeCatppuccin())

	// Initialize the form
	m.contactForm.Init()
}

// createProfileForm edits the locally cached profile. The address field is
// left out while a signing key decides the account.
func (m *model) createProfileForm() {
	tempProfileName = m.cfg.Profile.DisplayName
	tempProfileAddress = m.cfg.Profile.Address

	fields := []huh.Field{
		huh.NewInput().
			Title("Display name").
			Value(&tempProfileName).
			Placeholder("Your name"),
	}
	if m.signer == "" {
		fields = append(fields,
			huh.NewInput().
				Title("Wallet address").
				Description("Receives invoices billed by email or phone").
				Value(&tempProfileAddress).
				Placeholder("0x...").
				Validate(validateOptionalAddress))
	}

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeCatppuccin())

	// Initialize the form
	m.form.Init()
}

func (m *model) createAddRPCForm() {
	tempRPCFormName = ""
	tempRPCFormURL = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("RPC Name").
				Description("A friendly name for this RPC endpoint").
				Value(&tempRPCFormName).
				Placeholder("Tempo Testnet"),

			huh.NewInput().
				Title("RPC URL").
				Description("The complete RPC URL (https://...)").
				Value(&tempRPCFormURL).
				Placeholder(config.DefaultRPCURL).
				Validate(validateRequired("url")),
		),
	).WithTheme(huh.ThemeCatppuccin())

	// Initialize the form
	m.form.Init()
}

func (m *model) createEditRPCForm(idx int) {
	if idx < 0 || idx >= len(m.rpcURLs) {
		return
	}

	rpc := m.rpcURLs[idx]
	tempRPCFormName = rpc.Name
	tempRPCFormURL = rpc.URL

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("RPC Name").
				Value(&tempRPCFormName).
				Placeholder("My Node"),

			huh.NewInput().
				Title("RPC URL").
				Value(&tempRPCFormURL).
				Placeholder("https://...").
				Validate(validateRequired("url")),
		),
	).WithTheme(huh.ThemeCatppuccin())

	// Initialize the form
	m.form.Init()
}

// -------------------- FORM UPDATES --------------------

// updateForms hands msg to the form of the active page. It reports false
// when no form is showing.
func (m *model) updateForms(msg tea.Msg) (tea.Cmd, bool) {
	switch {
	case m.activePage == config.PageCreate && m.invoiceForm != nil && m.invoiceResult == nil && !m.submitting:
		return m.updateInvoiceForm(msg), true
	case m.activePage == config.PageContacts && m.contactForm != nil:
		return m.updateContactForm(msg), true
	case m.activePage == config.PageSettings && m.settingsMode != "list" && m.form != nil:
		return m.updateSettingsForm(msg), true
	}
	return nil, false
}

func (m *model) updateInvoiceForm(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c":
			return tea.Quit
		case "ctrl+n":
			return m.switchPage(1)
		case "ctrl+p":
			return m.switchPage(-1)
		case "esc":
			// Intercept ESC key to clear the form
			m.createInvoiceForm("")
			return nil
		}
	}

	form, cmd := m.invoiceForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.invoiceForm = f

		// Check if form is completed
		if m.invoiceForm.State == huh.StateCompleted {
			d := invoiceDraft()
			if err := d.Validate(); err != nil {
				m.notify("error", invoice.ErrorText(err))
				m.buildInvoiceForm()
				return nil
			}
			m.submitting = true
			m.addLog("info", fmt.Sprintf("Creating invoice for %s", d.Amount))
			return tea.Batch(m.spin.Tick, submitInvoice(m.client(), d, m.self()))
		}

		// Check if form was aborted (ESC pressed)
		if m.invoiceForm.State == huh.StateAborted {
			m.createInvoiceForm("")
			return nil
		}
	}
	return cmd
}

func (m *model) updateContactForm(msg tea.Msg) tea.Cmd {
	// Intercept ESC key to cancel form
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.contactForm = nil
		return nil
	}

	form, cmd := m.contactForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.contactForm = f

		// Check if form is completed
		if m.contactForm.State == huh.StateCompleted {
			m.contactForm = nil
			self := m.self()
			if self == "" {
				m.notify("error", invoice.ErrNoWallet.Error())
				return nil
			}
			req := api.CreateContactRequest{
				OwnerWallet:   self,
				Name:          strings.TrimSpace(tempContactName),
				WalletAddress: strings.TrimSpace(tempContactAddress),
				Email:         strings.TrimSpace(tempContactEmail),
				Phone:         strings.TrimSpace(tempContactPhone),
			}
			m.addLog("info", fmt.Sprintf("Saving contact `%s`", req.Name))
			return createContact(m.client(), req)
		}

		// Check if form was aborted (ESC pressed)
		if m.contactForm.State == huh.StateAborted {
			m.contactForm = nil
			return nil
		}
	}
	return cmd
}

func (m *model) updateSettingsForm(msg tea.Msg) tea.Cmd {
	// Intercept ESC key to cancel form
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.settingsMode = "list"
		m.form = nil
		return nil
	}

	form, cmd := m.form.Update(msg)
	f, ok := form.(*huh.Form)
	if !ok {
		return cmd
	}
	m.form = f

	// Check if form was aborted (ESC pressed)
	if m.form.State == huh.StateAborted {
		m.settingsMode = "list"
		m.form = nil
		return nil
	}
	if m.form.State != huh.StateCompleted {
		return cmd
	}

	var next tea.Cmd
	switch m.settingsMode {
	case "add":
		if tempRPCFormURL != "" {
			name := strings.TrimSpace(tempRPCFormName)
			if name == "" {
				name = tempRPCFormURL
			}
			m.rpcURLs = append(m.rpcURLs, config.RPCUrl{Name: name, URL: strings.TrimSpace(tempRPCFormURL)})
			m.saveConfig()
			m.addLog("success", fmt.Sprintf("Added RPC endpoint: `%s` (%s)", name, tempRPCFormURL))
		}
	case "edit":
		if m.selectedRPCIdx >= 0 && m.selectedRPCIdx < len(m.rpcURLs) {
			r := &m.rpcURLs[m.selectedRPCIdx]
			r.Name = strings.TrimSpace(tempRPCFormName)
			r.URL = strings.TrimSpace(tempRPCFormURL)
			m.saveConfig()
			m.addLog("success", fmt.Sprintf("Updated RPC endpoint: `%s`", r.Name))
			if r.Active {
				next = m.activateRPC(m.selectedRPCIdx)
			}
		}
	case "profile":
		before := m.self()
		m.cfg.Profile.DisplayName = strings.TrimSpace(tempProfileName)
		if m.signer == "" {
			m.cfg.Profile.Address = strings.TrimSpace(tempProfileAddress)
		}
		m.saveConfig()
		m.notify("success", "profile saved")
		if m.self() != before {
			next = m.walletChanged()
		}
	}
	m.settingsMode = "list"
	m.form = nil
	// Return without the form's cmd to ensure we're back in list mode
	return next
}
