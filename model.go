package main

import (
	"fmt"
	"strings"
	"time"

	"payme-tui/api"
	"payme-tui/config"
	"payme-tui/invoice"
	"payme-tui/multisend"
	"payme-tui/rpc"
	"payme-tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// -------------------- MODEL --------------------

// model represents the application state following The Elm Architecture
type model struct {
	w, h int

	activePage config.Page
	// page to return to when leaving the payment view
	prevPage config.Page

	cfg        config.Config
	configPath string

	// signing key from the environment, never written to disk
	privateKey string
	signer     string

	api *api.Client

	// chain state
	spin          spinner.Model
	rpcURL        string
	ethClient     *rpc.Client
	rpcConnected  bool
	rpcConnecting bool
	wallet        *rpc.Wallet

	balances        rpc.Balances
	balancesLoading bool
	decimals        map[string]uint8

	// status line
	status     string
	statusKind string
	statusTime time.Time

	// create invoice
	invoiceForm   *huh.Form
	submitting    bool
	invoiceResult *invoice.Result

	// multi-send
	sheet        *multisend.Sheet
	msToken      int
	msFocusRow   int
	msFocusField multisend.Field
	msEditing    bool
	msInput      textinput.Model
	msPlan       multisend.Plan
	msSending    bool
	msSummary    string

	// address book
	contacts        []api.Contact
	contactsLoading bool
	selectedContact int
	contactForm     *huh.Form

	// activity
	invoices        []api.Invoice
	invoicesLoading bool
	selectedInvoice int

	// payment view
	payment        api.Invoice
	paymentLoading bool
	paymentErr     string
	paying         bool
	payStage       string

	// settings state
	settingsMode   string // "list", "add", "edit", "profile"
	rpcURLs        []config.RPCUrl
	selectedRPCIdx int
	form           *huh.Form

	// clickable areas for mouse support
	clickableAreas []config.ClickableArea

	// logger panel
	logEnabled  bool
	logger      *log.Logger
	logBuffer   *strings.Builder
	logViewport viewport.Model
	logReady    bool
	logSpinner  spinner.Model

	// delete confirmation dialog
	showDeleteDialog        bool
	deleteDialogKind        string // "contact", "invoice", "rpc"
	deleteDialogLabel       string
	deleteDialogIdx         int
	deleteDialogYesSelected bool
}

// options are the startup settings resolved by the command line.
type options struct {
	configPath string
	env        config.Env
	invoiceID  string
}

// -------------------- INIT --------------------

// newModel creates and initializes a new model with configuration from disk
func newModel(opts options) (model, error) {
	cfg := config.LoadOrCreate(opts.configPath).Apply(opts.env)

	var signer string
	if opts.env.PrivateKey != "" {
		w, err := rpc.NewWallet(nil, opts.env.PrivateKey, "")
		if err != nil {
			return model{}, fmt.Errorf("PAYME_PRIVATE_KEY: %w", err)
		}
		signer = w.Address().Hex()
	}

	// spinner
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	// cell editor for multi-send rows
	in := textinput.New()
	in.Prompt = ""
	in.TextStyle = lipgloss.NewStyle().Foreground(styles.CText)
	in.Cursor.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)
	in.CharLimit = 64

	// Initialize log viewport
	vp := viewport.New(0, 20) // Will be resized in Update on first WindowSizeMsg
	vp.Style = lipgloss.NewStyle().
		Foreground(styles.CText).
		Background(styles.CPanel)

	// Initialize log spinner
	logSpin := spinner.New()
	logSpin.Spinner = spinner.Dot
	logSpin.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	m := model{
		activePage:    config.PageCreate,
		prevPage:      config.PageCreate,
		cfg:           cfg,
		configPath:    opts.configPath,
		privateKey:    opts.env.PrivateKey,
		signer:        signer,
		api:           api.New(cfg.APIURL),
		spin:          sp,
		rpcURL:        cfg.ActiveRPC(),
		rpcConnecting: cfg.ActiveRPC() != "",
		decimals:      make(map[string]uint8),
		sheet:         multisend.NewSheet(),
		msInput:       in,
		settingsMode:  "list",
		rpcURLs:       cfg.RPCURLs,
		logEnabled:    cfg.Logger,
		logViewport:   vp,
		logBuffer:     &strings.Builder{},
		logSpinner:    logSpin,
	}
	m.createInvoiceForm("")

	if opts.invoiceID != "" {
		m.activePage = config.PagePayment
		m.payment = api.Invoice{ID: opts.invoiceID}
		m.paymentLoading = true
	}

	return m, nil
}

// Init implements tea.Model interface and returns initial commands
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	if m.logEnabled {
		cmds = append(cmds, initLogViewport(), m.logSpinner.Tick)
	}
	// connect if rpc is set
	if m.rpcURL != "" {
		cmds = append(cmds, connectRPC(m.rpcURL))
	}
	if self := m.self(); self != "" {
		cmds = append(cmds, loadContacts(m.client(), self))
	}
	if m.activePage == config.PagePayment {
		cmds = append(cmds, loadInvoice(m.client(), m.payment.ID))
	}
	return tea.Batch(cmds...)
}
