package receipt

import (
	"bytes"
	"html/template"
	"os"
	"strings"

	"payme-tui/api"
	"payme-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

const cardWidth = 46

var (
	headerStyle = lipgloss.NewStyle().
			Width(cardWidth).
			Align(lipgloss.Center).
			Background(styles.CBorder).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(1, 0)

	amountStyle = lipgloss.NewStyle().
			Width(cardWidth).
			Align(lipgloss.Center).
			Foreground(styles.CText).
			Bold(true).
			PaddingTop(1)

	badgeStyle = lipgloss.NewStyle().
			Width(cardWidth).
			Align(lipgloss.Center).
			Foreground(styles.CAccent).
			PaddingBottom(1)

	labelStyle = lipgloss.NewStyle().Foreground(styles.CMuted)
	valueStyle = lipgloss.NewStyle().Foreground(styles.CText)
	linkStyle  = lipgloss.NewStyle().Foreground(styles.CAccent2).Underline(true)

	footerStyle = lipgloss.NewStyle().
			Width(cardWidth).
			Align(lipgloss.Center).
			Foreground(styles.CMuted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(styles.CMuted)

	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(styles.CBorder)
)

// Render draws the receipt of a paid invoice for the terminal.
func Render(inv api.Invoice, opts Options) (string, error) {
	r, err := Build(inv, opts)
	if err != nil {
		return "", err
	}

	header := headerStyle.Render(r.Brand + "\npayment receipt")
	amount := amountStyle.Render(r.Amount)
	badge := badgeStyle.Render("✓ paid")

	var rows []string
	for _, l := range r.Lines {
		value := valueStyle.Render(l.Value)
		if l.Link != "" {
			value = linkStyle.Render(l.Value + " ↗")
		}
		label := labelStyle.Render(strings.ToUpper(l.Label))
		gap := cardWidth - 2 - lipgloss.Width(label) - lipgloss.Width(value)
		if gap < 1 {
			gap = 1
		}
		rows = append(rows, " "+label+strings.Repeat(" ", gap)+value+" ")
	}
	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	footer := footerStyle.Render(r.Footer)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, amount, badge, body, footer)), nil
}

var htmlTemplate = template.Must(template.New("receipt").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; text-transform: lowercase; }
body { font-family: 'Inter', sans-serif; background: #000; color: #fff; display: flex; justify-content: center; padding: 2rem; }
.receipt { width: 420px; background: #0a0a0a; border: 1px solid #1a1a1a; border-radius: 16px; overflow: hidden; }
.receipt-header { background: #0052ff; padding: 2rem; text-align: center; }
.receipt-header h1 { font-size: 1.5rem; font-weight: 900; }
.receipt-header p { font-size: 0.75rem; color: rgba(255,255,255,0.7); margin-top: 0.25rem; }
.receipt-body { padding: 2rem; }
.amount { text-align: center; padding: 1.5rem 0; border-bottom: 1px solid #1a1a1a; margin-bottom: 1.5rem; }
.amount h2 { font-size: 3rem; font-weight: 900; }
.status { display: inline-block; color: #22c55e; border: 1px solid rgba(34,197,94,0.2); padding: 0.2rem 0.6rem; border-radius: 100px; font-size: 0.7rem; font-weight: 700; margin-top: 0.5rem; }
.row { display: flex; justify-content: space-between; padding: 0.75rem 0; border-bottom: 1px solid rgba(255,255,255,0.04); }
.row:last-child { border: none; }
.label { font-size: 0.75rem; color: #a1a1aa; font-weight: 600; text-transform: uppercase; }
.value { font-size: 0.85rem; text-align: right; max-width: 240px; word-break: break-all; }
.mono { font-family: monospace; }
a.value { color: #0052ff; text-decoration: none; }
.receipt-footer { padding: 1.5rem 2rem; border-top: 1px solid #1a1a1a; text-align: center; font-size: 0.7rem; color: #a1a1aa; }
</style>
</head>
<body>
<div class="receipt">
<div class="receipt-header"><h1>{{.Brand}}</h1><p>payment receipt</p></div>
<div class="receipt-body">
<div class="amount"><h2>{{.Amount}}</h2><div class="status">✓ paid</div></div>
{{range .Lines}}<div class="row"><span class="label">{{.Label}}</span>{{if .Link}}<a class="value{{if .Mono}} mono{{end}}" href="{{.Link}}">{{.Value}}</a>{{else}}<span class="value{{if .Mono}} mono{{end}}">{{.Value}}</span>{{end}}</div>
{{end}}</div>
<div class="receipt-footer"><p>{{.Footer}}</p></div>
</div>
</body>
</html>
`))

// RenderHTML renders the printable receipt page.
func RenderHTML(inv api.Invoice, opts Options) ([]byte, error) {
	r, err := Build(inv, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName is the default download name for inv.
func FileName(inv api.Invoice) string {
	return "payme-receipt-" + prefix(inv.ID, 8) + ".html"
}

// Save writes the printable receipt to path.
func Save(path string, inv api.Invoice, opts Options) error {
	page, err := RenderHTML(inv, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, page, 0o644)
}
