package invoices

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rrumi/backoffice/internal/pricing"
)

// PDFRenderer abstracts the HTML-to-PDF backend.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// Exporter produces the printable invoice document: company header, client
// block, itemized table and total. A render failure yields no partial output.
type Exporter struct {
	renderer PDFRenderer
	logger   *slog.Logger
}

// NewExporter constructs an Exporter.
func NewExporter(renderer PDFRenderer, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{renderer: renderer, logger: logger}
}

// InvoicePDF renders the invoice to PDF bytes.
func (e *Exporter) InvoicePDF(ctx context.Context, invoice Invoice) ([]byte, error) {
	var buf strings.Builder
	if err := invoiceTmpl.Execute(&buf, newInvoiceDoc(invoice)); err != nil {
		return nil, fmt.Errorf("invoices: render template: %w", err)
	}
	pdf, err := e.renderer.RenderHTML(ctx, buf.String())
	if err != nil {
		return nil, fmt.Errorf("invoices: render pdf: %w", err)
	}
	e.logger.Info("invoice pdf rendered", slog.Int64("id", invoice.ID), slog.Int("bytes", len(pdf)))
	return pdf, nil
}

var usd = message.NewPrinter(language.English)

var unitLabels = map[pricing.Unit]string{
	pricing.UnitMilligram: "milligrams",
	pricing.UnitGram:      "Grams",
	pricing.UnitKilogram:  "kilo",
	pricing.UnitTroyOunce: "oz",
	pricing.UnitCarat:     "carats (ct)",
}

type invoiceDocRow struct {
	Description string
	Qty         string
	Unit        string
	Purity      string
	Price       string
	Total       string
}

type invoiceDoc struct {
	ID     int64
	Client string
	Email  string
	Date   string
	Status string
	Rows   []invoiceDocRow
	Total  string
}

func newInvoiceDoc(invoice Invoice) invoiceDoc {
	doc := invoiceDoc{
		ID:     invoice.ID,
		Client: invoice.ClientName,
		Email:  invoice.Email,
		Date:   invoice.Date.Format("2006-01-02"),
		Status: string(invoice.Status),
		Total:  usd.Sprintf("$%.2f", invoice.TotalAmount),
	}
	for _, item := range invoice.Items {
		doc.Rows = append(doc.Rows, invoiceDocRow{
			Description: string(item.Category),
			Qty:         strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", item.Quantity), "0"), "."),
			Unit:        unitLabels[item.Unit],
			Purity:      purityLabel(item),
			Price:       usd.Sprintf("$%.2f", item.UnitPrice),
			Total:       usd.Sprintf("$%.2f", item.Total),
		})
	}
	return doc
}

// purityLabel mirrors the trade labels used on printed invoices: fineness
// marks for silver and platinum, karats for gold, setting karat for diamonds.
func purityLabel(item Item) string {
	switch item.Category {
	case pricing.CategorySilver:
		if item.Purity == 24 {
			return "999"
		}
		return "925"
	case pricing.CategoryPlatinum:
		switch item.Purity {
		case 24:
			return "999"
		case 22.8:
			return "950"
		default:
			return "900"
		}
	case pricing.CategoryDiamond:
		if item.Purity == 0 {
			return "Loose"
		}
		return fmt.Sprintf("%gk Set", item.Purity)
	default:
		return fmt.Sprintf("%gk", item.Purity)
	}
}

var invoiceTmpl = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #333; margin: 40px; }
  .header { display: flex; justify-content: space-between; border-bottom: 1px solid #e6e6e6; padding-bottom: 16px; }
  .brand { color: #89986d; font-size: 26px; font-weight: bold; }
  .tagline { color: #646464; font-size: 11px; }
  .company { text-align: right; font-size: 11px; color: #3c3c3c; line-height: 1.5; }
  .meta { display: flex; justify-content: space-between; margin-top: 28px; font-size: 12px; }
  .meta h4 { color: #89986d; margin: 0 0 8px; }
  table { width: 100%; border-collapse: collapse; margin-top: 28px; font-size: 12px; }
  th { background: #89986d; color: #fff; text-align: left; padding: 8px; }
  td { border: 1px solid #e6e6e6; padding: 8px; color: #3c3c3c; }
  tr:nth-child(even) td { background: #fafafa; }
  .num { text-align: right; }
  .total-line { margin-top: 24px; text-align: right; }
  .total-line .label { font-size: 14px; color: #3c3c3c; margin-right: 24px; }
  .total-line .amount { font-size: 18px; color: #89986d; font-weight: bold; }
  .footer { margin-top: 60px; text-align: center; font-size: 9px; color: #969696; }
</style>
</head>
<body>
  <div class="header">
    <div>
      <div class="brand">Rrumi</div>
      <div class="tagline">Premium Assets &amp; Services</div>
    </div>
    <div class="company">
      Rrumi Gold &amp; Silver<br>
      123 Financial District<br>
      New York, NY 10005<br>
      support@Rrumi.com<br>
      +1 (555) 123-4567
    </div>
  </div>
  <div class="meta">
    <div>
      <h4>INVOICE DETAILS</h4>
      Invoice: #{{.ID}}<br>
      Date: {{.Date}}<br>
      Status: {{.Status}}
    </div>
    <div>
      <h4>BILL TO</h4>
      <strong>{{.Client}}</strong><br>
      {{.Email}}
    </div>
  </div>
  <table>
    <thead>
      <tr><th>Description</th><th>Qty</th><th>Unit</th><th>Purity</th><th class="num">Price (oz/ct)</th><th class="num">Total</th></tr>
    </thead>
    <tbody>
      {{range .Rows}}
      <tr>
        <td>{{.Description}}</td>
        <td>{{.Qty}}</td>
        <td>{{.Unit}}</td>
        <td>{{.Purity}}</td>
        <td class="num">{{.Price}}</td>
        <td class="num"><strong>{{.Total}}</strong></td>
      </tr>
      {{end}}
    </tbody>
  </table>
  <div class="total-line">
    <span class="label">Total Amount:</span>
    <span class="amount">{{.Total}}</span>
  </div>
  <div class="footer">
    Thank you for your business!<br>
    Rrumi.com
  </div>
</body>
</html>`))
