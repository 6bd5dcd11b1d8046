// Package pdf genera el documento de la factura con GST (tax invoice) para descarga.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Vendedor + GSTIN    │  TAX INVOICE N° + Fecha       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BILL TO: comprador + GSTIN + teléfono                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Descripción | HSN | Cant | Tarifa | Importe      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / CGST+SGST o IGST / Total    │
//	│  PAGOS: fecha | medio | referencia | importe                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: saldo / PAID + QR UPI del saldo                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/textil-api/internal/application/billing"
	dbilling "github.com/jhoicas/textil-api/internal/domain/billing"
	"github.com/jhoicas/textil-api/internal/domain/entity"
	"github.com/jhoicas/textil-api/pkg/money"
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 128, Green: 0, Blue: 64}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorGreen   = &props.Color{Red: 0, Green: 120, Blue: 60}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// Options datos fijos del documento. UPIID vacío omite el QR de cobro.
type Options struct {
	UPIID string
}

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	opts Options
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(opts Options) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{opts: opts}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	inv entity.Invoice,
	totals dbilling.Totals,
	ledger dbilling.Ledger,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Tax Invoice "+inv.Identifier, true).
		WithAuthor(inv.Seller.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(buyerRow(inv.Buyer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(inv.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(inv, totals)...)

	if len(ledger.Payments) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(paymentRows(ledger)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.footerRows(inv, ledger)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "pdf: generar documento")
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(inv entity.Invoice) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(inv.Seller.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(partyLine(inv.Seller), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("TAX INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(inv.Identifier, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Date: "+inv.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func buyerRow(buyer entity.BillingParty) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(buyer.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(partyLine(buyer), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Description", 4, align.Left),
		h("HSN", 2, align.Center),
		h("Qty", 1, align.Center),
		h("Rate", 2, align.Right),
		h("Amount", 2, align.Right),
	)
}

func itemRows(items []entity.LineItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for i, it := range items {
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		qty := fmt.Sprintf("%d", it.Quantity)
		if it.Unit != "" {
			qty += " " + it.Unit
		}
		rows = append(rows, row.New(7).Add(
			cell(fmt.Sprintf("%d", i+1), 1, align.Center),
			cell(it.Name, 4, align.Left),
			cell(nonEmpty(it.HSNCode, "-"), 2, align.Center),
			cell(qty, 1, align.Center),
			cell(money.Format(it.UnitRate), 2, align.Right),
			cell(money.Format(it.Amount()), 2, align.Right),
		))
	}
	return rows
}

// totalsRows: bloque de totales alineado a la derecha, con el GST repartido.
func totalsRows(inv entity.Invoice, t dbilling.Totals) []core.Row {
	total := func(label, value string, bold bool) core.Row {
		style := fontstyle.Normal
		color := &props.Color{}
		if bold {
			style = fontstyle.Bold
			color = colorPrimary
		}
		return row.New(5).Add(
			col.New(6),
			col.New(3).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Color: color})),
			col.New(3).Add(text.New(value, props.Text{Style: style, Size: 9, Align: align.Right, Right: 1, Color: color})),
		)
	}

	rows := []core.Row{total("Subtotal:", money.Rupees(t.Subtotal), false)}
	if t.DiscountAmount.IsPositive() {
		label := "Discount:"
		if inv.Discount.Mode == entity.DiscountPercent {
			label = fmt.Sprintf("Discount (%s):", money.Percent(inv.Discount.Percent))
		}
		rows = append(rows, total(label, "- "+money.Rupees(t.DiscountAmount), false))
	}
	rows = append(rows, total("Taxable value:", money.Rupees(t.TaxableAmount), false))

	split := dbilling.SplitGST(t.TaxAmount, inv.Seller.State, inv.Buyer.State)
	rate := inv.Tax.GSTPercentage
	if split.InterState {
		rows = append(rows, total(fmt.Sprintf("IGST (%s):", money.Percent(rate)), money.Rupees(split.IGST), false))
	} else {
		half := money.Percent(rate.Div(decimal.NewFromInt(2)))
		rows = append(rows,
			total(fmt.Sprintf("CGST (%s):", half), money.Rupees(split.CGST), false),
			total(fmt.Sprintf("SGST (%s):", half), money.Rupees(split.SGST), false),
		)
	}
	return append(rows, total("GRAND TOTAL:", money.Rupees(t.GrandTotal), true))
}

func paymentRows(l dbilling.Ledger) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(text.New("PAYMENTS", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}))),
	}
	for _, p := range l.Payments {
		date := "-"
		if !p.PaidAt.IsZero() {
			date = p.PaidAt.Format("02/01/2006")
		}
		rows = append(rows, row.New(5).Add(
			col.New(3).Add(text.New(date, props.Text{Size: 8})),
			col.New(3).Add(text.New(methodLabel(p.Method), props.Text{Size: 8})),
			col.New(3).Add(text.New(nonEmpty(p.Reference, "-"), props.Text{Size: 8, Color: colorGray})),
			col.New(3).Add(text.New(money.Rupees(p.Amount), props.Text{Size: 8, Align: align.Right, Right: 1})),
		))
	}
	return append(rows, row.New(5).Add(
		col.New(9).Add(text.New("Total paid:", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Right: 2})),
		col.New(3).Add(text.New(money.Rupees(l.TotalPaid), props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Right: 1})),
	))
}

// footerRows: sello PAID o saldo pendiente con QR UPI por el importe del saldo.
func (g *MarotoPDFGenerator) footerRows(inv entity.Invoice, l dbilling.Ledger) []core.Row {
	if dbilling.IsSettled(l) {
		return []core.Row{row.New(12).Add(col.New(12).Add(text.New("PAID", props.Text{
			Style: fontstyle.Bold, Size: 16, Align: align.Center, Color: colorGreen, Top: 2,
		})))}
	}

	due := text.New("Balance due: "+money.Rupees(l.DueAmount), props.Text{
		Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 4,
	})
	if g.opts.UPIID == "" {
		return []core.Row{row.New(12).Add(col.New(12).Add(due))}
	}
	return []core.Row{row.New(40).Add(
		col.New(8).Add(
			due,
			text.New("Scan to pay with any UPI app.", props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
		col.New(4).Add(code.NewQr(upiURI(g.opts.UPIID, inv, l.DueAmount), props.Rect{Percent: 90, Center: true})),
	)}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func upiURI(vpa string, inv entity.Invoice, amount decimal.Decimal) string {
	q := url.Values{}
	q.Set("pa", vpa)
	q.Set("pn", inv.Seller.Name)
	q.Set("am", amount.StringFixed(2))
	q.Set("cu", "INR")
	q.Set("tn", "Invoice "+inv.Identifier)
	return "upi://pay?" + q.Encode()
}

func partyLine(p entity.BillingParty) string {
	var parts []string
	if p.GSTIN != "" {
		parts = append(parts, "GSTIN: "+p.GSTIN)
	}
	if p.Phone != "" {
		parts = append(parts, "Ph: "+p.Phone)
	}
	if p.Address != "" {
		parts = append(parts, p.Address)
	}
	if p.State != "" {
		parts = append(parts, p.State)
	}
	return strings.Join(parts, "   |   ")
}

func methodLabel(m entity.PaymentMethod) string {
	switch m {
	case entity.PaymentUPI:
		return "UPI"
	case entity.PaymentBankTransfer:
		return "Bank transfer"
	case entity.PaymentCreditNote:
		return "Credit note"
	}
	if m == "" {
		return "-"
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
