package http

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	appbilling "github.com/jhoicas/textil-api/internal/application/billing"
	"github.com/jhoicas/textil-api/internal/application/dto"
	"github.com/jhoicas/textil-api/internal/domain"
	dbilling "github.com/jhoicas/textil-api/internal/domain/billing"
	"github.com/jhoicas/textil-api/internal/domain/entity"
	"github.com/jhoicas/textil-api/pkg/gstin"
)

// toInvoice reconstruye la factura pasando por las operaciones del dominio:
// líneas, descuento, impuesto y pagos se validan igual que en la edición.
// Con identifier la factura se considera guardada, y saldada si los pagos confirmados cubren el total.
func toInvoice(in dto.InvoiceRequest, now time.Time) (entity.Invoice, error) {
	inv := dbilling.NewDraft(toParty(in.Seller), toParty(in.Buyer), now)
	if in.Date != nil {
		inv.Date = *in.Date
	}
	inv.Notes = in.Notes

	var err error
	for _, it := range in.Items {
		if inv, err = dbilling.AddItem(inv, toLineItem(it)); err != nil {
			return inv, err
		}
	}
	if inv, err = dbilling.SetDiscount(inv, toDiscount(in.Discount)); err != nil {
		return inv, err
	}
	if inv, err = dbilling.SetTax(inv, entity.TaxSpec{GSTPercentage: in.GSTPercentage}); err != nil {
		return inv, err
	}
	for i, p := range in.Payments {
		rec := toPayment(p)
		if rec.ID == "" {
			return inv, domain.MissingField(fmt.Sprintf("payments[%d].id", i))
		}
		if inv, err = dbilling.ApplyInvoicePayment(inv, rec); err != nil {
			return inv, err
		}
	}
	if in.Identifier != "" {
		return dbilling.MarkSaved(inv, in.Identifier, in.RemoteID)
	}
	return inv, nil
}

// toParty normaliza el GSTIN y, si falta el estado, lo deduce del código del GSTIN.
func toParty(p dto.PartyRequest) entity.BillingParty {
	party := entity.BillingParty{Name: p.Name, GSTIN: gstin.Normalize(p.GSTIN), Phone: p.Phone, Address: p.Address, State: p.State}
	if party.State == "" && party.GSTIN != "" {
		party.State, _ = gstin.State(party.GSTIN)
	}
	return party
}

// withDefaults rellena los campos vacíos de p con los de def.
func withDefaults(p dto.PartyRequest, def entity.BillingParty) dto.PartyRequest {
	if p.Name == "" {
		p.Name = def.Name
	}
	if p.GSTIN == "" {
		p.GSTIN = def.GSTIN
	}
	if p.State == "" {
		p.State = def.State
	}
	return p
}

func toLineItem(it dto.LineItemRequest) entity.LineItem {
	return entity.LineItem{ID: it.ID, Name: it.Name, Quantity: it.Quantity, UnitRate: it.Rate, HSNCode: it.HSNCode, Unit: it.Unit}
}

func toDiscount(d dto.DiscountRequest) entity.DiscountSpec {
	mode := entity.DiscountMode(d.Mode)
	if mode == "" {
		mode = entity.DiscountPercent
	}
	return entity.DiscountSpec{Mode: mode, Percent: d.Percent, Fixed: d.Fixed}
}

// toPayment deja el ID vacío si no viene; SubmitPayments lo asigna a los pagos nuevos.
func toPayment(p dto.PaymentRequest) entity.PaymentRecord {
	rec := entity.PaymentRecord{
		ID:        p.ID,
		RemoteID:  p.RemoteID,
		Amount:    p.Amount,
		Method:    entity.PaymentMethod(p.Method),
		Reference: p.Reference,
		Note:      p.Note,
	}
	if p.PaidAt != nil {
		rec.PaidAt = *p.PaidAt
	}
	return rec
}

// ── Respuestas ────────────────────────────────────────────────────────────────

func fromParty(p entity.BillingParty) dto.PartyRequest {
	return dto.PartyRequest{Name: p.Name, GSTIN: p.GSTIN, Phone: p.Phone, Address: p.Address, State: p.State}
}

func fromTotals(t dbilling.Totals, inv entity.Invoice) dto.TotalsResponse {
	split := dbilling.SplitGST(t.TaxAmount, inv.Seller.State, inv.Buyer.State)
	return dto.TotalsResponse{
		Subtotal:       t.Subtotal,
		DiscountAmount: t.DiscountAmount,
		TaxableAmount:  t.TaxableAmount,
		TaxAmount:      t.TaxAmount,
		CGST:           split.CGST,
		SGST:           split.SGST,
		IGST:           split.IGST,
		GrandTotal:     t.GrandTotal,
	}
}

func fromPayment(p entity.PaymentRecord) dto.PaymentResponse {
	out := dto.PaymentResponse{
		ID: p.ID, RemoteID: p.RemoteID, Amount: p.Amount, Method: string(p.Method),
		Reference: p.Reference, Note: p.Note,
	}
	if !p.PaidAt.IsZero() {
		t := p.PaidAt
		out.PaidAt = &t
	}
	return out
}

func fromLedger(l dbilling.Ledger) dto.LedgerResponse {
	return dto.LedgerResponse{
		GrandTotal: l.GrandTotal,
		TotalPaid:  l.TotalPaid,
		DueAmount:  l.DueAmount,
		Payments:   lo.Map(l.Payments, func(p entity.PaymentRecord, _ int) dto.PaymentResponse { return fromPayment(p) }),
	}
}

func fromQuote(q appbilling.Quote, inv entity.Invoice) dto.QuoteResponse {
	return dto.QuoteResponse{
		Totals: fromTotals(q.Totals, inv),
		Lines: lo.Map(q.Lines, func(l dbilling.ItemTotals, _ int) dto.LineTotalsResponse {
			return dto.LineTotalsResponse{ItemID: l.ItemID, Gross: l.Gross, Discount: l.Discount, Net: l.Net, Tax: l.Tax, Total: l.Total}
		}),
		Ledger:  fromLedger(q.Ledger),
		Settled: q.Settled,
	}
}

func fromInvoice(inv entity.Invoice) dto.InvoiceResponse {
	q := appbilling.QuoteInvoice(inv)
	return dto.InvoiceResponse{
		Identifier: inv.Identifier,
		RemoteID:   inv.RemoteID,
		State:      string(inv.State),
		Date:       inv.Date,
		Seller:     fromParty(inv.Seller),
		Buyer:      fromParty(inv.Buyer),
		Items: lo.Map(inv.Items, func(it entity.LineItem, _ int) dto.LineItemRequest {
			return dto.LineItemRequest{ID: it.ID, Name: it.Name, Quantity: it.Quantity, Rate: it.UnitRate, HSNCode: it.HSNCode, Unit: it.Unit}
		}),
		Discount: dto.DiscountRequest{
			Mode:    string(inv.Discount.Mode),
			Percent: inv.Discount.Percent,
			Fixed:   inv.Discount.Fixed,
		},
		GSTPercentage: inv.Tax.GSTPercentage,
		Notes:         inv.Notes,
		Totals:        fromTotals(q.Totals, inv),
		Ledger:        fromLedger(q.Ledger),
	}
}

func fromOutcome(o entity.PaymentOutcome) dto.PaymentOutcomeResponse {
	return dto.PaymentOutcomeResponse{
		PaymentID:       o.PaymentID,
		PaymentRemoteID: o.PaymentRemoteID,
		Amount:          o.Amount,
		Method:          string(o.Method),
		Status:          string(o.Status),
		Error:           o.Error,
		CreatedAt:       o.CreatedAt,
	}
}
