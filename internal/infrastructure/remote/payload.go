package remote

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	dbilling "github.com/jhoicas/textil-api/internal/domain/billing"
	"github.com/jhoicas/textil-api/internal/domain/entity"
)

type createdResponse struct {
	ID string `json:"id"`
}

type balanceResponse struct {
	ID         string          `json:"id"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

type partyPayload struct {
	Name    string `json:"name"`
	GSTIN   string `json:"gstin,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	State   string `json:"state,omitempty"`
}

type itemPayload struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	HSNCode  string          `json:"hsn_code,omitempty"`
	Unit     string          `json:"unit,omitempty"`
}

type invoicePayload struct {
	Identifier      string          `json:"invoice_number"`
	Date            time.Time       `json:"date"`
	Seller          partyPayload    `json:"seller"`
	Buyer           partyPayload    `json:"buyer"`
	Items           []itemPayload   `json:"items"`
	DiscountMode    string          `json:"discount_mode"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountFixed   decimal.Decimal `json:"discount_fixed"`
	GSTPercentage   decimal.Decimal `json:"gst_percentage"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	Notes           string          `json:"notes,omitempty"`
}

type paymentPayload struct {
	ClientID  string          `json:"client_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	Note      string          `json:"note,omitempty"`
	PaidAt    time.Time       `json:"paid_at"`
}

func toParty(p entity.BillingParty) partyPayload {
	return partyPayload{Name: p.Name, GSTIN: p.GSTIN, Phone: p.Phone, Address: p.Address, State: p.State}
}

// toInvoicePayload incluye los totales calculados localmente; el servidor no recalcula.
func toInvoicePayload(inv entity.Invoice) invoicePayload {
	totals := dbilling.InvoiceTotals(inv)
	return invoicePayload{
		Identifier: inv.Identifier,
		Date:       inv.Date,
		Seller:     toParty(inv.Seller),
		Buyer:      toParty(inv.Buyer),
		Items: lo.Map(inv.Items, func(it entity.LineItem, _ int) itemPayload {
			return itemPayload{ID: it.ID, Name: it.Name, Quantity: it.Quantity, Rate: it.UnitRate, HSNCode: it.HSNCode, Unit: it.Unit}
		}),
		DiscountMode:    string(inv.Discount.Mode),
		DiscountPercent: inv.Discount.Percent,
		DiscountFixed:   inv.Discount.Fixed,
		GSTPercentage:   inv.Tax.GSTPercentage,
		Subtotal:        totals.Subtotal,
		DiscountAmount:  totals.DiscountAmount,
		TaxAmount:       totals.TaxAmount,
		GrandTotal:      totals.GrandTotal,
		Notes:           inv.Notes,
	}
}

func toPaymentPayload(p entity.PaymentRecord) paymentPayload {
	return paymentPayload{
		ClientID:  p.ID,
		Amount:    p.Amount,
		Method:    string(p.Method),
		Reference: p.Reference,
		Note:      p.Note,
		PaidAt:    p.PaidAt,
	}
}
