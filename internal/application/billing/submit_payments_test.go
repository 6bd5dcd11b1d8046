package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/textil-api/internal/application/billing"
	"github.com/jhoicas/textil-api/internal/domain"
	dbilling "github.com/jhoicas/textil-api/internal/domain/billing"
	"github.com/jhoicas/textil-api/internal/domain/entity"
	"github.com/jhoicas/textil-api/internal/infrastructure/memory"
)

func savedInvoice(t *testing.T) entity.Invoice {
	t.Helper()
	inv, err := dbilling.MarkSaved(draftInvoice(t), "A00003", "srv-inv-3")
	require.NoError(t, err)
	return inv
}

func pay(amount string) entity.PaymentRecord {
	return entity.PaymentRecord{Amount: dec(amount), Method: entity.PaymentBankTransfer}
}

func TestSubmitPayments_TodosConfirmadosSalda(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	log := memory.NewPaymentOutcomeStore()
	uc := appbilling.NewSubmitPaymentsUseCase(remote, log, time.Second, nil)

	res, err := uc.Submit(ctx, savedInvoice(t), []entity.PaymentRecord{pay("100"), pay("89")})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStateSettled, res.Invoice.State)
	require.Len(t, res.Outcomes, 2)
	for _, o := range res.Outcomes {
		assert.Equal(t, entity.PaymentStatusCommitted, o.Status)
		assert.NotEmpty(t, o.PaymentRemoteID)
	}
	for _, p := range res.Invoice.Payments {
		assert.True(t, p.Persisted())
	}

	recorded, err := log.ListByInvoice(ctx, "A00003")
	require.NoError(t, err)
	assert.Len(t, recorded, 2)
}

// Un fallo a mitad de lote deja confirmados los anteriores y no revierte nada.
func TestSubmitPayments_FalloParcial(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{failPayment: map[int]error{1: errors.New("timeout")}}
	uc := appbilling.NewSubmitPaymentsUseCase(remote, memory.NewPaymentOutcomeStore(), time.Second, nil)

	res, err := uc.Submit(ctx, savedInvoice(t), []entity.PaymentRecord{pay("50"), pay("60"), pay("70")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRemoteSubmissionFailed))
	require.NotNil(t, res)

	require.Len(t, res.Outcomes, 3)
	assert.Equal(t, entity.PaymentStatusCommitted, res.Outcomes[0].Status)
	assert.Equal(t, entity.PaymentStatusFailed, res.Outcomes[1].Status)
	assert.Equal(t, entity.PaymentStatusSkipped, res.Outcomes[2].Status)

	ledger := dbilling.InvoiceLedger(res.Invoice)
	require.Len(t, ledger.Payments, 1, "sólo el pago que llegó")
	assert.True(t, ledger.TotalPaid.Equal(dec("50")))
	assert.True(t, ledger.DueAmount.Equal(dec("139")))
	assert.Equal(t, entity.InvoiceStateSaved, res.Invoice.State)
	assert.Equal(t, 2, remote.calls, "el tercero nunca se envía")
}

func TestSubmitPayments_ExcesoSeRechazaSinRed(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	uc := appbilling.NewSubmitPaymentsUseCase(remote, nil, time.Second, nil)

	res, err := uc.Submit(ctx, savedInvoice(t), []entity.PaymentRecord{pay("100"), pay("100")})
	assert.ErrorIs(t, err, domain.ErrExceedsDueAmount)
	require.NotNil(t, res)
	assert.Equal(t, entity.PaymentStatusCommitted, res.Outcomes[0].Status)
	assert.Equal(t, entity.PaymentStatusRejected, res.Outcomes[1].Status)
	assert.Equal(t, 1, remote.calls)
}

func TestSubmitPayments_Precondiciones(t *testing.T) {
	ctx := context.Background()
	uc := appbilling.NewSubmitPaymentsUseCase(&fakeRemote{}, nil, time.Second, nil)

	_, err := uc.Submit(ctx, draftInvoice(t), []entity.PaymentRecord{pay("1")})
	assert.ErrorIs(t, err, domain.ErrInvoiceNotSaved)

	_, err = uc.Submit(ctx, savedInvoice(t), nil)
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)

	settled, err := dbilling.ApplyInvoicePayment(savedInvoice(t), entity.PaymentRecord{ID: "x", Amount: dec("189"), Method: entity.PaymentCash})
	require.NoError(t, err)
	_, err = uc.Submit(ctx, settled, []entity.PaymentRecord{pay("1")})
	assert.ErrorIs(t, err, domain.ErrInvoiceAlreadySettled)
}

func TestQuoteInvoice_DescuentoPorcentualYGST(t *testing.T) {
	q := appbilling.QuoteInvoice(draftInvoice(t))
	assert.True(t, q.Totals.GrandTotal.Equal(dec("189")))
	assert.True(t, q.Ledger.DueAmount.Equal(dec("189")))
	assert.False(t, q.Settled)
	require.Len(t, q.Lines, 1)
}

type stubPDF struct{ called bool }

func (s *stubPDF) GenerateInvoicePDF(context.Context, entity.Invoice, dbilling.Totals, dbilling.Ledger) ([]byte, error) {
	s.called = true
	return []byte("%PDF-1.4"), nil
}

func TestDownloadInvoicePDF(t *testing.T) {
	gen := &stubPDF{}
	uc := appbilling.NewPDFUseCase(gen)

	_, _, err := uc.DownloadInvoicePDF(context.Background(), draftInvoice(t))
	assert.ErrorIs(t, err, domain.ErrInvoiceNotSaved)
	assert.False(t, gen.called)

	data, name, err := uc.DownloadInvoicePDF(context.Background(), savedInvoice(t))
	require.NoError(t, err)
	assert.Equal(t, "invoice_A00003.pdf", name)
	assert.NotEmpty(t, data)
}
