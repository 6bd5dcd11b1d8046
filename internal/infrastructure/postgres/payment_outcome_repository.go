package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/textil-api/internal/domain"
	"github.com/jhoicas/textil-api/internal/domain/entity"
	"github.com/jhoicas/textil-api/internal/domain/repository"
)

var _ repository.PaymentOutcomeRepository = (*PaymentOutcomeRepo)(nil)

// PaymentOutcomeRepo implementa PaymentOutcomeRepository sobre PostgreSQL.
type PaymentOutcomeRepo struct {
	db Querier
}

// NewPaymentOutcomeRepository construye el repositorio.
func NewPaymentOutcomeRepository(db Querier) *PaymentOutcomeRepo {
	return &PaymentOutcomeRepo{db: db}
}

func (r *PaymentOutcomeRepo) Record(ctx context.Context, o *entity.PaymentOutcome) error {
	const q = `
		INSERT INTO payment_outcomes
			(id, invoice_identifier, invoice_remote_id, payment_id, payment_remote_id,
			 amount, method, status, error, created_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, q,
		o.ID, o.InvoiceIdentifier, o.InvoiceRemoteID, o.PaymentID, o.PaymentRemoteID,
		o.Amount, string(o.Method), string(o.Status), o.Error, o.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(domain.ErrInvalidInput, "resultado duplicado %s", o.ID)
		}
		return errors.Wrap(err, "insert payment_outcome")
	}
	return nil
}

func (r *PaymentOutcomeRepo) ListByInvoice(ctx context.Context, invoiceIdentifier string) ([]*entity.PaymentOutcome, error) {
	const q = `
		SELECT id, invoice_identifier, invoice_remote_id, payment_id, payment_remote_id,
		       amount, method, status, error, created_at
		FROM payment_outcomes
		WHERE invoice_identifier = $1
		ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, q, invoiceIdentifier)
	if err != nil {
		return nil, errors.Wrap(err, "list payment_outcomes")
	}
	defer rows.Close()

	var list []*entity.PaymentOutcome
	for rows.Next() {
		o, err := scanOutcome(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan payment_outcome")
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func scanOutcome(row pgx.Row) (*entity.PaymentOutcome, error) {
	var (
		o      entity.PaymentOutcome
		method string
		status string
	)
	err := row.Scan(
		&o.ID, &o.InvoiceIdentifier, &o.InvoiceRemoteID, &o.PaymentID, &o.PaymentRemoteID,
		&o.Amount, &method, &status, &o.Error, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Method = entity.PaymentMethod(method)
	o.Status = entity.PaymentStatus(status)
	return &o, nil
}
