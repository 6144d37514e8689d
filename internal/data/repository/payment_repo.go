package repository

import (
	"context"
	"errors"
	"fmt"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	SetGatewayResult(ctx context.Context, id uuid.UUID, gatewayRef, authorizationURL string) error
	FindByReference(ctx context.Context, reference string) (*entity.Payment, error)
	// FindByReferenceForUpdate locks the row until the transaction ends.
	FindByReferenceForUpdate(ctx context.Context, reference string) (*entity.Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error
}

type paymentRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPaymentRepository(db database.Querier, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `id, reference, provider, gateway_ref, user_id, amount, currency,
		       items, status, authorization_url, created_at, updated_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID,
		&p.Reference,
		&p.Provider,
		&p.GatewayRef,
		&p.UserID,
		&p.Amount,
		&p.Currency,
		&p.Items,
		&p.Status,
		&p.AuthorizationURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, reference, provider, user_id, amount, currency,
		                      items, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.Reference,
		payment.Provider,
		payment.UserID,
		payment.Amount,
		payment.Currency,
		payment.Items,
		payment.Status,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create payment %s: %w", payment.Reference, ErrDuplicate)
		}
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("reference", payment.Reference),
		)
		return fmt.Errorf("create payment %s: %w", payment.Reference, err)
	}

	return nil
}

func (r *paymentRepository) SetGatewayResult(ctx context.Context, id uuid.UUID, gatewayRef, authorizationURL string) error {
	query := `
		UPDATE payments
		SET gateway_ref = $2, authorization_url = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, gatewayRef, authorizationURL)
	if err != nil {
		r.log.Error("Failed to store gateway result", zap.Error(err), zap.String("payment_id", id.String()))
		return fmt.Errorf("set gateway result %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("set gateway result %s: %w", id.String(), ErrRowNotFound)
	}
	return nil
}

func (r *paymentRepository) FindByReference(ctx context.Context, reference string) (*entity.Payment, error) {
	return r.findByReference(ctx, `SELECT `+paymentColumns+` FROM payments WHERE reference = $1`, reference)
}

func (r *paymentRepository) FindByReferenceForUpdate(ctx context.Context, reference string) (*entity.Payment, error) {
	return r.findByReference(ctx, `SELECT `+paymentColumns+` FROM payments WHERE reference = $1 FOR UPDATE`, reference)
}

func (r *paymentRepository) findByReference(ctx context.Context, query, reference string) (*entity.Payment, error) {
	payment, err := scanPayment(r.db.QueryRow(ctx, query, reference))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by reference",
			zap.Error(err),
			zap.String("reference", reference),
		)
		return nil, fmt.Errorf("find payment %s: %w", reference, err)
	}
	return payment, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error {
	query := `UPDATE payments SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update payment status",
			zap.Error(err),
			zap.String("payment_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update payment %s status: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update payment %s status: %w", id.String(), ErrRowNotFound)
	}
	return nil
}
