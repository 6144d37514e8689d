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

type CheckoutRepository interface {
	Create(ctx context.Context, record *entity.CheckoutRecord) error
	FindByReference(ctx context.Context, reference string) (*entity.CheckoutRecord, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.CheckoutRecord, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

type checkoutRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCheckoutRepository(db database.Querier, log *zap.Logger) CheckoutRepository {
	return &checkoutRepository{
		db:  db,
		log: log.With(zap.String("repository", "checkout")),
	}
}

const checkoutColumns = `id, user_id, items, reference, trxref, status, total_amount, created_at`

func scanCheckout(row pgx.Row) (*entity.CheckoutRecord, error) {
	var c entity.CheckoutRecord
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Items,
		&c.Reference,
		&c.TrxRef,
		&c.Status,
		&c.TotalAmount,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *checkoutRepository) Create(ctx context.Context, record *entity.CheckoutRecord) error {
	query := `
		INSERT INTO checkout_records (id, user_id, items, reference, trxref, status, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.Items,
		record.Reference,
		record.TrxRef,
		record.Status,
		record.TotalAmount,
		record.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create checkout record %s: %w", record.Reference, ErrDuplicate)
		}
		r.log.Error("Failed to create checkout record",
			zap.Error(err),
			zap.String("reference", record.Reference),
		)
		return fmt.Errorf("create checkout record %s: %w", record.Reference, err)
	}

	return nil
}

func (r *checkoutRepository) FindByReference(ctx context.Context, reference string) (*entity.CheckoutRecord, error) {
	query := `SELECT ` + checkoutColumns + ` FROM checkout_records WHERE reference = $1`

	record, err := scanCheckout(r.db.QueryRow(ctx, query, reference))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find checkout record", zap.Error(err), zap.String("reference", reference))
		return nil, fmt.Errorf("find checkout record %s: %w", reference, err)
	}
	return record, nil
}

func (r *checkoutRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.CheckoutRecord, error) {
	query := `SELECT ` + checkoutColumns + ` FROM checkout_records WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list checkout records", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("list checkout records for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	records := []*entity.CheckoutRecord{}
	for rows.Next() {
		c, err := scanCheckout(rows)
		if err != nil {
			return nil, fmt.Errorf("scan checkout record: %w", err)
		}
		records = append(records, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checkout records: %w", err)
	}
	return records, nil
}

func (r *checkoutRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM checkout_records WHERE user_id = $1`, userID).Scan(&total); err != nil {
		r.log.Error("Failed to count checkout records", zap.Error(err))
		return 0, fmt.Errorf("count checkout records: %w", err)
	}
	return total, nil
}
