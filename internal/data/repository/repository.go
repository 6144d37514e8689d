package repository

import (
	"context"
	"errors"
	"fmt"

	"ecommerce-backend/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	// ErrDuplicate wraps unique constraint violations.
	ErrDuplicate = errors.New("duplicate key")
	// ErrRowNotFound is returned by writes that matched no row.
	ErrRowNotFound = errors.New("row not found")
	// ErrQuantityLimit is returned when a cart line would exceed entity.MaxQuantity.
	ErrQuantityLimit = errors.New("quantity limit exceeded")
)

type Repository struct {
	User     UserRepository
	Product  ProductRepository
	Category CategoryRepository
	Cart     CartRepository
	Order    OrderRepository
	Payment  PaymentRepository
	Checkout CheckoutRepository
	Stats    StatsRepository
	Tx       Transactor
}

// Transactor runs fn with repositories bound to one database transaction.
// Returning an error from fn rolls the transaction back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(repos *Repository) error) error
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repos := newRepositories(db, log)
	repos.Tx = &pgxTransactor{db: db, log: log.With(zap.String("repository", "tx"))}
	return repos
}

func newRepositories(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:     NewUserRepository(q, log),
		Product:  NewProductRepository(q, log),
		Category: NewCategoryRepository(q, log),
		Cart:     NewCartRepository(q, log),
		Order:    NewOrderRepository(q, log),
		Payment:  NewPaymentRepository(q, log),
		Checkout: NewCheckoutRepository(q, log),
		Stats:    NewStatsRepository(q, log),
	}
}

type pgxTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func (t *pgxTransactor) WithinTransaction(ctx context.Context, fn func(repos *Repository) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	repos := newRepositories(tx, t.log)
	repos.Tx = inTx{repos: repos}

	if err := fn(repos); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			t.log.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// inTx reuses the open transaction for nested calls.
type inTx struct {
	repos *Repository
}

func (t inTx) WithinTransaction(ctx context.Context, fn func(repos *Repository) error) error {
	return fn(t.repos)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
