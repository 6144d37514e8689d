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

type CartRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)
	// Upsert returns the user's cart, creating it when absent.
	Upsert(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)
	// AddItem adds quantity to the line, creating it when absent, and
	// returns the resulting quantity. The line is left untouched with
	// ErrQuantityLimit when the sum would exceed entity.MaxQuantity.
	AddItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (int, error)
	// FindLines joins items with current product data; lines whose
	// product no longer exists are skipped.
	FindLines(ctx context.Context, cartID uuid.UUID) ([]entity.CartLine, error)
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (bool, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (bool, error)
}

type cartRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCartRepository(db database.Querier, log *zap.Logger) CartRepository {
	return &cartRepository{
		db:  db,
		log: log.With(zap.String("repository", "cart")),
	}
}

func (r *cartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	query := `SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`

	var cart entity.Cart
	err := r.db.QueryRow(ctx, query, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find cart", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find cart for user %s: %w", userID.String(), err)
	}

	return &cart, nil
}

func (r *cartRepository) Upsert(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	query := `
		INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		RETURNING id, user_id, created_at, updated_at
	`

	var cart entity.Cart
	err := r.db.QueryRow(ctx, query, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to upsert cart", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("upsert cart for user %s: %w", userID.String(), err)
	}

	return &cart, nil
}

func (r *cartRepository) AddItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (int, error) {
	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity) VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		WHERE cart_items.quantity::BIGINT + EXCLUDED.quantity <= $4
		RETURNING quantity
	`

	var total int
	err := r.db.QueryRow(ctx, query, cartID, productID, quantity, entity.MaxQuantity).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("add item %s to cart %s: %w", productID.String(), cartID.String(), ErrQuantityLimit)
	}
	if err != nil {
		r.log.Error("Failed to add cart item",
			zap.Error(err),
			zap.String("cart_id", cartID.String()),
			zap.String("product_id", productID.String()),
		)
		return 0, fmt.Errorf("add item %s to cart %s: %w", productID.String(), cartID.String(), err)
	}

	return total, nil
}

func (r *cartRepository) FindLines(ctx context.Context, cartID uuid.UUID) ([]entity.CartLine, error) {
	query := `
		SELECT ci.product_id, p.name, p.price, COALESCE(p.images[1], ''), ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY p.name
	`

	rows, err := r.db.Query(ctx, query, cartID)
	if err != nil {
		r.log.Error("Failed to find cart lines", zap.Error(err), zap.String("cart_id", cartID.String()))
		return nil, fmt.Errorf("find lines of cart %s: %w", cartID.String(), err)
	}
	defer rows.Close()

	lines := []entity.CartLine{}
	for rows.Next() {
		var line entity.CartLine
		if err := rows.Scan(&line.ProductID, &line.Name, &line.Price, &line.Image, &line.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart lines: %w", err)
	}

	return lines, nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (bool, error) {
	query := `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	result, err := r.db.Exec(ctx, query, cartID, productID)
	if err != nil {
		r.log.Error("Failed to remove cart item",
			zap.Error(err),
			zap.String("cart_id", cartID.String()),
			zap.String("product_id", productID.String()),
		)
		return false, fmt.Errorf("remove item %s from cart %s: %w", productID.String(), cartID.String(), err)
	}

	if _, err := r.db.Exec(ctx, `UPDATE carts SET updated_at = NOW() WHERE id = $1`, cartID); err != nil {
		return false, fmt.Errorf("touch cart %s: %w", cartID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *cartRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	if err != nil {
		r.log.Error("Failed to delete cart", zap.Error(err), zap.String("user_id", userID.String()))
		return false, fmt.Errorf("delete cart for user %s: %w", userID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}
