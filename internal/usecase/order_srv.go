package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/internal/data/repository"
	"ecommerce-backend/internal/dto/request"
	"ecommerce-backend/internal/dto/response"
	"ecommerce-backend/pkg/events"
	"ecommerce-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, req *request.PlaceOrderRequest) (*response.OrderResponse, error)
	ListOrders(ctx context.Context, userID uuid.UUID, req request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error)
	GetOrder(ctx context.Context, actor Actor, id string) (*response.OrderResponse, error)
	ListAllOrders(ctx context.Context, req request.PaginatedRequest, status string) (*response.PaginatedResponse[response.OrderResponse], error)
	UpdateOrderStatus(ctx context.Context, id string, req *request.UpdateOrderStatusRequest) (*response.OrderResponse, error)
}

type orderService struct {
	repo      *repository.Repository
	publisher events.Publisher
	log       *zap.Logger
}

func NewOrderService(repo *repository.Repository, publisher events.Publisher, log *zap.Logger) OrderService {
	return &orderService{
		repo:      repo,
		publisher: publisher,
		log:       log.With(zap.String("service", "order")),
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req *request.PlaceOrderRequest) (*response.OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, validationErr("order must contain at least one item")
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationErr("%s", utils.FormatValidationErrors(errs))
	}

	// Gabungkan item dengan produk yang sama
	quantities := make(map[uuid.UUID]int, len(req.Items))
	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		id, err := parseID(item.ProductID, "product")
		if err != nil {
			return nil, err
		}
		if _, seen := quantities[id]; !seen {
			ids = append(ids, id)
		}
		quantities[id] += item.Quantity
		if quantities[id] > entity.MaxQuantity {
			return nil, validationErr("quantity of product %s cannot exceed %d", id, entity.MaxQuantity)
		}
	}

	now := time.Now()
	order := &entity.Order{
		Model:           entity.NewModel(now),
		UserID:          userID,
		ShippingAddress: strings.TrimSpace(req.ShippingAddress),
		Status:          entity.OrderStatusPending,
		Total:           decimal.Zero,
	}

	err := s.repo.Tx.WithinTransaction(ctx, func(tx *repository.Repository) error {
		products, err := tx.Product.FindByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}

		for _, id := range ids {
			product, ok := products[id]
			if !ok {
				return fmt.Errorf("%w: product %s not found", ErrNotFound, id)
			}
			qty := quantities[id]
			order.Items = append(order.Items, entity.OrderItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ProductID: id,
				Name:      product.Name,
				UnitPrice: product.Price,
				Quantity:  qty,
			})
			order.Total = order.Total.Add(product.Price.Mul(decimal.NewFromInt(int64(qty))))
		}
		if !entity.AmountFits(order.Total) {
			return validationErr("order total exceeds the maximum amount")
		}

		return tx.Order.Create(ctx, order)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) {
			return nil, err
		}
		s.log.Error("Failed to place order", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("place order: %w", err)
	}

	s.log.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("total", order.Total.StringFixed(2)))

	resp := response.OrderToResponse(order)
	s.publish(ctx, events.NewEvent(events.OrderPlaced, order.ID.String(), resp))
	return &resp, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID, req request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error) {
	orders, err := s.repo.Order.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	total, err := s.repo.Order.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	return response.NewPaginatedResponse(response.OrdersToResponse(orders), req.Page, req.Limit(), total), nil
}

func (s *orderService) GetOrder(ctx context.Context, actor Actor, rawID string) (*response.OrderResponse, error) {
	id, err := parseID(rawID, "order")
	if err != nil {
		return nil, err
	}

	order, err := s.repo.Order.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	// Orders of other users look missing.
	if order == nil || (!actor.IsAdmin() && order.UserID != actor.UserID) {
		return nil, notFoundErr("order")
	}

	resp := response.OrderToResponse(order)
	return &resp, nil
}

func (s *orderService) ListAllOrders(ctx context.Context, req request.PaginatedRequest, rawStatus string) (*response.PaginatedResponse[response.OrderResponse], error) {
	var status *entity.OrderStatus
	if rawStatus != "" {
		st := entity.OrderStatus(strings.ToLower(rawStatus))
		if !st.Valid() {
			return nil, validationErr("invalid order status %q", rawStatus)
		}
		status = &st
	}

	orders, err := s.repo.Order.FindAll(ctx, status, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}

	total, err := s.repo.Order.CountAll(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("count all orders: %w", err)
	}

	return response.NewPaginatedResponse(response.OrdersToResponse(orders), req.Page, req.Limit(), total), nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, rawID string, req *request.UpdateOrderStatusRequest) (*response.OrderResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationErr("%s", utils.FormatValidationErrors(errs))
	}

	id, err := parseID(rawID, "order")
	if err != nil {
		return nil, err
	}

	status := entity.OrderStatus(req.Status)
	if err := s.repo.Order.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrRowNotFound) {
			return nil, notFoundErr("order")
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	order, err := s.repo.Order.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order == nil {
		return nil, notFoundErr("order")
	}

	s.log.Info("Order status updated",
		zap.String("order_id", id.String()),
		zap.String("status", string(status)))

	resp := response.OrderToResponse(order)
	s.publish(ctx, events.NewEvent(events.OrderStatusChange, order.ID.String(), map[string]string{
		"order_id": order.ID.String(),
		"user_id":  order.UserID.String(),
		"status":   string(order.Status),
	}))
	return &resp, nil
}

// publish is fire-and-forget; the write has already committed.
func (s *orderService) publish(ctx context.Context, evts ...events.Event) {
	if err := s.publisher.Publish(ctx, evts...); err != nil {
		s.log.Warn("Failed to publish order event", zap.Error(err))
	}
}
