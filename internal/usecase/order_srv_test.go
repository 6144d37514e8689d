package usecase

import (
	"context"
	"testing"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/internal/dto/request"
	"ecommerce-backend/pkg/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrderUsesCurrentPrices(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := h.addUser(t, "buyer@example.com", entity.RoleCustomer)
	p1 := h.addProduct(t, "P1", "10.00", uuid.New())
	p2 := h.addProduct(t, "P2", "5.00", uuid.New())

	order, err := h.svc.Order.PlaceOrder(ctx, user.ID, &request.PlaceOrderRequest{
		Items: []request.OrderItemRequest{
			{ProductID: p1.ID.String(), Quantity: 1},
			{ProductID: p2.ID.String(), Quantity: 1},
			{ProductID: p1.ID.String(), Quantity: 1},
		},
		ShippingAddress: "12 Market Street",
	})
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("25").Equal(order.Total), "total = %s", order.Total)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Contains(t, h.events.types(), events.OrderPlaced)
}

func TestPlaceOrderErrors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := h.addUser(t, "buyer@example.com", entity.RoleCustomer)

	_, err := h.svc.Order.PlaceOrder(ctx, user.ID, &request.PlaceOrderRequest{ShippingAddress: "12 Market Street"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = h.svc.Order.PlaceOrder(ctx, user.ID, &request.PlaceOrderRequest{
		Items:           []request.OrderItemRequest{{ProductID: uuid.NewString(), Quantity: 1}},
		ShippingAddress: "12 Market Street",
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, h.db.orders)
}

func TestPlaceOrderBounds(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := h.addUser(t, "buyer@example.com", entity.RoleCustomer)
	mug := h.addProduct(t, "Mug", "10.00", uuid.New())
	yacht := h.addProduct(t, "Yacht", "9999999999.99", uuid.New())

	_, err := h.svc.Order.PlaceOrder(ctx, user.ID, &request.PlaceOrderRequest{
		Items:           []request.OrderItemRequest{{ProductID: mug.ID.String(), Quantity: 3000000000}},
		ShippingAddress: "12 Market Street",
	})
	assert.ErrorIs(t, err, ErrValidation)

	// duplicate lines are merged before the limit applies
	_, err = h.svc.Order.PlaceOrder(ctx, user.ID, &request.PlaceOrderRequest{
		Items: []request.OrderItemRequest{
			{ProductID: mug.ID.String(), Quantity: entity.MaxQuantity},
			{ProductID: mug.ID.String(), Quantity: 1},
		},
		ShippingAddress: "12 Market Street",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = h.svc.Order.PlaceOrder(ctx, user.ID, &request.PlaceOrderRequest{
		Items:           []request.OrderItemRequest{{ProductID: yacht.ID.String(), Quantity: 2}},
		ShippingAddress: "12 Market Street",
	})
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, h.db.orders)
}

func TestGetOrderVisibility(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := h.addUser(t, "buyer@example.com", entity.RoleCustomer)
	p := h.addProduct(t, "P1", "10.00", uuid.New())

	order, err := h.svc.Order.PlaceOrder(ctx, owner.ID, &request.PlaceOrderRequest{
		Items:           []request.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
		ShippingAddress: "12 Market Street",
	})
	require.NoError(t, err)

	_, err = h.svc.Order.GetOrder(ctx, Actor{UserID: owner.ID, Role: entity.RoleCustomer}, order.ID)
	require.NoError(t, err)

	_, err = h.svc.Order.GetOrder(ctx, Actor{UserID: uuid.New(), Role: entity.RoleCustomer}, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = h.svc.Order.GetOrder(ctx, Actor{UserID: uuid.New(), Role: entity.RoleAdmin}, order.ID)
	require.NoError(t, err)

	_, err = h.svc.Order.GetOrder(ctx, Actor{UserID: owner.ID, Role: entity.RoleCustomer}, "bad")
	assert.ErrorIs(t, err, ErrValidation)

	list, err := h.svc.Order.ListOrders(ctx, owner.ID, request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Pagination.Total)
}

func TestAdminOrderStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := h.addUser(t, "buyer@example.com", entity.RoleCustomer)
	p := h.addProduct(t, "P1", "10.00", uuid.New())

	order, err := h.svc.Order.PlaceOrder(ctx, owner.ID, &request.PlaceOrderRequest{
		Items:           []request.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
		ShippingAddress: "12 Market Street",
	})
	require.NoError(t, err)

	updated, err := h.svc.Order.UpdateOrderStatus(ctx, order.ID, &request.UpdateOrderStatusRequest{Status: "shipped"})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusShipped, updated.Status)
	assert.Contains(t, h.events.types(), events.OrderStatusChange)

	_, err = h.svc.Order.UpdateOrderStatus(ctx, order.ID, &request.UpdateOrderStatusRequest{Status: "lost"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = h.svc.Order.UpdateOrderStatus(ctx, uuid.NewString(), &request.UpdateOrderStatusRequest{Status: "shipped"})
	assert.ErrorIs(t, err, ErrNotFound)

	page := request.PaginatedRequest{Page: 1, PerPage: 10}
	shipped, err := h.svc.Order.ListAllOrders(ctx, page, "shipped")
	require.NoError(t, err)
	assert.Equal(t, int64(1), shipped.Pagination.Total)

	pending, err := h.svc.Order.ListAllOrders(ctx, page, "pending")
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Pagination.Total)

	_, err = h.svc.Order.ListAllOrders(ctx, page, "bogus")
	assert.ErrorIs(t, err, ErrValidation)
}
