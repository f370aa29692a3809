package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"marketplace/internal/domain"
)

// Store is the persistence boundary of the order core. InTx runs fn
// against a transaction-scoped Store; every read-then-write sequence of
// an atomic unit (order creation, webhook handling, item transition,
// cancellation) goes through it. The ForUpdate variants take row locks
// and are only meaningful inside InTx.
type Store interface {
	InTx(ctx context.Context, fn func(tx Store) error) error

	CreateOrder(ctx context.Context, order *domain.Order) error
	GetUserOrder(ctx context.Context, orderID, userID uint) (*domain.Order, error)
	GetUserOrderForUpdate(ctx context.Context, orderID, userID uint) (*domain.Order, error)
	GetOrderByID(ctx context.Context, orderID uint) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, status domain.OrderStatus) error
	ListActiveOrderIDs(ctx context.Context) ([]uint, error)
	GetOrderForUpdate(ctx context.Context, orderID uint) (*domain.Order, error)

	GetVendorItemForUpdate(ctx context.Context, itemID, vendorID uint) (*domain.OrderItem, error)
	UpdateItemStatus(ctx context.Context, itemID uint, status domain.OrderStatus) error
	UpdateOrderItemStatuses(ctx context.Context, orderID uint, status domain.OrderStatus) error
	ListItemStatuses(ctx context.Context, orderID uint) ([]domain.OrderStatus, error)
	ListVendorItems(ctx context.Context, vendorID uint, status *domain.OrderStatus, limit, offset int) ([]domain.OrderItem, error)

	CreatePayment(ctx context.Context, payment *domain.Payment) error
	UpdatePayment(ctx context.Context, payment *domain.Payment) error
	GetPaymentByOrderID(ctx context.Context, orderID uint) (*domain.Payment, error)
	GetPaymentByIntentIDForUpdate(ctx context.Context, intentID string) (*domain.Payment, error)

	GetUserAddress(ctx context.Context, addressID, userID uint) (*domain.Address, error)
	GetProductsForUpdate(ctx context.Context, productIDs []uint) ([]domain.Product, error)
	AdjustProductStock(ctx context.Context, productID uint, delta int) error
	AddVendorEarnings(ctx context.Context, vendorID uint, payout decimal.Decimal, orders int) error
}
