package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"marketplace/internal/domain"
	rabbit "marketplace/internal/infra/rabbitmq"
	"marketplace/internal/repository"
)

var orderNumberCharset = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

type OrderService struct {
	store     repository.Store
	publisher rabbit.PublisherInterface
	logger    zerolog.Logger
}

func NewOrderService(store repository.Store, publisher rabbit.PublisherInterface, logger zerolog.Logger) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateOrder turns a cart into a durable multi-vendor order in one
// transaction: address ownership, product validation against locked
// rows, price/commission snapshots, order number, item materialization
// and stock decrement all commit together or not at all. The
// order-placed notification goes out only after the commit.
func (s *OrderService) CreateOrder(ctx context.Context, userID, addressID uint, lines []domain.CartLine, notes string) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, domain.NewValidationError("cart is empty")
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, domain.NewValidationError("quantity must be positive")
		}
	}

	var order *domain.Order
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		address, err := tx.GetUserAddress(ctx, addressID, userID)
		if err != nil {
			return err
		}
		if address == nil {
			return domain.NewValidationError("shipping address not found")
		}

		items, subtotal, err := s.buildItems(ctx, tx, lines)
		if err != nil {
			return err
		}

		order = &domain.Order{
			OrderNumber: generateOrderNumber(),
			UserID:      userID,
			AddressID:   addressID,
			Subtotal:    subtotal,
			TotalAmount: subtotal,
			Notes:       notes,
			Status:      domain.StatusPending,
			Items:       items,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		for _, line := range lines {
			if err := tx.AdjustProductStock(ctx, line.ProductID, -line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.publish(domain.OrderPlacedEvent(order))

	return order, nil
}

// buildItems is the inventory gate: it validates every cart line against
// the locked product rows and freezes the name, image, price and
// commission rate into order items. Any violation aborts the whole
// transaction.
func (s *OrderService) buildItems(ctx context.Context, tx repository.Store, lines []domain.CartLine) ([]domain.OrderItem, decimal.Decimal, error) {
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	products, err := tx.GetProductsForUpdate(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, err
	}
	byID := make(map[uint]*domain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := make([]domain.OrderItem, 0, len(lines))
	subtotal := decimal.Zero
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, decimal.Zero, domain.NewValidationError("one or more products not found")
		}
		if !product.IsActive {
			return nil, decimal.Zero, domain.NewValidationError("%q is no longer available", product.Name)
		}
		if product.Vendor.Status != domain.VendorActive {
			return nil, decimal.Zero, domain.NewValidationError("%q vendor is currently unavailable", product.Name)
		}
		if product.Stock < line.Quantity {
			return nil, decimal.Zero, domain.NewValidationError("only %d units of %q available", product.Stock, product.Name)
		}

		qty := decimal.NewFromInt(int64(line.Quantity))
		itemTotal := product.Price.Mul(qty)
		commission := product.Vendor.CommissionRate.Div(decimal.NewFromInt(100))
		payout := itemTotal.Mul(decimal.NewFromInt(1).Sub(commission)).Round(2)

		items = append(items, domain.OrderItem{
			VendorID:     product.VendorID,
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductImage: product.ImageURL,
			Quantity:     line.Quantity,
			UnitPrice:    product.Price,
			TotalPrice:   itemTotal,
			VendorPayout: payout,
			Status:       domain.StatusPending,
		})
		subtotal = subtotal.Add(itemTotal)
	}

	return items, subtotal, nil
}

// CancelOrder reverses the inventory gate for every item and marks the
// order CANCELLED in one transaction. Only orders that haven't entered
// substantive fulfillment (PENDING or CONFIRMED) can be cancelled; item
// statuses are left untouched since a cancelled order never consults
// them again.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, userID uint) (*domain.Order, error) {
	var order *domain.Order
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		order, err = tx.GetUserOrderForUpdate(ctx, orderID, userID)
		if err != nil {
			return err
		}
		if order == nil {
			return &domain.NotFoundError{Resource: "order"}
		}
		if !order.CanCancel() {
			return &domain.InvalidStateError{Operation: "cancel", Status: order.Status}
		}

		for _, item := range order.Items {
			if err := tx.AdjustProductStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := tx.UpdateOrderStatus(ctx, orderID, domain.StatusCancelled); err != nil {
			return err
		}
		order.Status = domain.StatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.publish(domain.OrderCancelledEvent(order))

	return order, nil
}

func (s *OrderService) GetOrderDetail(ctx context.Context, orderID, userID uint) (*domain.Order, error) {
	order, err := s.store.GetUserOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &domain.NotFoundError{Resource: "order"}
	}
	return order, nil
}

func (s *OrderService) publish(evt domain.NotificationEvent) {
	if err := s.publisher.Publish(context.Background(), notificationPattern(evt), evt); err != nil {
		s.logger.Error().Err(err).Str("type", evt.Type).Msg("failed to publish notification")
	}
}

// generateOrderNumber builds a date-stamped human-readable order number
// with a random suffix. Collisions are astronomically rare; the unique
// index on order_number is the backstop.
func generateOrderNumber() string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = orderNumberCharset[rand.Intn(len(orderNumberCharset))]
	}
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}
