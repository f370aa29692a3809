package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
)

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) repository.Store {
	return &store{db: db}
}

// InTx runs fn against a transaction-scoped store. gorm rolls the
// transaction back when fn returns an error or panics.
func (s *store) InTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}

func (s *store) CreateOrder(ctx context.Context, order *domain.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

func (s *store) GetUserOrder(ctx context.Context, orderID, userID uint) (*domain.Order, error) {
	var o domain.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (s *store) GetUserOrderForUpdate(ctx context.Context, orderID, userID uint) (*domain.Order, error) {
	var o domain.Order
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (s *store) GetOrderByID(ctx context.Context, orderID uint) (*domain.Order, error) {
	var o domain.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&o, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (s *store) GetOrderForUpdate(ctx context.Context, orderID uint) (*domain.Order, error) {
	var o domain.Order
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&o, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (s *store) UpdateOrderStatus(ctx context.Context, orderID uint, status domain.OrderStatus) error {
	return s.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}

func (s *store) ListActiveOrderIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("status <> ?", domain.StatusCancelled).
		Pluck("id", &ids).Error
	return ids, err
}

func (s *store) GetVendorItemForUpdate(ctx context.Context, itemID, vendorID uint) (*domain.OrderItem, error) {
	var item domain.OrderItem
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND vendor_id = ?", itemID, vendorID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (s *store) UpdateItemStatus(ctx context.Context, itemID uint, status domain.OrderStatus) error {
	return s.db.WithContext(ctx).
		Model(&domain.OrderItem{}).
		Where("id = ?", itemID).
		Update("status", status).Error
}

func (s *store) UpdateOrderItemStatuses(ctx context.Context, orderID uint, status domain.OrderStatus) error {
	return s.db.WithContext(ctx).
		Model(&domain.OrderItem{}).
		Where("order_id = ?", orderID).
		Update("status", status).Error
}

func (s *store) ListItemStatuses(ctx context.Context, orderID uint) ([]domain.OrderStatus, error) {
	var statuses []domain.OrderStatus
	err := s.db.WithContext(ctx).
		Model(&domain.OrderItem{}).
		Where("order_id = ?", orderID).
		Pluck("status", &statuses).Error
	return statuses, err
}

// ListVendorItems returns the vendor's workable items: only lines whose
// parent order has been paid (left PENDING behind) and not cancelled.
func (s *store) ListVendorItems(ctx context.Context, vendorID uint, status *domain.OrderStatus, limit, offset int) ([]domain.OrderItem, error) {
	q := s.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.vendor_id = ?", vendorID).
		Where("orders.status NOT IN ?", []domain.OrderStatus{domain.StatusPending, domain.StatusCancelled}).
		Order("order_items.created_at DESC")
	if status != nil {
		q = q.Where("order_items.status = ?", *status)
	}
	var items []domain.OrderItem
	err := q.Limit(limit).Offset(offset).Find(&items).Error
	return items, err
}

func (s *store) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	return s.db.WithContext(ctx).Create(payment).Error
}

func (s *store) UpdatePayment(ctx context.Context, payment *domain.Payment) error {
	return s.db.WithContext(ctx).Save(payment).Error
}

func (s *store) GetPaymentByOrderID(ctx context.Context, orderID uint) (*domain.Payment, error) {
	var p domain.Payment
	err := s.db.WithContext(ctx).Where("order_id = ?", orderID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *store) GetPaymentByIntentIDForUpdate(ctx context.Context, intentID string) (*domain.Payment, error) {
	var p domain.Payment
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("payment_intent_id = ?", intentID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *store) GetUserAddress(ctx context.Context, addressID, userID uint) (*domain.Address, error) {
	var a domain.Address
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (s *store) GetProductsForUpdate(ctx context.Context, productIDs []uint) ([]domain.Product, error) {
	var products []domain.Product
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Vendor").
		Where("id IN ?", productIDs).
		Find(&products).Error
	return products, err
}

// AdjustProductStock shifts stock by delta and sold count by -delta as
// one SQL update, so concurrent orders never lose an increment.
func (s *store) AdjustProductStock(ctx context.Context, productID uint, delta int) error {
	return s.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", delta),
			"sold_count": gorm.Expr("sold_count - ?", delta),
		}).Error
}

func (s *store) AddVendorEarnings(ctx context.Context, vendorID uint, payout decimal.Decimal, orders int) error {
	return s.db.WithContext(ctx).
		Model(&domain.Vendor{}).
		Where("id = ?", vendorID).
		Updates(map[string]any{
			"total_revenue": gorm.Expr("total_revenue + ?", payout),
			"total_orders":  gorm.Expr("total_orders + ?", orders),
		}).Error
}
