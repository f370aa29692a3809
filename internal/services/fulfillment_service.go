package services

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
)

// resyncConcurrency bounds how many orders the reconciliation sweep
// recomputes in parallel.
const resyncConcurrency = 8

type FulfillmentService struct {
	store  repository.Store
	logger zerolog.Logger
}

func NewFulfillmentService(store repository.Store, logger zerolog.Logger) *FulfillmentService {
	return &FulfillmentService{store: store, logger: logger}
}

// UpdateItemStatus advances one vendor's item to the single legal next
// status and recomputes the parent order's aggregate status in the same
// transaction. The order row is locked before the recompute so a
// concurrent cancellation or webhook never interleaves a stale
// derivation.
func (s *FulfillmentService) UpdateItemStatus(ctx context.Context, itemID, vendorID uint, next domain.OrderStatus) (*domain.OrderItem, error) {
	var item *domain.OrderItem
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		item, err = tx.GetVendorItemForUpdate(ctx, itemID, vendorID)
		if err != nil {
			return err
		}
		if item == nil {
			return &domain.NotFoundError{Resource: "order item"}
		}

		legal, ok := item.Status.Next()
		if !ok || legal != next {
			return &domain.InvalidTransitionError{From: item.Status, To: next}
		}

		if err := tx.UpdateItemStatus(ctx, itemID, next); err != nil {
			return err
		}
		item.Status = next

		order, err := tx.GetOrderForUpdate(ctx, item.OrderID)
		if err != nil {
			return err
		}
		if order == nil || order.Status == domain.StatusCancelled {
			return nil
		}
		return s.recomputeOrderStatus(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ResyncOrderStatuses is the drift-repair sweep: it re-derives every
// non-cancelled order's aggregate status from its items and persists
// only actual changes. Each order is recomputed in its own locked
// transaction with the same derivation as the live path, so it is safe
// to run while vendors are updating items.
func (s *FulfillmentService) ResyncOrderStatuses(ctx context.Context) (int, error) {
	ids, err := s.store.ListActiveOrderIDs(ctx)
	if err != nil {
		return 0, err
	}

	var synced int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(resyncConcurrency)
	for _, id := range ids {
		orderID := id
		g.Go(func() error {
			return s.store.InTx(ctx, func(tx repository.Store) error {
				order, err := tx.GetOrderForUpdate(ctx, orderID)
				if err != nil {
					return err
				}
				if order == nil || order.Status == domain.StatusCancelled {
					return nil
				}
				changed, err := s.recomputeAndReport(ctx, tx, order)
				if err != nil {
					return err
				}
				if changed {
					atomic.AddInt64(&synced, 1)
				}
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return int(atomic.LoadInt64(&synced)), err
	}

	total := int(atomic.LoadInt64(&synced))
	s.logger.Info().Int("synced", total).Int("scanned", len(ids)).Msg("order status resync completed")
	return total, nil
}

func (s *FulfillmentService) ListVendorItems(ctx context.Context, vendorID uint, status *domain.OrderStatus, page, limit int) ([]domain.OrderItem, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.store.ListVendorItems(ctx, vendorID, status, limit, (page-1)*limit)
}

func (s *FulfillmentService) recomputeOrderStatus(ctx context.Context, tx repository.Store, order *domain.Order) error {
	_, err := s.recomputeAndReport(ctx, tx, order)
	return err
}

// recomputeAndReport applies the shared minimum-rank derivation to the
// order's current item statuses and persists the result when it differs
// from the stored value.
func (s *FulfillmentService) recomputeAndReport(ctx context.Context, tx repository.Store, order *domain.Order) (bool, error) {
	statuses, err := tx.ListItemStatuses(ctx, order.ID)
	if err != nil {
		return false, err
	}
	if len(statuses) == 0 {
		return false, nil
	}

	derived := domain.LowestStatus(statuses)
	if derived == order.Status {
		return false, nil
	}
	if err := tx.UpdateOrderStatus(ctx, order.ID, derived); err != nil {
		return false, err
	}
	order.Status = derived
	return true, nil
}
