package services

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"marketplace/internal/domain"
	"marketplace/internal/infra/payment"
	rabbit "marketplace/internal/infra/rabbitmq"
	"marketplace/internal/repository"
)

type PaymentService struct {
	store         repository.Store
	client        payment.ClientInterface
	publisher     rabbit.PublisherInterface
	webhookSecret string
	currency      string
	logger        zerolog.Logger
}

func NewPaymentService(store repository.Store, client payment.ClientInterface, publisher rabbit.PublisherInterface, webhookSecret, currency string, logger zerolog.Logger) *PaymentService {
	return &PaymentService{
		store:         store,
		client:        client,
		publisher:     publisher,
		webhookSecret: webhookSecret,
		currency:      currency,
		logger:        logger,
	}
}

// CreatePaymentIntent creates or retrieves the processor intent for an
// unpaid order. A live pending intent is returned unchanged so client
// retries never double-charge; otherwise a fresh intent for the order
// total in minor units is created and recorded as a PENDING payment.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, orderID, userID uint) (*payment.Intent, error) {
	order, err := s.store.GetUserOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &domain.NotFoundError{Resource: "order"}
	}
	if order.Status != domain.StatusPending {
		return nil, &domain.InvalidStateError{Operation: "pay", Status: order.Status}
	}

	existing, err := s.store.GetPaymentByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.PaymentIntentID != "" && existing.Status == domain.PaymentPending {
		return s.client.GetIntent(ctx, existing.PaymentIntentID)
	}

	intent, err := s.client.CreateIntent(ctx, payment.IntentRequest{
		AmountMinor: minorUnits(order.TotalAmount),
		Currency:    s.currency,
		Metadata: map[string]string{
			"orderId": strconv.FormatUint(uint64(orderID), 10),
			"userId":  strconv.FormatUint(uint64(userID), 10),
		},
	})
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.PaymentIntentID = intent.ID
		existing.Status = domain.PaymentPending
		existing.FailureReason = ""
		if err := s.store.UpdatePayment(ctx, existing); err != nil {
			return nil, err
		}
	} else {
		if err := s.store.CreatePayment(ctx, &domain.Payment{
			OrderID:         orderID,
			Amount:          order.TotalAmount,
			PaymentIntentID: intent.ID,
			Status:          domain.PaymentPending,
		}); err != nil {
			return nil, err
		}
	}

	return intent, nil
}

// HandleWebhook processes a signed payment-outcome delivery. The
// processor delivers at least once, so every branch converges on current
// state: a replayed success for an already PAID payment is a no-op, and
// event types this system doesn't model are acknowledged untouched.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if err := payment.VerifySignature(payload, signature, s.webhookSecret); err != nil {
		s.logger.Warn().Err(err).Msg("webhook signature verification failed")
		return &domain.AuthenticationError{Reason: "webhook signature verification failed: " + err.Error()}
	}

	evt, err := payment.ParseEvent(payload)
	if err != nil {
		s.logger.Warn().Err(err).Msg("webhook payload parse failed")
		return domain.NewValidationError("malformed webhook payload: %s", err.Error())
	}

	switch evt.Type {
	case payment.EventIntentSucceeded:
		return s.handleIntentSucceeded(ctx, evt)
	case payment.EventIntentFailed:
		return s.handleIntentFailed(ctx, evt)
	default:
		s.logger.Debug().Str("type", evt.Type).Msg("ignoring unhandled webhook event")
		return nil
	}
}

func (s *PaymentService) handleIntentSucceeded(ctx context.Context, evt *payment.Event) error {
	var confirmed *domain.Order
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		p, err := tx.GetPaymentByIntentIDForUpdate(ctx, evt.PaymentIntentID)
		if err != nil {
			return err
		}
		if p == nil {
			s.logger.Warn().Str("intent_id", evt.PaymentIntentID).Msg("webhook for unknown payment intent")
			return nil
		}
		if p.Status == domain.PaymentPaid {
			// Redelivery of an already-settled intent.
			return nil
		}

		locked, err := tx.GetOrderForUpdate(ctx, p.OrderID)
		if err != nil {
			return err
		}
		if locked == nil {
			s.logger.Warn().Uint("order_id", p.OrderID).Msg("payment settled for missing order")
			return nil
		}

		p.Status = domain.PaymentPaid
		p.ChargeID = evt.ChargeID
		p.FailureReason = ""
		if err := tx.UpdatePayment(ctx, p); err != nil {
			return err
		}

		if locked.Status == domain.StatusCancelled {
			// The customer cancelled while the charge was in flight.
			// Record the settlement but leave the cancelled order, its
			// items and the vendor counters alone.
			s.logger.Warn().
				Uint("order_id", p.OrderID).
				Str("intent_id", p.PaymentIntentID).
				Msg("payment settled for cancelled order")
			return nil
		}

		if err := tx.UpdateOrderStatus(ctx, p.OrderID, domain.StatusConfirmed); err != nil {
			return err
		}
		if err := tx.UpdateOrderItemStatuses(ctx, p.OrderID, domain.StatusConfirmed); err != nil {
			return err
		}

		order, err := tx.GetOrderByID(ctx, p.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return &domain.NotFoundError{Resource: "order"}
		}

		for vendorID, payout := range payoutsByVendor(order.Items) {
			if err := tx.AddVendorEarnings(ctx, vendorID, payout, 1); err != nil {
				return err
			}
		}

		order.Status = domain.StatusConfirmed
		confirmed = order
		return nil
	})
	if err != nil {
		return err
	}

	if confirmed != nil {
		go s.publish(domain.PaymentSuccessEvent(confirmed))
	}
	return nil
}

func (s *PaymentService) handleIntentFailed(ctx context.Context, evt *payment.Event) error {
	return s.store.InTx(ctx, func(tx repository.Store) error {
		p, err := tx.GetPaymentByIntentIDForUpdate(ctx, evt.PaymentIntentID)
		if err != nil {
			return err
		}
		if p == nil || p.Status != domain.PaymentPending {
			// Unknown intent, or a failure arriving after settlement.
			return nil
		}

		p.Status = domain.PaymentFailed
		p.FailureReason = evt.FailureMessage
		// The order stays PENDING so the customer can retry payment.
		return tx.UpdatePayment(ctx, p)
	})
}

func (s *PaymentService) GetPaymentStatus(ctx context.Context, orderID, userID uint) (*domain.Order, *domain.Payment, error) {
	order, err := s.store.GetUserOrder(ctx, orderID, userID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, &domain.NotFoundError{Resource: "order"}
	}
	p, err := s.store.GetPaymentByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, p, nil
}

func (s *PaymentService) publish(evt domain.NotificationEvent) {
	if err := s.publisher.Publish(context.Background(), notificationPattern(evt), evt); err != nil {
		s.logger.Error().Err(err).Str("type", evt.Type).Msg("failed to publish notification")
	}
}

// payoutsByVendor sums item payouts per vendor so each vendor's revenue
// counter is bumped once per order regardless of how many lines it has.
func payoutsByVendor(items []domain.OrderItem) map[uint]decimal.Decimal {
	payouts := make(map[uint]decimal.Decimal)
	for _, item := range items {
		payouts[item.VendorID] = payouts[item.VendorID].Add(item.VendorPayout)
	}
	return payouts
}

// minorUnits converts a currency amount to the processor's integer
// minor-unit representation, e.g. 12.34 -> 1234.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
