package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is the 1:1 record of an order's external payment intent. It is
// created on the first intent request and mutated only by the
// asynchronous payment-outcome webhook.
type Payment struct {
	ID              uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID         uint            `json:"orderId" gorm:"not null;uniqueIndex"`
	Amount          decimal.Decimal `json:"amount" gorm:"not null;type:decimal(10,2)"`
	PaymentIntentID string          `json:"paymentIntentId" gorm:"not null;uniqueIndex;type:varchar(64)"`
	ChargeID        string          `json:"chargeId,omitempty" gorm:"type:varchar(64)"`
	Status          PaymentStatus   `json:"status" gorm:"not null;type:varchar(16);default:'PENDING'"`
	FailureReason   string          `json:"failureReason,omitempty" gorm:"type:varchar(255)"`
	CreatedAt       time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}
