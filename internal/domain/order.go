package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID          uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderNumber string          `json:"orderNumber" gorm:"not null;uniqueIndex;type:varchar(32)"`
	UserID      uint            `json:"userId" gorm:"not null;index"`
	AddressID   uint            `json:"addressId" gorm:"not null"`
	Subtotal    decimal.Decimal `json:"subtotal" gorm:"not null;type:decimal(10,2)"`
	TotalAmount decimal.Decimal `json:"totalAmount" gorm:"not null;type:decimal(10,2)"`
	Notes       string          `json:"notes,omitempty" gorm:"type:text"`
	Status      OrderStatus     `json:"status" gorm:"not null;type:varchar(16);default:'PENDING';index"`
	Items       []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payment     *Payment        `json:"payment,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

// CanCancel reports whether the order is still in its cancellation
// window, i.e. before substantive fulfillment begins.
func (o *Order) CanCancel() bool {
	return o.Status == StatusPending || o.Status == StatusConfirmed
}

// ItemStatuses collects the statuses of the order's items for the
// aggregate derivation.
func (o *Order) ItemStatuses() []OrderStatus {
	statuses := make([]OrderStatus, 0, len(o.Items))
	for _, item := range o.Items {
		statuses = append(statuses, item.Status)
	}
	return statuses
}

// OrderItem is one vendor's line in an order and the unit a vendor can
// independently advance through fulfillment. Product name, image and unit
// price are snapshotted at order time so later catalog edits never change
// an existing order; VendorPayout is frozen at the commission rate in
// effect when the order was placed.
type OrderItem struct {
	ID           uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID      uint            `json:"orderId" gorm:"not null;index"`
	VendorID     uint            `json:"vendorId" gorm:"not null;index"`
	ProductID    uint            `json:"productId" gorm:"not null;index"`
	ProductName  string          `json:"productName" gorm:"not null;type:varchar(255)"`
	ProductImage string          `json:"productImage,omitempty" gorm:"type:varchar(512)"`
	Quantity     int             `json:"quantity" gorm:"not null"`
	UnitPrice    decimal.Decimal `json:"unitPrice" gorm:"not null;type:decimal(10,2)"`
	TotalPrice   decimal.Decimal `json:"totalPrice" gorm:"not null;type:decimal(10,2)"`
	VendorPayout decimal.Decimal `json:"vendorPayout" gorm:"not null;type:decimal(10,2)"`
	Status       OrderStatus     `json:"status" gorm:"not null;type:varchar(16);default:'PENDING';index"`
	CreatedAt    time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

// CartLine is one (product, quantity) pair of an incoming checkout.
type CartLine struct {
	ProductID uint
	Quantity  int
}
