package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog collaborator's read model. The order core only
// ever writes Stock and SoldCount; everything else belongs to catalog
// management.
type Product struct {
	ID        uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	VendorID  uint            `json:"vendorId" gorm:"not null;index"`
	Vendor    Vendor          `json:"-"`
	Name      string          `json:"name" gorm:"not null;type:varchar(255)"`
	ImageURL  string          `json:"imageUrl,omitempty" gorm:"type:varchar(512)"`
	Price     decimal.Decimal `json:"price" gorm:"not null;type:decimal(10,2)"`
	Stock     int             `json:"stock" gorm:"not null"`
	SoldCount int             `json:"soldCount" gorm:"not null;default:0"`
	IsActive  bool            `json:"isActive" gorm:"not null;default:true"`
	CreatedAt time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

// Vendor is an external aggregate mutated here only as a payment side
// effect: TotalRevenue and TotalOrders are incremented exactly once per
// paid order. CommissionRate is a percentage and gets snapshotted into
// each order item so later changes never alter historical payouts.
type Vendor struct {
	ID             uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID         uint            `json:"userId" gorm:"not null;uniqueIndex"`
	StoreName      string          `json:"storeName" gorm:"not null;type:varchar(255)"`
	Status         VendorStatus    `json:"status" gorm:"not null;type:varchar(16);default:'PENDING';index"`
	CommissionRate decimal.Decimal `json:"commissionRate" gorm:"not null;type:decimal(5,2)"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue" gorm:"not null;type:decimal(12,2);default:0"`
	TotalOrders    int             `json:"totalOrders" gorm:"not null;default:0"`
	CreatedAt      time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

type Address struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"userId" gorm:"not null;index"`
	Line1     string    `json:"line1" gorm:"not null;type:varchar(255)"`
	City      string    `json:"city" gorm:"not null;type:varchar(100)"`
	Country   string    `json:"country" gorm:"not null;type:varchar(100)"`
	ZipCode   string    `json:"zipCode" gorm:"type:varchar(20)"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
