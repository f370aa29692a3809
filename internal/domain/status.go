package domain

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// statusRank orders the fulfillment statuses by progress. CANCELLED is
// terminal and deliberately absent.
var statusRank = map[OrderStatus]int{
	StatusPending:    0,
	StatusConfirmed:  1,
	StatusProcessing: 2,
	StatusShipped:    3,
	StatusDelivered:  4,
}

// nextStatus holds the single legal successor for each vendor-driven
// item status. DELIVERED has none.
var nextStatus = map[OrderStatus]OrderStatus{
	StatusPending:    StatusConfirmed,
	StatusConfirmed:  StatusProcessing,
	StatusProcessing: StatusShipped,
	StatusShipped:    StatusDelivered,
}

func (s OrderStatus) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// Rank returns the progress rank of s, or -1 for CANCELLED and unknown
// values so they never win a minimum comparison by accident.
func (s OrderStatus) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return -1
}

// Next returns the single legal successor of s. ok is false for terminal
// statuses.
func (s OrderStatus) Next() (OrderStatus, bool) {
	n, ok := nextStatus[s]
	return n, ok
}

// LowestStatus derives the aggregate order status from its items: the
// minimum-rank status among non-cancelled items, i.e. the slowest vendor
// gates the whole order. Both the live transition path and the
// reconciliation sweep go through this one function.
func LowestStatus(statuses []OrderStatus) OrderStatus {
	lowest := OrderStatus("")
	for _, s := range statuses {
		if s == StatusCancelled {
			continue
		}
		if lowest == "" || s.Rank() < lowest.Rank() {
			lowest = s
		}
	}
	if lowest == "" {
		return StatusPending
	}
	return lowest
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

type VendorStatus string

const (
	VendorPending   VendorStatus = "PENDING"
	VendorActive    VendorStatus = "ACTIVE"
	VendorSuspended VendorStatus = "SUSPENDED"
	VendorRejected  VendorStatus = "REJECTED"
)
