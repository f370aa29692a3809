package http

type CartLineRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	AddressID uint              `json:"addressId" binding:"required"`
	Items     []CartLineRequest `json:"items" binding:"required,dive"`
	Notes     string            `json:"notes"`
}

type UpdateItemStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type PaymentIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

type ResyncResponse struct {
	Synced int `json:"synced"`
}
