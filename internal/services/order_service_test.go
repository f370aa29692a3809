package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"marketplace/internal/domain"
	"marketplace/internal/mocks"
)

func activeProduct(id, vendorID uint, name string, price string, stock int, commission string) domain.Product {
	return domain.Product{
		ID:       id,
		VendorID: vendorID,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
		Vendor: domain.Vendor{
			ID:             vendorID,
			Status:         domain.VendorActive,
			CommissionRate: decimal.RequireFromString(commission),
		},
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	userID := uint(7)
	addressID := uint(3)
	address := &domain.Address{ID: addressID, UserID: userID}

	tests := []struct {
		name          string
		lines         []domain.CartLine
		setupMocks    func(mockStore *mocks.MockStore, mockPub *mocks.MockPublisher)
		expectedError string
		check         func(t *testing.T, order *domain.Order)
	}{
		{
			name: "two items from two vendors",
			lines: []domain.CartLine{
				{ProductID: 1, Quantity: 2},
				{ProductID: 2, Quantity: 1},
			},
			setupMocks: func(mockStore *mocks.MockStore, mockPub *mocks.MockPublisher) {
				mockStore.On("InTx", mock.Anything, mock.Anything).Return(nil)
				mockStore.On("GetUserAddress", mock.Anything, addressID, userID).Return(address, nil)
				mockStore.On("GetProductsForUpdate", mock.Anything, []uint{1, 2}).Return([]domain.Product{
					activeProduct(1, 10, "Walnut Desk", "10.00", 5, "10"),
					activeProduct(2, 20, "Brass Lamp", "5.50", 3, "20"),
				}, nil)
				mockStore.On("CreateOrder", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.Order).ID = 1
				})
				mockStore.On("AdjustProductStock", mock.Anything, uint(1), -2).Return(nil)
				mockStore.On("AdjustProductStock", mock.Anything, uint(2), -1).Return(nil)
				mockPub.On("Publish", mock.Anything, "notification.order_placed", mock.Anything).Return(nil).Maybe()
			},
			check: func(t *testing.T, order *domain.Order) {
				assert.Equal(t, domain.StatusPending, order.Status)
				assert.Len(t, order.Items, 2)
				assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("25.50")))
				assert.True(t, order.TotalAmount.Equal(order.Subtotal))
				assert.Regexp(t, `^ORD-\d{8}-[A-Z0-9]{4}$`, order.OrderNumber)

				assert.Equal(t, domain.StatusPending, order.Items[0].Status)
				assert.True(t, order.Items[0].TotalPrice.Equal(decimal.RequireFromString("20.00")))
				assert.True(t, order.Items[0].VendorPayout.Equal(decimal.RequireFromString("18.00")))
				assert.Equal(t, "Walnut Desk", order.Items[0].ProductName)

				assert.True(t, order.Items[1].TotalPrice.Equal(decimal.RequireFromString("5.50")))
				assert.True(t, order.Items[1].VendorPayout.Equal(decimal.RequireFromString("4.40")))
			},
		},
		{
			name:          "empty cart",
			lines:         nil,
			setupMocks:    func(mockStore *mocks.MockStore, mockPub *mocks.MockPublisher) {},
			expectedError: "cart is empty",
		},
		{
			name:          "non-positive quantity",
			lines:         []domain.CartLine{{ProductID: 1, Quantity: 0}},
			setupMocks:    func(mockStore *mocks.MockStore, mockPub *mocks.MockPublisher) {},
			expectedError: "quantity must be positive",
		},
		{
			name:  "address does not belong to caller",
			lines: []domain.CartLine{{ProductID: 1, Quantity: 1}},
			setupMocks: func(mockStore *mocks.MockStore, mockPub *mocks.MockPublisher) {
				mockStore.On("InTx", mock.Anything, mock.Anything).Return(nil)
				mockStore.On("GetUserAddress", mock.Anything, addressID, userID).Return(nil, nil)
			},
			expectedError: "shipping address not found",
		},
		{
			name:  "unknown product",
			lines: []domain.CartLine{{ProductID: 99, Quantity: 1}},
			setupMocks: func(mockStore *mocks.MockStore, mockPub *mocks.MockPublisher) {
				mockStore.On("InTx", mock.Anything, mock.Anything).Return(nil)
				mockStore.On("GetUserAddress", mock.Anything, addressID, userID).Return(address, nil)
				mockStore.On("GetProductsForUpdate", mock.Anything, []uint{99}).Return([]domain.Product{}, nil)
			},
			expectedError: "one or more products not found",
		},
		{
			name:  "inactive product",
			lines: []domain.CartLine{{ProductID: 1, Quantity: 1}},
			setupMocks: func(mockStore *mocks.MockStore, mockPub *mocks.MockPublisher) {
				inactive := activeProduct(1, 10, "Walnut Desk", "10.00", 5, "10")
				inactive.IsActive = false
				mockStore.On("InTx", mock.Anything, mock.Anything).Return(nil)
				mockStore.On("GetUserAddress", mock.Anything, addressID, userID).Return(address, nil)
				mockStore.On("GetProductsForUpdate", mock.Anything, []uint{1}).Return([]domain.Product{inactive}, nil)
			},
			expectedError: `"Walnut Desk" is no longer available`,
		},
		{
			name:  "suspended vendor",
			lines: []domain.CartLine{{ProductID: 1, Quantity: 1}},
			setupMocks: func(mockStore *mocks.MockStore, mockPub *mocks.MockPublisher) {
				suspended := activeProduct(1, 10, "Walnut Desk", "10.00", 5, "10")
				suspended.Vendor.Status = domain.VendorSuspended
				mockStore.On("InTx", mock.Anything, mock.Anything).Return(nil)
				mockStore.On("GetUserAddress", mock.Anything, addressID, userID).Return(address, nil)
				mockStore.On("GetProductsForUpdate", mock.Anything, []uint{1}).Return([]domain.Product{suspended}, nil)
			},
			expectedError: `"Walnut Desk" vendor is currently unavailable`,
		},
		{
			name:  "insufficient stock",
			lines: []domain.CartLine{{ProductID: 1, Quantity: 10}},
			setupMocks: func(mockStore *mocks.MockStore, mockPub *mocks.MockPublisher) {
				mockStore.On("InTx", mock.Anything, mock.Anything).Return(nil)
				mockStore.On("GetUserAddress", mock.Anything, addressID, userID).Return(address, nil)
				mockStore.On("GetProductsForUpdate", mock.Anything, []uint{1}).Return([]domain.Product{
					activeProduct(1, 10, "Walnut Desk", "10.00", 3, "10"),
				}, nil)
			},
			expectedError: `only 3 units of "Walnut Desk" available`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(mocks.MockStore)
			mockPub := new(mocks.MockPublisher)
			tt.setupMocks(mockStore, mockPub)

			service := NewOrderService(mockStore, mockPub, zerolog.Nop())
			order, err := service.CreateOrder(context.Background(), userID, addressID, tt.lines, "")

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, order)

				var validationErr *domain.ValidationError
				assert.ErrorAs(t, err, &validationErr)
				mockStore.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
				mockStore.AssertNotCalled(t, "AdjustProductStock", mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, order)
				tt.check(t, order)
				time.Sleep(50 * time.Millisecond)
			}

			mockStore.AssertExpectations(t)
			mockPub.AssertExpectations(t)
		})
	}
}

func TestOrderService_CancelOrder(t *testing.T) {
	userID := uint(7)

	pendingOrder := func() *domain.Order {
		return &domain.Order{
			ID:          1,
			OrderNumber: "ORD-20260901-AB12",
			UserID:      userID,
			Status:      domain.StatusPending,
			Items: []domain.OrderItem{
				{ID: 11, OrderID: 1, ProductID: 1, Quantity: 2, Status: domain.StatusPending},
				{ID: 12, OrderID: 1, ProductID: 2, Quantity: 1, Status: domain.StatusPending},
			},
		}
	}

	tests := []struct {
		name          string
		setupMocks    func(mockStore *mocks.MockStore, mockPub *mocks.MockPublisher)
		expectedError error
	}{
		{
			name: "restores stock and cancels",
			setupMocks: func(mockStore *mocks.MockStore, mockPub *mocks.MockPublisher) {
				mockStore.On("InTx", mock.Anything, mock.Anything).Return(nil)
				mockStore.On("GetUserOrderForUpdate", mock.Anything, uint(1), userID).Return(pendingOrder(), nil)
				mockStore.On("AdjustProductStock", mock.Anything, uint(1), 2).Return(nil)
				mockStore.On("AdjustProductStock", mock.Anything, uint(2), 1).Return(nil)
				mockStore.On("UpdateOrderStatus", mock.Anything, uint(1), domain.StatusCancelled).Return(nil)
				mockPub.On("Publish", mock.Anything, "notification.order_cancelled", mock.Anything).Return(nil).Maybe()
			},
		},
		{
			name: "order not found",
			setupMocks: func(mockStore *mocks.MockStore, mockPub *mocks.MockPublisher) {
				mockStore.On("InTx", mock.Anything, mock.Anything).Return(nil)
				mockStore.On("GetUserOrderForUpdate", mock.Anything, uint(1), userID).Return(nil, nil)
			},
			expectedError: &domain.NotFoundError{Resource: "order"},
		},
		{
			name: "shipped order cannot be cancelled",
			setupMocks: func(mockStore *mocks.MockStore, mockPub *mocks.MockPublisher) {
				shipped := pendingOrder()
				shipped.Status = domain.StatusShipped
				mockStore.On("InTx", mock.Anything, mock.Anything).Return(nil)
				mockStore.On("GetUserOrderForUpdate", mock.Anything, uint(1), userID).Return(shipped, nil)
			},
			expectedError: &domain.InvalidStateError{Operation: "cancel", Status: domain.StatusShipped},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(mocks.MockStore)
			mockPub := new(mocks.MockPublisher)
			tt.setupMocks(mockStore, mockPub)

			service := NewOrderService(mockStore, mockPub, zerolog.Nop())
			order, err := service.CancelOrder(context.Background(), 1, userID)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, order)
				mockStore.AssertNotCalled(t, "AdjustProductStock", mock.Anything, mock.Anything, mock.Anything)
				mockStore.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, domain.StatusCancelled, order.Status)
				time.Sleep(50 * time.Millisecond)
			}

			mockStore.AssertExpectations(t)
		})
	}
}

func TestOrderService_GetOrderDetail(t *testing.T) {
	mockStore := new(mocks.MockStore)
	mockPub := new(mocks.MockPublisher)

	mockStore.On("GetUserOrder", mock.Anything, uint(1), uint(7)).Return(&domain.Order{ID: 1, UserID: 7}, nil)
	mockStore.On("GetUserOrder", mock.Anything, uint(2), uint(7)).Return(nil, nil)

	service := NewOrderService(mockStore, mockPub, zerolog.Nop())

	order, err := service.GetOrderDetail(context.Background(), 1, 7)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), order.ID)

	_, err = service.GetOrderDetail(context.Background(), 2, 7)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	mockStore.AssertExpectations(t)
}
