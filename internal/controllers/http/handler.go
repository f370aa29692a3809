package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"marketplace/internal/domain"
	"marketplace/internal/services"
)

const orderCacheTTL = 10 * time.Second

type Handler struct {
	orders      *services.OrderService
	payments    *services.PaymentService
	fulfillment *services.FulfillmentService
	rdb         *redis.Client
	logger      zerolog.Logger
}

func NewHandler(orders *services.OrderService, payments *services.PaymentService, fulfillment *services.FulfillmentService, rdb *redis.Client, logger zerolog.Logger) *Handler {
	return &Handler{
		orders:      orders,
		payments:    payments,
		fulfillment: fulfillment,
		rdb:         rdb,
		logger:      logger,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// The webhook authenticates by signature, not caller identity.
	r.POST("/webhooks/payment", h.HandlePaymentWebhook)

	authed := r.Group("/", IdentityMiddleware())

	customer := authed.Group("/", RequireRole(RoleCustomer))
	customer.POST("/orders", h.CreateOrder)
	customer.GET("/orders/:id", h.GetOrder)
	customer.POST("/orders/:id/cancel", h.CancelOrder)
	customer.POST("/orders/:id/payment-intent", h.CreatePaymentIntent)
	customer.GET("/orders/:id/payment", h.GetPaymentStatus)

	vendor := authed.Group("/vendor", RequireRole(RoleVendor))
	vendor.GET("/items", h.ListVendorItems)
	vendor.PATCH("/items/:id/status", h.UpdateItemStatus)

	admin := authed.Group("/admin", RequireRole(RoleAdmin))
	admin.POST("/orders/resync", h.ResyncOrderStatuses)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines := make([]domain.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, domain.CartLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), identity(c).UserID, req.AddressID, lines, req.Notes)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}
	userID := identity(c).UserID

	ctx := c.Request.Context()
	cacheKey := orderCacheKey(orderID, userID)
	if cached, err := h.rdb.Get(ctx, cacheKey).Result(); err == nil {
		var order domain.Order
		if json.Unmarshal([]byte(cached), &order) == nil {
			c.JSON(http.StatusOK, order)
			return
		}
	}

	order, err := h.orders.GetOrderDetail(ctx, orderID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if data, err := json.Marshal(order); err == nil {
		h.rdb.Set(ctx, cacheKey, data, orderCacheTTL)
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}
	userID := identity(c).UserID

	order, err := h.orders.CancelOrder(c.Request.Context(), orderID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.rdb.Del(context.Background(), orderCacheKey(orderID, userID))
	c.JSON(http.StatusOK, order)
}

func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	intent, err := h.payments.CreatePaymentIntent(c.Request.Context(), orderID, identity(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, PaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	})
}

func (h *Handler) GetPaymentStatus(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	order, p, err := h.payments.GetPaymentStatus(c.Request.Context(), orderID, identity(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order, "payment": p})
}

// HandlePaymentWebhook accepts the processor's signed outcome delivery.
// A bad signature gets a 4xx so the processor stops retrying; anything
// the handler processed or deliberately ignored gets {received: true}.
func (h *Handler) HandlePaymentWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
		return
	}

	err = h.payments.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Payment-Signature"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *Handler) ListVendorItems(c *gin.Context) {
	var status *domain.OrderStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.OrderStatus(raw)
		if !s.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + raw})
			return
		}
		status = &s
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	items, err := h.fulfillment.ListVendorItems(c.Request.Context(), identity(c).VendorID, status, page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "page": page, "limit": limit})
}

func (h *Handler) UpdateItemStatus(c *gin.Context) {
	itemID, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	next := domain.OrderStatus(req.Status)
	if !next.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + req.Status})
		return
	}

	item, err := h.fulfillment.UpdateItemStatus(c.Request.Context(), itemID, identity(c).VendorID, next)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *Handler) ResyncOrderStatuses(c *gin.Context) {
	synced, err := h.fulfillment.ResyncOrderStatuses(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ResyncResponse{Synced: synced})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		stateErr      *domain.InvalidStateError
		transitionErr *domain.InvalidTransitionError
		authErr       *domain.AuthenticationError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &stateErr), errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func orderCacheKey(orderID, userID uint) string {
	return fmt.Sprintf("orders:detail:%d:%d", userID, orderID)
}
