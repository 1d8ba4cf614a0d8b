package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/erenulutas0/doranV5-sub000/internal/entity"
	"github.com/erenulutas0/doranV5-sub000/internal/logging"
	"github.com/erenulutas0/doranV5-sub000/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	create *usecase.CreateOrder
	status *usecase.UpdateOrderStatus
	update *usecase.UpdateOrder
	query  usecase.OrderRepo
	cache  usecase.StatusCache
}

func NewOrderHandler(create *usecase.CreateOrder, status *usecase.UpdateOrderStatus, update *usecase.UpdateOrder, query usecase.OrderRepo, cache usecase.StatusCache) *OrderHandler {
	return &OrderHandler{create: create, status: status, update: update, query: query, cache: cache}
}

type orderItemReq struct {
	ProductID string           `json:"productId" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,gte=1"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}

type createOrderReq struct {
	UserID          string         `json:"userId" binding:"required"`
	AddressID       string         `json:"addressId"`
	ShippingAddress string         `json:"shippingAddress"`
	City            string         `json:"city"`
	ZipCode         string         `json:"zipCode"`
	PhoneNumber     string         `json:"phoneNumber"`
	Notes           string         `json:"notes"`
	Items           []orderItemReq `json:"items"`
}

// POST /v1/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "detail": err.Error()})
		return
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	in := usecase.CreateOrderInput{
		UserID:          req.UserID,
		AddressID:       req.AddressID,
		ShippingAddress: req.ShippingAddress,
		City:            req.City,
		ZipCode:         req.ZipCode,
		PhoneNumber:     req.PhoneNumber,
		Notes:           req.Notes,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, usecase.CreateOrderItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	order, err := h.create.Execute(ctx, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GET /v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	ctx, cancel := h.opCtx(c)
	defer cancel()

	order, err := h.query.GetByID(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// GET /v1/orders/:id/status reads the cache first and falls back to the repo.
func (h *OrderHandler) GetOrderStatus(c *gin.Context) {
	ctx, cancel := h.opCtx(c)
	defer cancel()

	id := c.Param("id")
	if h.cache != nil {
		if status, ok, err := h.cache.GetStatus(ctx, id); err == nil && ok {
			c.JSON(http.StatusOK, gin.H{"orderId": id, "status": status})
			return
		}
	}

	order, err := h.query.GetByID(ctx, id)
	if err != nil || order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderId": id, "status": order.Status})
}

// GET /v1/orders?userId=...&status=...
func (h *OrderHandler) ListOrders(c *gin.Context) {
	ctx, cancel := h.opCtx(c)
	defer cancel()

	if userID := c.Query("userId"); userID != "" {
		orders, err := h.query.ListByUser(ctx, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
		return
	}
	if raw := c.Query("status"); raw != "" {
		status, ok := entity.ParseStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_status", "detail": raw})
			return
		}
		orders, err := h.query.ListByStatus(ctx, status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "userId or status query required"})
}

type updateStatusReq struct {
	Status string `json:"status" binding:"required"`
}

// PATCH /v1/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "detail": err.Error()})
		return
	}
	target, ok := entity.ParseStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_status", "detail": req.Status})
		return
	}
	h.transition(c, target)
}

// PATCH /v1/orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	h.transition(c, entity.StatusCancelled)
}

func (h *OrderHandler) transition(c *gin.Context, target entity.Status) {
	ctx, cancel := h.opCtx(c)
	defer cancel()

	order, err := h.status.Execute(ctx, c.Param("id"), target)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type updateOrderReq struct {
	ShippingAddress string         `json:"shippingAddress"`
	City            string         `json:"city"`
	ZipCode         string         `json:"zipCode"`
	PhoneNumber     string         `json:"phoneNumber"`
	Notes           string         `json:"notes"`
	Items           []orderItemReq `json:"items"`
}

// PATCH /v1/orders/:id, allowed only while the order is still PENDING.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req updateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "detail": err.Error()})
		return
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	in := usecase.UpdateOrderInput{
		ShippingAddress: req.ShippingAddress,
		City:            req.City,
		ZipCode:         req.ZipCode,
		PhoneNumber:     req.PhoneNumber,
		Notes:           req.Notes,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, usecase.CreateOrderItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	order, err := h.update.Execute(ctx, c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) opCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	ctx := logging.WithCtx(c.Request.Context(), logging.From(c))
	return context.WithTimeout(ctx, 10*time.Second)
}

// writeError maps the domain error taxonomy onto HTTP statuses. Stock and
// transition conflicts carry structured detail for the client to act on.
func writeError(c *gin.Context, err error) {
	var stockErr *usecase.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "insufficient_stock",
			"productId": stockErr.ProductID,
			"requested": stockErr.Requested,
			"available": stockErr.Available,
		})
	case errors.Is(err, usecase.ErrUserNotFound),
		errors.Is(err, usecase.ErrProductNotFound),
		errors.Is(err, usecase.ErrInventoryNotFound),
		errors.Is(err, usecase.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "detail": err.Error()})
	case errors.Is(err, entity.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty_order", "detail": err.Error()})
	case errors.Is(err, entity.ErrInvalidTransition),
		errors.Is(err, entity.ErrAlreadyCancelled),
		errors.Is(err, entity.ErrNotEditable):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict", "detail": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
