package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prepnest/prepnest-backend/internal/middleware"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/response"
	"github.com/prepnest/prepnest-backend/internal/service"
	"github.com/prepnest/prepnest-backend/internal/validator"
)

// OrderHandler handles checkout and the manual QR payment endpoints.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Checkout godoc
// POST /api/v1/student/checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	result, err := h.orderService.Checkout(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrCartEmpty) {
			response.Fail(c, http.StatusBadRequest, response.ErrCartEmpty)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// ConfirmPayment godoc
// POST /api/v1/student/orders/:id/confirm
func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ConfirmPaymentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	order, err := h.orderService.ConfirmPayment(c.Request.Context(), orderID, claims.UserID, req.Confirmed)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotConfirmed):
			response.Fail(c, http.StatusBadRequest, response.ErrPaymentUnchecked)
		case errors.Is(err, service.ErrOrderNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrOrderNotPending):
			response.Fail(c, http.StatusConflict, response.ErrOrderNotPending)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"order": order})
}

// CancelOrder godoc
// POST /api/v1/student/orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.orderService.Cancel(c.Request.Context(), orderID, claims.UserID); err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrOrderNotPending):
			response.Fail(c, http.StatusConflict, response.ErrOrderNotPending)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "order cancelled"})
}

// ListMyOrders godoc
// GET /api/v1/student/orders
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	orders, err := h.orderService.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"orders": orders})
}

// GetOrder godoc
// GET /api/v1/student/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	detail, payment, err := h.orderService.GetDetail(c.Request.Context(), orderID, claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	data := gin.H{"order": detail.Order, "items": detail.Items}
	if payment != nil {
		data["payment"] = payment
	}
	response.Success(c, http.StatusOK, data)
}

// ─── Admin ──────────────────────────────────────────────────────────

// ListPendingVerification godoc
// GET /api/v1/admin/orders/pending
func (h *OrderHandler) ListPendingVerification(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}

	orders, total, err := h.orderService.ListForVerification(c.Request.Context(), perPage, (page-1)*perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"orders": orders}, buildPagination(page, perPage, total))
}

// VerifyOrder godoc
// POST /api/v1/admin/orders/:id/verify
func (h *OrderHandler) VerifyOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.VerifyOrderRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	order, err := h.orderService.Verify(c.Request.Context(), orderID, req.Approve)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotPending) {
			response.Fail(c, http.StatusConflict, response.ErrOrderNotPending)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"order": order})
}
