package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prepnest/prepnest-backend/internal/middleware"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/response"
	"github.com/prepnest/prepnest-backend/internal/service"
	"github.com/prepnest/prepnest-backend/internal/validator"
)

// CartHandler handles the student cart endpoints.
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GetCart godoc
// GET /api/v1/student/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	summary, err := h.cartService.Summary(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cart": summary})
}

// AddToCart godoc
// POST /api/v1/student/cart
func (h *CartHandler) AddToCart(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.AddToCartRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	summary, err := h.cartService.Add(c.Request.Context(), claims.UserID, req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrAlreadyInCart):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyInCart)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cart": summary})
}

// RemoveFromCart godoc
// DELETE /api/v1/student/cart/:course_id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	courseID, err := strconv.Atoi(c.Param("course_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	summary, err := h.cartService.Remove(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cart": summary})
}

// ClearCart godoc
// DELETE /api/v1/student/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), claims.UserID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "cart cleared"})
}
