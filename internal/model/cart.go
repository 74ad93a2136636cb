package model

import "time"

// CartItem is a course placed in a student's cart.
type CartItem struct {
	CourseID   int       `json:"course_id"`
	Title      string    `json:"title"`
	PricePaise int64     `json:"price_paise"`
	AddedAt    time.Time `json:"added_at"`
}

// CartSummary is the priced view of a cart, including any bundle discount.
type CartSummary struct {
	Items           []CartItem `json:"items"`
	SubtotalPaise   int64      `json:"subtotal_paise"`
	DiscountPercent int        `json:"discount_percent"`
	DiscountPaise   int64      `json:"discount_paise"`
	TotalPaise      int64      `json:"total_paise"`
}

// AddToCartRequest is the payload for adding a course to the cart.
type AddToCartRequest struct {
	CourseID int `json:"course_id" binding:"required"`
}
