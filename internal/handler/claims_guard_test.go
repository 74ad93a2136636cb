package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Student-scoped handlers must refuse requests that reach them without
// claims in the context, even though routing normally guarantees them.
func TestHandlers_RejectMissingClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		handler gin.HandlerFunc
	}{
		{"cart get", NewCartHandler(nil).GetCart},
		{"cart add", NewCartHandler(nil).AddToCart},
		{"checkout", NewOrderHandler(nil).Checkout},
		{"order list", NewOrderHandler(nil).ListMyOrders},
		{"attempt start", NewInterviewHandler(nil).StartAttempt},
		{"attempt state", NewInterviewHandler(nil).GetState},
		{"attempt history", NewInterviewHandler(nil).History},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			tc.handler(c)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
