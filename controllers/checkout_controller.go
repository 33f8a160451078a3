package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rscollections/storefront/middleware"
	"github.com/rscollections/storefront/models"
	"github.com/rscollections/storefront/pkg/apperrors"
	"github.com/rscollections/storefront/services"
)

type CheckoutController struct {
	checkout *services.CheckoutService
}

func NewCheckoutController(checkout *services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkout: checkout}
}

type startCheckoutRequest struct {
	Address       models.Address `json:"address"`
	PaymentMethod string         `json:"paymentMethod"`
}

// Start validates the shipping address and opens the payment step, or places
// the order directly for cash on delivery.
func (cc *CheckoutController) Start(c *gin.Context) {
	var req startCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleError(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	sess := middleware.FromContext(c)
	result, err := cc.checkout.Start(c.Request.Context(), sess, req.Address, req.PaymentMethod)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type confirmCheckoutRequest struct {
	PaymentReference string `json:"paymentReference"`
}

// Confirm finalizes a card checkout after the payment settled.
func (cc *CheckoutController) Confirm(c *gin.Context) {
	var req confirmCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleError(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	sess := middleware.FromContext(c)
	result, err := cc.checkout.Confirm(c.Request.Context(), sess, req.PaymentReference)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Cancel abandons a pending card checkout.
func (cc *CheckoutController) Cancel(c *gin.Context) {
	sess := middleware.FromContext(c)
	if err := cc.checkout.Cancel(c.Request.Context(), sess); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "checkout cancelled"})
}
