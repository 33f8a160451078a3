package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rscollections/storefront/middleware"
	"github.com/rscollections/storefront/models"
	"github.com/rscollections/storefront/pkg/apperrors"
	"github.com/rscollections/storefront/services"
)

type CartController struct {
	cart *services.CartService
}

func NewCartController(cart *services.CartService) *CartController {
	return &CartController{cart: cart}
}

// GetCart returns the session cart with its badge count and subtotal.
func (cc *CartController) GetCart(c *gin.Context) {
	sess := middleware.FromContext(c)
	cart, err := cc.cart.Get(c.Request.Context(), sess)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cart":  cart,
		"count": cart.Count(),
		"total": cart.Total(),
	})
}

type addItemRequest struct {
	Product      models.Product `json:"product" binding:"required"`
	Quantity     int            `json:"quantity"`
	SelectedSize string         `json:"selectedSize"`
}

// AddItem adds a product to the cart, merging into an existing line. For
// guests the item is parked and the response carries the login contract.
func (cc *CartController) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleError(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}
	if req.Product.ID == "" {
		apperrors.HandleError(c, apperrors.ErrBadRequest)
		return
	}

	sess := middleware.FromContext(c)
	cart, err := cc.cart.AddItem(c.Request.Context(), sess, req.Product, req.Quantity, req.SelectedSize)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "count": cart.Count(), "total": cart.Total()})
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantity overwrites a line's quantity.
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleError(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	sess := middleware.FromContext(c)
	cart, err := cc.cart.SetQuantity(c.Request.Context(), sess, c.Param("product_id"), req.Quantity)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "count": cart.Count(), "total": cart.Total()})
}

// RemoveItem drops a line from the cart.
func (cc *CartController) RemoveItem(c *gin.Context) {
	sess := middleware.FromContext(c)
	cart, err := cc.cart.RemoveItem(c.Request.Context(), sess, c.Param("product_id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "count": cart.Count(), "total": cart.Total()})
}

// ClearCart empties the cart.
func (cc *CartController) ClearCart(c *gin.Context) {
	sess := middleware.FromContext(c)
	if err := cc.cart.Clear(c.Request.Context(), sess); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}
