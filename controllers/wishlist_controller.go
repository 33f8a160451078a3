package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rscollections/storefront/middleware"
	"github.com/rscollections/storefront/models"
	"github.com/rscollections/storefront/pkg/apperrors"
	"github.com/rscollections/storefront/services"
)

type WishlistController struct {
	wishlist *services.WishlistService
}

func NewWishlistController(wishlist *services.WishlistService) *WishlistController {
	return &WishlistController{wishlist: wishlist}
}

func (wc *WishlistController) GetWishlist(c *gin.Context) {
	sess := middleware.FromContext(c)
	wl, err := wc.wishlist.Get(c.Request.Context(), sess)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": wl, "count": wl.Count()})
}

type addWishlistRequest struct {
	Product models.Product `json:"product" binding:"required"`
}

func (wc *WishlistController) AddItem(c *gin.Context) {
	var req addWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleError(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}
	if req.Product.ID == "" {
		apperrors.HandleError(c, apperrors.ErrBadRequest)
		return
	}

	sess := middleware.FromContext(c)
	wl, err := wc.wishlist.Add(c.Request.Context(), sess, req.Product)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": wl, "count": wl.Count()})
}

func (wc *WishlistController) RemoveItem(c *gin.Context) {
	sess := middleware.FromContext(c)
	wl, err := wc.wishlist.Remove(c.Request.Context(), sess, c.Param("product_id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": wl, "count": wl.Count()})
}
