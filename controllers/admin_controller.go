package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rscollections/storefront/clients"
	"github.com/rscollections/storefront/middleware"
	"github.com/rscollections/storefront/models"
	"github.com/rscollections/storefront/pkg/apperrors"
)

// AdminController is a thin gate in front of the upstream admin API: it
// verifies admin credentials upstream, marks the session, and proxies the
// dashboard calls through unchanged.
type AdminController struct {
	upstream *clients.UpstreamClient
	sessions *middleware.SessionManager
}

func NewAdminController(upstream *clients.UpstreamClient, sessions *middleware.SessionManager) *AdminController {
	return &AdminController{upstream: upstream, sessions: sessions}
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials against the upstream and promotes the session to
// the admin role.
func (ac *AdminController) Login(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleError(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	if err := ac.upstream.AdminLogin(c.Request.Context(), req.Email, req.Password); err != nil {
		apperrors.HandleError(c, apperrors.Wrap(apperrors.ErrUnauthorized, err))
		return
	}

	sess := ac.sessions.Promote(c, req.Email, models.RoleAdmin)
	c.JSON(http.StatusOK, gin.H{"email": sess.Email, "role": sess.Role})
}

// ListOrders proxies the order dashboard listing.
func (ac *AdminController) ListOrders(c *gin.Context) {
	ac.proxy(c, http.MethodGet, "/admin/orders")
}

// CreateProduct proxies a product create to the upstream catalog.
func (ac *AdminController) CreateProduct(c *gin.Context) {
	ac.proxy(c, http.MethodPost, "/admin/products")
}

// UpdateProduct proxies a product update.
func (ac *AdminController) UpdateProduct(c *gin.Context) {
	ac.proxy(c, http.MethodPut, "/admin/products/"+c.Param("id"))
}

// DeleteProduct proxies a product delete.
func (ac *AdminController) DeleteProduct(c *gin.Context) {
	ac.proxy(c, http.MethodDelete, "/admin/products/"+c.Param("id"))
}

func (ac *AdminController) proxy(c *gin.Context, method, path string) {
	sess := middleware.FromContext(c)

	headers := http.Header{}
	if ct := c.GetHeader("Content-Type"); ct != "" {
		headers.Set("Content-Type", ct)
	}
	headers.Set("X-User-Email", sess.Email)

	resp, err := ac.upstream.Do(c.Request.Context(), method, path, c.Request.URL.Query(), headers, c.Request.Body)
	if err != nil {
		apperrors.HandleError(c, apperrors.Wrap(apperrors.ErrUpstream, err))
		return
	}
	if err := clients.CopyResponse(c.Writer, resp); err != nil {
		_ = c.Error(err)
	}
}
