package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rscollections/storefront/pkg/apperrors"
	"github.com/rscollections/storefront/services"
)

type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// ListProducts serves a filtered, sorted, paginated listing. Filter params
// arrive as query string; missing params fall back to the defaults.
func (cc *CatalogController) ListProducts(c *gin.Context) {
	filter := services.DefaultFilter()
	if v := c.Query("minPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.PriceMin = f
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.PriceMax = f
		}
	}
	if v := c.Query("filterCategory"); v != "" {
		filter.Category = v
	}
	if v := c.Query("inStock"); v == "true" || v == "1" {
		filter.InStock = true
	}
	if v := c.Query("sort"); v != "" {
		filter.SortBy = v
	}

	page := 1
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = n
		}
	}

	result, err := cc.catalog.ListProducts(c.Request.Context(), services.ShopQuery{
		Category:    c.Query("category"),
		SubCategory: c.Query("subCategory"),
		Filter:      filter,
		Adjusted:    c.Query("adjusted"),
		Page:        page,
	})
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetProduct serves a single product by ID.
func (cc *CatalogController) GetProduct(c *gin.Context) {
	product, err := cc.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Home serves the landing-page sections.
func (cc *CatalogController) Home(c *gin.Context) {
	c.JSON(http.StatusOK, cc.catalog.Home(c.Request.Context()))
}
