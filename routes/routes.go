package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rscollections/storefront/controllers"
	"github.com/rscollections/storefront/middleware"
	"github.com/rscollections/storefront/services"

	upstream "github.com/rscollections/storefront/clients"
)

// Deps bundles everything the route tree needs.
type Deps struct {
	Sessions *middleware.SessionManager
	Upstream *upstream.UpstreamClient
	Catalog  *services.CatalogService
	Cart     *services.CartService
	Wishlist *services.WishlistService
	Checkout *services.CheckoutService
	Login    *services.LoginService
}

// Register wires the full route tree. Catalog routes are open; cart,
// wishlist and checkout mutations run behind the customer gate; the admin
// surface behind the admin gate.
func Register(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	catalog := controllers.NewCatalogController(d.Catalog)
	cart := controllers.NewCartController(d.Cart)
	wishlist := controllers.NewWishlistController(d.Wishlist)
	checkout := controllers.NewCheckoutController(d.Checkout)
	auth := controllers.NewAuthController(d.Login, d.Sessions)
	admin := controllers.NewAdminController(d.Upstream, d.Sessions)

	api := r.Group("/api")
	api.Use(d.Sessions.Middleware())
	{
		api.GET("/shop/home", catalog.Home)
		api.GET("/shop/products", catalog.ListProducts)
		api.GET("/shop/products/:id", catalog.GetProduct)

		// Reads are open so guests see their (empty) state; mutations gate
		// inside the service so the pending-item flow can run.
		api.GET("/cart", cart.GetCart)
		api.POST("/cart/items", cart.AddItem)
		api.PUT("/cart/items/:product_id", cart.UpdateQuantity)
		api.DELETE("/cart/items/:product_id", cart.RemoveItem)
		api.DELETE("/cart", cart.ClearCart)

		api.GET("/wishlist", wishlist.GetWishlist)
		api.POST("/wishlist/items", wishlist.AddItem)
		api.DELETE("/wishlist/items/:product_id", wishlist.RemoveItem)

		authGroup := api.Group("/auth")
		{
			authGroup.GET("/me", auth.Me)
			authGroup.GET("/state", auth.State)
			authGroup.POST("/redirect", auth.RememberPath)
			authGroup.POST("/logout", auth.Logout)

			otp := authGroup.Group("")
			otp.Use(middleware.OTPRateLimit())
			{
				otp.POST("/request-otp", auth.RequestOTP)
				otp.POST("/resend-otp", auth.ResendOTP)
				otp.POST("/verify-otp", auth.VerifyOTP)
			}
		}

		checkoutGroup := api.Group("/checkout")
		checkoutGroup.Use(middleware.RequireCustomer())
		{
			checkoutGroup.POST("", checkout.Start)
			checkoutGroup.POST("/confirm", checkout.Confirm)
			checkoutGroup.DELETE("", checkout.Cancel)
		}

		adminGroup := api.Group("/admin")
		{
			adminGroup.POST("/login", admin.Login)

			guarded := adminGroup.Group("")
			guarded.Use(middleware.RequireAdmin())
			{
				guarded.GET("/orders", admin.ListOrders)
				guarded.POST("/products", admin.CreateProduct)
				guarded.PUT("/products/:id", admin.UpdateProduct)
				guarded.DELETE("/products/:id", admin.DeleteProduct)
			}
		}
	}
}
