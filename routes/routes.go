package routes

import (
	"github.com/Danii44/PRIMEHODDIE/controllers"
	"github.com/Danii44/PRIMEHODDIE/middleware"

	"github.com/gin-gonic/gin"
)

// Deps are the handlers and session source the router needs. Admin is nil
// when no MongoDB backend is configured; the admin routes are then absent.
type Deps struct {
	Storefront   *controllers.StorefrontController
	Admin        *controllers.AdminController
	Sessions     middleware.SessionResolver
	SecureCookie bool
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", d.Storefront.Health)

	catalog := r.Group("/catalog")
	{
		catalog.GET("/products", d.Storefront.ListProducts)
		catalog.GET("/products/:id", d.Storefront.GetProduct)
		catalog.GET("/categories", d.Storefront.ListCategories)
		catalog.POST("/refresh", d.Storefront.RefreshCatalog)
	}

	session := r.Group("/", middleware.Session(d.Sessions, d.SecureCookie))
	{
		session.GET("/store", d.Storefront.GetStore)
		session.PUT("/store/ui", d.Storefront.UpdateUI)

		session.GET("/cart", d.Storefront.GetCart)
		session.POST("/cart/items", d.Storefront.AddCartItem)
		session.PATCH("/cart/items", d.Storefront.UpdateCartItem)
		session.DELETE("/cart/items", d.Storefront.RemoveCartItem)
		session.DELETE("/cart", d.Storefront.ClearCart)

		session.GET("/wishlist", d.Storefront.GetWishlist)
		session.GET("/wishlist/:productId", d.Storefront.IsInWishlist)
		session.POST("/wishlist/:productId/toggle", d.Storefront.ToggleWishlist)

		session.POST("/session/user", d.Storefront.SignIn)
		session.DELETE("/session/user", d.Storefront.SignOut)
	}

	if d.Admin == nil {
		return
	}
	admin := session.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/products", d.Admin.ListProducts)
		admin.POST("/products", d.Admin.CreateProduct)
		admin.GET("/products/:id", d.Admin.GetProduct)
		admin.PUT("/products/:id", d.Admin.UpdateProduct)
		admin.GET("/orders", d.Admin.ListOrders)
	}
}
