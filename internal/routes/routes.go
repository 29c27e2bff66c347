package routes

import (
	"nutriko_back_end/internal/handlers/admin"
	"nutriko_back_end/internal/handlers/cart"
	"nutriko_back_end/internal/handlers/content"
	"nutriko_back_end/internal/handlers/offers"
	"nutriko_back_end/internal/handlers/orders"
	"nutriko_back_end/internal/handlers/payment"
	"nutriko_back_end/internal/handlers/product"
	"nutriko_back_end/internal/handlers/user"
	"nutriko_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// ================== PUBLIC ==================
	api.POST("/auth/register", user.Register)
	api.POST("/auth/login", middleware.LoginRateLimit(), user.Login)
	api.GET("/auth/:provider", user.BeginAuth)
	api.GET("/auth/:provider/callback", user.CallbackAuth)

	api.GET("/products", product.GetAllProducts)
	api.GET("/products/featured", product.GetFeaturedProducts)
	api.GET("/products/slug/:slug", product.GetProductBySlug)
	api.GET("/products/:id", product.GetProductByID)
	api.GET("/products/:id/variants", product.GetProductVariants)
	api.GET("/categories", product.GetCategories)

	api.GET("/settings", content.GetSettings)
	api.GET("/settings/:key", content.GetSetting)

	// Webhook Stripe: authentifié par signature, pas par JWT
	api.POST("/payment/webhook", payment.StripeWebhook)

	// ================== CONNECTÉ ==================
	auth := api.Group("")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/me", user.Me)

		auth.GET("/cart", cart.GetCart)
		auth.POST("/cart", cart.AddToCart)
		auth.PUT("/cart/:id", cart.UpdateQuantity)
		auth.DELETE("/cart/:id", cart.RemoveFromCart)
		auth.DELETE("/cart", cart.ClearCart)
		auth.GET("/cart/ws", cart.CartWebSocket)

		auth.POST("/validate-offer-code-new", offers.ValidateOfferCode)

		auth.POST("/orders", orders.Checkout)
		auth.GET("/orders", orders.GetMyOrders)
		auth.GET("/orders/:id", orders.GetOrderByID)
		auth.GET("/orders/:id/items", orders.GetOrderItems)
		auth.GET("/orders/:id/invoice", orders.DownloadInvoice)

		auth.POST("/payment/intent", orders.CreatePaymentIntent)
	}

	// ================== BACK OFFICE ==================
	// Un seul garde-fou pour toutes les routes admin.
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		products := adminGroup.Group("")
		products.Use(middleware.AuditPriceChanges())
		{
			products.POST("/products", product.CreateProduct)
			products.PUT("/products/:id", product.UpdateProduct)
			products.DELETE("/products/:id", product.DeleteProduct)
			products.POST("/products/:id/images", product.UploadProductImage)
			products.DELETE("/products/:id/images", product.DeleteProductImage)
			products.POST("/products/:id/variants", product.CreateVariant)
			products.PUT("/products/:id/variants/:variantId", product.UpdateVariant)
			products.DELETE("/products/:id/variants/:variantId", product.DeleteVariant)
		}

		adminGroup.POST("/categories", product.CreateCategory)
		adminGroup.PUT("/categories/:id", product.UpdateCategory)
		adminGroup.DELETE("/categories/:id", product.DeleteCategory)

		adminGroup.GET("/offers", offers.ListOffers)
		adminGroup.POST("/offers", offers.CreateOffer)
		adminGroup.PUT("/offers/:id", offers.UpdateOffer)
		adminGroup.DELETE("/offers/:id", offers.DeleteOffer)

		adminGroup.GET("/orders", orders.ListAllOrders)
		adminGroup.PUT("/orders/:id/status", orders.UpdateOrderStatus)

		adminGroup.GET("/settings", content.ListSettings)
		adminGroup.PUT("/settings/:key", content.UpdateSetting)

		adminGroup.GET("/audit", admin.GetAuditLogs)
	}
}
