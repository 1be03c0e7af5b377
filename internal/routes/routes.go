package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"lingerie-shop-server/internal/booking"
	"lingerie-shop-server/internal/config"
	"lingerie-shop-server/internal/handlers"
	"lingerie-shop-server/internal/middleware"
	"lingerie-shop-server/internal/models"
	"lingerie-shop-server/internal/services"
)

// Deps bundles everything the handlers need.
type Deps struct {
	DB        *gorm.DB
	Cfg       *config.Config
	Logger    *zap.Logger
	Booking   *booking.Service
	Payment   *services.PaymentService
	Logistics *services.LogisticsService
	WhatsApp  *services.WhatsAppService
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, deps Deps) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.DB, deps.Cfg)
	userHandler := handlers.NewUserHandler(deps.DB)
	productHandler := handlers.NewProductHandler(deps.DB)
	commerceHandler := handlers.NewCommerceHandler(deps.DB, deps.Payment, deps.Logistics, deps.WhatsApp)
	consultationHandler := handlers.NewConsultationHandler(deps.DB, deps.Cfg, deps.Booking, deps.Payment, deps.WhatsApp)
	contentHandler := handlers.NewContentHandler(deps.DB)
	wishlistHandler := handlers.NewWishlistHandler(deps.DB)
	couponHandler := handlers.NewCouponHandler(deps.DB)
	supportHandler := handlers.NewSupportHandler(deps.DB)
	webhookHandler := handlers.NewWebhookHandler(deps.DB, deps.Logger)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.Signup)
			authRoutes.POST("/login", authHandler.Login)
		}

		productRoutes := public.Group("/products")
		{
			productRoutes.GET("", productHandler.GetProducts)
			productRoutes.GET("/:productId", productHandler.GetProductDetail)
			productRoutes.GET("/:productId/reviews", contentHandler.GetReviews)
		}
		public.GET("/brands", productHandler.GetBrands)
		public.GET("/categories", productHandler.GetCategories)

		blogRoutes := public.Group("/blogs")
		{
			blogRoutes.GET("", contentHandler.GetBlogs)
			blogRoutes.GET("/:slug", contentHandler.GetBlogBySlug)
		}

		public.GET("/coupons/:code", couponHandler.VerifyCoupon)

		// Booking calendar is public so visitors can browse availability
		// before signing up.
		consultationRoutes := public.Group("/consultations")
		{
			consultationRoutes.GET("/slots", consultationHandler.GetSlots)
			consultationRoutes.GET("/questions", consultationHandler.GetQuestions)
		}

		// Courier callbacks carry no user token.
		public.POST("/webhooks/shiprocket", webhookHandler.ShiprocketWebhook)
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(deps.Cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.GET("/me", authHandler.Me)
		}

		userRoutes := private.Group("/users")
		{
			userRoutes.PUT("/me", userHandler.UpdateProfile)
			userRoutes.GET("/me/addresses", userHandler.GetAddresses)
			userRoutes.POST("/me/addresses", userHandler.CreateAddress)
			userRoutes.DELETE("/me/addresses/:addressId", userHandler.DeleteAddress)
		}

		cartRoutes := private.Group("/cart")
		{
			cartRoutes.GET("", commerceHandler.GetCart)
			cartRoutes.POST("/items", commerceHandler.AddCartItem)
			cartRoutes.DELETE("/items/:itemId", commerceHandler.RemoveCartItem)
		}

		orderRoutes := private.Group("/orders")
		{
			orderRoutes.POST("", commerceHandler.CreateOrder)
			orderRoutes.POST("/:orderId/verify-payment", commerceHandler.VerifyPayment)
			orderRoutes.GET("", commerceHandler.GetMyOrders)
		}

		consultationRoutesPrivate := private.Group("/consultations")
		{
			consultationRoutesPrivate.POST("/lock-slot", consultationHandler.LockSlot)
			consultationRoutesPrivate.POST("/create-order", consultationHandler.CreateOrder)
			consultationRoutesPrivate.POST("/book", consultationHandler.BookConsultation)

			// Admin-only slot generation
			consultationRoutesPrivate.POST("/generate-slots",
				middleware.RoleAuthMiddleware(models.RoleAdmin), consultationHandler.GenerateSlots)
		}

		wishlistRoutes := private.Group("/wishlist")
		{
			wishlistRoutes.GET("", wishlistHandler.GetWishlist)
			wishlistRoutes.POST("/toggle", wishlistHandler.ToggleWishlist)
		}

		private.POST("/products/:productId/reviews", contentHandler.AddReview)
		private.POST("/blogs/submit", contentHandler.SubmitStory)
		private.PATCH("/blogs/:postId/approve",
			middleware.RoleAuthMiddleware(models.RoleAdmin), contentHandler.ApproveStory)

		private.POST("/support/returns", supportHandler.RequestReturn)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
