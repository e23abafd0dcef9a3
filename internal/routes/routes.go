package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rently-server/internal/chat"
	"rently-server/internal/config"
	"rently-server/internal/handlers"
	"rently-server/internal/middleware"
	"rently-server/internal/models"
	"rently-server/internal/realtime"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, hub *realtime.Hub, chatService *chat.Service, cfg *config.Config) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	listingHandler := handlers.NewListingHandler(db)
	reviewHandler := handlers.NewReviewHandler(db)
	conversationHandler := handlers.NewConversationHandler(chatService)
	socketHandler := handlers.NewSocketHandler(hub, chatService)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}

		// Listing search and detail are public
		public.GET("/listings", listingHandler.GetListings)
		public.GET("/listings/:id", listingHandler.GetListingByID)
		public.GET("/listings/:id/reviews", reviewHandler.GetReviewsForListing)
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg)) // Apply JWT authentication middleware
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// User management routes (admin-only)
		userRoutes := private.Group("/users")
		userRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			userRoutes.POST("", userHandler.CreateUser)
			userRoutes.GET("", userHandler.GetUsers)
			userRoutes.GET("/:id", userHandler.GetUserByID)
			userRoutes.PUT("/:id", userHandler.UpdateUser)
			userRoutes.DELETE("/:id", userHandler.DeleteUser)
			userRoutes.PATCH("/:id/verify", userHandler.VerifyLandlord)
		}

		// Listing management routes
		listingRoutes := private.Group("/listings")
		{
			listingRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleLandlord, models.RoleAdmin), listingHandler.CreateListing)
			listingRoutes.GET("/mine", middleware.RoleAuthMiddleware(models.RoleLandlord, models.RoleAdmin), listingHandler.GetMyListings)

			// Ownership checks happen inside the handler
			listingRoutes.PUT("/:id", listingHandler.UpdateListing)
			listingRoutes.PATCH("/:id/status", listingHandler.UpdateListingStatus)
			listingRoutes.DELETE("/:id", listingHandler.DeleteListing)

			// Tenant bookmarks and reviews
			listingRoutes.POST("/:id/save", middleware.RoleAuthMiddleware(models.RoleTenant), listingHandler.SaveListing)
			listingRoutes.DELETE("/:id/save", middleware.RoleAuthMiddleware(models.RoleTenant), listingHandler.UnsaveListing)
			listingRoutes.POST("/:id/reviews", middleware.RoleAuthMiddleware(models.RoleTenant), reviewHandler.CreateReview)
		}
		private.GET("/saved-listings", middleware.RoleAuthMiddleware(models.RoleTenant), listingHandler.GetSavedListings)

		// Conversation routes (participancy checks live in the chat service)
		conversationRoutes := private.Group("/conversations")
		{
			conversationRoutes.GET("", conversationHandler.ListConversations)
			conversationRoutes.POST("/start", conversationHandler.StartConversation)
			conversationRoutes.GET("/:id", conversationHandler.GetConversation)
			conversationRoutes.POST("/:id/messages", conversationHandler.SendMessage)
			conversationRoutes.POST("/:id/reveal", conversationHandler.RevealPhone)
		}

		// Realtime gateway; the token may arrive as a query parameter here
		private.GET("/ws", socketHandler.Handle)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
