package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/config"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/http/handlers"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/http/middleware"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/observability"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	listingHandler *handlers.ListingHandler,
	conversationHandler *handlers.ConversationHandler,
	proposalHandler *handlers.ProposalHandler,
	moderationHandler *handlers.ModerationHandler,
	reviewHandler *handlers.ReviewHandler,
	reportHandler *handlers.ReportHandler,
	mediaHandler *handlers.MediaHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(observability.HTTPMetricsMiddleware())

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", observability.MetricsHandler())
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")
	auth := middleware.AuthMiddleware(tokenManager)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	sessions := api.Group("/auth/sessions", auth)
	{
		sessions.GET("", authHandler.ListSessions)
		sessions.DELETE("/:id", middleware.UUIDValidator("id"), authHandler.RevokeSession)
	}

	api.GET("/listings", listingHandler.List)
	api.GET("/listings/:id", middleware.UUIDValidator("id"), listingHandler.Get)
	api.GET("/users/:id/profile", middleware.UUIDValidator("id"), profileHandler.Get)
	api.GET("/users/:id/reviews", middleware.UUIDValidator("id"), reviewHandler.ListForUser)
	api.GET("/users/:id/rating", middleware.UUIDValidator("id"), reviewHandler.GetRating)

	protected := api.Group("", auth)
	protected.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		protected.GET("/profile", profileHandler.GetOwn)
		protected.PUT("/profile", profileHandler.Update)

		protected.POST("/listings", listingHandler.Create)
		protected.PUT("/listings/:id", middleware.UUIDValidator("id"), listingHandler.Update)
		protected.DELETE("/listings/:id", middleware.UUIDValidator("id"), listingHandler.Deactivate)

		protected.POST("/conversations", conversationHandler.Start)
		protected.GET("/conversations", conversationHandler.List)
		protected.GET("/conversations/:id", middleware.UUIDValidator("id"), conversationHandler.Get)
		protected.POST("/conversations/:id/close", middleware.UUIDValidator("id"), conversationHandler.Close)
		protected.GET("/conversations/:id/messages", middleware.UUIDValidator("id"), conversationHandler.ListMessages)
		protected.POST("/conversations/:id/messages", middleware.UUIDValidator("id"), conversationHandler.SendMessage)
		protected.POST("/conversations/:id/read", middleware.UUIDValidator("id"), conversationHandler.MarkRead)

		protected.POST("/conversations/:id/proposals", middleware.UUIDValidator("id"), proposalHandler.Create)
		protected.GET("/conversations/:id/proposals", middleware.UUIDValidator("id"), proposalHandler.ListByConversation)
		protected.POST("/proposals/:id/accept", middleware.UUIDValidator("id"), proposalHandler.Resolve("accepted"))
		protected.POST("/proposals/:id/reject", middleware.UUIDValidator("id"), proposalHandler.Resolve("rejected"))
		protected.POST("/proposals/:id/cancel", middleware.UUIDValidator("id"), proposalHandler.Resolve("cancelled"))

		protected.POST("/reviews", reviewHandler.Create)
		protected.POST("/reports", reportHandler.Create)

		protected.POST("/media/photos", mediaHandler.UploadPhoto)
		protected.GET("/media/:id", middleware.UUIDValidator("id"), mediaHandler.Download)

		protected.GET("/notifications", notificationHandler.List)
		protected.POST("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkRead)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllRead)

		protected.GET("/presence/:id", middleware.UUIDValidator("id"), wsHandler.Presence)
	}

	// O handshake WebSocket autentica pelo query param token.
	api.GET("/ws", wsHandler.Handle)

	admin := api.Group("/admin", auth, middleware.RequireAdmin())
	{
		admin.GET("/conversations", moderationHandler.ListConversations)
		admin.PUT("/conversations/:id/participation", middleware.UUIDValidator("id"), moderationHandler.SetParticipation)
		admin.POST("/conversations/:id/messages", middleware.UUIDValidator("id"), moderationHandler.SendMessage)
		admin.PUT("/users/:id/status", middleware.UUIDValidator("id"), moderationHandler.SetUserStatus)
		admin.GET("/reports", moderationHandler.ListReports)
		admin.PUT("/reports/:id", middleware.UUIDValidator("id"), moderationHandler.ResolveReport)
	}

	return r
}
