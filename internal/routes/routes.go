package routes

import (
	_ "github.com/agyouthrise/rise-backend/docs"
	"github.com/agyouthrise/rise-backend/internal/config"
	"github.com/agyouthrise/rise-backend/internal/handler"
	"github.com/agyouthrise/rise-backend/internal/middleware"
	"github.com/agyouthrise/rise-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Setup configures all API routes. redisClient may be nil (rate limits off).
func Setup(
	router *gin.Engine,
	contentHandler *handler.ContentHandler,
	mediaHandler *handler.MediaHandler,
	authHandler *handler.AuthHandler,
	wsHandler *handler.WSHandler,
	jwtManager *jwt.Manager,
	redisClient *redis.Client,
	cfg *config.Config,
) {
	api := router.Group("/api/v1")

	// Authentication endpoints
	auth := api.Group("/auth")
	auth.POST("/login", middleware.RateLimit(redisClient, middleware.LoginRateLimitConfig(cfg.RateLimit.LoginPerMinute)), authHandler.Login)
	auth.GET("/me", middleware.JWTAuth(jwtManager), authHandler.Me)

	// Authoring (관리자 전용)
	admin := api.Group("/admin",
		middleware.JWTAuth(jwtManager),
		middleware.RequireAdmin(),
		middleware.RateLimit(redisClient, middleware.AdminRateLimitConfig(cfg.RateLimit.AdminPerMinute)),
		middleware.MaxBodySize(cfg.Server.MaxUploadSize),
	)
	{
		admin.POST("/blogs", contentHandler.CreatePost)
		admin.POST("/podcasts", contentHandler.CreateEpisode)
		admin.POST("/gallery", contentHandler.CreateGalleryItem)
		admin.POST("/media/images", mediaHandler.UploadImage)
		admin.DELETE("/:kind/:id", contentHandler.Delete)
	}

	// Public read views (blogs | podcasts | gallery)
	api.GET("/:kind", contentHandler.List)
	api.GET("/:kind/categories", contentHandler.Categories)

	// Realtime snapshots
	router.GET("/ws/:kind", wsHandler.Connect)
}

// Swagger serves the API docs under /swagger
func Swagger(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
