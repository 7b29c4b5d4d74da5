package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/agyouthrise/rise-backend/internal/changefeed"
	"github.com/agyouthrise/rise-backend/internal/config"
	"github.com/agyouthrise/rise-backend/internal/database"
	"github.com/agyouthrise/rise-backend/internal/handler"
	"github.com/agyouthrise/rise-backend/internal/media"
	"github.com/agyouthrise/rise-backend/internal/middleware"
	"github.com/agyouthrise/rise-backend/internal/routes"
	"github.com/agyouthrise/rise-backend/internal/service"
	"github.com/agyouthrise/rise-backend/internal/store"
	"github.com/agyouthrise/rise-backend/internal/ws"
	pkgcache "github.com/agyouthrise/rise-backend/pkg/cache"
	"github.com/agyouthrise/rise-backend/pkg/jwt"
	pkglogger "github.com/agyouthrise/rise-backend/pkg/logger"
	pkgredis "github.com/agyouthrise/rise-backend/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// @title AgYouth Rise Content API
// @version 1.0
// @description Blogs, podcasts and gallery content for the AgYouth Rise site.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	dotenvFiles := config.LoadDotEnv()

	// 로거 초기화
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	// 설정 로드
	configPath := config.Path()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Document store 연결
	gormLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		gormLevel = gormlogger.Info
	}
	db, err := database.Open(cfg.Database, gormLevel)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to %s", cfg.Database.Driver)

	// Redis 연결 (optional)
	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = pkgredis.NewClient(ctx, pkgredis.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			pkglogger.Warn("Failed to connect to Redis: %v (continuing without Redis)", err)
			redisClient = nil
		} else {
			pkglogger.Info("Connected to Redis")
		}
	}

	// Change feed: Redis pub/sub fans changes out across instances
	feed := newFeed(ctx, redisClient)

	// Content store
	client := store.New(db, feed, store.OptionsFromConfig(cfg.Store))
	if err := client.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize content store: %v", err)
	}

	// Media gateway
	gateway, err := media.NewGateway(cfg.Media)
	if err != nil {
		log.Fatalf("Failed to configure media gateway: %v", err)
	}
	pkglogger.Info("Media gateway: %s", cfg.Media.Provider)

	// Services
	cacheService := pkgcache.NewService(redisClient)
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	contentService := service.NewContentService(client, gateway, cacheService)
	authService := service.NewAuthService(cfg.Admin.Accounts, jwtManager)
	contentService.WatchInvalidation(ctx, client.Feed())

	if err := handler.RegisterValidators(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	// WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	go reportDBStats(ctx, db)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS 설정
	corsConfig := cors.Config{
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		ExposeHeaders: []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}
	origins := splitAndTrim(cfg.CORS.AllowOrigins)
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	router.Use(cors.New(corsConfig))

	// Middleware
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.InputSanitizer())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger("/health", "/metrics"))

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		status, code := "ok", http.StatusOK
		if err := client.Ping(pingCtx); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":        status,
			"service":       "rise-backend",
			"redis":         redisClient != nil,
			"subscriptions": client.ActiveSubscriptions(),
			"time":          time.Now().Unix(),
		})
	})

	// Swagger
	routes.Swagger(router)

	routes.Setup(router,
		handler.NewContentHandler(contentService),
		handler.NewMediaHandler(contentService),
		handler.NewAuthHandler(authService),
		handler.NewWSHandler(hub, client, cfg.CORS.AllowOrigins),
		jwtManager,
		redisClient,
		cfg,
	)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": gin.H{"code": "NOT_FOUND", "message": "not found"}})
	})

	// 서버 시작
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		pkglogger.Info("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	pkglogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		pkglogger.Warn("HTTP shutdown: %v", err)
	}

	// WebSocket clients first so their subscriptions are released before the store closes
	hub.Stop()
	if err := client.Close(); err != nil {
		pkglogger.Warn("Content store close: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if err := database.Close(db); err != nil {
		pkglogger.Warn("Database close: %v", err)
	}
	pkglogger.Info("Shutdown complete")
}

// newFeed picks the Redis-backed feed when Redis is reachable
func newFeed(ctx context.Context, redisClient *redis.Client) changefeed.Feed {
	if redisClient == nil {
		return changefeed.NewLocalFeed()
	}
	feed, err := changefeed.NewRedisFeed(ctx, redisClient)
	if err != nil {
		pkglogger.Warn("Redis change feed unavailable: %v (using in-process feed)", err)
		return changefeed.NewLocalFeed()
	}
	pkglogger.Info("Change feed: redis instance=%s", feed.Instance())
	return feed
}

// reportDBStats keeps the connection gauge current
func reportDBStats(ctx context.Context, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			middleware.SetDBConnectionsInUse(sqlDB.Stats().InUse)
		}
	}
}

// splitAndTrim splits a comma separated list, dropping empty entries
func splitAndTrim(s string) []string {
	var parts []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
