package app

import (
	"fmt"

	"github.com/Adarsh-yadav-ui/Sangeet/internal/auth"
	"github.com/Adarsh-yadav-ui/Sangeet/internal/cache"
	"github.com/Adarsh-yadav-ui/Sangeet/internal/config"
	"github.com/Adarsh-yadav-ui/Sangeet/internal/handlers"
	"github.com/Adarsh-yadav-ui/Sangeet/internal/repo"
	"github.com/Adarsh-yadav-ui/Sangeet/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) error {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	webhookVerifier, err := auth.NewWebhookVerifier(cfg.Clerk.WebhookSecret)
	if err != nil {
		return fmt.Errorf("clerk webhook secret: %w", err)
	}
	sessionVerifier := auth.NewVerifier([]byte(cfg.Clerk.SessionKey), cfg.Clerk.Issuer)

	userRepo := repo.NewPGUserRepo(db)
	userCache := cache.NewUserCache(rdb, cfg.Redis.DefaultTTL.Duration())
	dedup := cache.NewWebhookDedup(rdb, cfg.Clerk.DedupTTL.Duration())

	syncSvc := service.NewSyncService(userRepo, userCache)
	userSvc := service.NewUserService(userRepo, userCache)

	webhookHandler := handlers.NewWebhookHandler(webhookVerifier, syncSvc, dedup)
	r.POST("/webhooks/clerk", webhookHandler.HandleClerk)

	api := r.Group("/api/v1")
	userHandler := handlers.NewUserHandler(userSvc)
	api.GET("/users/recent", userHandler.Recent)

	protected := api.Group("", auth.RequireSession(sessionVerifier))
	protected.GET("/me", userHandler.Me)
	protected.POST("/me/sync", userHandler.SyncMe)
	protected.GET("/users", userHandler.List)
	protected.GET("/users/:id", userHandler.GetByID)

	return nil
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Sangeet API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}
