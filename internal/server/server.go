package server

import (
	"fmt"
	"log"
	"os"

	"github.com/Abdisalan-Osman/evently/config"
	"github.com/Abdisalan-Osman/evently/internal/cache"
	"github.com/Abdisalan-Osman/evently/internal/handlers"
	"github.com/Abdisalan-Osman/evently/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	if cfg.WebhookSecret == "" {
		log.Println("WEBHOOK_SECRET is not set; webhook deliveries will be rejected")
	}

	gateway := config.NewGateway(cfg)
	db, err := gateway.Connect()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	r := gin.Default()

	setupRoutes(r, db, cache.New())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, store *cache.Store) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.CacheMiddleware(store))

	public := r.Group("/v1")
	{
		public.POST("/webhooks/clerk", handlers.ClerkWebhook)

		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/:id", handlers.GetEvent)
		}

		public.GET("/categories", handlers.ListCategories)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		eventProtected := protected.Group("/events")
		{
			eventProtected.POST("", handlers.CreateEvent)
			eventProtected.PUT("/:id", handlers.UpdateEvent)
			eventProtected.DELETE("/:id", handlers.DeleteEvent)
		}

		protected.POST("/categories", handlers.CreateCategory)
		protected.GET("/orders", handlers.ListOrders)
	}
}
