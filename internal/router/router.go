// internal/router/router.go
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/farmdirect/farmdirect-backend/internal/config"
	"github.com/farmdirect/farmdirect-backend/internal/handlers"
	"github.com/farmdirect/farmdirect-backend/internal/mailer"
	"github.com/farmdirect/farmdirect-backend/internal/middleware"
	"github.com/farmdirect/farmdirect-backend/internal/repository"
	"github.com/farmdirect/farmdirect-backend/internal/services"
	"github.com/farmdirect/farmdirect-backend/internal/utils"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Farmers  *services.FarmerService
	Products *services.ProductService
	Orders   *services.OrderService
	Identity *services.IdentityService
	Storage  *services.StorageService
}

// App is a wired server: the engine plus the pieces main owns the lifecycle of.
type App struct {
	Engine     *gin.Engine
	Dispatcher *services.Dispatcher
	Limiters   *middleware.Limiters
}

func Initialize(db *gorm.DB, cfg *config.Config) (*App, error) {
	// Repositories
	farmerRepo := repository.NewFarmerRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	// Services
	m := mailer.New(cfg.Email)
	dispatcher := services.NewDispatcher(outboxRepo, m, cfg.Outbox)
	notificationService := services.NewNotificationService(m, cfg)

	storageService, err := services.NewStorageService(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	svc := Services{
		Farmers:  services.NewFarmerService(farmerRepo, cfg),
		Products: services.NewProductService(productRepo, farmerRepo),
		Orders:   services.NewOrderService(orderRepo, productRepo, notificationService, dispatcher, cfg),
		Identity: services.NewIdentityService(cfg, nil),
		Storage:  storageService,
	}

	limiters := middleware.NewLimiters(cfg.RateLimit)

	return &App{
		Engine:     New(cfg, svc, limiters),
		Dispatcher: dispatcher,
		Limiters:   limiters,
	}, nil
}

// New builds the engine around already constructed services.
func New(cfg *config.Config, svc Services, limiters *middleware.Limiters) *gin.Engine {
	farmerHandler := handlers.NewFarmerHandler(svc.Farmers)
	productHandler := handlers.NewProductHandler(svc.Products)
	orderHandler := handlers.NewOrderHandler(svc.Orders)
	customerHandler := handlers.NewCustomerHandler(svc.Identity)
	uploadHandler := handlers.NewUploadHandler(svc.Storage)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend))
	r.Use(middleware.I18nMiddleware())
	r.Use(limiters.General.Middleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	api := r.Group("/api")
	{
		farmers := api.Group("/farmers")
		{
			farmers.POST("/register", limiters.Auth.Middleware(), farmerHandler.Register)
			farmers.POST("/login", limiters.Auth.Middleware(), farmerHandler.Login)
			farmers.GET("", farmerHandler.List)
			farmers.GET("/:id", farmerHandler.Get)

			protected := farmers.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.PUT("/:id", farmerHandler.UpdateProfile)
				protected.GET("/:id/orders", orderHandler.ListForFarmer)
			}
		}

		products := api.Group("/products")
		products.Use(middleware.OptionalAuth())
		{
			products.GET("", productHandler.List)
			products.POST("", productHandler.Create)
			products.PUT("/:id", productHandler.Update)
			products.DELETE("/:id", productHandler.Delete)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", orderHandler.Place)
			orders.GET("", orderHandler.List)
			orders.GET("/:id", orderHandler.Get)
		}

		api.POST("/customers/session", limiters.Auth.Middleware(), customerHandler.CreateSession)
		api.POST("/uploads/images", middleware.OptionalAuth(), uploadHandler.UploadImage)
	}

	// Local uploads are served from disk when S3 is not configured
	if svc.Storage != nil && !svc.Storage.UsesS3() {
		r.Static("/uploads", cfg.Storage.LocalDir)
	}

	return r
}
