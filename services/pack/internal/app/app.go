package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"emoticon-hub/pkg/cache"
	"emoticon-hub/pkg/config"
	"emoticon-hub/pkg/database"
	"emoticon-hub/pkg/imagestore"
	"emoticon-hub/pkg/jwt"
	"emoticon-hub/pkg/logger"
	"emoticon-hub/pkg/middleware"
	"emoticon-hub/pkg/queue"
	"emoticon-hub/pkg/s3"
	packHTTP "emoticon-hub/services/pack/internal/controller/http"
	"emoticon-hub/services/pack/internal/repo/persistent"
	"emoticon-hub/services/pack/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "emoticon-hub/services/pack/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	uploader    imagestore.Uploader
	jwtService  *jwt.Service
	queueClient *queue.Client
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v (continuing without cache)", err)
		redisClient = nil
	}

	uploader, err := newUploader(cfg)
	if err != nil {
		log.Error("Failed to create image store client: %v", err)
		return nil, err
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		queueClient = nil
	}

	jwtService := jwt.NewService(cfg.JWTSecret)

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		uploader:    uploader,
		jwtService:  jwtService,
		queueClient: queueClient,
	}, nil
}

// newUploader picks the image store backend. The default is the HTTP upload
// server; "s3" targets an S3 or MinIO bucket instead.
func newUploader(cfg *config.Config) (imagestore.Uploader, error) {
	if cfg.ImageStoreBackend == "s3" {
		return s3.NewClient(cfg)
	}
	return imagestore.NewClient(cfg), nil
}

func (a *App) Run() error {
	// Initialize repositories
	packRepo := persistent.NewPackRepository(a.db)
	accountRepo := persistent.NewAccountRepository(a.db)

	// Initialize use cases
	packUseCase := usecase.NewPackUseCase(
		packRepo,
		accountRepo,
		a.uploader,
		a.redisClient,
		a.queueClient,
		a.log,
		a.cfg.UploadConcurrency,
	)

	// Initialize HTTP handlers
	packHandler := packHTTP.NewPackHandler(packUseCase, a.log)

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(a.jwtService))
	if a.redisClient != nil {
		api.Use(middleware.RateLimitMiddleware(a.redisClient, 100, time.Minute))
	}

	{
		api.POST("/packs", packHandler.IngestPack)
		api.GET("/packs", packHandler.ListPacks)
		api.GET("/packs/:id", packHandler.GetPack)
		api.GET("/packs/share/:share_link", packHandler.GetPackByShareLink)
		api.POST("/packs/:id/approve", packHandler.ApprovePack)
		api.POST("/packs/:id/reject", packHandler.RejectPack)
	}

	// Create HTTP server
	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Pack service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down pack service...")
}

func (a *App) Shutdown() error {
	// The context is used to inform the server it has 5 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Close database connection
	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	// Close Redis connection
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	// Close RabbitMQ connection
	if a.queueClient != nil {
		a.queueClient.Close()
	}

	// Shutdown server
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	a.log.Info("Pack service exited")
	return nil
}
