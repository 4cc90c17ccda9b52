package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"fixrx_backend/database"
	"fixrx_backend/internal/auth"
	"fixrx_backend/internal/cache"
	"fixrx_backend/internal/config"
	"fixrx_backend/internal/delivery"
	"fixrx_backend/internal/handlers"
	"fixrx_backend/internal/logger"
	"fixrx_backend/internal/middleware"
	"fixrx_backend/internal/models"
	"fixrx_backend/internal/repositories"
	"fixrx_backend/internal/routes"
	"fixrx_backend/internal/services"
	"fixrx_backend/internal/validator"
	"fixrx_backend/internal/workers"
	"fixrx_backend/internal/ws"
)

// Run wires the whole application and starts the HTTP server.
func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("failed to get *sql.DB from GORM", "error", err)
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Fatal("database unavailable", "error", err)
	}
	logger.Info("database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("migration failed", "error", err)
	}
	logger.Info("migrations applied")

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	engine := SetupRouter(cfg, gormDB, workerCtx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", "address", address)
	if err := engine.Run(address); err != nil {
		logger.Fatal("server startup error", "error", err)
	}
}

// SetupRouter builds the full gin engine: repositories, services,
// handlers, websocket hub and the dispatch worker. Tests call it with
// their own DB handle and context.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, workerCtx context.Context) *gin.Engine {
	v := validator.New()

	// Websocket hub doubles as the realtime event publisher.
	hub := ws.NewHub()
	go hub.Run()

	aggregateCache := buildAggregateCache(cfg)

	userRepo := repositories.NewUserRepository()
	serviceRepo := repositories.NewServiceRepository()
	connectionRepo := repositories.NewConnectionRepository()
	ratingRepo := repositories.NewRatingRepository()
	messageRepo := repositories.NewMessageRepository()
	notificationRepo := repositories.NewNotificationRepository()

	notificationService := services.NewNotificationService(notificationRepo, userRepo)

	svc := &services.ServiceContainer{
		UserService:         services.NewUserService(userRepo),
		CatalogService:      services.NewCatalogService(serviceRepo),
		ConnectionService:   services.NewConnectionService(connectionRepo, userRepo, serviceRepo, notificationService, hub),
		RatingService:       services.NewRatingService(ratingRepo, userRepo, connectionRepo, notificationService, aggregateCache),
		MessageService:      services.NewMessageService(messageRepo, userRepo, connectionRepo, notificationService, hub),
		NotificationService: notificationService,
	}

	appHandlers := handlers.NewAppHandlers(v, svc)
	wsHandler := ws.NewHandler(hub)

	worker := workers.NewNotificationWorker(
		gormDB,
		notificationRepo,
		userRepo,
		buildDeliveryProvider(cfg),
		time.Duration(cfg.Notifications.DispatchInterval)*time.Second,
		cfg.Notifications.DispatchBatch,
	)
	worker.Start(workerCtx)

	engine := initializeGinEngine(cfg, gormDB)
	routes.RegisterRoutes(engine, appHandlers, wsHandler, middleware.AuthMiddleware(buildVerifier(cfg)))

	return engine
}

func initializeGinEngine(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.LoggingMiddleware())
	engine.Use(middleware.DBMiddleware(gormDB))

	return engine
}

// buildVerifier selects the token verifier. "static" exists for test
// harnesses only; production deployments always configure "jwt".
func buildVerifier(cfg *config.Config) auth.TokenVerifier {
	if cfg.Auth.Mode == "static" {
		logger.Warn("static auth verifier enabled; never use this in production",
			"user_id", cfg.Auth.StaticUserID)
		return auth.NewStaticVerifier(cfg.Auth.StaticUserID, models.UserRole(cfg.Auth.StaticRole))
	}
	return auth.NewJWTVerifier()
}

// buildAggregateCache returns a disabled cache when Redis is not
// configured; callers never need to nil-check.
func buildAggregateCache(cfg *config.Config) *cache.RatingCache {
	ttl := time.Duration(cfg.Redis.AggregateTTL) * time.Second
	if cfg.Redis.Addr == "" || ttl <= 0 {
		logger.Info("aggregate cache disabled")
		return cache.NewRatingCache(nil, 0)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	logger.Info("aggregate cache enabled", "addr", cfg.Redis.Addr, "ttl", ttl)
	return cache.NewRatingCache(client, ttl)
}

func buildDeliveryProvider(cfg *config.Config) delivery.Provider {
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP not configured; notifications go to the log sink")
		return delivery.NewLogProvider()
	}
	return delivery.NewEmailProvider(cfg)
}
