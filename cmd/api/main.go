package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/market_api/internal/cache"
	"github.com/GTDGit/market_api/internal/config"
	"github.com/GTDGit/market_api/internal/database"
	"github.com/GTDGit/market_api/internal/events"
	"github.com/GTDGit/market_api/internal/handler"
	"github.com/GTDGit/market_api/internal/middleware"
	"github.com/GTDGit/market_api/internal/repository"
	"github.com/GTDGit/market_api/internal/service"
	"github.com/GTDGit/market_api/internal/utils"
)

// main is the application entrypoint for the marketplace API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting market api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := database.RunMigrations(db.DB, "migrations"); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis. The catalog cache is optional.
	var (
		catalogCache service.CatalogCache
		redisPing    handler.Pinger
	)
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, catalog cache disabled")
	} else {
		defer redisClient.Close()
		catalogCache = cache.NewCatalogCache(redisClient, cfg.Redis.CatalogTTL)
		redisPing = handler.PingFunc(redisClient.Ping)
		log.Info().Msg("redis connected successfully")
	}

	// 3c. Order events
	publisher := events.NewPublisher(cfg.Kafka)
	defer publisher.Close()

	// 3d. Media uploads
	var uploads *service.UploadService
	presigner, err := service.NewS3Presigner(context.Background(), &cfg.S3)
	if err != nil {
		log.Warn().Err(err).Msg("s3 presigner unavailable, uploads disabled")
	} else {
		uploads = service.NewUploadService(presigner, cfg.S3.Bucket, cfg.S3.UploadURLTTL)
	}

	// 4. Repositories
	userRepo := repository.NewUserRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)
	productRepo := repository.NewProductRepository(db)
	imageRepo := repository.NewImageRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	cartRepo := repository.NewCartRepository(db)
	checkoutRepo := repository.NewCheckoutRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	likedRepo := repository.NewLikedRepository(db)
	versusRepo := repository.NewVersusRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// 5. Services
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo)
	catalogService := service.NewCatalogService(brandRepo, categoryRepo, galleryRepo, catalogCache)
	productService := service.NewProductService(service.ProductDeps{
		Products:   productRepo,
		Brands:     brandRepo,
		Categories: categoryRepo,
		Galleries:  galleryRepo,
		Images:     imageRepo,
		Properties: propertyRepo,
		Liked:      likedRepo,
		Cart:       cartRepo,
		Versus:     versusRepo,
	})
	imageService := service.NewImageService(imageRepo, productRepo)
	propertyService := service.NewPropertyService(propertyRepo, productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(checkoutRepo, orderRepo, publisher)
	socialService := service.NewSocialService(likedRepo, versusRepo, productRepo, categoryRepo)
	messageService := service.NewMessageService(messageRepo)

	// 6. Handlers
	handlers := &handler.Handlers{
		Health:  handler.NewHealthHandler(db, redisPing),
		Auth:    handler.NewAuthHandler(authService, userService),
		Catalog: handler.NewCatalogHandler(catalogService),
		Product: handler.NewProductHandler(productService),
		Content: handler.NewContentHandler(imageService, propertyService),
		Cart:    handler.NewCartHandler(cartService),
		Order:   handler.NewOrderHandler(orderService),
		Social:  handler.NewSocialHandler(socialService),
		Message: handler.NewMessageHandler(messageService, uploads),
	}

	// 7. Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)
	loginLimiter := middleware.NewFailedLoginLimiter(time.Minute, 5)

	// 8. Router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())

	handler.SetupRoutes(router, handlers, authMiddleware, loginLimiter)

	// 9. Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
