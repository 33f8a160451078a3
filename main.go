package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rscollections/storefront/clients"
	"github.com/rscollections/storefront/config"
	"github.com/rscollections/storefront/database"
	"github.com/rscollections/storefront/kafka"
	"github.com/rscollections/storefront/middleware"
	"github.com/rscollections/storefront/pkg/apperrors"
	"github.com/rscollections/storefront/pkg/logger"
	"github.com/rscollections/storefront/repository"
	"github.com/rscollections/storefront/routes"
	"github.com/rscollections/storefront/services"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Initialize(cfg.Environment)
	defer func() { _ = logger.Log.Sync() }()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Log.Fatal("redis connection failed", zap.Error(err))
	}

	upstream := clients.NewUpstreamClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)
	stripeSvc := clients.NewStripeService(cfg.StripeSecretKey)
	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.OrderEventTopic)
	defer func() { _ = producer.Close() }()

	store := repository.NewRedisSessionStore(redisClient, cfg.CartTTL)
	sessions := middleware.NewSessionManager(cfg.JWTSecret, cfg.SessionTTL, cfg.Environment == "production")

	cartSvc := services.NewCartService(store, upstream)
	wishlistSvc := services.NewWishlistService(store, upstream)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger())
	router.Use(apperrors.ErrorMiddleware())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.DefaultRateLimit())

	routes.Register(router, routes.Deps{
		Sessions: sessions,
		Upstream: upstream,
		Catalog:  services.NewCatalogService(upstream),
		Cart:     cartSvc,
		Wishlist: wishlistSvc,
		Checkout: services.NewCheckoutService(store, upstream, upstream, stripeSvc, producer, cartSvc),
		Login:    services.NewLoginService(store, upstream, cartSvc, wishlistSvc, cfg.ResendCooldown),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info("storefront listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Log.Info("shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("shutdown error", zap.Error(err))
	}
	logger.Log.Info("server shutdown complete")
}
