package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/SoftEngMuhammadAli/shop-nexus/internal/api/http"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/api/http/handlers"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/api/validation"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/auth"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/cache"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/config"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/events"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/observability"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/persistence"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/repository"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/service"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect mongo", zap.Error(err))
	}

	if cfg.Mongo.EnsureIndexes {
		if err := persistence.EnsureIndexes(ctx, store.Database(), logger); err != nil {
			logger.Fatal("failed to ensure indexes", zap.Error(err))
		}
	}

	cacheStore, redisClient := buildCacheStore(cfg, logger)
	accessor := cache.NewAccessor(cacheStore, cache.Options{
		Logger:          logger.Named("cache"),
		Metrics:         metrics,
		OpTimeout:       cfg.Cache.OpTimeout(),
		PopulateTimeout: cfg.Cache.PopulateTimeout(),
		NotFound:        domain.ErrNotFound,
	})
	caching := service.Caching{Accessor: accessor, TTL: ttlPolicy(cfg.Cache)}

	db := store.Database()
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	subscriberRepo := repository.NewSubscriberRepository(db)

	dispatcher := events.NewInMemoryDispatcher(logger.Named("events"))
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger.Named("notifications"), cfg.Notification))

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	authService := service.NewAuthService(userRepo, tokens, caching, cfg.Auth.BcryptCost)
	userService := service.NewUserService(userRepo, caching)
	productService := service.NewProductService(productRepo, likeRepo, caching, logger)
	likeService := service.NewLikeService(likeRepo, productRepo, caching, logger)
	commentService := service.NewCommentService(commentRepo, productRepo, caching)
	reviewService := service.NewReviewService(reviewRepo, productRepo, caching, dispatcher, logger)
	cartService := service.NewCartService(cartRepo, productRepo, caching)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo, caching)
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:   orderRepo,
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
		Caching:     caching,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	blogService := service.NewBlogService(blogRepo, caching)
	newsletterService := service.NewNewsletterService(subscriberRepo, caching, dispatcher)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	v := validation.New()
	var redisPinger handlers.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store, redisPinger),
		Auth: handlers.NewAuthHandler(authService, v, handlers.SessionCookieConfig{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.CookieSecure,
		}),
		Users: handlers.NewUsersHandler(userService, v),
		Products: handlers.NewProductsHandler(handlers.ProductsDependencies{
			Products: productService,
			Likes:    likeService,
			Comments: commentService,
			Reviews:  reviewService,
		}, v),
		Cart:       handlers.NewCartHandler(cartService, wishlistService, v),
		Orders:     handlers.NewOrdersHandler(orderService, v),
		Blogs:      handlers.NewBlogsHandler(blogService, v),
		Newsletter: handlers.NewNewsletterHandler(newsletterService, v),
		Admin:      handlers.NewAdminHandler(accessor),
		Verifier:   auth.NewVerifier(tokens, userRepo, cfg.Auth.CookieName),
		Metrics:    metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(cfg.App.ShutdownTimeout()); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	accessor.Wait()
	redisClient.Close()

	closeCtx, closeCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout())
	defer closeCancel()
	store.Close(closeCtx)
}

// buildCacheStore selects the cache backend. The Redis handle is returned
// separately for health checks and shutdown; it is nil for other drivers.
func buildCacheStore(cfg *config.Config, logger *zap.Logger) (cache.Store, *persistence.Redis) {
	switch cfg.Cache.Driver {
	case config.CacheDriverMemory:
		logger.Info("cache driver: memory")
		return cache.NewMemoryStore(), nil
	case config.CacheDriverNone:
		logger.Info("cache driver: none")
		return cache.NoopStore{}, nil
	default:
		r := persistence.NewRedis(cfg.Redis, cfg.Cache.OpTimeout(), logger)
		return cache.NewRedisStore(r.Client, cfg.Cache.KeyPrefix), r
	}
}

func ttlPolicy(cfg config.CacheConfig) cache.TTLPolicy {
	return cache.TTLPolicy{
		Volatile:  time.Duration(cfg.VolatileTTLSeconds) * time.Second,
		Standard:  time.Duration(cfg.StandardTTLSeconds) * time.Second,
		Aggregate: time.Duration(cfg.AggregateTTLSeconds) * time.Second,
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
