package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"niuniq/internal/controllers"
	"niuniq/internal/listeners"
	"niuniq/internal/repositories"
	"niuniq/internal/services"
	"niuniq/pkg/config"
	"niuniq/pkg/eventbus"
	"niuniq/pkg/filestorage"
	"niuniq/pkg/middleware"
	"niuniq/pkg/service"
)

// BasePath prefixes every API route.
const BasePath = "/api/web/niuniq"

type Loggers struct {
	Main    *zap.Logger
	Auth    *zap.Logger
	Store   *zap.Logger
	Product *zap.Logger
	User    *zap.Logger
}

// NopLoggers discards everything.
func NopLoggers() *Loggers {
	nop := zap.NewNop()
	return &Loggers{Main: nop, Auth: nop, Store: nop, Product: nop, User: nop}
}

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	fileStorage filestorage.FileStorageInterface,
	jwtSvc service.JWTService,
	bus *eventbus.Bus,
	loggers *Loggers,
	cfg *config.Config,
) {
	loggers.Main.Info("InitRouter: building routes")

	// repositories
	userRepo := repositories.NewUserRepository(dbConn, loggers.User)
	storeRepo := repositories.NewStoreRepository(dbConn, loggers.Store)
	productRepo := repositories.NewProductRepository(dbConn, loggers.Product)
	listingRepo := repositories.NewListingRepository(dbConn, cfg.Postgres.QueryTimeout, loggers.Main)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	txManager := repositories.NewTxManager(dbConn)

	listeners.NewActivityListener(loggers.Main.Named("activity")).Register(bus)

	// services
	notifier, err := services.NewNotificationService(cfg.SMTP, loggers.Auth)
	if err != nil {
		loggers.Main.Fatal("failed to configure the mail client", zap.Error(err))
	}
	searchService := services.NewSearchService(productRepo, cacheRepo, cfg.Search.CacheTTL, loggers.Product)
	authService := services.NewAuthService(userRepo, cacheRepo, notifier, loggers.Auth, cfg.Auth)
	userService := services.NewUserService(userRepo, storeRepo, productRepo, listingRepo, fileStorage, searchService,
		cfg.List.MaxLimit, loggers.User)
	storeService := services.NewStoreService(storeRepo, userRepo, listingRepo, txManager, fileStorage, searchService, bus,
		cfg.Upload.MaxPhotoSize, cfg.List.MaxLimit, loggers.Store)
	qrCodeService := services.NewQRCodeService(fileStorage, cfg.Server.PublicBaseURL, loggers.Product)
	productService := services.NewProductService(productRepo, storeRepo, listingRepo, fileStorage, qrCodeService,
		searchService, services.NewExportService(), bus, services.ProductServiceConfig{
			MaxPhotoSize: cfg.Upload.MaxPhotoSize,
			MinPhotos:    cfg.Upload.MinProductPhotos,
			MaxLimit:     cfg.List.MaxLimit,
		}, loggers.Product)

	// controllers
	authCtrl := controllers.NewAuthController(authService, jwtSvc, cfg.JWT.CookieTTL, cfg.IsProduction(), loggers.Auth)
	userCtrl := controllers.NewUserController(userService, loggers.User)
	storeCtrl := controllers.NewStoreController(storeService, loggers.Store)
	productCtrl := controllers.NewProductController(productService, loggers.Product)
	searchCtrl := controllers.NewSearchController(searchService, loggers.Product)

	// routers
	authMW := middleware.NewAuthMiddleware(jwtSvc, userRepo, loggers.Auth)
	api := e.Group(BasePath)

	runAuthRouter(api, authCtrl, authMW)
	runUserRouter(api, userCtrl, authMW)
	runStoreRouter(api, storeCtrl, productCtrl, authMW)
	runProductRouter(api, productCtrl, authMW)
	runSearchRouter(api, searchCtrl)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if cfg.Storage.Driver != filestorage.DriverMinio {
		e.Static("/documents", cfg.Upload.Dir)
	}

	loggers.Main.Info("InitRouter: routes ready")
}
