package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"niuniq/internal/routes"
	"niuniq/migrations"
	"niuniq/pkg/api"
	"niuniq/pkg/config"
	"niuniq/pkg/database/postgresql"
	apperrors "niuniq/pkg/errors"
	"niuniq/pkg/eventbus"
	"niuniq/pkg/filestorage"
	applogger "niuniq/pkg/logger"
	"niuniq/pkg/middleware"
	"niuniq/pkg/service"
	"niuniq/pkg/validation"
)

func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()

	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				_ = api.ErrorResponse(c, apperrors.NewInternalError(apperrors.ErrInternal.Error(), err))
			}
			return err
		},
	}))
	e.Use(echomw.Secure())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
	}))
	e.Use(echomw.BodyLimit(cfg.Server.BodyLimit))
	e.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	e.Use(middleware.InjectLogger(logger))
	e.Use(middleware.RequestLog(logger.Named("http")))
	e.Use(middleware.Metrics)

	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, cfg.Postgres.ConnectTimeout, logger)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer dbConn.Close()

	if cfg.Postgres.AutoMigrate {
		if err := postgresql.Migrate(ctx, dbConn, migrations.FS); err != nil {
			logger.Fatal("failed to apply migrations", zap.Error(err))
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}
	defer redisClient.Close()

	fileStorage, err := filestorage.NewFromConfig(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialise file storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, logger.Named("jwt"))
	bus := eventbus.New(logger.Named("eventbus"))

	loggers := &routes.Loggers{
		Main:    logger,
		Auth:    logger.Named("auth"),
		Store:   logger.Named("store"),
		Product: logger.Named("product"),
		User:    logger.Named("user"),
	}
	routes.InitRouter(e, dbConn, redisClient, fileStorage, jwtSvc, bus, loggers, cfg)

	go func() {
		logger.Info("server started", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := bus.Wait(shutdownCtx); err != nil {
		logger.Warn("event listeners still running at shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
