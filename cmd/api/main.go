package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/divya8341883853/clothstore-backend/api/routes"
	authsvc "github.com/divya8341883853/clothstore-backend/internal/auth"
	cartsvc "github.com/divya8341883853/clothstore-backend/internal/cart"
	checkoutsvc "github.com/divya8341883853/clothstore-backend/internal/checkout"
	ordersvc "github.com/divya8341883853/clothstore-backend/internal/orders"
	productsvc "github.com/divya8341883853/clothstore-backend/internal/products"
	"github.com/divya8341883853/clothstore-backend/internal/users"
	"github.com/divya8341883853/clothstore-backend/pkg/config"
	"github.com/divya8341883853/clothstore-backend/pkg/db"
	"github.com/divya8341883853/clothstore-backend/pkg/logger"
	"github.com/divya8341883853/clothstore-backend/pkg/migrate"
	"github.com/divya8341883853/clothstore-backend/pkg/outbox"
	"github.com/divya8341883853/clothstore-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	userRepo := users.NewRepository(dbClient)
	productRepo := productsvc.NewRepository(dbClient)
	cartRepo := cartsvc.NewRepository(dbClient)
	orderRepo := ordersvc.NewRepository(dbClient)
	cartPublisher := cartsvc.NewRedisPublisher(redisClient)
	emitter := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	authService, err := authsvc.NewService(userRepo, cfg.JWT, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := productsvc.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(dbClient, cartRepo, productRepo, cartPublisher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	cartObserver, err := cartsvc.NewObserver(cartService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart observer", err)
		os.Exit(1)
	}
	observerCtx, stopObserver := context.WithCancel(context.Background())
	defer stopObserver()
	go func() {
		if err := cartObserver.Run(observerCtx, cartsvc.NewRedisSource(redisClient)); err != nil && observerCtx.Err() == nil {
			logg.Error(observerCtx, "cart observer stopped unexpectedly", err)
		}
	}()

	checkoutService, err := checkoutsvc.NewService(dbClient, cartRepo, orderRepo, userRepo, emitter, cartPublisher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	orderService, err := ordersvc.NewService(orderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	pingers := map[string]db.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			pingers,
			authService,
			productService,
			cartService,
			cartObserver,
			checkoutService,
			orderService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
