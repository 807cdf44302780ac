package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/mvalderas/tienda-api/docs"
	"github.com/mvalderas/tienda-api/internal/auth"
	"github.com/mvalderas/tienda-api/internal/config"
	"github.com/mvalderas/tienda-api/internal/db"
	"github.com/mvalderas/tienda-api/internal/order"
	"github.com/mvalderas/tienda-api/internal/product"
	"github.com/mvalderas/tienda-api/internal/user"
)

// @title           Tienda API
// @version         1.0
// @description     REST backend for a small storefront: users, products, orders, auth.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(cfg.PostgresDSN); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
	}

	users := user.NewService(user.NewPGRepo(pool))
	products := product.NewPGRepo(pool)
	orders := order.NewService(order.NewPGRepo(pool), user.NewPGRepo(pool))
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	router := buildRouter(deps{
		users:    users,
		products: products,
		orders:   orders,
		tokens:   tokens,
		env:      cfg.Env,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
