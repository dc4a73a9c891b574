package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gpt716169-creator/sheinwibe/internal/cart"
	"github.com/gpt716169-creator/sheinwibe/internal/checkout"
	"github.com/gpt716169-creator/sheinwibe/internal/client"
	"github.com/gpt716169-creator/sheinwibe/internal/config"
	"github.com/gpt716169-creator/sheinwibe/internal/handler"
	"github.com/gpt716169-creator/sheinwibe/internal/pricing"
	"github.com/gpt716169-creator/sheinwibe/internal/service"
	"github.com/gpt716169-creator/sheinwibe/internal/store"
)

type application struct {
	config        *config.Config
	logger        *log.Logger
	redisClient   *redis.Client
	registry      *cart.Registry
	reconciler    *cart.Reconciler
	server        *http.Server
	shutdownChan  chan struct{}
	schedulerDone chan struct{}
}

func main() {
	logger := log.New(os.Stdout, "", log.Ldate|log.Ltime|log.Lshortfile)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.ReconcileInterval <= 0 {
		logger.Fatalf("ReconcileInterval must be a positive duration. Check configuration.")
	}

	webhooks := client.New(logger, cfg.WebhookBaseURL, cfg.RequestTimeout)

	// Redis is an optional coupon cache; coupon lookups fall back to the
	// collaborator when it is unreachable.
	var couponCache client.CouponCache
	redisClient, err := store.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Printf("Warning: Redis unavailable, coupon caching disabled: %v", err)
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Printf("Error closing Redis client: %v", err)
			}
		}()
		couponCache = store.NewRedisStore(redisClient, cfg.CouponCacheTTL)
	}

	calc := pricing.NewCalculator(cfg.MaxDiscountPercent)
	gate := checkout.NewGate(cfg.MinOrderAmount)
	registry := cart.NewRegistry(calc)
	reconciler := cart.NewReconciler(logger, webhooks)
	coupons := client.NewCoupons(webhooks, couponCache)
	searcher := client.NewPickupSearcher(webhooks, cfg.SearchDebounce, cfg.SearchMinQuery)

	cartService := service.NewCartService(logger, registry, reconciler, webhooks, webhooks, coupons, webhooks, calc, gate)

	app := &application{
		config:        cfg,
		logger:        logger,
		redisClient:   redisClient,
		registry:      registry,
		reconciler:    reconciler,
		shutdownChan:  make(chan struct{}),
		schedulerDone: make(chan struct{}),
	}

	go app.runReconcileScheduler()

	mux := http.NewServeMux()
	mux.Handle("/cart", handler.NewCartHandler(logger, cartService))
	mux.Handle("/cart/item", handler.NewItemHandler(logger, cartService))
	mux.Handle("/cart/item/delete", handler.NewItemDeleteHandler(logger, cartService))
	mux.Handle("/cart/select", handler.NewSelectHandler(logger, cartService))
	mux.Handle("/cart/coupon", handler.NewCouponHandler(logger, cartService))
	mux.Handle("/cart/points", handler.NewPointsHandler(logger, cartService))
	mux.Handle("/checkout", handler.NewCheckoutHandler(logger, cartService))
	mux.Handle("/pvz/search", handler.NewSearchHandler(logger, searcher))

	app.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      mux,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     logger,
	}

	app.serve()
}

func (app *application) serve() {
	app.logger.Printf("Starting server on %s", app.server.Addr)

	errChan := make(chan error)
	go func() {
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		app.logger.Fatalf("Server error: %v", err)
	case sig := <-quit:
		app.logger.Printf("Received signal %s. Shutting down server...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	app.logger.Println("Signaling reconcile scheduler to stop...")
	close(app.shutdownChan)
	select {
	case <-app.schedulerDone:
		app.logger.Println("Reconcile scheduler stopped.")
	case <-time.After(10 * time.Second):
		app.logger.Println("Reconcile scheduler did not stop in time.")
	}

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Printf("Graceful server shutdown failed: %v", err)
	} else {
		app.logger.Println("Server gracefully stopped.")
	}

	app.logger.Println("Application shut down complete.")
}

func (app *application) runReconcileScheduler() {
	defer close(app.schedulerDone)

	ticker := time.NewTicker(app.config.ReconcileInterval)
	defer ticker.Stop()

	app.logger.Printf("Stock reconcile scheduler started. Will run every %s.", app.config.ReconcileInterval.String())

	for {
		select {
		case <-ticker.C:
			app.reconciler.ReconcileAll(context.Background(), app.registry)
		case <-app.shutdownChan:
			app.logger.Println("Scheduler: Received shutdown signal. Stopping...")
			return
		}
	}
}
