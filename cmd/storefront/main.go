// Command storefront runs the shopper-facing API: catalog, session carts,
// authentication, and the checkout flow that submits orders to orderd.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopease/storefront/internal/cart"
	"github.com/shopease/storefront/internal/catalog"
	checkoutcommands "github.com/shopease/storefront/internal/checkout/commands"
	checkoutmetrics "github.com/shopease/storefront/internal/checkout/metrics"
	"github.com/shopease/storefront/internal/config"
	"github.com/shopease/storefront/internal/httpapi"
	"github.com/shopease/storefront/internal/identity"
	"github.com/shopease/storefront/internal/orderclient"
	"github.com/shopease/storefront/internal/session"
	"github.com/shopease/storefront/internal/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
)

func main() {
	cfg, err := config.Load("storefront")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(parseLogLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.OTelEndpoint != "" {
		tel, err := telemetry.Initialize(ctx, telemetry.Config{
			ServiceName:    cfg.Service.Name,
			ServiceVersion: cfg.Service.Version,
			Environment:    cfg.Service.Environment,
			OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
			EnableTracing:  cfg.Telemetry.EnableTracing,
			EnableMetrics:  cfg.Telemetry.EnableMetrics,
			SampleRate:     cfg.Telemetry.SampleRate,
		})
		if err != nil {
			logger.Error("failed to initialize telemetry", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tel.Shutdown(shutdownCtx); err != nil {
				logger.Error("telemetry shutdown failed", "error", err)
			}
		}()
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		cancel()
		logger.Error("failed to connect to redis", "error", err, "addr", cfg.Redis.Addr)
		os.Exit(1)
	}
	cancel()

	users := identity.NewStaticUsers()
	users.Seed("Jane Smith", "jane@example.com", "password123")

	idm := identity.NewManager(users, identity.NewRedisStore(redisClient, cfg.Session.TTL), logger)

	meter := otel.Meter("github.com/shopease/storefront/cmd/storefront")

	cartMetrics, err := cart.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create cart metrics", "error", err)
		os.Exit(1)
	}
	coMetrics, err := checkoutmetrics.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create checkout metrics", "error", err)
		os.Exit(1)
	}

	orders := orderclient.New(cfg.Orders.BaseURL, orderclient.WithTimeout(cfg.Orders.Timeout))
	placeHandler := checkoutcommands.NewObservableCommandHandler(
		checkoutcommands.NewPlaceOrderHandler(orders),
		logger,
		coMetrics,
	)

	sessions := session.NewManager(idm, placeHandler)

	storefrontHandler := httpapi.NewHandler(sessions, seedCatalog(), idm, cartMetrics, coMetrics, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := redisClient.Ping(checkCtx).Err(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	storefrontHandler.Register(mux)

	handler := withRecovery(withLogging(httpapi.WithSession(mux)))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("storefront starting", "port", cfg.HTTP.Port, "order_service", cfg.Orders.BaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownGrace)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	} else {
		logger.Info("http server stopped")
	}
}

// seedCatalog returns the demo product set served until a real product
// backend exists.
func seedCatalog() *catalog.Memory {
	price := decimal.RequireFromString
	return catalog.NewMemory(
		catalog.Product{ID: "1", Name: "Wireless Headphones", Description: "Over-ear noise cancelling headphones with 30h battery life.", Price: price("59.99"), Image: "/images/headphones.jpg", Category: "electronics", Stock: 15, Rating: 4.5},
		catalog.Product{ID: "2", Name: "Smart Watch", Description: "Fitness tracking, heart rate monitor, water resistant.", Price: price("129.99"), Image: "/images/watch.jpg", Category: "electronics", Stock: 8, Rating: 4.2},
		catalog.Product{ID: "3", Name: "Laptop Backpack", Description: "Padded 15-inch laptop compartment with USB charging port.", Price: price("44.95"), Image: "/images/backpack.jpg", Category: "accessories", Stock: 23, Rating: 4.7},
		catalog.Product{ID: "4", Name: "Mechanical Keyboard", Description: "Hot-swappable switches, RGB backlight, aluminum frame.", Price: price("89.00"), Image: "/images/keyboard.jpg", Category: "electronics", Stock: 12, Rating: 4.8},
		catalog.Product{ID: "5", Name: "Ceramic Mug Set", Description: "Set of four stoneware mugs, dishwasher safe.", Price: price("24.99"), Image: "/images/mugs.jpg", Category: "home", Stock: 30, Rating: 4.1},
		catalog.Product{ID: "6", Name: "Desk Lamp", Description: "Adjustable LED lamp with wireless charging base.", Price: price("38.50"), Image: "/images/lamp.jpg", Category: "home", Stock: 0, Rating: 4.3},
	)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		slog.Info("http request", "method", r.Method, "path", r.URL.Path, "status", rw.status, "duration", time.Since(start))
	})
}

func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered", "error", rec)
				respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
