package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/openretail/pos-checkout/internal/customers"
	"github.com/openretail/pos-checkout/internal/idempotency"
	"github.com/openretail/pos-checkout/internal/messaging"
	"github.com/openretail/pos-checkout/internal/orders"
	"github.com/openretail/pos-checkout/internal/products"
	"github.com/openretail/pos-checkout/internal/settings"
	"github.com/openretail/pos-checkout/internal/telemetry"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	tel, err := telemetry.Setup(ctx, "pos-server", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() { _ = tel.Shutdown(ctx) }()

	postgresURL := os.Getenv("POSTGRES_URL")
	if postgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	db, err := telemetry.OpenDB("postgres", postgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var producer *messaging.Producer
	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers != "" {
		brokers := strings.Split(kafkaBrokers, ",")
		producer = messaging.NewProducer(brokers, "order.placed")
		defer func() { _ = producer.Close() }()
	}

	var guard *idempotency.Guard
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer func() { _ = rdb.Close() }()
		guard = idempotency.NewGuard(rdb, 24*time.Hour)
	}

	orderService, err := orders.NewService(db, logger)
	if err != nil {
		logger.Error("failed to create order service", "error", err)
		os.Exit(1)
	}
	orderHandler := orders.NewHandler(orderService, orders.NewRepository(db), producer, guard, logger)
	productHandler := products.NewHandler(products.NewRepository(db), logger)
	customerHandler := customers.NewHandler(customers.NewRepository(db), logger)
	settingsHandler := settings.NewHandler(settings.NewRepository(db), logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders", telemetry.WithHTTPRoute(orderHandler.HandleCreate))
	mux.HandleFunc("GET /orders", telemetry.WithHTTPRoute(orderHandler.HandleList))
	mux.HandleFunc("GET /orders/{id}", telemetry.WithHTTPRoute(orderHandler.HandleGet))
	mux.HandleFunc("PATCH /orders/{id}/status", telemetry.WithHTTPRoute(orderHandler.HandleUpdateStatus))
	mux.HandleFunc("GET /products", telemetry.WithHTTPRoute(productHandler.HandleList))
	mux.HandleFunc("POST /products", telemetry.WithHTTPRoute(productHandler.HandleCreate))
	mux.HandleFunc("GET /products/{id}", telemetry.WithHTTPRoute(productHandler.HandleGet))
	mux.HandleFunc("POST /products/{id}/restock", telemetry.WithHTTPRoute(productHandler.HandleRestock))
	mux.HandleFunc("PUT /products/{id}/price", telemetry.WithHTTPRoute(productHandler.HandleSetPrice))
	mux.HandleFunc("GET /customers", telemetry.WithHTTPRoute(customerHandler.HandleList))
	mux.HandleFunc("GET /customers/{id}", telemetry.WithHTTPRoute(customerHandler.HandleGet))
	mux.HandleFunc("GET /settings", telemetry.WithHTTPRoute(settingsHandler.HandleGet))
	mux.HandleFunc("PUT /settings", telemetry.WithHTTPRoute(settingsHandler.HandleUpdate))
	mux.Handle("GET /metrics", tel.MetricsHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr: ":" + port,
		Handler: otelhttp.NewHandler(mux, "pos-server",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting pos server", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
