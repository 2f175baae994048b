package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/adapter/logger"
	"github.com/YelzhanWeb/cafeteria/internal/adapter/memory"
	"github.com/YelzhanWeb/cafeteria/internal/adapter/postgres"
	"github.com/YelzhanWeb/cafeteria/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/cafeteria/internal/app/catalog"
	"github.com/YelzhanWeb/cafeteria/internal/app/inventory"
	"github.com/YelzhanWeb/cafeteria/internal/app/order"
	"github.com/YelzhanWeb/cafeteria/internal/app/payment"
	"github.com/YelzhanWeb/cafeteria/internal/app/reporting"
	"github.com/YelzhanWeb/cafeteria/internal/app/staff"
	"github.com/YelzhanWeb/cafeteria/internal/app/table"
	"github.com/YelzhanWeb/cafeteria/internal/config"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"

	amqpAdapter "github.com/YelzhanWeb/cafeteria/internal/adapter/amqp"
	httpAdapter "github.com/YelzhanWeb/cafeteria/internal/adapter/http"
	redisAdapter "github.com/YelzhanWeb/cafeteria/internal/adapter/redis"
)

func main() {
	// Parse command-line flags
	mode := flag.String("mode", "api", "Service mode: api, migrate, notification-subscriber")
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	port := flag.Int("port", 0, "HTTP port, overrides server.port")
	prefetch := flag.Int("prefetch", 10, "RabbitMQ prefetch count (for notification-subscriber)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	// Initialize logger
	lgr, err := logger.New(*mode, logger.Options{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "api":
		err = runAPI(ctx, cfg, lgr)

	case "migrate":
		err = postgres.Migrate(cfg.Database.URL())
		if err == nil {
			lgr.Info("migrations_applied", "Database schema is up to date", "startup", map[string]interface{}{
				"host": cfg.Database.Host,
				"db":   cfg.Database.Database,
			})
		}

	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, lgr, *prefetch)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}

	if err != nil {
		lgr.Error("service_failed", "Service stopped with an error", "shutdown", map[string]interface{}{"mode": *mode}, err)
		os.Exit(1)
	}
}

// openStore returns the configured store and a func releasing its resources.
// A Postgres store registers its health check.
func openStore(ctx context.Context, cfg *config.Config, lgr logger.Logger, health map[string]func(context.Context) error) (interfaces.Store, func(), error) {
	if cfg.Storage.Driver == "memory" {
		lgr.Info("store_ready", "Using in-memory store", "startup", nil)
		return memory.NewStore(cfg.Storage.LockTimeout), func() {}, nil
	}

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	store := postgres.NewStore(db, cfg.Database.TxTimeout)
	health["postgres"] = store.Ping
	return store, store.Close, nil
}

func runAPI(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	loc, err := cfg.Reporting.Location()
	if err != nil {
		return err
	}

	health := map[string]func(context.Context) error{}

	store, closeStore, err := openStore(ctx, cfg, lgr, health)
	if err != nil {
		return err
	}
	defer closeStore()

	// Order events are optional; a nil publisher disables them
	var publisher interfaces.EventPublisher
	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		defer mqConn.Close()

		lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
			"host":     cfg.RabbitMQ.Host,
			"exchange": cfg.RabbitMQ.Exchange,
		})
		publisher = rabbitmq.NewPublisher(mqConn, cfg.RabbitMQ.Exchange)
		health["rabbitmq"] = func(context.Context) error { return mqConn.Ping() }
	}

	// Initialize services
	ledger := inventory.NewLedger(store, lgr)
	tables := table.NewTracker(store)

	var reports interfaces.ReportService = reporting.NewService(store.Reports(), loc)
	if cfg.Redis.Enabled {
		client, err := redisAdapter.Connect(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer client.Close()

		lgr.Info("redis_connected", "Report cache enabled", "startup", map[string]interface{}{
			"addr": cfg.Redis.Addr,
			"ttl":  cfg.Redis.ReportTTL.String(),
		})
		reports = redisAdapter.NewReportCache(reports, client, cfg.Redis.ReportTTL, lgr)
		health["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}

	router := httpAdapter.NewRouter(httpAdapter.Services{
		Orders:   order.NewService(store, ledger, tables, publisher, lgr),
		Payments: payment.NewService(store, publisher, lgr),
		Catalog:  catalog.NewService(store, ledger, lgr),
		Staff:    staff.NewService(store, lgr),
		Tables:   tables,
		Reports:  reports,
		Health:   health,
	}, loc, lgr)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Cafeteria API started on port %d", cfg.Server.Port), "startup", map[string]interface{}{
		"port":     cfg.Server.Port,
		"storage":  cfg.Storage.Driver,
		"timezone": loc.String(),
	})

	// Graceful shutdown
	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	lgr.Info("shutdown_initiated", "Shutting down Cafeteria API", "shutdown", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		return err
	}
	return nil
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, lgr logger.Logger, prefetch int) error {
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer mqConn.Close()

	// Initialize consumer
	consumer := rabbitmq.NewConsumer(mqConn, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue, prefetch, lgr)

	// Initialize handler
	notificationHandler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification Subscriber started", "startup", map[string]interface{}{
		"exchange": cfg.RabbitMQ.Exchange,
		"queue":    cfg.RabbitMQ.Queue,
		"prefetch": prefetch,
	})

	err = consumer.ConsumeOrderEvents(ctx, notificationHandler.HandleOrderEvent)
	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
