package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/jouyai/midtrans-dik/internal/app"
	"github.com/jouyai/midtrans-dik/internal/config"
	"github.com/jouyai/midtrans-dik/internal/events"
	"github.com/jouyai/midtrans-dik/internal/gateway"
	"github.com/jouyai/midtrans-dik/internal/handler"
	internalRedis "github.com/jouyai/midtrans-dik/internal/redis"
	"github.com/jouyai/midtrans-dik/internal/repository"
	"github.com/jouyai/midtrans-dik/internal/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "server",
		Short:         "Midtrans checkout and payment status API for the storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(reconcileCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

// dependencies holds the clients shared by every command.
type dependencies struct {
	cfg          *config.Config
	nrApp        *newrelic.Application
	redisClient  *redis.Client
	orders       repository.OrderRepository
	publisher    events.Publisher
	transactions *service.TransactionService
	status       *service.StatusService

	closers []func() error
}

func (d *dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}

// loadConfig reads and validates configuration. Bad credentials abort startup.
func loadConfig() *config.Config {
	cfg := config.Load()
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	return cfg
}

// bootstrap connects every external client and wires the services.
func bootstrap(cfg *config.Config) (*dependencies, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	d := &dependencies{cfg: cfg}

	// New Relic first so the stores can be instrumented.
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err := newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			d.nrApp = nrApp
			d.closers = append(d.closers, func() error {
				nrApp.Shutdown(5 * time.Second)
				return nil
			})
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	orders, closeOrders, err := app.NewOrderRepository(ctx, cfg.Store, d.nrApp)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("order store: %w", err)
	}
	d.orders = orders
	d.closers = append(d.closers, closeOrders)

	var locks internalRedis.OrderLockStoreInterface
	if cfg.Redis.Enabled {
		redisClient, err := app.NewRedisClient(ctx, cfg.Redis, d.nrApp)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		d.redisClient = redisClient
		d.closers = append(d.closers, redisClient.Close)
		locks = internalRedis.NewLockStore(redisClient)
		log.Println("Connected to Redis")
	}

	d.publisher = app.NewPublisher(cfg.Kafka)
	d.closers = append(d.closers, d.publisher.Close)

	gwCfg := gateway.Config{
		ServerKey:    cfg.Midtrans.ServerKey,
		ClientKey:    cfg.Midtrans.ClientKey,
		IsProduction: cfg.Midtrans.IsProduction,
		Timeout:      cfg.Midtrans.Timeout,
	}
	d.transactions = service.NewTransactionService(gateway.NewSnapClient(gwCfg))
	d.status = service.NewStatusService(gateway.NewCoreClient(gwCfg), d.orders, locks, cfg.Redis.LockTTL, d.publisher)

	return d, nil
}

func runServe() error {
	cfg := loadConfig()

	deps, err := bootstrap(cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer deps.Close()

	server := wireServer(deps)

	go func() {
		log.Printf("Midtrans API running at http://localhost:%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exited")
	return nil
}

// wireServer builds the handlers and returns the HTTP server.
func wireServer(deps *dependencies) *http.Server {
	router := app.NewRouter(app.RouterDeps{
		TransactionHandler: handler.NewTransactionHandler(deps.transactions),
		StatusHandler:      handler.NewStatusHandler(deps.status),
		AllowedOrigins:     config.AllowedOrigins,
		RedisClient:        deps.redisClient,
		NewRelicApp:        deps.nrApp,
	})

	return &http.Server{
		Addr:         ":" + deps.cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  deps.cfg.Server.ReadTimeout,
		WriteTimeout: deps.cfg.Server.WriteTimeout,
	}
}
