package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/employees/internal/employee/config"
	"github.com/gartstein/employees/internal/employee/controller"
	"github.com/gartstein/employees/internal/employee/db"
	"github.com/gartstein/employees/internal/employee/events"
	"github.com/gartstein/employees/internal/employee/handlers"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const serviceName = "employees"

var configPath string

var rootCmd = &cobra.Command{
	Use:   serviceName,
	Short: "Employee records web application",
	Long: `Serves the employee list, search, detail and dependents update pages.

Without a subcommand the servers are started, same as "employees serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and gRPC health servers",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		fmt.Sprintf("Path to the configuration YAML file (or set %s)", config.PathEnv))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(auditCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := initLogger(cfg)
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	repo, err := initDatabase(cmd.Context(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize database", zap.Error(err))
		return err
	}
	defer repo.Close()

	producer, closeProducer, err := initProducer(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize Kafka producer", zap.Error(err))
		return err
	}
	defer closeProducer()

	employeeSvc := controller.NewEmployeeService(repo, producer, logger)

	views, err := handlers.NewRenderer()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	employeeHandler := handlers.NewEmployeeHandler(employeeSvc, views, logger)
	router := handlers.NewRouter(employeeHandler, repo, handlers.RouterConfig{
		ServiceName:    serviceName,
		JWTSecret:      cfg.JWTSecret,
		AdminCookie:    cfg.AdminCookie,
		RequestTimeout: cfg.RequestTimeout,
	}, logger)

	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, logger)
	server.RegisterHTTPHandler(router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	return waitForShutdown(server, errCh, logger)
}

// initLogger initializes a Zap production logger, or a development one for
// the local environment.
func initLogger(cfg *config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsLocal() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger.With(zap.String("service", serviceName))
}

func loadConfig() (*config.Config, error) {
	path := config.ResolvePath(configPath)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// initDatabase connects to the configured store and applies migrations.
func initDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*db.Repository, error) {
	repo, err := db.Connect(ctx, cfg.Database(), logger)
	if err != nil {
		return nil, err
	}
	if err := repo.Migrate(ctx); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}

// initProducer returns a Kafka producer, or a no-op one when no brokers are
// configured.
func initProducer(cfg *config.Config, logger *zap.Logger) (controller.EventProducer, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("No Kafka brokers configured, events are discarded")
		return events.NopProducer{}, func() {}, nil
	}
	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		return nil, nil, err
	}
	return producer, producer.Close, nil
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, or until
// a server fails, then shuts down servers.
func waitForShutdown(server *handlers.Server, errCh <-chan error, logger *zap.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var err error
	select {
	case <-stop:
		server.Stop()
		err = <-errCh
	case err = <-errCh:
		server.Stop()
	}
	if err != nil {
		logger.Error("Server failed", zap.Error(err))
		return err
	}
	logger.Info("Servers stopped properly")
	return nil
}
