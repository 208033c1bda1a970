package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gartstein/employees/internal/employee/db"
	"github.com/gartstein/employees/internal/employee/events"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert or overwrite employees from a YAML fixture file",
	Long: `Reads employees from a YAML file and upserts them by id.

Example:
  employees seed --file internal/employee/db/fixtures.yaml`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

var auditGroup string

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Log every dependents update published on the events topic",
	Args:  cobra.NoArgs,
	RunE:  runAudit,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML fixture file")
	_ = seedCmd.MarkFlagRequired("file")

	auditCmd.Flags().StringVar(&auditGroup, "group", "employees-audit", "Kafka consumer group id")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := initLogger(cfg)
	defer func() { _ = logger.Sync() }()

	repo, err := initDatabase(cmd.Context(), cfg, logger)
	if err != nil {
		logger.Error("Migration failed", zap.Error(err))
		return err
	}
	defer repo.Close()

	logger.Info("Database is up to date")
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := initLogger(cfg)
	defer func() { _ = logger.Sync() }()

	employees, err := db.LoadFixtures(seedFile)
	if err != nil {
		return err
	}

	repo, err := initDatabase(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Seed(cmd.Context(), employees); err != nil {
		logger.Error("Seeding failed", zap.Error(err))
		return err
	}
	logger.Info("Employees seeded",
		zap.String("file", seedFile),
		zap.Int("count", len(employees)),
	)
	return nil
}

func runAudit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := initLogger(cfg)
	defer func() { _ = logger.Sync() }()

	if len(cfg.KafkaBrokers) == 0 {
		return errors.New("audit needs KAFKA_BROKERS")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auditLog := logger.Named("audit")
	consumer := events.NewConsumer(cfg.KafkaBrokers, auditGroup, cfg.Topic, logger,
		func(_ context.Context, ev events.Event) error {
			if ev.Type != events.DependentsUpdated {
				return fmt.Errorf("unknown event type %q", ev.Type)
			}
			auditLog.Info("Dependents updated",
				zap.String("event_id", ev.ID.String()),
				zap.Int("employee_id", ev.EmployeeID),
				zap.Int("dependents_count", ev.DependentsCount),
				zap.String("actor", ev.Actor),
				zap.Time("occurred_at", ev.OccurredAt),
			)
			return nil
		})
	defer consumer.Close()

	logger.Info("Auditing employee events",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.Topic),
	)
	return consumer.Run(ctx)
}
