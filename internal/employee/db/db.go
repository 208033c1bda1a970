package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	dbmodels "github.com/gartstein/employees/internal/employee/db/models"
	e "github.com/gartstein/employees/internal/employee/errors"
	"github.com/gartstein/employees/internal/employee/models"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

// MaxID is the largest id the INTEGER id column can hold on every driver.
const MaxID = math.MaxInt32

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
}

type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the database file used by the sqlite driver.
	Path string
	// ConnectTimeout bounds the retries done by Connect. Zero keeps the
	// backoff default.
	ConnectTimeout time.Duration
}

func (c *Config) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverPostgres, "":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(c.Path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.Driver)
	}
}

func NewRepository(cfg *Config, logger *zap.Logger) (*Repository, error) {
	dialector, err := cfg.dialector()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repository{db: db, logger: logger.Named("employee_repository")}, nil
}

// Connect opens the repository, retrying with exponential backoff while the
// database is not reachable yet.
func Connect(ctx context.Context, cfg *Config, logger *zap.Logger) (*Repository, error) {
	b := backoff.NewExponentialBackOff()
	if cfg.ConnectTimeout > 0 {
		b.MaxElapsedTime = cfg.ConnectTimeout
	}

	var repo *Repository
	err := backoff.RetryNotify(func() error {
		r, err := NewRepository(cfg, logger)
		if errors.Is(err, ErrUnsupportedDriver) {
			return backoff.Permanent(err)
		}
		if err != nil {
			return err
		}
		repo = r
		return nil
	}, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		logger.Warn("database not ready, retrying",
			zap.Error(err),
			zap.Duration("wait", wait),
		)
	})
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// Migrate applies all pending goose migrations embedded in the binary. Each
// call uses its own goose provider, so repositories never share migration state.
func (r *Repository) Migrate(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}

	dialect := goose.DialectPostgres
	if r.db.Dialector.Name() == "sqlite" {
		dialect = goose.DialectSQLite3
	}

	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	// The provider borrows sqlDB; closing it would close the repository.
	provider, err := goose.NewProvider(dialect, sqlDB, fsys,
		goose.WithLogger(gooseLogger{r.logger.Sugar()}),
	)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	for _, res := range results {
		r.logger.Info("Migration applied",
			zap.Int64("version", res.Source.Version),
			zap.String("path", res.Source.Path),
			zap.Duration("duration", res.Duration),
		)
	}
	return nil
}

func (r *Repository) FindAll(ctx context.Context) ([]models.Employee, error) {
	var rows []dbmodels.Employee
	result := r.db.WithContext(ctx).Order("id ASC").Find(&rows)
	if result.Error != nil {
		return nil, e.NewDataAccessError("find all employees", result.Error)
	}
	return toDomain(rows), nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*models.Employee, error) {
	if !validID(id) {
		return nil, e.ErrNotFound
	}
	var row dbmodels.Employee
	result := r.db.WithContext(ctx).First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, e.NewDataAccessError("find employee", result.Error)
	}
	return row.ToDomain(), nil
}

// FindByNameContaining matches case-insensitively. An empty substring
// matches every employee. The database folds both the pattern and the name:
// SQLite's LIKE folds ASCII letters only and leaves other characters exact,
// postgres ILIKE folds per the database locale.
func (r *Repository) FindByNameContaining(ctx context.Context, substring string) ([]models.Employee, error) {
	pattern := "%" + likeEscaper.Replace(substring) + "%"

	op := "LIKE"
	if r.db.Dialector.Name() != "sqlite" {
		op = "ILIKE"
	}

	var rows []dbmodels.Employee
	result := r.db.WithContext(ctx).
		Where(`name `+op+` ? ESCAPE '\'`, pattern).
		Order("id ASC").
		Find(&rows)
	if result.Error != nil {
		return nil, e.NewDataAccessError("search employees by name", result.Error)
	}
	return toDomain(rows), nil
}

func (r *Repository) UpdateDependentsCount(ctx context.Context, id int, count int) error {
	if !validID(id) {
		return e.ErrNotFound
	}
	result := r.db.WithContext(ctx).Model(&dbmodels.Employee{}).
		Where("id = ?", id).
		Update("dependents_count", count)

	if result.Error != nil {
		return e.NewDataAccessError("update dependents count", result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// Seed inserts the given employees, overwriting rows that share an id.
func (r *Repository) Seed(ctx context.Context, employees []models.Employee) error {
	if len(employees) == 0 {
		return nil
	}
	rows := make([]dbmodels.Employee, 0, len(employees))
	for i := range employees {
		rows = append(rows, *dbmodels.FromDomain(&employees[i]))
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&rows)
	if result.Error != nil {
		return e.NewDataAccessError("seed employees", result.Error)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return e.NewDataAccessError("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return e.NewDataAccessError("ping", err)
	}
	return nil
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// validID reports whether id fits the id column. Postgres fails queries
// comparing int4 with a larger value instead of matching nothing.
func validID(id int) bool {
	return id > 0 && id <= MaxID
}

func toDomain(rows []dbmodels.Employee) []models.Employee {
	employees := make([]models.Employee, 0, len(rows))
	for i := range rows {
		employees = append(employees, *rows[i].ToDomain())
	}
	return employees
}

// gooseLogger routes goose output through zap.
type gooseLogger struct {
	*zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.Infof(strings.TrimSuffix(format, "\n"), v...)
}
