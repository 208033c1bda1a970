// Package controller implements the service layer for employee records,
// delegating to the repository and emitting events after updates.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gartstein/employees/internal/employee/auth"
	e "github.com/gartstein/employees/internal/employee/errors"
	"github.com/gartstein/employees/internal/employee/events"
	"github.com/gartstein/employees/internal/employee/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(event events.Event)
}

// Repository defines the storage interface for Employee records.
type Repository interface {
	FindAll(ctx context.Context) ([]models.Employee, error)
	FindByID(ctx context.Context, id int) (*models.Employee, error)
	FindByNameContaining(ctx context.Context, substring string) ([]models.Employee, error)
	UpdateDependentsCount(ctx context.Context, id int, count int) error
}

// EmployeeService gives the HTTP layer a storage independent view of
// employee records.
type EmployeeService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
	now      func() time.Time
}

// NewEmployeeService constructs an EmployeeService with a repository,
// an event producer, and a logger.
func NewEmployeeService(repo Repository, producer EventProducer, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("employee_service"),
		now:      time.Now,
	}
}

// ListAll returns every employee.
func (s *EmployeeService) ListAll(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// GetByID retrieves an Employee by ID, returning ErrNotFound if absent.
func (s *EmployeeService) GetByID(ctx context.Context, id int) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

// SearchByName returns the employees whose name contains name and logs
// how many matched.
func (s *EmployeeService) SearchByName(ctx context.Context, name string) ([]models.Employee, error) {
	employees, err := s.repo.FindByNameContaining(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search employees: %w", err)
	}
	s.logger.Info("Employee search finished",
		zap.String("search_name", name),
		zap.Int("result_count", len(employees)),
	)
	return employees, nil
}

// UpdateDependents stores a new dependents count and publishes a
// DependentsUpdated event.
func (s *EmployeeService) UpdateDependents(ctx context.Context, id int, count int) error {
	if err := s.repo.UpdateDependentsCount(ctx, id, count); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to update dependents count: %w", err)
	}

	s.producer.Produce(events.Event{
		ID:              uuid.New(),
		Type:            events.DependentsUpdated,
		EmployeeID:      id,
		DependentsCount: count,
		Actor:           auth.AdminName(ctx),
		OccurredAt:      s.now().UTC(),
	})
	return nil
}
