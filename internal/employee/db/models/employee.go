// Package models contains the storage models for the application,
// configured to work using GORM as the ORM.
package models

import (
	"time"

	domain "github.com/gartstein/employees/internal/employee/models"
)

// Employee is one row of the employees table. The schema itself is owned
// by the goose migrations; the tags only describe the mapping.
type Employee struct {
	ID              int        `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name            string     `gorm:"column:name"`
	Image           string     `gorm:"column:image"`
	Gender          string     `gorm:"column:gender"`
	HireDate        *time.Time `gorm:"column:hire_date"`
	MailAddress     string     `gorm:"column:mail_address"`
	ZipCode         string     `gorm:"column:zip_code"`
	Address         string     `gorm:"column:address"`
	Telephone       string     `gorm:"column:telephone"`
	Salary          int        `gorm:"column:salary"`
	Characteristics string     `gorm:"column:characteristics"`
	DependentsCount int        `gorm:"column:dependents_count;check:dependents_count >= 0"`
}

// TableName pins the table name instead of relying on GORM's pluralizer.
func (Employee) TableName() string {
	return "employees"
}

// ToDomain converts the row into the domain model.
func (e *Employee) ToDomain() *domain.Employee {
	var hired time.Time
	if e.HireDate != nil {
		hired = *e.HireDate
	}
	return &domain.Employee{
		ID:              e.ID,
		Name:            e.Name,
		Image:           e.Image,
		Gender:          e.Gender,
		HireDate:        hired,
		MailAddress:     e.MailAddress,
		ZipCode:         e.ZipCode,
		Address:         e.Address,
		Telephone:       e.Telephone,
		Salary:          e.Salary,
		Characteristics: e.Characteristics,
		DependentsCount: e.DependentsCount,
	}
}

// FromDomain builds a row from the domain model.
func FromDomain(e *domain.Employee) *Employee {
	var hired *time.Time
	if !e.HireDate.IsZero() {
		hired = &e.HireDate
	}
	return &Employee{
		ID:              e.ID,
		Name:            e.Name,
		Image:           e.Image,
		Gender:          e.Gender,
		HireDate:        hired,
		MailAddress:     e.MailAddress,
		ZipCode:         e.ZipCode,
		Address:         e.Address,
		Telephone:       e.Telephone,
		Salary:          e.Salary,
		Characteristics: e.Characteristics,
		DependentsCount: e.DependentsCount,
	}
}
