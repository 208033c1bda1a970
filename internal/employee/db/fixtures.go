package db

import (
	"fmt"
	"os"
	"time"

	"github.com/gartstein/employees/internal/employee/models"
	"gopkg.in/yaml.v3"
)

const hireDateLayout = "2006-01-02"

// fixture is the YAML shape of one seeded employee.
type fixture struct {
	ID              int    `yaml:"id"`
	Name            string `yaml:"name"`
	Image           string `yaml:"image"`
	Gender          string `yaml:"gender"`
	HireDate        string `yaml:"hire_date"`
	MailAddress     string `yaml:"mail_address"`
	ZipCode         string `yaml:"zip_code"`
	Address         string `yaml:"address"`
	Telephone       string `yaml:"telephone"`
	Salary          int    `yaml:"salary"`
	Characteristics string `yaml:"characteristics"`
	DependentsCount int    `yaml:"dependents_count"`
}

type fixtureFile struct {
	Employees []fixture `yaml:"employees"`
}

// LoadFixtures reads employees to seed from a YAML file.
func LoadFixtures(path string) ([]models.Employee, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes the YAML fixture format.
func ParseFixtures(data []byte) ([]models.Employee, error) {
	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	employees := make([]models.Employee, 0, len(file.Employees))
	for _, f := range file.Employees {
		if f.ID <= 0 || f.ID > MaxID {
			return nil, fmt.Errorf("fixture %q: id must be between 1 and %d", f.Name, MaxID)
		}
		if f.DependentsCount < 0 {
			return nil, fmt.Errorf("fixture %d: dependents_count must not be negative", f.ID)
		}
		var hired time.Time
		if f.HireDate != "" {
			t, err := time.Parse(hireDateLayout, f.HireDate)
			if err != nil {
				return nil, fmt.Errorf("fixture %d: hire_date: %w", f.ID, err)
			}
			hired = t
		}
		employees = append(employees, models.Employee{
			ID:              f.ID,
			Name:            f.Name,
			Image:           f.Image,
			Gender:          f.Gender,
			HireDate:        hired,
			MailAddress:     f.MailAddress,
			ZipCode:         f.ZipCode,
			Address:         f.Address,
			Telephone:       f.Telephone,
			Salary:          f.Salary,
			Characteristics: f.Characteristics,
			DependentsCount: f.DependentsCount,
		})
	}
	return employees, nil
}
