// Package models defines the core domain model for the Employee entity.
package models

import "time"

// Employee defines the domain model for an employee record.
// Only DependentsCount is changed by this application; every other
// field is maintained outside of it.
type Employee struct {
	// ID is the immutable identifier of the employee.
	ID int
	// Name is the employee's full name.
	Name string
	// Image is the file name of the employee's photo.
	Image string
	// Gender as recorded by HR.
	Gender string
	// HireDate is the date the employee joined.
	HireDate time.Time
	// MailAddress is the employee's e-mail address.
	MailAddress string
	// ZipCode of the home address.
	ZipCode string
	// Address is the home address.
	Address string
	// Telephone is the contact number.
	Telephone string
	// Salary is the monthly salary.
	Salary int
	// Characteristics is a free-form description.
	Characteristics string
	// DependentsCount is the number of dependents, never negative.
	DependentsCount int
}
