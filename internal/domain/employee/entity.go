package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID                       int64
	Code                     string
	FirstName                string
	LastName                 string
	Email                    string
	Phone                    *string
	HireDate                 time.Time
	DateOfBirth              *time.Time
	Salary                   decimal.Decimal
	DepartmentID             int64
	DesignationID            int64
	EmploymentType           EmploymentType
	Status                   Status
	Address                  *string
	PhotoURL                 *string
	PhotoPath                *string
	EmergencyContactName     *string
	EmergencyContactPhone    *string
	EmergencyContactRelation *string
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

func (e Employee) FullName() string {
	return FullName(e.FirstName, e.LastName)
}

// Brief is the slice of an employee other records join against.
type Brief struct {
	ID            int64
	Code          string
	Name          string
	Email         string
	DepartmentID  int64
	DesignationID int64
	Status        Status
}

type Status string

const (
	StatusActive     Status = "Active"
	StatusInactive   Status = "Inactive"
	StatusTerminated Status = "Terminated"
)

var Statuses = []string{string(StatusActive), string(StatusInactive), string(StatusTerminated)}

type EmploymentType string

const (
	EmploymentTypeFullTime   EmploymentType = "Full-Time"
	EmploymentTypePartTime   EmploymentType = "Part-Time"
	EmploymentTypeContractor EmploymentType = "Contractor"
	EmploymentTypeIntern     EmploymentType = "Intern"
)

var EmploymentTypes = []string{
	string(EmploymentTypeFullTime), string(EmploymentTypePartTime),
	string(EmploymentTypeContractor), string(EmploymentTypeIntern),
}

// FullName joins first and last name, tolerating either being empty.
func FullName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}
