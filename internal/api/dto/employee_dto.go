package dto

import (
	"time"

	"github.com/spec-kit/employee-service/internal/domain"
)

// EmployeeRequest is the payload for creating or replacing an employee.
type EmployeeRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	// contains=@ rather than email: addresses with non-ASCII local parts
	// such as akın@email.com are stored as given.
	Email string `json:"email" validate:"required,max=255,contains=@"`
}

// EmployeeResponse is the public representation of an employee.
type EmployeeResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NameSearchQuery binds GET /api/employees/search parameters.
type NameSearchQuery struct {
	FirstName string `query:"first_name" validate:"required"`
	LastName  string `query:"last_name" validate:"required"`
	Form      string `query:"form"`
}

// ToEmployee builds a new, unsaved domain employee.
func (r EmployeeRequest) ToEmployee() *domain.Employee {
	return &domain.Employee{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
	}
}

// NewEmployeeResponse maps a domain employee.
func NewEmployeeResponse(employee *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:        employee.ID,
		FirstName: employee.FirstName,
		LastName:  employee.LastName,
		Email:     employee.Email,
		CreatedAt: employee.CreatedAt,
		UpdatedAt: employee.UpdatedAt,
	}
}

// NewEmployeeListResponse maps a slice of domain employees.
func NewEmployeeListResponse(employees []domain.Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		resp = append(resp, NewEmployeeResponse(&employees[i]))
	}
	return resp
}
