package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spec-kit/employee-service/internal/domain"
)

// employeeModel maps the employees table for gorm.
type employeeModel struct {
	ID        int64 `gorm:"primaryKey"`
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (employeeModel) TableName() string {
	return "employees"
}

func (m employeeModel) toDomain() domain.Employee {
	return domain.Employee{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *employeeRepository) FindByName(ctx context.Context, firstName, lastName string) ([]domain.Employee, error) {
	var models []employeeModel
	err := r.orm.WithContext(ctx).
		Where("first_name = ? AND last_name = ?", firstName, lastName).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("find employees by name: %w", err)
	}
	return toDomainEmployees(models), nil
}

func (r *employeeRepository) FindByNameNamed(ctx context.Context, firstName, lastName string) ([]domain.Employee, error) {
	var models []employeeModel
	err := r.orm.WithContext(ctx).
		Where("first_name = @first_name AND last_name = @last_name",
			sql.Named("first_name", firstName),
			sql.Named("last_name", lastName)).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("find employees by name: %w", err)
	}
	return toDomainEmployees(models), nil
}

func toDomainEmployees(models []employeeModel) []domain.Employee {
	result := make([]domain.Employee, 0, len(models))
	for _, m := range models {
		result = append(result, m.toDomain())
	}
	return result
}
