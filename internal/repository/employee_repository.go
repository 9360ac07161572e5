package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"

	"github.com/spec-kit/employee-service/internal/domain"
)

// EmployeeRepository defines persistence access for employee records.
//
// Single-record lookups return nil, nil when nothing matches. The FindByName
// family returns every record with the given first and last name ordered by
// id, and an empty slice when there is none.
type EmployeeRepository interface {
	Save(ctx context.Context, employee *domain.Employee) (*domain.Employee, error)
	FindByID(ctx context.Context, id int64) (*domain.Employee, error)
	FindByEmail(ctx context.Context, email string) (*domain.Employee, error)
	FindAll(ctx context.Context) ([]domain.Employee, error)
	DeleteByID(ctx context.Context, id int64) error

	// FindByName and FindByNameNamed go through the ORM.
	FindByName(ctx context.Context, firstName, lastName string) ([]domain.Employee, error)
	FindByNameNamed(ctx context.Context, firstName, lastName string) ([]domain.Employee, error)
	// FindByNameNative and FindByNameNativeNamed issue PostgreSQL directly.
	FindByNameNative(ctx context.Context, firstName, lastName string) ([]domain.Employee, error)
	FindByNameNativeNamed(ctx context.Context, firstName, lastName string) ([]domain.Employee, error)
}

type employeeRepository struct {
	pool *pgxpool.Pool
	orm  *gorm.DB
}

// NewEmployeeRepository returns a Postgres-backed implementation. orm must be
// opened on the same database as pool.
func NewEmployeeRepository(pool *pgxpool.Pool, orm *gorm.DB) EmployeeRepository {
	return &employeeRepository{pool: pool, orm: orm}
}

const employeeColumns = `id, first_name, last_name, email, created_at, updated_at`

// Save inserts new records and updates existing ones. Updating an id that
// does not exist returns pgx.ErrNoRows.
func (r *employeeRepository) Save(ctx context.Context, employee *domain.Employee) (*domain.Employee, error) {
	if employee.IsNew() {
		if err := r.create(ctx, employee); err != nil {
			return nil, fmt.Errorf("insert employee: %w", err)
		}
		return employee, nil
	}
	if err := r.update(ctx, employee); err != nil {
		return nil, fmt.Errorf("update employee %d: %w", employee.ID, err)
	}
	return employee, nil
}

func (r *employeeRepository) create(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employees (first_name, last_name, email)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		employee.FirstName,
		employee.LastName,
		employee.Email,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
}

func (r *employeeRepository) update(ctx context.Context, employee *domain.Employee) error {
	const query = `
        UPDATE employees SET first_name=$1, last_name=$2, email=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		employee.FirstName,
		employee.LastName,
		employee.Email,
		employee.ID,
	).Scan(&employee.CreatedAt, &employee.UpdatedAt)
}

func (r *employeeRepository) FindByID(ctx context.Context, id int64) (*domain.Employee, error) {
	const query = `SELECT ` + employeeColumns + ` FROM employees WHERE id=$1`

	employee, err := scanEmployee(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find employee %d: %w", id, err)
	}
	return employee, nil
}

func (r *employeeRepository) FindByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	const query = `SELECT ` + employeeColumns + ` FROM employees WHERE email=$1`

	employee, err := scanEmployee(r.pool.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find employee by email: %w", err)
	}
	return employee, nil
}

func (r *employeeRepository) FindAll(ctx context.Context) ([]domain.Employee, error) {
	const query = `SELECT ` + employeeColumns + ` FROM employees ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return collectEmployees(rows)
}

// DeleteByID is a no-op for unknown ids.
func (r *employeeRepository) DeleteByID(ctx context.Context, id int64) error {
	const query = `DELETE FROM employees WHERE id=$1`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	return nil
}

func (r *employeeRepository) FindByNameNative(ctx context.Context, firstName, lastName string) ([]domain.Employee, error) {
	const query = `
        SELECT ` + employeeColumns + `
        FROM employees WHERE first_name=$1 AND last_name=$2
        ORDER BY id`

	rows, err := r.pool.Query(ctx, query, firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("find employees by name: %w", err)
	}
	return collectEmployees(rows)
}

func (r *employeeRepository) FindByNameNativeNamed(ctx context.Context, firstName, lastName string) ([]domain.Employee, error) {
	const query = `
        SELECT ` + employeeColumns + `
        FROM employees WHERE first_name=@first_name AND last_name=@last_name
        ORDER BY id`

	rows, err := r.pool.Query(ctx, query, pgx.NamedArgs{
		"first_name": firstName,
		"last_name":  lastName,
	})
	if err != nil {
		return nil, fmt.Errorf("find employees by name: %w", err)
	}
	return collectEmployees(rows)
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var employee domain.Employee
	if err := row.Scan(
		&employee.ID,
		&employee.FirstName,
		&employee.LastName,
		&employee.Email,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &employee, nil
}

func collectEmployees(rows pgx.Rows) ([]domain.Employee, error) {
	defer rows.Close()

	result := []domain.Employee{}
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *employee)
	}
	return result, rows.Err()
}
