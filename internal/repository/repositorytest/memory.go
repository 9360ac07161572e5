// Package repositorytest provides an in-memory EmployeeRepository for tests
// of the layers above the database.
package repositorytest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/repository"
)

// EmployeeRepository mimics the Postgres repository, including the unique
// email constraint and pgx sentinel errors.
type EmployeeRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Employee

	// Err, when set, is returned by every operation.
	Err error
	// Calls counts invocations per method name.
	Calls map[string]int
}

var _ repository.EmployeeRepository = (*EmployeeRepository)(nil)

// NewEmployeeRepository returns an empty store.
func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{
		rows:  make(map[int64]domain.Employee),
		Calls: make(map[string]int),
	}
}

func (r *EmployeeRepository) enter(method string) error {
	r.Calls[method]++
	return r.Err
}

func (r *EmployeeRepository) Save(_ context.Context, employee *domain.Employee) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Save"); err != nil {
		return nil, err
	}

	for id, row := range r.rows {
		if row.Email == employee.Email && id != employee.ID {
			return nil, fmt.Errorf("insert employee: %w", &pgconn.PgError{
				Code:           "23505",
				ConstraintName: "employees_email_key",
			})
		}
	}

	now := time.Now().UTC()
	if employee.IsNew() {
		r.nextID++
		employee.ID = r.nextID
		employee.CreatedAt = now
	} else {
		existing, ok := r.rows[employee.ID]
		if !ok {
			return nil, fmt.Errorf("update employee %d: %w", employee.ID, pgx.ErrNoRows)
		}
		employee.CreatedAt = existing.CreatedAt
	}
	employee.UpdatedAt = now
	r.rows[employee.ID] = *employee
	return employee, nil
}

func (r *EmployeeRepository) FindByID(_ context.Context, id int64) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("FindByID"); err != nil {
		return nil, err
	}

	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *EmployeeRepository) FindByEmail(_ context.Context, email string) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("FindByEmail"); err != nil {
		return nil, err
	}

	for _, row := range r.rows {
		if row.Email == email {
			return &row, nil
		}
	}
	return nil, nil
}

func (r *EmployeeRepository) FindAll(_ context.Context) ([]domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("FindAll"); err != nil {
		return nil, err
	}
	return r.filter(func(domain.Employee) bool { return true }), nil
}

func (r *EmployeeRepository) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("DeleteByID"); err != nil {
		return err
	}
	delete(r.rows, id)
	return nil
}

func (r *EmployeeRepository) FindByName(ctx context.Context, firstName, lastName string) ([]domain.Employee, error) {
	return r.findByName("FindByName", firstName, lastName)
}

func (r *EmployeeRepository) FindByNameNamed(ctx context.Context, firstName, lastName string) ([]domain.Employee, error) {
	return r.findByName("FindByNameNamed", firstName, lastName)
}

func (r *EmployeeRepository) FindByNameNative(ctx context.Context, firstName, lastName string) ([]domain.Employee, error) {
	return r.findByName("FindByNameNative", firstName, lastName)
}

func (r *EmployeeRepository) FindByNameNativeNamed(ctx context.Context, firstName, lastName string) ([]domain.Employee, error) {
	return r.findByName("FindByNameNativeNamed", firstName, lastName)
}

func (r *EmployeeRepository) findByName(method, firstName, lastName string) ([]domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(method); err != nil {
		return nil, err
	}
	return r.filter(func(e domain.Employee) bool {
		return e.FirstName == firstName && e.LastName == lastName
	}), nil
}

// filter must be called with mu held.
func (r *EmployeeRepository) filter(keep func(domain.Employee) bool) []domain.Employee {
	result := []domain.Employee{}
	for _, row := range r.rows {
		if keep(row) {
			result = append(result, row)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
