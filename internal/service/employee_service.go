package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/events"
	"github.com/spec-kit/employee-service/internal/lock"
	"github.com/spec-kit/employee-service/internal/observability"
	"github.com/spec-kit/employee-service/internal/repository"
	apperrors "github.com/spec-kit/employee-service/pkg/util/errorutil"
)

// NameQueryForm selects which repository query answers a name search.
type NameQueryForm string

const (
	NameQuery            NameQueryForm = "query"
	NameQueryNamed       NameQueryForm = "query_named"
	NameQueryNative      NameQueryForm = "native"
	NameQueryNativeNamed NameQueryForm = "native_named"
)

// ParseNameQueryForm maps a request value to a form; empty selects NameQuery.
func ParseNameQueryForm(value string) (NameQueryForm, error) {
	switch form := NameQueryForm(strings.ToLower(strings.TrimSpace(value))); form {
	case "":
		return NameQuery, nil
	case NameQuery, NameQueryNamed, NameQueryNative, NameQueryNativeNamed:
		return form, nil
	default:
		return "", apperrors.NewValidationError("unknown query form", map[string]any{"form": value})
	}
}

// EmployeeDependencies encapsulates collaborators required by EmployeeService.
type EmployeeDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	EmailLock    lock.Locker
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
}

// EmployeeService enforces the email uniqueness rule on top of the repository.
// It holds no state between calls.
type EmployeeService struct {
	employees  repository.EmployeeRepository
	emailLock  lock.Locker
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewEmployeeService constructs the service. A nil EmailLock disables
// locking; the database unique constraint still holds.
func NewEmployeeService(deps EmployeeDependencies) *EmployeeService {
	s := &EmployeeService{
		employees:  deps.EmployeeRepo,
		emailLock:  deps.EmailLock,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
	if s.emailLock == nil {
		s.emailLock = lock.Noop{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

func emailConflict(email string) error {
	return apperrors.NewConflict(
		fmt.Sprintf("employee already exists with given email: %s", email),
		map[string]any{"email": email},
	)
}

func validateEmployee(employee *domain.Employee) error {
	if employee == nil {
		return apperrors.NewValidationError("employee required", nil)
	}
	missing := map[string]any{}
	if strings.TrimSpace(employee.FirstName) == "" {
		missing["first_name"] = "required"
	}
	if strings.TrimSpace(employee.LastName) == "" {
		missing["last_name"] = "required"
	}
	if strings.TrimSpace(employee.Email) == "" {
		missing["email"] = "required"
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("invalid employee", missing)
	}
	return nil
}

// SaveEmployee inserts a new employee or updates an existing one. It fails
// with a CONFLICT error when another record already uses the email.
func (s *EmployeeService) SaveEmployee(ctx context.Context, employee *domain.Employee) (*domain.Employee, error) {
	if err := validateEmployee(employee); err != nil {
		s.metrics.RecordEmployeeOperation("save", "invalid")
		return nil, err
	}

	release, err := s.emailLock.Acquire(ctx, employee.Email)
	switch {
	case errors.Is(err, lock.ErrHeld):
		s.metrics.RecordEmployeeOperation("save", "conflict")
		return nil, emailConflict(employee.Email)
	case err != nil:
		s.logger.Warn("email lock unavailable; relying on unique constraint",
			zap.String("email", employee.Email), zap.Error(err))
	default:
		defer release()
	}

	existing, err := s.employees.FindByEmail(ctx, employee.Email)
	if err != nil {
		s.metrics.RecordEmployeeOperation("save", "error")
		return nil, apperrors.MapError(err)
	}
	if existing != nil && existing.ID != employee.ID {
		s.metrics.RecordEmployeeOperation("save", "conflict")
		return nil, emailConflict(employee.Email)
	}

	isNew := employee.IsNew()
	saved, err := s.employees.Save(ctx, employee)
	if err != nil {
		if apperrors.IsUniqueViolation(err) {
			s.metrics.RecordEmployeeOperation("save", "conflict")
			return nil, emailConflict(employee.Email)
		}
		if apperrors.IsNoRows(err) {
			s.metrics.RecordEmployeeOperation("save", "not_found")
			return nil, apperrors.NewNotFound("employee", map[string]any{"id": employee.ID})
		}
		s.metrics.RecordEmployeeOperation("save", "error")
		return nil, apperrors.MapError(err)
	}

	eventType := events.EventEmployeeUpdated
	if isNew {
		eventType = events.EventEmployeeCreated
	}
	s.publish(ctx, eventType, saved)
	s.metrics.RecordEmployeeOperation("save", "ok")
	return saved, nil
}

// GetEmployee returns the employee or a NOT_FOUND error.
func (s *EmployeeService) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	employee, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if employee == nil {
		return nil, apperrors.NewNotFound("employee", map[string]any{"id": id})
	}
	return employee, nil
}

// ListEmployees returns every employee.
func (s *EmployeeService) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	employees, err := s.employees.FindAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return employees, nil
}

// FindEmployeesByName answers a first+last name search with the selected query form.
func (s *EmployeeService) FindEmployeesByName(ctx context.Context, firstName, lastName string, form NameQueryForm) ([]domain.Employee, error) {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, apperrors.NewValidationError("first_name and last_name required", nil)
	}

	var find func(context.Context, string, string) ([]domain.Employee, error)
	switch form {
	case NameQuery, "":
		find = s.employees.FindByName
	case NameQueryNamed:
		find = s.employees.FindByNameNamed
	case NameQueryNative:
		find = s.employees.FindByNameNative
	case NameQueryNativeNamed:
		find = s.employees.FindByNameNativeNamed
	default:
		return nil, apperrors.NewValidationError("unknown query form", map[string]any{"form": string(form)})
	}

	employees, err := find(ctx, firstName, lastName)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return employees, nil
}

// UpdateEmployee loads the employee, applies the new values and saves it
// through SaveEmployee.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id int64, firstName, lastName, email string) (*domain.Employee, error) {
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	employee.FirstName = firstName
	employee.LastName = lastName
	employee.Email = email
	return s.SaveEmployee(ctx, employee)
}

// DeleteEmployee removes the employee. Unknown ids are not an error.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id int64) error {
	existing, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := s.employees.DeleteByID(ctx, id); err != nil {
		s.metrics.RecordEmployeeOperation("delete", "error")
		return apperrors.MapError(err)
	}
	if existing == nil {
		s.metrics.RecordEmployeeOperation("delete", "noop")
		return nil
	}
	s.publish(ctx, events.EventEmployeeDeleted, existing)
	s.metrics.RecordEmployeeOperation("delete", "ok")
	return nil
}

func (s *EmployeeService) publish(ctx context.Context, eventType events.EventType, employee *domain.Employee) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, events.NewEmployeeEvent(eventType, employee)); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(eventType)),
			zap.Int64("employee_id", employee.ID),
			zap.Error(err))
	}
}
