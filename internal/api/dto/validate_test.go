package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/employee-service/pkg/util/errorutil"
)

func TestValidateEmployeeRequest(t *testing.T) {
	valid := EmployeeRequest{FirstName: "Akın", LastName: "Haktan", Email: "akın@email.com"}
	assert.NoError(t, Validate(valid))

	err := Validate(EmployeeRequest{FirstName: "Onur", Email: "not-an-address"})
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Equal(t, map[string]any{
		"last_name": "required",
		"email":     "contains",
	}, domainErr.Details)
}

func TestValidateNameSearchQuery(t *testing.T) {
	err := Validate(NameSearchQuery{FirstName: "Onur"})
	require.Error(t, err)
	assert.Equal(t, map[string]any{"last_name": "required"}, apperrors.ToDomainError(err).Details)

	assert.NoError(t, Validate(NameSearchQuery{FirstName: "Onur", LastName: "Haktan", Form: "native"}))
}

func TestEmployeeRequestToEmployee(t *testing.T) {
	employee := EmployeeRequest{FirstName: "Onur", LastName: "Haktan", Email: "onur@email.com"}.ToEmployee()
	assert.True(t, employee.IsNew())
	assert.Equal(t, "onur@email.com", employee.Email)
}
