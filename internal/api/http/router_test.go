package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/api/http/handlers"
	"github.com/spec-kit/employee-service/internal/observability"
	"github.com/spec-kit/employee-service/internal/repository/repositorytest"
	"github.com/spec-kit/employee-service/internal/service"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type employeeBody struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func newTestApp(t *testing.T, deps map[string]handlers.Pinger) (*fiber.App, *repositorytest.EmployeeRepository) {
	t.Helper()
	repo := repositorytest.NewEmployeeRepository()
	metrics := observability.NewMetrics()
	logger := zap.NewNop()

	svc := service.NewEmployeeService(service.EmployeeDependencies{
		EmployeeRepo: repo,
		Metrics:      metrics,
		Logger:       logger,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:    handlers.NewHealthHandler("employee-service", "test", deps),
		Employees: handlers.NewEmployeesHandler(svc),
		Metrics:   metrics,
	})
	return app, repo
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decodeEmployee(t *testing.T, env envelope) employeeBody {
	t.Helper()
	var e employeeBody
	require.NoError(t, json.Unmarshal(env.Data, &e))
	return e
}

func decodeEmployees(t *testing.T, env envelope) []employeeBody {
	t.Helper()
	var list []employeeBody
	require.NoError(t, json.Unmarshal(env.Data, &list))
	return list
}

const onurJSON = `{"first_name":"Onur","last_name":"Haktan","email":"onur@email.com"}`

func TestEmployeeLifecycle(t *testing.T) {
	app, _ := newTestApp(t, nil)

	status, env := do(t, app, http.MethodPost, "/api/employees", onurJSON)
	require.Equal(t, http.StatusCreated, status)
	created := decodeEmployee(t, env)
	assert.Greater(t, created.ID, int64(0))

	status, env = do(t, app, http.MethodPost, "/api/employees", onurJSON)
	require.Equal(t, http.StatusConflict, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)
	assert.Contains(t, env.Error.Message, "onur@email.com")
	assert.Equal(t, "onur@email.com", env.Error.Details["email"])

	path := "/api/employees/" + strconv.FormatInt(created.ID, 10)
	status, env = do(t, app, http.MethodPut, path, `{"first_name":"Akın","last_name":"Haktan","email":"akın@email.com"}`)
	require.Equal(t, http.StatusOK, status)
	updated := decodeEmployee(t, env)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Akın", updated.FirstName)
	assert.Equal(t, "akın@email.com", updated.Email)

	status, env = do(t, app, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, updated, decodeEmployee(t, env))

	status, _ = do(t, app, http.MethodDelete, path, "")
	require.Equal(t, http.StatusNoContent, status)

	status, env = do(t, app, http.MethodGet, path, "")
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	status, _ = do(t, app, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, status)
}

func TestListAndSearch(t *testing.T) {
	app, _ := newTestApp(t, nil)

	status, env := do(t, app, http.MethodGet, "/api/employees", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decodeEmployees(t, env))

	for _, body := range []string{
		onurJSON,
		`{"first_name":"Göksu","last_name":"Turaç","email":"goksu@email.com"}`,
	} {
		status, _ := do(t, app, http.MethodPost, "/api/employees", body)
		require.Equal(t, http.StatusCreated, status)
	}

	status, env = do(t, app, http.MethodGet, "/api/employees", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeEmployees(t, env), 2)

	var results [][]employeeBody
	for _, form := range []string{"", "query_named", "native", "native_named"} {
		status, env := do(t, app, http.MethodGet, "/api/employees/search?first_name=Onur&last_name=Haktan&form="+form, "")
		require.Equal(t, http.StatusOK, status, form)
		results = append(results, decodeEmployees(t, env))
	}
	require.Len(t, results[0], 1)
	assert.Equal(t, "onur@email.com", results[0][0].Email)
	for _, r := range results[1:] {
		assert.Equal(t, results[0], r)
	}

	status, env = do(t, app, http.MethodGet, "/api/employees/search?first_name=Onur&last_name=Haktan&form=jpql", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)

	status, env = do(t, app, http.MethodGet, "/api/employees/search?first_name=Onur", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "required", env.Error.Details["last_name"])
}

func TestCreateValidation(t *testing.T) {
	app, repo := newTestApp(t, nil)

	status, env := do(t, app, http.MethodPost, "/api/employees", `{"first_name":"Onur"}`)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Equal(t, "required", env.Error.Details["email"])

	status, _ = do(t, app, http.MethodPost, "/api/employees", `{not json`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodGet, "/api/employees/abc", "")
	assert.Equal(t, http.StatusBadRequest, status)

	assert.Zero(t, repo.Calls["Save"])
}

func TestRepositoryFailureIsInternal(t *testing.T) {
	app, repo := newTestApp(t, nil)
	repo.Err = errors.New("connection reset")

	status, env := do(t, app, http.MethodGet, "/api/employees", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	assert.NotContains(t, env.Error.Message, "connection reset")
}

func TestUnknownRoute(t *testing.T) {
	app, _ := newTestApp(t, nil)

	status, env := do(t, app, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t, map[string]handlers.Pinger{
		"postgres": stubPinger{},
		"redis":    nil,
	})

	status, _ := do(t, app, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, app, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, status)

	down, _ := newTestApp(t, map[string]handlers.Pinger{"postgres": stubPinger{err: errors.New("refused")}})
	status, env := do(t, down, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", env.Error.Code)
	assert.Equal(t, "refused", env.Error.Details["postgres"])
}

func TestRequestIDAndMetrics(t *testing.T) {
	app, _ := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
	req.Header.Set(observability.RequestIDHeader, "req-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "req-123", resp.Header.Get(observability.RequestIDHeader))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `employee_service_http_requests_total{method="GET",path="/api/employees",status="200"} 1`)
}
