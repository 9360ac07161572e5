package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/employee-service/internal/domain"
)

func TestDispatcherDeliversByType(t *testing.T) {
	d := NewInMemoryDispatcher()

	var created, deleted []Event
	d.Subscribe(EventEmployeeCreated, func(_ context.Context, e Event) error {
		created = append(created, e)
		return nil
	})
	d.Subscribe(EventEmployeeDeleted, func(_ context.Context, e Event) error {
		deleted = append(deleted, e)
		return nil
	})

	employee := &domain.Employee{ID: 7, FirstName: "Onur", LastName: "Haktan", Email: "onur@email.com"}
	require.NoError(t, d.Publish(context.Background(), NewEmployeeEvent(EventEmployeeCreated, employee)))

	require.Len(t, created, 1)
	assert.Empty(t, deleted)
	assert.Equal(t, int64(7), created[0].EmployeeID)
	assert.NotEmpty(t, created[0].ID)
	assert.Equal(t, EmployeePayload{FirstName: "Onur", LastName: "Haktan", Email: "onur@email.com"}, created[0].Payload)
}

func TestDispatcherRunsAllHandlersOnError(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")

	calls := 0
	d.Subscribe(EventEmployeeUpdated, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventEmployeeUpdated, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), NewEmployeeEvent(EventEmployeeUpdated, &domain.Employee{ID: 1}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestDispatcherWithoutListeners(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), NewEmployeeEvent(EventEmployeeDeleted, &domain.Employee{ID: 1})))
}
