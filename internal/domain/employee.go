package domain

import "time"

// Employee is a single employee record. ID is assigned by the store on
// first save and never changes afterwards.
type Employee struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsNew reports whether the record has not been persisted yet.
func (e *Employee) IsNew() bool {
	return e.ID == 0
}
