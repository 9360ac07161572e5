// Package lock provides short-lived named locks used to serialize saves
// that target the same employee email.
package lock

import (
	"context"
	"errors"
)

// ErrHeld is returned when another holder owns the lock.
var ErrHeld = errors.New("lock held by another request")

// Locker acquires a named lock. The returned release func is safe to call
// once the protected section ends.
type Locker interface {
	Acquire(ctx context.Context, name string) (release func(), err error)
}

// Noop never blocks. It is used when no Redis is configured.
type Noop struct{}

// Acquire always succeeds.
func (Noop) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}
