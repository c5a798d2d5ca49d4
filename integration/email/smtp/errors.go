package smtp

import (
	"fmt"

	"github.com/dmitrymomot/smtpmail/core/email"
)

// protectedRun runs fn and turns any returned error or panic into an
// email.OperationError named after op. The cause is kept for errors.Unwrap.
func protectedRun[T any](op string, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			err = &email.OperationError{Op: op, Err: panicError(r)}
		}
	}()

	result, err = fn()
	if err != nil {
		return result, &email.OperationError{Op: op, Err: err}
	}
	return result, nil
}

// protectedDo is protectedRun for calls without a result.
func protectedDo(op string, fn func() error) error {
	_, err := protectedRun(op, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
