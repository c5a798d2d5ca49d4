package email

import (
	"errors"
	"fmt"
	"strings"
)

// Error variables define email operation failures that can be wrapped with
// detailed context using errors.Join() or fmt.Errorf("%w") for comprehensive error reporting.
var (
	ErrFailedToSendEmail = errors.New("failed to send email")
	ErrInvalidConfig     = errors.New("invalid email configuration")
	ErrInvalidParams     = errors.New("invalid email parameters")

	// ErrUnsupportedValue marks a variant this package does not implement
	// (authentication kind, recipient type, body type).
	ErrUnsupportedValue = errors.New("unsupported value")
	// ErrOperationFailed marks any failure reported by the underlying mail library.
	ErrOperationFailed = errors.New("operation failed")
	// ErrSendOperationFailed is returned when the transport reports that the
	// message was not sent. It also matches ErrOperationFailed.
	ErrSendOperationFailed = fmt.Errorf("send mail %w", ErrOperationFailed)
	// ErrMailConsumed is returned when a mail is used after Send.
	ErrMailConsumed = errors.New("mail already consumed by send")
)

// UnsupportedValueError describes a value of an unsupported kind supplied for a field.
type UnsupportedValueError struct {
	Value any
	Field string
}

// NewUnsupportedValue returns an error matching ErrUnsupportedValue.
func NewUnsupportedValue(value any, field string) error {
	return &UnsupportedValueError{Value: value, Field: field}
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("unsupported value for %s: %s", e.Field, describeValue(e.Value))
}

// Is reports ErrUnsupportedValue as the error kind.
func (e *UnsupportedValueError) Is(target error) bool {
	return target == ErrUnsupportedValue
}

func describeValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return fmt.Sprintf("%q", t)
	case Authentication:
		return fmt.Sprintf("%T (kind %q)", v, authKind(t))
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%T", v)
	}
}

// authKind guards against typed nil credentials with value receivers.
func authKind(a Authentication) (kind string) {
	defer func() {
		if recover() != nil {
			kind = "unknown"
		}
	}()
	return a.Kind()
}

// OperationError wraps a failure of the underlying mail library.
// The original cause is always kept and reachable through errors.Unwrap.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + ErrOperationFailed.Error()
	}
	return e.Op + ": " + ErrOperationFailed.Error() + ": " + e.Err.Error()
}

func (e *OperationError) Unwrap() error { return e.Err }

// Is reports ErrOperationFailed as the error kind.
func (e *OperationError) Is(target error) bool {
	return target == ErrOperationFailed
}

// NewSendOperationFailed builds the send-specific error from the transport's
// own diagnostic. An empty diagnostic yields ErrSendOperationFailed as is.
func NewSendOperationFailed(diagnostic string) error {
	diagnostic = strings.TrimSpace(diagnostic)
	if diagnostic == "" {
		return ErrSendOperationFailed
	}
	return fmt.Errorf("%w: %s", ErrSendOperationFailed, diagnostic)
}
