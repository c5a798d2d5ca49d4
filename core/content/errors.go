package content

import "errors"

var (
	ErrUnsupportedContent = errors.New("unsupported content")
	ErrMaterializeFailed  = errors.New("failed to materialize content")
	ErrNotFound           = errors.New("content not found")
	ErrAccessDenied       = errors.New("content access denied")
	ErrUnavailable        = errors.New("content source unavailable")
	ErrOperationTimeout   = errors.New("content operation timeout")
	ErrOperationCanceled  = errors.New("content operation canceled")
)
