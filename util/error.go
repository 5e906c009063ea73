package util

import (
	"errors"
	"strings"
)

// -----------------------------------------------------------------------------

type wrappedError struct {
	context string
	cause   error
}

// -----------------------------------------------------------------------------

// Wrap annotates err with the given context. It returns nil if err is nil.
// The original error stays reachable through errors.Is and errors.As.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		context: context,
		cause:   err,
	}
}

// Error returns the context followed by every wrapped cause, innermost last.
func (w *wrappedError) Error() string {
	sb := strings.Builder{}
	_, _ = sb.WriteString(w.context)
	for err := w.cause; err != nil; {
		var inner *wrappedError

		_, _ = sb.WriteString(": ")
		if errors.As(err, &inner) && inner == err {
			_, _ = sb.WriteString(inner.context)
			err = inner.cause
		} else {
			_, _ = sb.WriteString(err.Error())
			break
		}
	}
	return sb.String()
}

// Unwrap returns the underlying error.
func (w *wrappedError) Unwrap() error {
	return w.cause
}
