package transport

import (
	"errors"
	"fmt"
)

// Sentinel errors for response validation.
var (
	ErrInvalidJSON     = errors.New("transport: response is not valid JSON")
	ErrStatusFalse     = errors.New("transport: provider reported failure")
	ErrEmptyCollection = errors.New("transport: expected collection is empty")
	ErrUnexpectedShape = errors.New("transport: response has unexpected shape")
	ErrBodyTooLarge    = errors.New("transport: response body too large")
)

// TransportError reports a request that did not produce a 2xx response.
// StatusCode is 0 when no response was received.
type TransportError struct {
	Path       Path
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport: %s request failed with status %d", e.Path, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("transport: %s request failed: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("transport: %s request failed", e.Path)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StructuralError reports a 2xx response whose body was rejected.
type StructuralError struct {
	Path Path
	Err  error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("transport: %s response rejected: %v", e.Path, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// IsTransport reports whether err contains a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsStructural reports whether err contains a *StructuralError.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}
