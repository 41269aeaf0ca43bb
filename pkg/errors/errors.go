// Package errors provides structured error handling for inlinesvg.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindNetwork indicates a transport failure or a non-2xx response.
	KindNetwork
	// KindContentType indicates a response with an unexpected MIME type.
	KindContentType
	// KindUnknownName indicates a name absent from the configured path map.
	KindUnknownName
	// KindSettle indicates a batch-level failure not tied to a specific name.
	KindSettle
	// KindConfig indicates an invalid manifest or option.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindContentType:
		return "content-type"
	case KindUnknownName:
		return "unknown-name"
	case KindSettle:
		return "settle"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// InlineError represents a structured error reported by the engine.
type InlineError struct {
	// Op is the operation that failed (e.g., "inlinesvg.fetchBatch").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Name is the logical SVG name involved, if any.
	Name string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *InlineError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s [%s] name=%s: %v", e.Op, e.Kind, e.Name, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *InlineError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "loop.task").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// NetworkError is returned when a fetch fails in transport or the server
// answers with a status above 299.
type NetworkError struct {
	// URL is the requested resource.
	URL string
	// Status is the HTTP status code, or 0 for transport failures.
	Status int
	// Err is the transport error, if any.
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: not found (status %d)", e.URL, e.Status)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ContentTypeError is returned when a response is neither image/svg+xml nor
// text/plain.
type ContentTypeError struct {
	URL         string
	ContentType string
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("Content type isn't valid: %s", e.ContentType)
}

// UnknownNameError is returned synchronously when a name is not present in
// the configured path map.
type UnknownNameError struct {
	Name string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("unknown svgName %q", e.Name)
}

// SettleError is a batch-level failure that could not be attributed to a
// regular error value, such as a panic inside a fetch.
type SettleError struct {
	Value any
}

func (e *SettleError) Error() string {
	if e.Value == nil {
		return "fetch settle rejected"
	}
	return fmt.Sprintf("fetch settle rejected: %v", e.Value)
}

// Unwrap returns Value when it is an error.
func (e *SettleError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// ErrorHandler receives errors reported by inlinesvg.
type ErrorHandler interface {
	// HandleError is called when an error has no consumer callback.
	HandleError(err *InlineError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
