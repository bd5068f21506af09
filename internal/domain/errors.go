package domain

import "errors"

type ErrorKind string

const (
	ErrorKindConfiguration  ErrorKind = "configuration"
	ErrorKindProbeTransport ErrorKind = "probe_transport"
	ErrorKindTimeout        ErrorKind = "timeout"
	ErrorKindInfrastructure ErrorKind = "infrastructure"
)

// Error classifies a failure. Its message is the underlying message
// unchanged, so it can be copied into Result.Error as is.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrTimeout)
// works for wrapped and freshly built errors alike.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrConfiguration  = &Error{Kind: ErrorKindConfiguration}
	ErrProbeTransport = &Error{Kind: ErrorKindProbeTransport}
	ErrTimeout        = &Error{Kind: ErrorKindTimeout, Err: errors.New("timeout")}
	ErrInfrastructure = &Error{Kind: ErrorKindInfrastructure}
)

func NewConfigurationError(msg string) error {
	return &Error{Kind: ErrorKindConfiguration, Err: errors.New(msg)}
}

func NewTransportError(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: ErrorKindProbeTransport, Err: err}
}

func NewInfrastructureError(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: ErrorKindInfrastructure, Err: err}
}

// KindOf returns the kind of the first *Error in the chain. Unclassified
// errors coming out of a probe count as transport errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrorKindProbeTransport
}

// ErrNotFound is returned by stores for a missing definition.
var ErrNotFound = errors.New("not found")
