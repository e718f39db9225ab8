package basedb

import (
	"errors"
	"strconv"
)

var (
	// ErrInvalidArgument is returned when a builder call or an execution
	// function receives empty or malformed input.
	ErrInvalidArgument = errors.New("basedb: invalid argument")

	// ErrPrecondition is returned when an operation's safety precondition
	// is not met, e.g. a DELETE without a WHERE clause.
	ErrPrecondition = errors.New("basedb: precondition failed")
)

// ConnectionError is returned when the driver fails to open a connection.
// There is no retry; the error is handed to the caller as-is.
type ConnectionError struct {
	Host string
	Port int
	Err  error
}

func (e *ConnectionError) Error() string {
	return "basedb: connect to " + e.Host + ":" + strconv.Itoa(e.Port) + ": " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ExecError wraps an error returned by the driver for a rendered
// statement. Its message is the driver's message verbatim.
type ExecError struct {
	Query string
	Err   error
}

func (e *ExecError) Error() string {
	return e.Err.Error()
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
