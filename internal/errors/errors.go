package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is the universal error type passed between the layers of the
// service. It carries the status code the API should respond with and,
// for validation failures, a detail per offending field.
type Error struct {
	Status  int
	Err     error // The error this wraps
	Details []Detail
}

// Detail points at a single field that failed validation.
type Detail struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s, details: %v", e.Status, e.Err, e.Details)
}

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Message string   `json:"error"`
		Details []Detail `json:"details,omitempty"`
	}{
		Message: e.Err.Error(),
		Details: e.Details,
	})
}

// E constructs an [Error] from whatever is thrown at it: strings and
// errors become the wrapped error, an int sets the status, and details
// are appended in the order given.
func E(args ...any) *Error {
	ret := &Error{
		Status: http.StatusInternalServerError,
	}

	for _, arg := range args {
		switch arg := arg.(type) {
		case string:
			ret.Err = errors.New(arg)
		case error:
			ret.Err = arg
		case int:
			ret.Status = arg
		case Detail:
			ret.Details = append(ret.Details, arg)
		case []Detail:
			ret.Details = append(ret.Details, arg...)
		}
	}

	return ret
}
