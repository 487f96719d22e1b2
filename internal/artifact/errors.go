package artifact

import (
	"errors"
	"fmt"
)

// FunctionNotFoundError is returned when a required function descriptor is
// absent from a loaded artifact.
type FunctionNotFoundError struct {
	Contract string
	Function string
}

func (e *FunctionNotFoundError) Error() string {
	return fmt.Sprintf("function %q not found in ABI of contract %s", e.Function, e.Contract)
}

// IsFunctionNotFound returns true if the error is a FunctionNotFoundError.
func IsFunctionNotFound(err error) bool {
	var fe *FunctionNotFoundError
	return errors.As(err, &fe)
}
