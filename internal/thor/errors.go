package thor

import (
	"errors"
	"fmt"
)

// RequestError is returned when the node answers with a non-success HTTP
// status. It carries the endpoint and the response body so node-side
// rejections (malformed tx, insufficient funds, bad signature) surface
// verbatim.
type RequestError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request to %s failed: HTTP %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// IsRequestError returns true if the error is a RequestError.
func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}
