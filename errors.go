package dropcountr

import (
	"errors"
	"fmt"
)

// ErrMissingData reports a successful response whose body has no "data" key.
var ErrMissingData = errors.New("response has no data field")

// StatusError is returned by Get for any non-2xx response. The client never
// retries; callers can inspect StatusCode to tell 4xx from 5xx.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}
