package model

import (
	"errors"
	"fmt"
)

// ErrModelUnavailable reports that the model service could not serve a
// prediction (unreachable, not ready, or persistent 5xx).
var ErrModelUnavailable = errors.New("model service unavailable")

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("model service http %d", e.StatusCode)
	}
	return fmt.Sprintf("model service http %d: %s", e.StatusCode, e.Body)
}
