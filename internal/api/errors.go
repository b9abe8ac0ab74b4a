package api

import (
	"errors"
	"fmt"
)

// ErrUnreachable marks transport-level failures (DNS, refused connection,
// reset) where no HTTP response was received.
var ErrUnreachable = errors.New("server unreachable")

// APIError is returned for any non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
}

// Message turns err into text fit for a banner. Server-reported messages win;
// unreachable servers get a fixed message; anything else yields fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrUnreachable) {
		return "Unable to reach the server"
	}
	return fallback
}
