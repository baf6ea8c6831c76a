package livefeed

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedNegotiation is returned when the negotiate response cannot yield a socket URL.
	ErrMalformedNegotiation = errors.New("livefeed: malformed negotiation response")
	// ErrInvalidCourtID is returned for court identifiers that are not decimal digits.
	ErrInvalidCourtID = errors.New("livefeed: invalid court id")

	errServerClosed = errors.New("livefeed: server closed the connection")
)

// StatusError captures non-2xx responses from the negotiate endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("livefeed: negotiate failed (status=%d)", e.StatusCode)
	}
	return fmt.Sprintf("livefeed: negotiate failed (status=%d): %s", e.StatusCode, e.Body)
}

// AsStatusError attempts to unwrap an error into a StatusError.
func AsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}
