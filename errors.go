package moondream

import "fmt"

// TransportError is returned by every operation when the HTTP round trip
// fails: connection errors, timeouts, non-2xx statuses and undecodable
// response bodies all end up here. For a non-2xx response, StatusCode is set
// and Body holds the response text the service sent back.
type TransportError struct {
	// Op is the endpoint suffix of the failed operation (point, detect,
	// caption or query).
	Op string
	// StatusCode is the HTTP status, or 0 if the request never completed.
	StatusCode int
	// Body is the response body of a non-2xx reply, trimmed.
	Body string
	// Err is the underlying transport or decode error, if any.
	Err error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		if e.Body != "" {
			return fmt.Sprintf("moondream: %s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
		}
		return fmt.Sprintf("moondream: %s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("moondream: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
