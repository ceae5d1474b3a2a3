package backend

import "fmt"

// NetworkError is a transport-level failure: connection refused, DNS,
// context cancellation, or an unparseable response. Check with errors.As.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network failure: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a response with a non-2xx status. Body carries the raw
// response text so callers can surface the server's own wording.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Body)
}

// ReportedError is an application-level failure delivered inside a
// successful transport response (a "reported failure"). Message is the
// best-effort human-readable detail extracted from the body.
type ReportedError struct {
	Message string
}

func (e *ReportedError) Error() string { return e.Message }
