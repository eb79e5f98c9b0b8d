package httpclient

import "fmt"

// AuthError means no usable token was available. Fatal for the request;
// never retried.
type AuthError struct {
	Cause error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication required: %v", e.Cause)
}

func (e *AuthError) Unwrap() error { return e.Cause }

// NetworkError means no response reached us at all.
type NetworkError struct {
	URL   string
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("server unreachable at %s: %v", e.URL, e.Cause)
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// ServerError is a non-2xx response. The body is kept intact so callers can
// extract every diagnostic field the server supplied.
type ServerError struct {
	Status int
	Body   []byte
}

func (e *ServerError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("server returned HTTP %d", e.Status)
	}
	return fmt.Sprintf("server returned HTTP %d: %s", e.Status, string(e.Body))
}
