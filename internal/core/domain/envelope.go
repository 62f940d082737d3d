package domain

import "fmt"

// CodeOK is the envelope code the backend uses for a successful call.
const CodeOK = 200

// Envelope is the {code, message, data} wrapper around every API payload.
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Unwrap returns the payload when the envelope code matches expected and an
// *APIError otherwise.
func (e Envelope[T]) Unwrap(expected int) (T, error) {
	if e.Code != expected {
		var zero T
		return zero, &APIError{Code: e.Code, Message: e.Message}
	}
	return e.Data, nil
}

// APIError is an application-level failure: the server answered, but with an
// envelope code other than the one the caller expected.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error (code %d)", e.Code)
	}
	return e.Message
}
