package transport

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FallbackMessage is used when a failure carries no message of its own.
const FallbackMessage = "request_failed"

var ErrInvalidRequest = errors.New("invalid request descriptor")

// InvocationError reports that an outbound call could not be completed, or,
// on the validating direct path, completed with a non-2xx status. Message is
// taken from the most specific context available.
type InvocationError struct {
	Message string
	// Status is the HTTP status when a response was obtained, zero otherwise.
	Status int
	Err    error
}

func (e *InvocationError) Error() string {
	if e.Message == "" {
		return FallbackMessage
	}
	return e.Message
}

func (e *InvocationError) Unwrap() error { return e.Err }

// invocationError wraps err unless it already is an *InvocationError.
func invocationError(err error) *InvocationError {
	var ie *InvocationError
	if errors.As(err, &ie) {
		return ie
	}
	msg := FallbackMessage
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &InvocationError{Message: msg, Err: err}
}

// statusError builds the failure for a response rejected by status
// validation, preferring the server-declared message.
func statusError(status int, data json.RawMessage) *InvocationError {
	msg := serverMessage(data)
	if msg == "" {
		msg = fmt.Sprintf("request failed with status code %d", status)
	}
	return &InvocationError{Message: msg, Status: status}
}

// serverMessage extracts "message" or "error" from an envelope-like body, or
// the body itself when it is a bare JSON string.
func serverMessage(data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(data, &s) == nil {
		return s
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &body) != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
