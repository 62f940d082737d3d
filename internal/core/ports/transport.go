package ports

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// HTTP methods accepted in a Request descriptor.
const (
	MethodGet    = "get"
	MethodPost   = "post"
	MethodPut    = "put"
	MethodDelete = "delete"
)

// Request is the descriptor handed to a Transport for one outbound call.
// Data is JSON-encoded when set. Binary marks a multipart or otherwise
// non-JSON payload; it is never serialised across the proxy channel.
type Request struct {
	Method  string            `json:"method" validate:"required,oneof=get post put delete"`
	URL     string            `json:"url" validate:"required,url"`
	Params  url.Values        `json:"params,omitempty"`
	Data    any               `json:"data,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Binary  *BinaryBody       `json:"-"`
}

// IsBinary reports whether the payload is tagged as binary/multipart.
func (r *Request) IsBinary() bool {
	return r != nil && r.Binary != nil
}

// BinaryBody is an already-encoded request body with its content type.
type BinaryBody struct {
	ContentType string
	Body        []byte
}

// Response is the uniform {status, data, headers} triple. Data always holds
// valid JSON: non-JSON bodies are carried as a JSON string.
type Response struct {
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
	Headers http.Header     `json:"headers"`
}

// ProxyReply is the wire shape returned by the privileged proxy: either the
// response triple or an error string when no response could be obtained.
type ProxyReply struct {
	Status  int             `json:"status,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Headers http.Header     `json:"headers,omitempty"`
	Error   *string         `json:"error,omitempty"`
}

// Transport executes a Request descriptor.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}
