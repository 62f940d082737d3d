package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/volunteerhub/dashboard/internal/core/ports"
)

// DirectOptions configure a DirectTransport.
type DirectOptions struct {
	// Client overrides the HTTP client. When nil a client with a cookie jar
	// is built so credentials persist across calls.
	Client *http.Client
	// Timeout applies only to the built client. Zero means no timeout.
	Timeout time.Duration
	// Headers are merged under the caller's headers on every call.
	Headers map[string]string
	// AcceptAllStatus disables status validation: every response is a
	// successful transport and the caller interprets the status.
	AcceptAllStatus bool
}

// DirectTransport performs calls with the in-process HTTP client.
type DirectTransport struct {
	client    *http.Client
	headers   map[string]string
	acceptAll bool
	log       zerolog.Logger
}

func NewDirectTransport(opts DirectOptions, log zerolog.Logger) *DirectTransport {
	client := opts.Client
	if client == nil {
		jar, _ := cookiejar.New(nil)
		client = &http.Client{Jar: jar, Timeout: opts.Timeout}
	}
	return &DirectTransport{
		client:    client,
		headers:   opts.Headers,
		acceptAll: opts.AcceptAllStatus,
		log:       log,
	}
}

// Do executes req. Network failures, and non-2xx statuses unless
// AcceptAllStatus is set, are returned as *InvocationError.
func (t *DirectTransport) Do(ctx context.Context, req *ports.Request) (*ports.Response, error) {
	hreq, err := newHTTPRequest(ctx, req, MergeHeaders(t.headers, req.Headers))
	if err != nil {
		return nil, &InvocationError{Message: err.Error(), Err: fmt.Errorf("%w: %w", ErrInvalidRequest, err)}
	}

	start := time.Now()
	res, err := t.client.Do(hreq)
	if err != nil {
		t.log.Debug().Err(err).
			Str("method", hreq.Method).
			Str("host", hreq.URL.Host).
			Str("path", hreq.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("outbound request failed")
		return nil, invocationError(err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, invocationError(err)
	}

	t.log.Debug().
		Str("method", hreq.Method).
		Str("host", hreq.URL.Host).
		Str("path", hreq.URL.Path).
		Dur("duration", time.Since(start)).
		Int("status", res.StatusCode).
		Msg("outbound request")

	data := normalizeBody(raw)
	if !t.acceptAll && (res.StatusCode < 200 || res.StatusCode > 299) {
		return nil, statusError(res.StatusCode, data)
	}
	return &ports.Response{Status: res.StatusCode, Data: data, Headers: res.Header}, nil
}

func newHTTPRequest(ctx context.Context, req *ports.Request, headers map[string]string) (*http.Request, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("url %q is not absolute", req.URL)
	}
	if len(req.Params) > 0 {
		q := u.Query()
		for k, vs := range req.Params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Binary != nil:
		body = bytes.NewReader(req.Binary.Body)
		contentType = req.Binary.ContentType
	case req.Data != nil:
		b, err := json.Marshal(req.Data)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	hreq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		hreq.Header.Set(k, v)
	}
	switch {
	case req.Binary != nil:
		// The encoder owns the boundary, so a caller-supplied
		// multipart content type is replaced.
		hreq.Header.Set("Content-Type", contentType)
	case contentType != "" && hreq.Header.Get("Content-Type") == "":
		hreq.Header.Set("Content-Type", contentType)
	}
	return hreq, nil
}

// normalizeBody returns raw when it is valid JSON, the body as a JSON string
// otherwise, and null for an empty body.
func normalizeBody(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	b, _ := json.Marshal(string(raw))
	return json.RawMessage(b)
}
