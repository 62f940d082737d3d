// Package transport is the single entry point for outbound HTTP calls. The
// Router chooses between the in-process client and the privileged proxy and
// normalises both result and failure shapes.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/volunteerhub/dashboard/internal/core/ports"
	"github.com/volunteerhub/dashboard/internal/metrics"
	"github.com/volunteerhub/dashboard/internal/pkg/validation"
)

const (
	PathDirect  = "direct"
	PathProxied = "proxied"
)

// Router selects a transport per request. The proxy handle is fixed at
// construction: a nil proxied transport means the proxy is unavailable.
type Router struct {
	direct   ports.Transport
	proxied  ports.Transport
	headers  map[string]string
	validate *validation.Validator
	log      zerolog.Logger
}

func NewRouter(direct, proxied ports.Transport, log zerolog.Logger) *Router {
	return &Router{
		direct:   direct,
		proxied:  proxied,
		headers:  DefaultHeaders(),
		validate: validation.New(),
		log:      log,
	}
}

// ProxyAvailable reports whether non-binary calls are delegated to the proxy.
func (r *Router) ProxyAvailable() bool {
	return r.proxied != nil
}

// Do validates req, injects the default headers without overriding the
// caller's, and dispatches it. Every failure is an *InvocationError.
func (r *Router) Do(ctx context.Context, req *ports.Request) (*ports.Response, error) {
	if req == nil {
		return nil, &InvocationError{Message: "nil request", Err: ErrInvalidRequest}
	}
	out := *req
	out.Method = strings.ToLower(out.Method)
	if out.Method == "" {
		out.Method = ports.MethodGet
	}
	if err := r.validate.Validate(out); err != nil {
		return nil, &InvocationError{Message: err.Error(), Err: fmt.Errorf("%w: %w", ErrInvalidRequest, err)}
	}
	out.Headers = MergeHeaders(r.headers, req.Headers)

	path, t := r.selectTransport(&out)
	start := time.Now()
	res, err := t.Do(ctx, &out)
	metrics.TransportCallDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TransportCallsTotal.WithLabelValues(path, "error").Inc()
		ie := invocationError(err)
		r.log.Debug().Str("path", path).Str("method", out.Method).Str("url", out.URL).Str("error", ie.Message).Msg("call failed")
		return nil, ie
	}
	metrics.TransportCallsTotal.WithLabelValues(path, "ok").Inc()
	return res, nil
}

func (r *Router) selectTransport(req *ports.Request) (string, ports.Transport) {
	switch {
	case req.IsBinary():
		return PathDirect, r.direct
	case r.proxied != nil:
		return PathProxied, r.proxied
	default:
		return PathDirect, r.direct
	}
}

// Call executes req on t and decodes the response body into T. A null body
// yields the zero value.
func Call[T any](ctx context.Context, t ports.Transport, req *ports.Request) (T, error) {
	var out T
	res, err := t.Do(ctx, req)
	if err != nil {
		return out, err
	}
	if len(res.Data) == 0 || string(res.Data) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(res.Data, &out); err != nil {
		return out, fmt.Errorf("transport: decode response from %s: %w", req.URL, err)
	}
	return out, nil
}
