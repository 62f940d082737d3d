package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/volunteerhub/dashboard/internal/core/ports"
)

// ProxyRequestPath is the single operation exposed by the privileged proxy.
const ProxyRequestPath = "/request"

var (
	errBinaryOverProxy = errors.New("binary payload cannot cross the proxy channel")
	errEmptyProxyReply = errors.New("invalid proxy reply")
)

// ProxiedTransport delegates calls to the privileged proxy process. The proxy
// performs the network call itself and answers with either the response
// triple or an {error} reply.
type ProxiedTransport struct {
	endpoint string
	client   *http.Client
	log      zerolog.Logger
}

// NewProxiedTransport targets the proxy at addr (scheme and host). client may
// be nil.
func NewProxiedTransport(addr string, client *http.Client, log zerolog.Logger) *ProxiedTransport {
	if client == nil {
		client = &http.Client{}
	}
	return &ProxiedTransport{
		endpoint: strings.TrimRight(addr, "/") + ProxyRequestPath,
		client:   client,
		log:      log,
	}
}

func (t *ProxiedTransport) Do(ctx context.Context, req *ports.Request) (*ports.Response, error) {
	if req.IsBinary() {
		return nil, &InvocationError{Message: errBinaryOverProxy.Error(), Err: errBinaryOverProxy}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &InvocationError{Message: err.Error(), Err: fmt.Errorf("%w: %w", ErrInvalidRequest, err)}
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, invocationError(err)
	}
	requestID := uuid.NewString()
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set(HeaderRequestID, requestID)

	start := time.Now()
	res, err := t.client.Do(hreq)
	if err != nil {
		t.log.Debug().Err(err).Str("request_id", requestID).Msg("proxy channel unavailable")
		return nil, invocationError(err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, invocationError(err)
	}

	var reply ports.ProxyReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, &InvocationError{Message: "invalid proxy reply: " + err.Error(), Err: err}
	}
	if reply.Error != nil {
		msg := *reply.Error
		if msg == "" {
			msg = FallbackMessage
		}
		t.log.Debug().Str("request_id", requestID).Str("error", msg).Msg("proxied request failed")
		return nil, &InvocationError{Message: msg}
	}
	// A reply without status is not a response triple; usually the channel
	// address points at something other than the proxy.
	if reply.Status == 0 {
		t.log.Debug().Str("request_id", requestID).Int("http_status", res.StatusCode).Msg("proxy reply without status")
		return nil, &InvocationError{Message: errEmptyProxyReply.Error(), Err: errEmptyProxyReply}
	}

	t.log.Debug().
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("url", req.URL).
		Int("status", reply.Status).
		Dur("duration", time.Since(start)).
		Msg("proxied request")

	data := reply.Data
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	return &ports.Response{Status: reply.Status, Data: data, Headers: reply.Headers}, nil
}
