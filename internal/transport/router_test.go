package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/volunteerhub/dashboard/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub transport
// ---------------------------------------------------------------------------

type recordingTransport struct {
	calls []ports.Request
	res   *ports.Response
	err   error
}

func (s *recordingTransport) Do(_ context.Context, req *ports.Request) (*ports.Response, error) {
	s.calls = append(s.calls, *req)
	if s.err != nil {
		return nil, s.err
	}
	if s.res != nil {
		return s.res, nil
	}
	return &ports.Response{Status: http.StatusOK, Data: json.RawMessage(`{"code":200}`)}, nil
}

var nop = zerolog.Nop()

func binaryRequest(t *testing.T) *ports.Request {
	t.Helper()
	body, err := Multipart([]FormField{{Name: "name", Value: "park cleanup"}}, []FilePart{{Field: "coverFile", FileName: "c.png", Content: []byte{0x89, 'P', 'N', 'G'}}})
	if err != nil {
		t.Fatalf("multipart: %v", err)
	}
	return &ports.Request{Method: ports.MethodPost, URL: "http://api.test/api/activities", Binary: body}
}

// ---------------------------------------------------------------------------
// Transport selection
// ---------------------------------------------------------------------------

func TestRouter_BinaryAlwaysDirect(t *testing.T) {
	direct := &recordingTransport{}
	proxied := &recordingTransport{}
	r := NewRouter(direct, proxied, nop)

	if _, err := r.Do(context.Background(), binaryRequest(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(direct.calls) != 1 || len(proxied.calls) != 0 {
		t.Fatalf("expected direct=1 proxied=0, got direct=%d proxied=%d", len(direct.calls), len(proxied.calls))
	}
}

func TestRouter_NonBinaryUsesProxyWhenAvailable(t *testing.T) {
	direct := &recordingTransport{}
	proxied := &recordingTransport{}
	r := NewRouter(direct, proxied, nop)

	req := &ports.Request{Method: "GET", URL: "http://api.test/api/activities"}
	if _, err := r.Do(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(proxied.calls) != 1 || len(direct.calls) != 0 {
		t.Fatalf("expected proxied=1 direct=0, got proxied=%d direct=%d", len(proxied.calls), len(direct.calls))
	}
	if got := proxied.calls[0].Method; got != ports.MethodGet {
		t.Fatalf("method should be normalised to lower case, got %q", got)
	}
	if !r.ProxyAvailable() {
		t.Fatalf("expected proxy to be reported available")
	}
}

func TestRouter_NoProxyUsesDirect(t *testing.T) {
	direct := &recordingTransport{}
	r := NewRouter(direct, nil, nop)

	if _, err := r.Do(context.Background(), &ports.Request{URL: "http://api.test/x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(direct.calls) != 1 {
		t.Fatalf("expected one direct call, got %d", len(direct.calls))
	}
	if direct.calls[0].Method != ports.MethodGet {
		t.Fatalf("expected default method get, got %q", direct.calls[0].Method)
	}
}

func TestRouter_DefaultHeadersDoNotOverrideCaller(t *testing.T) {
	direct := &recordingTransport{}
	r := NewRouter(direct, nil, nop)

	req := &ports.Request{
		URL: "http://api.test/x",
		Headers: map[string]string{
			"NGROK-SKIP-BROWSER-WARNING": "false",
			"Authorization":              "Bearer t0k",
		},
	}
	if _, err := r.Do(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := direct.calls[0].Headers
	if h["Ngrok-Skip-Browser-Warning"] != "false" {
		t.Fatalf("caller value must win, got %q", h["Ngrok-Skip-Browser-Warning"])
	}
	if h["Authorization"] != "Bearer t0k" {
		t.Fatalf("caller header lost: %v", h)
	}
	if len(req.Headers) != 2 || req.Headers["NGROK-SKIP-BROWSER-WARNING"] != "false" {
		t.Fatalf("caller map must not be mutated: %v", req.Headers)
	}
}

func TestRouter_InjectsDefaultHeader(t *testing.T) {
	direct := &recordingTransport{}
	r := NewRouter(direct, nil, nop)
	if _, err := r.Do(context.Background(), &ports.Request{URL: "http://api.test/x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if direct.calls[0].Headers["Ngrok-Skip-Browser-Warning"] != "true" {
		t.Fatalf("default header missing: %v", direct.calls[0].Headers)
	}
}

func TestRouter_RejectsInvalidDescriptor(t *testing.T) {
	direct := &recordingTransport{}
	r := NewRouter(direct, nil, nop)

	cases := []*ports.Request{
		nil,
		{Method: "patch", URL: "http://api.test/x"},
		{Method: "get", URL: "/relative/path"},
		{Method: "get"},
	}
	for i, req := range cases {
		_, err := r.Do(context.Background(), req)
		var ie *InvocationError
		if !errors.As(err, &ie) || !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("case %d: expected invalid-request InvocationError, got %v", i, err)
		}
	}
	if len(direct.calls) != 0 {
		t.Fatalf("invalid descriptors must not be dispatched")
	}
}

func TestRouter_WrapsForeignErrors(t *testing.T) {
	boom := errors.New("dial tcp: connection refused")
	r := NewRouter(&recordingTransport{err: boom}, nil, nop)

	_, err := r.Do(context.Background(), &ports.Request{URL: "http://api.test/x"})
	var ie *InvocationError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InvocationError, got %T", err)
	}
	if ie.Message != boom.Error() || !errors.Is(err, boom) {
		t.Fatalf("unexpected error: %+v", ie)
	}
}

// ---------------------------------------------------------------------------
// Proxied path end to end against a fake proxy
// ---------------------------------------------------------------------------

func fakeProxy(t *testing.T, reply string) (*httptest.Server, *[]ports.Request) {
	t.Helper()
	var seen []ports.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != ProxyRequestPath || r.Method != http.MethodPost {
			t.Errorf("unexpected proxy call %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get(HeaderRequestID) == "" {
			t.Errorf("missing request id")
		}
		var req ports.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode descriptor: %v", err)
		}
		seen = append(seen, req)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestRouter_ProxyErrorBecomesInvocationError(t *testing.T) {
	srv, _ := fakeProxy(t, `{"error":"getaddrinfo ENOTFOUND api.test"}`)
	r := NewRouter(&recordingTransport{}, NewProxiedTransport(srv.URL, nil, nop), nop)

	_, err := r.Do(context.Background(), &ports.Request{URL: "http://api.test/x"})
	var ie *InvocationError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InvocationError, got %v", err)
	}
	if ie.Message != "getaddrinfo ENOTFOUND api.test" {
		t.Fatalf("message must equal the proxy error, got %q", ie.Message)
	}
}

func TestRouter_ProxyEmptyErrorUsesFallback(t *testing.T) {
	srv, _ := fakeProxy(t, `{"error":""}`)
	r := NewRouter(&recordingTransport{}, NewProxiedTransport(srv.URL, nil, nop), nop)

	_, err := r.Do(context.Background(), &ports.Request{URL: "http://api.test/x"})
	var ie *InvocationError
	if !errors.As(err, &ie) || ie.Message != FallbackMessage {
		t.Fatalf("expected fallback message, got %v", err)
	}
}

func TestRouter_ProxyReplyWithoutStatusIsInvalid(t *testing.T) {
	for _, reply := range []string{`{}`, `{"data":{"code":200}}`} {
		srv, _ := fakeProxy(t, reply)
		r := NewRouter(&recordingTransport{}, NewProxiedTransport(srv.URL, nil, nop), nop)

		res, err := r.Do(context.Background(), &ports.Request{URL: "http://api.test/x"})
		var ie *InvocationError
		if !errors.As(err, &ie) || ie.Message != "invalid proxy reply" {
			t.Fatalf("reply %s: expected invalid proxy reply, got res=%+v err=%v", reply, res, err)
		}
	}
}

func TestRouter_ProxyTripleIsReturnedRegardlessOfStatus(t *testing.T) {
	srv, seen := fakeProxy(t, `{"status":500,"data":{"code":500,"message":"db down"},"headers":{"X-Trace":["abc"]}}`)
	r := NewRouter(&recordingTransport{}, NewProxiedTransport(srv.URL, nil, nop), nop)

	req := &ports.Request{
		Method:  ports.MethodPost,
		URL:     "http://api.test/api/suggestions",
		Data:    map[string]string{"title": "t"},
		Headers: map[string]string{"Authorization": "Bearer x"},
	}
	res, err := r.Do(context.Background(), req)
	if err != nil {
		t.Fatalf("a 500 through the proxy is still a successful transport: %v", err)
	}
	if res.Status != 500 || res.Headers.Get("X-Trace") != "abc" {
		t.Fatalf("unexpected triple: %+v", res)
	}
	if len(*seen) != 1 {
		t.Fatalf("expected one proxied call")
	}
	got := (*seen)[0]
	if got.Headers["Authorization"] != "Bearer x" || got.Headers["Ngrok-Skip-Browser-Warning"] != "true" {
		t.Fatalf("headers not forwarded: %v", got.Headers)
	}
}

func TestProxiedTransport_RefusesBinary(t *testing.T) {
	pt := NewProxiedTransport("http://127.0.0.1:1", nil, nop)
	_, err := pt.Do(context.Background(), binaryRequest(t))
	var ie *InvocationError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InvocationError, got %v", err)
	}
}

func TestProxiedTransport_ChannelDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := NewProxiedTransport(addr, nil, nop).Do(context.Background(), &ports.Request{Method: "get", URL: "http://api.test/x"})
	var ie *InvocationError
	if !errors.As(err, &ie) || ie.Message == "" {
		t.Fatalf("expected InvocationError with message, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Call
// ---------------------------------------------------------------------------

func TestCall_DecodesBody(t *testing.T) {
	st := &recordingTransport{res: &ports.Response{Status: 200, Data: json.RawMessage(`{"code":200,"message":"ok","data":"Pass"}`)}}
	type env struct {
		Code int    `json:"code"`
		Data string `json:"data"`
	}
	got, err := Call[env](context.Background(), st, &ports.Request{URL: "http://api.test/x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Code != 200 || got.Data != "Pass" {
		t.Fatalf("unexpected decode: %+v", got)
	}
}

func TestCall_NullBodyYieldsZero(t *testing.T) {
	st := &recordingTransport{res: &ports.Response{Status: 204, Data: json.RawMessage("null")}}
	got, err := Call[map[string]any](context.Background(), st, &ports.Request{URL: "http://api.test/x"})
	if err != nil || got != nil {
		t.Fatalf("expected zero value, got %v %v", got, err)
	}
}

func TestCall_DecodeError(t *testing.T) {
	st := &recordingTransport{res: &ports.Response{Status: 200, Data: json.RawMessage(`"text"`)}}
	if _, err := Call[map[string]any](context.Background(), st, &ports.Request{URL: "http://api.test/x"}); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestMergeHeaders_Precedence(t *testing.T) {
	got := MergeHeaders(
		map[string]string{"user-agent": "default", "a": "1"},
		map[string]string{"User-Agent": "caller"},
	)
	if got["User-Agent"] != "caller" || got["A"] != "1" || len(got) != 2 {
		t.Fatalf("unexpected merge: %v", got)
	}
}
