package service

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/volunteerhub/dashboard/internal/core/domain"
	"github.com/volunteerhub/dashboard/internal/core/ports"
	"github.com/volunteerhub/dashboard/internal/session"
	"github.com/volunteerhub/dashboard/internal/transport"
)

// Client is the shared plumbing of the API services: it builds request
// descriptors against the configured base URL, attaches the session's bearer
// token and unwraps the response envelope.
type Client struct {
	transport ports.Transport
	baseURL   string
	session   *session.Store
	logger    zerolog.Logger
}

func NewClient(t ports.Transport, baseURL string, store *session.Store, logger zerolog.Logger) *Client {
	return &Client{
		transport: t,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		session:   store,
		logger:    logger,
	}
}

func (c *Client) Session() *session.Store { return c.session }

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) url(path string) string {
	return c.baseURL + path
}

// call describes one API request.
type call struct {
	method string
	path   string
	params url.Values
	data   any
	binary *ports.BinaryBody
	// public calls carry no Authorization header.
	public bool
	// token overrides the stored session token.
	token string
}

func (c *Client) request(ctx context.Context, in call) (*ports.Request, error) {
	req := &ports.Request{
		Method: in.method,
		URL:    c.url(in.path),
		Params: in.params,
		Data:   in.data,
		Binary: in.binary,
	}
	if in.public {
		return req, nil
	}
	token := in.token
	if token == "" {
		t, err := c.session.Token(ctx)
		if err != nil {
			return nil, err
		}
		token = t
	}
	req.Headers = map[string]string{transport.HeaderAuthorization: transport.Bearer(token)}
	return req, nil
}

// do executes in and returns the payload of a successful envelope.
func do[T any](ctx context.Context, c *Client, in call) (T, error) {
	var zero T
	req, err := c.request(ctx, in)
	if err != nil {
		return zero, err
	}
	env, err := transport.Call[domain.Envelope[T]](ctx, c.transport, req)
	if err != nil {
		return zero, err
	}
	return env.Unwrap(domain.CodeOK)
}

// exec is do for calls whose payload is ignored.
func exec(ctx context.Context, c *Client, in call) error {
	_, err := do[json.RawMessage](ctx, c, in)
	return err
}

// pageParams encodes page/pageSize, omitting zero values.
func pageParams(page, pageSize int) url.Values {
	v := url.Values{}
	setInt(v, "page", page)
	setInt(v, "pageSize", pageSize)
	return v
}

func setInt(v url.Values, key string, n int) {
	if n != 0 {
		v.Set(key, strconv.Itoa(n))
	}
}

func setString(v url.Values, key, s string) {
	if s != "" {
		v.Set(key, s)
	}
}
