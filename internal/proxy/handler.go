package proxy

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/volunteerhub/dashboard/internal/core/ports"
	"github.com/volunteerhub/dashboard/internal/metrics"
)

// RequestHandler serves POST /request: it forwards the descriptor with the
// proxy's own HTTP client and reports the outcome as a ProxyReply.
type RequestHandler struct {
	forward ports.Transport
	log     zerolog.Logger
}

func NewRequestHandler(forward ports.Transport, log zerolog.Logger) *RequestHandler {
	return &RequestHandler{forward: forward, log: log}
}

// Forward performs one outbound call on behalf of the client.
//
// Every upstream status is a successful forward. A call that produced no
// response at all is answered with {"error": "<message>"} and status 200,
// since the channel itself worked.
func (h *RequestHandler) Forward(c echo.Context) error {
	var req ports.Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Method = strings.ToLower(req.Method)
	if req.Method == "" {
		req.Method = ports.MethodGet
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.forward.Do(c.Request().Context(), &req)
	if err != nil {
		metrics.ProxyForwardedTotal.WithLabelValues(req.Method, "network_error").Inc()
		msg := err.Error()
		h.log.Warn().
			Str("request_id", c.Request().Header.Get(echo.HeaderXRequestID)).
			Str("method", req.Method).
			Str("url", req.URL).
			Str("error", msg).
			Msg("forward failed")
		return c.JSON(http.StatusOK, ports.ProxyReply{Error: &msg})
	}

	metrics.ProxyForwardedTotal.WithLabelValues(req.Method, metrics.StatusClass(res.Status)).Inc()
	return c.JSON(http.StatusOK, ports.ProxyReply{
		Status:  res.Status,
		Data:    res.Data,
		Headers: res.Headers,
	})
}
