package proxy

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/volunteerhub/dashboard/internal/transport"
)

// errorResponse is the {error} reply shape; clients treat it exactly like a
// failed forward.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps echo and transport errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders the {"error": "<message>"} reply.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	if errors.Is(err, transport.ErrInvalidRequest) {
		return http.StatusBadRequest, err.Error()
	}
	var ie *transport.InvocationError
	if errors.As(err, &ie) {
		return http.StatusBadGateway, ie.Error()
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, transport.FallbackMessage
}
