package proxy

import (
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
)

// LoopbackOnly rejects callers that do not connect from a loopback address.
// Forwarding headers are ignored; only the socket peer counts.
func LoopbackOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			host, _, err := net.SplitHostPort(c.Request().RemoteAddr)
			if err != nil {
				host = c.Request().RemoteAddr
			}
			ip := net.ParseIP(host)
			if ip == nil || !ip.IsLoopback() {
				return echo.NewHTTPError(http.StatusForbidden, "proxy accepts loopback callers only")
			}
			return next(c)
		}
	}
}
