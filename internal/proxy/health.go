package proxy

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves the liveness probe on GET /health.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ReadinessHandler serves GET /health/ready by probing the upstream API.
// Checks that the upstream API answers at all before declaring the proxy
// ready; any HTTP status counts as reachable.
type ReadinessHandler struct {
	upstream string
	client   *http.Client
}

func NewReadinessHandler(upstream string, client *http.Client) *ReadinessHandler {
	if client == nil {
		client = &http.Client{}
	}
	return &ReadinessHandler{upstream: upstream, client: client}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	if h.upstream == "" {
		deps["api"] = dependencyStatus{Status: "unconfigured"}
	} else if err := h.probe(ctx); err != nil {
		deps["api"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["api"] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}

func (h *ReadinessHandler) probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, h.upstream, nil)
	if err != nil {
		return err
	}
	res, err := h.client.Do(req)
	if err != nil {
		return err
	}
	return res.Body.Close()
}
