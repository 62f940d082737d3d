package service

import (
	"context"
	"net/url"

	"github.com/volunteerhub/dashboard/internal/core/domain"
	"github.com/volunteerhub/dashboard/internal/core/ports"
	"github.com/volunteerhub/dashboard/internal/pkg/validation"
)

const (
	monitoringPath   = "/api/monitoring"
	DefaultTimeRange = "monthly"
)

type MonitorService struct {
	client   *Client
	validate *validation.Validator
}

var _ ports.MonitorService = (*MonitorService)(nil)

func NewMonitorService(client *Client) *MonitorService {
	return &MonitorService{client: client, validate: validation.New()}
}

// Filters never fails: when the backend cannot be reached the options are
// empty.
func (s *MonitorService) Filters(ctx context.Context) (*domain.FilterOptions, error) {
	opts, err := do[domain.FilterOptions](ctx, s.client, call{
		method: ports.MethodGet,
		path:   monitoringPath + "/filters",
	})
	if err != nil {
		s.client.logger.Warn().Err(err).Msg("failed to fetch filters from backend, returning empty")
		return &domain.FilterOptions{Colleges: []string{}, Grades: []string{}, Clazzes: []string{}}, nil
	}
	return &opts, nil
}

func (s *MonitorService) UserStats(ctx context.Context, params ports.UserStatsParams) (*domain.UserStats, error) {
	if err := s.validate.Validate(params); err != nil {
		return nil, err
	}
	stats, err := do[domain.UserStats](ctx, s.client, call{
		method: ports.MethodPost,
		path:   monitoringPath + "/user-stats",
		data:   params,
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Dashboard fetches the aggregates for timeRange. Empty filters are not sent.
func (s *MonitorService) Dashboard(ctx context.Context, timeRange string, f ports.DashboardFilters) (*domain.Dashboard, error) {
	if timeRange == "" {
		timeRange = DefaultTimeRange
	}
	params := url.Values{"timeRange": {timeRange}}
	setString(params, "clazz", f.Clazz)
	setString(params, "grade", f.Grade)
	setString(params, "college", f.College)
	d, err := do[domain.Dashboard](ctx, s.client, call{
		method: ports.MethodGet,
		path:   monitoringPath + "/dashboard",
		params: params,
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}
