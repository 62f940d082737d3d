package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/volunteerhub/dashboard/internal/core/domain"
	"github.com/volunteerhub/dashboard/internal/core/ports"
	"github.com/volunteerhub/dashboard/internal/transport"
)

const activitiesPath = "/api/activities"

// FallbackPageSizes are the list page sizes scanned, in order, when an
// activity cannot be fetched by id.
var FallbackPageSizes = []int{500, 1000}

type ActivityService struct {
	client *Client
}

var _ ports.ActivityService = (*ActivityService)(nil)

func NewActivityService(client *Client) *ActivityService {
	return &ActivityService{client: client}
}

func (s *ActivityService) List(ctx context.Context, p ports.ActivityListParams) (*domain.ActivityList, error) {
	list, err := do[domain.ActivityList](ctx, s.client, call{
		method: ports.MethodGet,
		path:   activitiesPath,
		params: listParams(p),
	})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func listParams(p ports.ActivityListParams) url.Values {
	v := pageParams(p.Page, p.PageSize)
	setString(v, "type", string(p.Type))
	setString(v, "status", string(p.Status))
	setString(v, "functionary", p.Functionary)
	setString(v, "name", p.Name)
	setString(v, "startFrom", p.StartFrom)
	setString(v, "startTo", p.StartTo)
	if p.IsFull != nil {
		v.Set("isFull", strconv.FormatBool(*p.IsFull))
	}
	return v
}

// GetByID fetches one activity. Not every backend serves the by-id endpoint,
// so on failure the list endpoint is scanned with each of FallbackPageSizes
// until the activity turns up.
func (s *ActivityService) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	a, err := do[*domain.Activity](ctx, s.client, call{
		method: ports.MethodGet,
		path:   activitiesPath + "/" + url.PathEscape(id),
	})
	if err == nil && a != nil && a.ID != "" {
		return a, nil
	}
	s.client.logger.Debug().Str("activity_id", id).Err(err).Msg("by-id lookup unavailable, scanning list")

	var lastErr error
	for _, size := range FallbackPageSizes {
		list, err := s.List(ctx, ports.ActivityListParams{PageSize: size})
		if err != nil {
			lastErr = err
			continue
		}
		if found, ok := list.Find(id); ok {
			out := *found
			return &out, nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrActivityNotFound, id, lastErr)
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrActivityNotFound, id)
}

func (s *ActivityService) Create(ctx context.Context, in ports.ActivityInput) (*domain.Activity, error) {
	body, err := activityForm(in, true)
	if err != nil {
		return nil, err
	}
	a, err := do[domain.Activity](ctx, s.client, call{
		method: ports.MethodPost,
		path:   activitiesPath,
		binary: body,
	})
	if err != nil {
		return nil, err
	}
	s.client.logger.Info().Str("activity_id", a.ID).Str("name", a.Name).Msg("activity created")
	return &a, nil
}

func (s *ActivityService) Update(ctx context.Context, id string, in ports.ActivityInput) (*domain.Activity, error) {
	body, err := activityForm(in, false)
	if err != nil {
		return nil, err
	}
	a, err := do[domain.Activity](ctx, s.client, call{
		method: ports.MethodPut,
		path:   activitiesPath + "/" + url.PathEscape(id),
		binary: body,
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// activityForm encodes in as multipart. The functionary can only be set on
// creation.
func activityForm(in ports.ActivityInput, withFunctionary bool) (*ports.BinaryBody, error) {
	var fields []transport.FormField
	add := func(name, value string) {
		if value != "" {
			fields = append(fields, transport.FormField{Name: name, Value: value})
		}
	}
	if withFunctionary {
		add("functionary", in.Functionary)
	}
	add("name", in.Name)
	add("type", string(in.Type))
	add("description", in.Description)
	add("enrollmentStartTime", in.EnrollmentStartTime)
	add("enrollmentEndTime", in.EnrollmentEndTime)
	add("startTime", in.StartTime)
	add("endTime", in.EndTime)
	if in.MaxParticipants != nil {
		add("maxParticipants", strconv.Itoa(*in.MaxParticipants))
	}
	add("status", string(in.Status))
	if in.Duration != nil {
		add("duration", strconv.FormatFloat(*in.Duration, 'f', -1, 64))
	}
	for _, p := range in.Participants {
		fields = append(fields, transport.FormField{Name: "participants[]", Value: p})
	}
	for _, a := range in.Attachments {
		fields = append(fields, transport.FormField{Name: "attachment[]", Value: a})
	}

	var files []transport.FilePart
	if in.CoverFile != nil {
		files = append(files, transport.FilePart{Field: "coverFile", FileName: in.CoverFile.Name, Content: in.CoverFile.Content})
	}
	return transport.Multipart(fields, files)
}

func (s *ActivityService) Delete(ctx context.Context, id string) error {
	return exec(ctx, s.client, call{
		method: ports.MethodDelete,
		path:   activitiesPath + "/" + url.PathEscape(id),
	})
}

func (s *ActivityService) Enroll(ctx context.Context, id, studentNo string) error {
	return exec(ctx, s.client, call{
		method: ports.MethodPost,
		path:   activitiesPath + "/" + url.PathEscape(id) + "/enroll",
		params: url.Values{"studentNo": {studentNo}},
	})
}

func (s *ActivityService) Unenroll(ctx context.Context, id, studentNo string) error {
	return exec(ctx, s.client, call{
		method: ports.MethodPost,
		path:   activitiesPath + "/" + url.PathEscape(id) + "/unenroll",
		params: url.Values{"studentNo": {studentNo}},
	})
}

func (s *ActivityService) MyActivities(ctx context.Context) (*domain.ActivityList, error) {
	list, err := do[domain.ActivityList](ctx, s.client, call{
		method: ports.MethodGet,
		path:   activitiesPath + "/MyActivities",
	})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Pending lists activities awaiting review.
func (s *ActivityService) Pending(ctx context.Context, page, pageSize int) (*domain.ActivityList, error) {
	list, err := do[domain.ActivityList](ctx, s.client, call{
		method: ports.MethodGet,
		path:   activitiesPath + "/pending",
		params: pageParams(page, pageSize),
	})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *ActivityService) Review(ctx context.Context, id string, approve bool, reason string) (*domain.Activity, error) {
	params := url.Values{"approve": {strconv.FormatBool(approve)}}
	setString(params, "reason", reason)
	a, err := do[domain.Activity](ctx, s.client, call{
		method: ports.MethodPost,
		path:   activitiesPath + "/" + url.PathEscape(id) + "/review",
		params: params,
	})
	if err != nil {
		return nil, err
	}
	s.client.logger.Info().Str("activity_id", id).Bool("approve", approve).Msg("activity reviewed")
	return &a, nil
}

var ErrNothingToImport = errors.New("no activities to import")

// Import uploads a batch of activities and returns how many were created.
func (s *ActivityService) Import(ctx context.Context, activities []domain.Activity) (int, error) {
	if len(activities) == 0 {
		return 0, ErrNothingToImport
	}
	n, err := do[int](ctx, s.client, call{
		method: ports.MethodPost,
		path:   activitiesPath + "/import",
		data:   activities,
	})
	if err != nil {
		return 0, err
	}
	s.client.logger.Info().Int("count", n).Msg("activities imported")
	return n, nil
}
