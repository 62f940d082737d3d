package service

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/volunteerhub/dashboard/internal/core/domain"
	"github.com/volunteerhub/dashboard/internal/core/ports"
	"github.com/volunteerhub/dashboard/internal/transport"
)

const hoursPath = "/api/hours"

var ErrInvalidHourRequest = errors.New("hour request needs an activity name, a positive duration and a reason")

type HourRequestService struct {
	client *Client
}

var _ ports.HourRequestService = (*HourRequestService)(nil)

func NewHourRequestService(client *Client) *HourRequestService {
	return &HourRequestService{client: client}
}

// Submit files a claim. Attachments are uploaded in the same multipart body.
func (s *HourRequestService) Submit(ctx context.Context, in ports.HourRequestInput) (*domain.HourRequest, error) {
	if in.ActivityName == "" || in.Duration <= 0 || in.Reason == "" {
		return nil, ErrInvalidHourRequest
	}
	fields := []transport.FormField{
		{Name: "activityName", Value: in.ActivityName},
		{Name: "duration", Value: strconv.FormatFloat(in.Duration, 'f', -1, 64)},
		{Name: "reason", Value: in.Reason},
	}
	if in.Type != "" {
		fields = append(fields, transport.FormField{Name: "type", Value: string(in.Type)})
	}
	files := make([]transport.FilePart, 0, len(in.Files))
	for _, f := range in.Files {
		files = append(files, transport.FilePart{Field: "files", FileName: f.Name, Content: f.Content})
	}
	body, err := transport.Multipart(fields, files)
	if err != nil {
		return nil, err
	}
	hr, err := do[domain.HourRequest](ctx, s.client, call{
		method: ports.MethodPost,
		path:   hoursPath,
		binary: body,
	})
	if err != nil {
		return nil, err
	}
	return &hr, nil
}

func (s *HourRequestService) Mine(ctx context.Context, page, pageSize int) (*domain.HourRequestList, error) {
	return s.list(ctx, hoursPath+"/my", page, pageSize)
}

func (s *HourRequestService) Pending(ctx context.Context, page, pageSize int) (*domain.HourRequestList, error) {
	return s.list(ctx, hoursPath+"/pending", page, pageSize)
}

func (s *HourRequestService) list(ctx context.Context, path string, page, pageSize int) (*domain.HourRequestList, error) {
	list, err := do[*domain.HourRequestList](ctx, s.client, call{
		method: ports.MethodGet,
		path:   path,
		params: pageParams(page, pageSize),
	})
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = &domain.HourRequestList{}
	}
	return list, nil
}

func (s *HourRequestService) Review(ctx context.Context, id string, approve bool, reason string) (*domain.HourRequest, error) {
	params := url.Values{"approve": {strconv.FormatBool(approve)}}
	setString(params, "reason", reason)
	hr, err := do[domain.HourRequest](ctx, s.client, call{
		method: ports.MethodPost,
		path:   hoursPath + "/" + url.PathEscape(id) + "/review",
		params: params,
	})
	if err != nil {
		return nil, err
	}
	return &hr, nil
}
