package service

import (
	"context"
	"net/url"

	"github.com/volunteerhub/dashboard/internal/core/domain"
	"github.com/volunteerhub/dashboard/internal/core/ports"
)

const suggestionsPath = "/api/suggestions"

type SuggestionService struct {
	client *Client
}

var _ ports.SuggestionService = (*SuggestionService)(nil)

func NewSuggestionService(client *Client) *SuggestionService {
	return &SuggestionService{client: client}
}

func (s *SuggestionService) Create(ctx context.Context, title, content string) error {
	return exec(ctx, s.client, call{
		method: ports.MethodPost,
		path:   suggestionsPath,
		data:   map[string]string{"title": title, "content": content},
	})
}

func (s *SuggestionService) Mine(ctx context.Context, page, pageSize int) (*domain.SuggestionList, error) {
	return s.list(ctx, suggestionsPath+"/my", pageParams(page, pageSize))
}

// All lists every suggestion, optionally filtered by status.
func (s *SuggestionService) All(ctx context.Context, page, pageSize int, status domain.SuggestionStatus) (*domain.SuggestionList, error) {
	params := pageParams(page, pageSize)
	setString(params, "status", string(status))
	return s.list(ctx, suggestionsPath, params)
}

func (s *SuggestionService) list(ctx context.Context, path string, params url.Values) (*domain.SuggestionList, error) {
	list, err := do[*domain.SuggestionList](ctx, s.client, call{
		method: ports.MethodGet,
		path:   path,
		params: params,
	})
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = &domain.SuggestionList{}
	}
	return list, nil
}

func (s *SuggestionService) Reply(ctx context.Context, id, content string) error {
	return exec(ctx, s.client, call{
		method: ports.MethodPost,
		path:   suggestionsPath + "/" + url.PathEscape(id) + "/reply",
		data:   map[string]string{"replyContent": content},
	})
}
