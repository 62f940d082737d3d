package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/volunteerhub/dashboard/internal/core/domain"
	"github.com/volunteerhub/dashboard/internal/core/ports"
)

var ErrMissingCredentials = errors.New("student number and password are required")

// UserService covers login, token verification and user lookups.
type UserService struct {
	client *Client
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(client *Client) *UserService {
	return &UserService{client: client}
}

// Login authenticates and, on success, persists the token together with the
// login payload, exactly as the backend sent it, as the cached user record.
func (s *UserService) Login(ctx context.Context, studentNo, password string) (*domain.LoginResponse, error) {
	if studentNo == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	raw, err := do[json.RawMessage](ctx, s.client, call{
		method: ports.MethodGet,
		path:   "/user/login",
		params: url.Values{"studentNo": {studentNo}, "password": {password}},
		public: true,
	})
	if err != nil {
		s.client.logger.Info().Str("student_no", studentNo).Err(err).Msg("login failed")
		return nil, err
	}
	var res domain.LoginResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode login payload: %w", err)
	}
	if err := s.client.session.SaveRaw(ctx, res.Token, string(raw)); err != nil {
		return nil, err
	}
	s.client.logger.Info().Str("student_no", res.StudentNo).Str("role", string(res.Role)).Msg("logged in")
	return &res, nil
}

// VerifyToken asks the backend whether token is still valid. The result is
// "Pass" for a valid token.
func (s *UserService) VerifyToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrNoToken
	}
	return do[string](ctx, s.client, call{
		method: ports.MethodGet,
		path:   "/user/verifyToken",
		token:  token,
	})
}

// GetUserInfo resolves the profile behind token, or behind the stored token
// when token is empty.
func (s *UserService) GetUserInfo(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		t, err := s.client.session.Token(ctx)
		if err != nil {
			return nil, err
		}
		token = t
	}
	if token == "" {
		return nil, domain.ErrNoToken
	}
	u, err := do[domain.User](ctx, s.client, call{
		method: ports.MethodGet,
		path:   "/user/getUser",
		params: url.Values{"token": {token}},
		public: true,
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) GetUserByStudentNo(ctx context.Context, studentNo string) (*domain.User, error) {
	u, err := do[domain.User](ctx, s.client, call{
		method: ports.MethodGet,
		path:   "/user/getUserByStudentNo",
		params: url.Values{"studentNo": {studentNo}},
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) ListUsers(ctx context.Context, page, pageSize int, role domain.Role) (*domain.UserListResponse, error) {
	params := pageParams(page, pageSize)
	setString(params, "role", string(role))
	list, err := do[domain.UserListResponse](ctx, s.client, call{
		method: ports.MethodGet,
		path:   "/user/list",
		params: params,
	})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Logout forgets the session locally; the backend keeps no logout state.
func (s *UserService) Logout(ctx context.Context) error {
	if err := s.client.session.Clear(ctx); err != nil {
		return err
	}
	s.client.logger.Info().Msg("logged out")
	return nil
}

// CachedUser returns the stored user record, or nil when logged out.
func (s *UserService) CachedUser(ctx context.Context) (*domain.User, error) {
	return s.client.session.CachedUser(ctx)
}

// Hydrate loads the current user into the session, fetching it when only a
// token is stored.
func (s *UserService) Hydrate(ctx context.Context) (*domain.User, error) {
	return s.client.session.Hydrate(ctx, s.GetUserInfo)
}
