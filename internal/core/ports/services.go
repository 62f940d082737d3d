package ports

import (
	"context"

	"github.com/volunteerhub/dashboard/internal/core/domain"
)

// TokenVerifier checks a bearer token against the backend and returns the
// verification result string ("Pass" on success).
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// ActivityListParams are the query parameters of the activity list endpoint.
// Zero values are omitted.
type ActivityListParams struct {
	Page        int
	PageSize    int
	Type        domain.ActivityType
	Status      domain.ActivityStatus
	Functionary string
	Name        string
	StartFrom   string
	StartTo     string
	IsFull      *bool
}

// ActivityInput carries the editable fields of an activity. CoverFile is
// optional and forces a multipart upload.
type ActivityInput struct {
	Functionary         string
	Name                string
	Type                domain.ActivityType
	Description         string
	EnrollmentStartTime string
	EnrollmentEndTime   string
	StartTime           string
	EndTime             string
	MaxParticipants     *int
	Status              domain.ActivityStatus
	Duration            *float64
	Participants        []string
	Attachments         []string
	CoverFile           *FileUpload
}

// FileUpload is one file part of a multipart request.
type FileUpload struct {
	Name    string
	Content []byte
}

// HourRequestInput is a new extra-hours claim.
type HourRequestInput struct {
	ActivityName string
	Type         domain.ActivityType
	Duration     float64
	Reason       string
	Files        []FileUpload
}

// UserStatsParams filter and sort the per-user statistics table.
type UserStatsParams struct {
	Page      int    `json:"page,omitempty"`
	PageSize  int    `json:"pageSize,omitempty"`
	College   string `json:"college,omitempty"`
	Grade     string `json:"grade,omitempty"`
	Clazz     string `json:"clazz,omitempty"`
	SortField string `json:"sortField,omitempty"`
	SortOrder string `json:"sortOrder,omitempty" validate:"omitempty,oneof=asc desc"`
}

// DashboardFilters narrow the dashboard aggregates. Empty fields are dropped.
type DashboardFilters struct {
	Clazz   string
	Grade   string
	College string
}

type UserService interface {
	TokenVerifier
	Login(ctx context.Context, studentNo, password string) (*domain.LoginResponse, error)
	GetUserInfo(ctx context.Context, token string) (*domain.User, error)
	GetUserByStudentNo(ctx context.Context, studentNo string) (*domain.User, error)
	ListUsers(ctx context.Context, page, pageSize int, role domain.Role) (*domain.UserListResponse, error)
	Logout(ctx context.Context) error
}

type ActivityService interface {
	List(ctx context.Context, params ActivityListParams) (*domain.ActivityList, error)
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	Create(ctx context.Context, in ActivityInput) (*domain.Activity, error)
	Update(ctx context.Context, id string, in ActivityInput) (*domain.Activity, error)
	Delete(ctx context.Context, id string) error
	Enroll(ctx context.Context, id, studentNo string) error
	Unenroll(ctx context.Context, id, studentNo string) error
	MyActivities(ctx context.Context) (*domain.ActivityList, error)
	Pending(ctx context.Context, page, pageSize int) (*domain.ActivityList, error)
	Review(ctx context.Context, id string, approve bool, reason string) (*domain.Activity, error)
	Import(ctx context.Context, activities []domain.Activity) (int, error)
}

type HourRequestService interface {
	Submit(ctx context.Context, in HourRequestInput) (*domain.HourRequest, error)
	Mine(ctx context.Context, page, pageSize int) (*domain.HourRequestList, error)
	Pending(ctx context.Context, page, pageSize int) (*domain.HourRequestList, error)
	Review(ctx context.Context, id string, approve bool, reason string) (*domain.HourRequest, error)
}

type SuggestionService interface {
	Create(ctx context.Context, title, content string) error
	Mine(ctx context.Context, page, pageSize int) (*domain.SuggestionList, error)
	All(ctx context.Context, page, pageSize int, status domain.SuggestionStatus) (*domain.SuggestionList, error)
	Reply(ctx context.Context, id, content string) error
}

type MonitorService interface {
	Filters(ctx context.Context) (*domain.FilterOptions, error)
	UserStats(ctx context.Context, params UserStatsParams) (*domain.UserStats, error)
	Dashboard(ctx context.Context, timeRange string, filters DashboardFilters) (*domain.Dashboard, error)
}
