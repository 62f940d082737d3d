package domain

import "errors"

// Role is the classification the backend assigns to an account.
type Role string

const (
	RoleUser        Role = "user"
	RoleAdmin       Role = "admin"
	RoleFunctionary Role = "functionary"
	RoleSuperAdmin  Role = "superAdmin"
)

var (
	ErrNoToken           = errors.New("no token found")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrInvalidUserRecord = errors.New("cached user record is not valid json")
)

// User is the profile returned by the user endpoints and cached alongside the
// session token. Affiliation fields are optional.
type User struct {
	StudentNo string `json:"studentNo"`
	Username  string `json:"username"`
	Role      Role   `json:"role"`
	Clazz     string `json:"clazz,omitempty"`
	Grade     string `json:"grade,omitempty"`
	College   string `json:"college,omitempty"`
}

// IsElevated reports whether the user holds the highest-privilege role.
func (u *User) IsElevated() bool {
	return u != nil && u.Role == RoleSuperAdmin
}

// LoginResponse is the typed view of a successful login payload. The cached
// user record is the raw payload, so fields not declared here survive.
type LoginResponse struct {
	Token     string `json:"token"`
	StudentNo string `json:"studentNo"`
	Username  string `json:"username"`
	Role      Role   `json:"role"`
}

// UserListResponse is one page of the user directory.
type UserListResponse struct {
	Items    []User `json:"items"`
	Total    int64  `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}
