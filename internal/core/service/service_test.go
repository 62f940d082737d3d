package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/volunteerhub/dashboard/internal/core/domain"
	"github.com/volunteerhub/dashboard/internal/core/ports"
	"github.com/volunteerhub/dashboard/internal/infrastructure/storage"
	"github.com/volunteerhub/dashboard/internal/session"
	"github.com/volunteerhub/dashboard/internal/transport"
)

// ---------------------------------------------------------------------------
// Fake backend
// ---------------------------------------------------------------------------

func writeEnvelope(w http.ResponseWriter, code int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"code": code, "message": message, "data": data})
}

func newTestClient(t *testing.T, mux *http.ServeMux) (*Client, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	nop := zerolog.Nop()
	store := session.NewStore(storage.NewMemoryStore(), nop)
	router := transport.NewRouter(transport.NewDirectTransport(transport.DirectOptions{}, nop), nil, nop)
	return NewClient(router, srv.URL+"/", store, nop), store
}

func login(t *testing.T, store *session.Store, token string, u domain.User) {
	t.Helper()
	if err := store.Save(context.Background(), token, u); err != nil {
		t.Fatalf("seed session: %v", err)
	}
}

// ---------------------------------------------------------------------------
// UserService
// ---------------------------------------------------------------------------

// loginPayload carries profile fields beyond domain.LoginResponse.
const loginPayload = `{"token":"tok-1","studentNo":"2021001","username":"alice","role":"user","college":"CS","totalHours":12.5}`

func TestUserService_LoginPersistsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user/login", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("studentNo") != "2021001" || r.URL.Query().Get("password") != "secret" {
			writeEnvelope(w, 401, "bad credentials", nil)
			return
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("login must not carry a bearer token")
		}
		writeEnvelope(w, 200, "ok", json.RawMessage(loginPayload))
	})
	c, store := newTestClient(t, mux)
	svc := NewUserService(c)
	ctx := context.Background()

	res, err := svc.Login(ctx, "2021001", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token != "tok-1" {
		t.Fatalf("token = %q", res.Token)
	}

	snap, _ := store.Snapshot(ctx)
	if snap.Token != "tok-1" || !snap.Authenticated() {
		t.Fatalf("session = %+v", snap)
	}
	if snap.UserInfo != loginPayload {
		t.Fatalf("user record = %s, want %s", snap.UserInfo, loginPayload)
	}
	if res.Username != "alice" || res.Role != domain.RoleUser {
		t.Fatalf("login response = %+v", res)
	}
	if store.Username() != "alice" {
		t.Fatalf("current user = %q", store.Username())
	}
}

func TestUserService_LoginRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user/login", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, 401, "wrong password", nil)
	})
	c, store := newTestClient(t, mux)

	_, err := NewUserService(c).Login(context.Background(), "2021001", "nope")
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "wrong password" {
		t.Fatalf("expected APIError, got %v", err)
	}
	if snap, _ := store.Snapshot(context.Background()); snap.Token != "" {
		t.Fatal("failed login must not persist a token")
	}
}

func TestUserService_LoginRequiresCredentials(t *testing.T) {
	c, _ := newTestClient(t, http.NewServeMux())
	if _, err := NewUserService(c).Login(context.Background(), "", "x"); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestUserService_VerifyToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user/verifyToken", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer good" {
			writeEnvelope(w, 200, "ok", "Pass")
			return
		}
		writeEnvelope(w, 200, "ok", "Fail")
	})
	c, _ := newTestClient(t, mux)
	svc := NewUserService(c)

	if got, err := svc.VerifyToken(context.Background(), "good"); err != nil || got != "Pass" {
		t.Fatalf("VerifyToken(good) = %q, %v", got, err)
	}
	if got, _ := svc.VerifyToken(context.Background(), "bad"); got != "Fail" {
		t.Fatalf("VerifyToken(bad) = %q", got)
	}
	if _, err := svc.VerifyToken(context.Background(), ""); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestUserService_GetUserInfoUsesStoredToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user/getUser", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 200, "ok", domain.User{StudentNo: "2021001", Username: r.URL.Query().Get("token")})
	})
	c, store := newTestClient(t, mux)
	svc := NewUserService(c)

	if _, err := svc.GetUserInfo(context.Background(), ""); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}

	login(t, store, "tok-9", domain.User{StudentNo: "2021001"})
	u, err := svc.GetUserInfo(context.Background(), "")
	if err != nil {
		t.Fatalf("GetUserInfo: %v", err)
	}
	if u.Username != "tok-9" {
		t.Fatalf("token param = %q", u.Username)
	}
}

func TestUserService_LogoutClearsSession(t *testing.T) {
	c, store := newTestClient(t, http.NewServeMux())
	login(t, store, "tok", domain.User{StudentNo: "1"})

	if err := NewUserService(c).Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	snap, _ := store.Snapshot(context.Background())
	if snap.Token != "" || snap.UserInfo != "" {
		t.Fatalf("session = %+v", snap)
	}
}

func TestUserService_ListUsers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user/list", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("role") != "admin" || q.Get("page") != "2" || q.Get("pageSize") != "20" {
			t.Errorf("query = %v", q)
		}
		writeEnvelope(w, 200, "ok", domain.UserListResponse{Items: []domain.User{{StudentNo: "7"}}, Total: 21, Page: 2, PageSize: 20})
	})
	c, store := newTestClient(t, mux)
	login(t, store, "tok", domain.User{})

	list, err := NewUserService(c).ListUsers(context.Background(), 2, 20, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if list.Total != 21 || len(list.Items) != 1 {
		t.Fatalf("list = %+v", list)
	}
}

// ---------------------------------------------------------------------------
// ActivityService
// ---------------------------------------------------------------------------

func TestActivityService_GetByIDDirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/activities/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 200, "ok", domain.Activity{ID: r.PathValue("id"), Name: "park cleanup"})
	})
	mux.HandleFunc("GET /api/activities", func(w http.ResponseWriter, _ *http.Request) {
		t.Error("list must not be scanned when the by-id endpoint answers")
	})
	c, store := newTestClient(t, mux)
	login(t, store, "tok", domain.User{})

	a, err := NewActivityService(c).GetByID(context.Background(), "a1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if a.ID != "a1" || a.Name != "park cleanup" {
		t.Fatalf("activity = %+v", a)
	}
}

func TestActivityService_GetByIDFallsBackToLargerPages(t *testing.T) {
	var mu sync.Mutex
	var sizes []string

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/activities/{id}", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not supported", http.StatusNotFound)
	})
	mux.HandleFunc("GET /api/activities", func(w http.ResponseWriter, r *http.Request) {
		size := r.URL.Query().Get("pageSize")
		mu.Lock()
		sizes = append(sizes, size)
		mu.Unlock()
		items := []domain.Activity{{ID: "other"}}
		if size == "1000" {
			items = append(items, domain.Activity{ID: "target", Name: "late entry"})
		}
		writeEnvelope(w, 200, "ok", domain.ActivityList{Items: items, Total: int64(len(items))})
	})
	c, store := newTestClient(t, mux)
	login(t, store, "tok", domain.User{})

	a, err := NewActivityService(c).GetByID(context.Background(), "target")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if a.Name != "late entry" {
		t.Fatalf("activity = %+v", a)
	}
	if diff := cmp.Diff([]string{"500", "1000"}, sizes); diff != "" {
		t.Fatalf("page sizes (-want +got):\n%s", diff)
	}
}

func TestActivityService_GetByIDNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/activities/{id}", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, 404, "no such activity", nil)
	})
	mux.HandleFunc("GET /api/activities", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, 200, "ok", domain.ActivityList{})
	})
	c, store := newTestClient(t, mux)
	login(t, store, "tok", domain.User{})

	_, err := NewActivityService(c).GetByID(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrActivityNotFound) {
		t.Fatalf("expected ErrActivityNotFound, got %v", err)
	}
}

func TestActivityService_ListParams(t *testing.T) {
	full := false
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/activities", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		if q.Get("type") != "CULTURE_SERVICE" || q.Get("isFull") != "false" || q.Has("name") {
			t.Errorf("query = %v", q)
		}
		writeEnvelope(w, 200, "ok", domain.ActivityList{Total: 0})
	})
	c, store := newTestClient(t, mux)
	login(t, store, "tok", domain.User{})

	_, err := NewActivityService(c).List(context.Background(), ports.ActivityListParams{Type: domain.TypeCultureService, IsFull: &full})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
}

func TestActivityService_CreateSendsMultipart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/activities", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if r.FormValue("name") != "park cleanup" || r.FormValue("maxParticipants") != "30" {
			t.Errorf("form = %v", r.MultipartForm.Value)
		}
		if got := r.MultipartForm.Value["participants[]"]; len(got) != 2 {
			t.Errorf("participants = %v", got)
		}
		if _, hdr, err := r.FormFile("coverFile"); err != nil || hdr.Filename != "cover.png" {
			t.Errorf("cover file: %v", err)
		}
		writeEnvelope(w, 200, "created", domain.Activity{ID: "new", Name: r.FormValue("name")})
	})
	c, store := newTestClient(t, mux)
	login(t, store, "tok", domain.User{})

	limit := 30
	a, err := NewActivityService(c).Create(context.Background(), ports.ActivityInput{
		Functionary:     "2021001",
		Name:            "park cleanup",
		Type:            domain.TypeCommunityService,
		MaxParticipants: &limit,
		Participants:    []string{"1", "2"},
		CoverFile:       &ports.FileUpload{Name: "cover.png", Content: []byte("png")},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID != "new" {
		t.Fatalf("activity = %+v", a)
	}
}

func TestActivityService_EnrollAndReview(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/activities/{id}/enroll", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("studentNo") != "2021001" {
			t.Errorf("studentNo = %q", r.URL.Query().Get("studentNo"))
		}
		writeEnvelope(w, 200, "enrolled", nil)
	})
	mux.HandleFunc("POST /api/activities/{id}/review", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("approve") != "false" || r.URL.Query().Get("reason") != "duplicate" {
			t.Errorf("query = %v", r.URL.Query())
		}
		writeEnvelope(w, 200, "ok", domain.Activity{ID: r.PathValue("id"), Status: domain.StatusFailReview})
	})
	c, store := newTestClient(t, mux)
	login(t, store, "tok", domain.User{})
	svc := NewActivityService(c)

	if err := svc.Enroll(context.Background(), "a1", "2021001"); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	a, err := svc.Review(context.Background(), "a1", false, "duplicate")
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if a.Status != domain.StatusFailReview {
		t.Fatalf("status = %q", a.Status)
	}
}

func TestActivityService_EnrollRejectedByEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/activities/{id}/enroll", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, 409, "activity is full", nil)
	})
	c, store := newTestClient(t, mux)
	login(t, store, "tok", domain.User{})

	err := NewActivityService(c).Enroll(context.Background(), "a1", "2021001")
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != 409 {
		t.Fatalf("expected APIError 409, got %v", err)
	}
}

func TestActivityService_Import(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/activities/import", func(w http.ResponseWriter, r *http.Request) {
		var in []domain.Activity
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode: %v", err)
		}
		writeEnvelope(w, 200, "ok", len(in))
	})
	c, store := newTestClient(t, mux)
	login(t, store, "tok", domain.User{})
	svc := NewActivityService(c)

	n, err := svc.Import(context.Background(), []domain.Activity{{Name: "a"}, {Name: "b"}})
	if err != nil || n != 2 {
		t.Fatalf("Import = %d, %v", n, err)
	}
	if _, err := svc.Import(context.Background(), nil); !errors.Is(err, ErrNothingToImport) {
		t.Fatalf("expected ErrNothingToImport, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// HourRequestService / SuggestionService
// ---------------------------------------------------------------------------

func TestHourRequestService_Submit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/hours", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if r.FormValue("duration") != "2.5" || len(r.MultipartForm.File["files"]) != 2 {
			t.Errorf("form = %v files = %v", r.MultipartForm.Value, r.MultipartForm.File)
		}
		writeEnvelope(w, 200, "ok", domain.HourRequest{ID: "h1", Status: domain.HourRequestPending})
	})
	c, store := newTestClient(t, mux)
	login(t, store, "tok", domain.User{})
	svc := NewHourRequestService(c)

	hr, err := svc.Submit(context.Background(), ports.HourRequestInput{
		ActivityName: "blood drive",
		Duration:     2.5,
		Reason:       "helped out",
		Files:        []ports.FileUpload{{Name: "a.jpg", Content: []byte("a")}, {Name: "b.jpg", Content: []byte("b")}},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if hr.Status != domain.HourRequestPending {
		t.Fatalf("status = %q", hr.Status)
	}

	if _, err := svc.Submit(context.Background(), ports.HourRequestInput{ActivityName: "x"}); !errors.Is(err, ErrInvalidHourRequest) {
		t.Fatalf("expected ErrInvalidHourRequest, got %v", err)
	}
}

func TestSuggestionService(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/suggestions", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("status") != "PENDING" {
			t.Errorf("status = %q", r.URL.Query().Get("status"))
		}
		writeEnvelope(w, 200, "ok", domain.SuggestionList{Items: []domain.Suggestion{{ID: "s1"}}, Total: 1})
	})
	mux.HandleFunc("GET /api/suggestions/my", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, 200, "ok", nil)
	})
	mux.HandleFunc("POST /api/suggestions/{id}/reply", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["replyContent"] != "thanks" {
			t.Errorf("body = %v", body)
		}
		writeEnvelope(w, 200, "ok", nil)
	})
	c, store := newTestClient(t, mux)
	login(t, store, "tok", domain.User{})
	svc := NewSuggestionService(c)
	ctx := context.Background()

	all, err := svc.All(ctx, 1, 10, domain.SuggestionPending)
	if err != nil || all.Total != 1 {
		t.Fatalf("All = %+v, %v", all, err)
	}
	mine, err := svc.Mine(ctx, 1, 10)
	if err != nil || mine == nil || mine.Total != 0 {
		t.Fatalf("Mine = %+v, %v", mine, err)
	}
	if err := svc.Reply(ctx, "s1", "thanks"); err != nil {
		t.Fatalf("Reply: %v", err)
	}
}

// ---------------------------------------------------------------------------
// MonitorService
// ---------------------------------------------------------------------------

func TestMonitorService_FiltersFailureIsEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/monitoring/filters", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	c, store := newTestClient(t, mux)
	login(t, store, "tok", domain.User{})

	opts, err := NewMonitorService(c).Filters(context.Background())
	if err != nil {
		t.Fatalf("Filters: %v", err)
	}
	if len(opts.Colleges)+len(opts.Grades)+len(opts.Clazzes) != 0 || opts.Colleges == nil {
		t.Fatalf("options = %+v", opts)
	}
}

func TestMonitorService_DashboardDropsEmptyFilters(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/monitoring/dashboard", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("timeRange") != "monthly" || q.Get("grade") != "2021" || q.Has("clazz") || q.Has("college") {
			t.Errorf("query = %v", q)
		}
		writeEnvelope(w, 200, "ok", domain.Dashboard{Overview: domain.MonitorOverview{TotalUsers: 3}})
	})
	c, store := newTestClient(t, mux)
	login(t, store, "tok", domain.User{})

	d, err := NewMonitorService(c).Dashboard(context.Background(), "", ports.DashboardFilters{Grade: "2021"})
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.Overview.TotalUsers != 3 {
		t.Fatalf("dashboard = %+v", d)
	}
}

func TestMonitorService_UserStats(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/monitoring/user-stats", func(w http.ResponseWriter, r *http.Request) {
		var p ports.UserStatsParams
		_ = json.NewDecoder(r.Body).Decode(&p)
		if p.SortField != "totalDuration" || p.SortOrder != "desc" {
			t.Errorf("params = %+v", p)
		}
		writeEnvelope(w, 200, "ok", domain.UserStats{Total: 1, Records: []domain.UserStatItem{{StudentNo: "1", Rank: 1}}})
	})
	c, store := newTestClient(t, mux)
	login(t, store, "tok", domain.User{})
	svc := NewMonitorService(c)

	stats, err := svc.UserStats(context.Background(), ports.UserStatsParams{Page: 1, SortField: "totalDuration", SortOrder: "desc"})
	if err != nil || stats.Total != 1 {
		t.Fatalf("UserStats = %+v, %v", stats, err)
	}
	if _, err := svc.UserStats(context.Background(), ports.UserStatsParams{SortOrder: "sideways"}); err == nil {
		t.Fatal("expected validation error for sort order")
	}
}

// ---------------------------------------------------------------------------
// Files
// ---------------------------------------------------------------------------

func TestFileURLs(t *testing.T) {
	c := NewClient(nil, "https://api.test/", nil, zerolog.Nop())

	cases := map[string]string{
		"uploads/a.png":   "https://api.test/api/files/download?path=%2Fuploads%2Fa.png",
		"/uploads/a.png":  "https://api.test/api/files/download?path=%2Fuploads%2Fa.png",
		"//uploads/a.png": "https://api.test/api/files/download?path=%2Fuploads%2Fa.png",
		`uploads\b c.pdf`: "https://api.test/api/files/download?path=%2Fuploads%2Fb+c.pdf",
	}
	for in, want := range cases {
		if got := c.DownloadURL(in); got != want {
			t.Fatalf("DownloadURL(%q) = %q, want %q", in, got, want)
		}
	}
	if got := c.PreviewURL("x.pdf"); got != "https://api.test/api/files/preview?path=%2Fx.pdf" {
		t.Fatalf("PreviewURL = %q", got)
	}
}
