package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"todotrek/internal/apperr"
	"todotrek/internal/auth"
	"todotrek/internal/model"
	"todotrek/internal/rest/response"
	"todotrek/internal/service"
)

const testToken = "good-token"

// MockAuth implements AuthService for testing.
type MockAuth struct {
	SignUpFunc       func(ctx context.Context, input auth.SignUpInput) (*auth.Session, error)
	SignInFunc       func(ctx context.Context, email, password string) (*auth.Session, error)
	LinkTelegramFunc func(ctx context.Context, userID string, chatID int64) error
}

func (m *MockAuth) SignUp(ctx context.Context, input auth.SignUpInput) (*auth.Session, error) {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, input)
	}
	return &auth.Session{Token: "t"}, nil
}

func (m *MockAuth) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, email, password)
	}
	return &auth.Session{Token: "t"}, nil
}

func (m *MockAuth) RegisterGoogle(context.Context, auth.GoogleInput) (*auth.Session, error) {
	return &auth.Session{Token: "t"}, nil
}

func (m *MockAuth) VerifyEmail(context.Context, string) error { return nil }

func (m *MockAuth) ResendVerification(context.Context, string) error { return nil }

func (m *MockAuth) RequestPasswordReset(context.Context, string) error { return nil }

func (m *MockAuth) ResetPassword(context.Context, string, string) error { return nil }

func (m *MockAuth) CurrentUser(_ context.Context, userID string) (*model.UserSummary, error) {
	return &model.UserSummary{ID: userID}, nil
}

func (m *MockAuth) LinkTelegram(ctx context.Context, userID string, chatID int64) error {
	if m.LinkTelegramFunc != nil {
		return m.LinkTelegramFunc(ctx, userID, chatID)
	}
	return nil
}

func (m *MockAuth) Authenticate(_ context.Context, token string) (string, error) {
	if token == testToken {
		return "user-1", nil
	}
	return "", apperr.New(apperr.KindUnauthenticated, "invalid token")
}

// MockProjects implements ProjectService for testing.
type MockProjects struct {
	CreateFunc func(ctx context.Context, actorID string, input service.ProjectInput) (*service.ProjectView, error)
	ListFunc   func(ctx context.Context, ownerID, sortBy string) ([]service.ProjectView, error)
	UpdateFunc func(ctx context.Context, actorID, id string, patch service.ProjectPatch) (*service.ProjectView, error)
	DeleteFunc func(ctx context.Context, actorID, id string) error
}

func (m *MockProjects) Create(ctx context.Context, actorID string, input service.ProjectInput) (*service.ProjectView, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, actorID, input)
	}
	return &service.ProjectView{}, nil
}

func (m *MockProjects) ListByOwner(ctx context.Context, ownerID, sortBy string) ([]service.ProjectView, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID, sortBy)
	}
	return []service.ProjectView{}, nil
}

func (m *MockProjects) Get(context.Context, string, string) (*service.ProjectView, error) {
	return nil, apperr.New(apperr.KindNotFound, "project not found")
}

func (m *MockProjects) Update(ctx context.Context, actorID, id string, patch service.ProjectPatch) (*service.ProjectView, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, actorID, id, patch)
	}
	return &service.ProjectView{ID: id}, nil
}

func (m *MockProjects) Delete(ctx context.Context, actorID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, actorID, id)
	}
	return nil
}

// MockTasks implements TaskService for testing.
type MockTasks struct {
	CreateFunc        func(ctx context.Context, actorID string, input service.TaskInput) (*service.TaskView, error)
	ListFunc          func(ctx context.Context, actorID string, filter service.TaskListFilter, sortBy string) ([]service.TaskView, error)
	UpdateFunc        func(ctx context.Context, actorID, id string, patch service.TaskPatch) (*service.TaskView, error)
	SetCompletionFunc func(ctx context.Context, actorID, id string, completed bool) (*service.TaskView, error)
}

func (m *MockTasks) Create(ctx context.Context, actorID string, input service.TaskInput) (*service.TaskView, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, actorID, input)
	}
	return &service.TaskView{}, nil
}

func (m *MockTasks) List(ctx context.Context, actorID string, filter service.TaskListFilter, sortBy string) ([]service.TaskView, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, actorID, filter, sortBy)
	}
	return []service.TaskView{}, nil
}

func (m *MockTasks) Get(context.Context, string) (*service.TaskView, error) {
	return &service.TaskView{}, nil
}

func (m *MockTasks) Update(ctx context.Context, actorID, id string, patch service.TaskPatch) (*service.TaskView, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, actorID, id, patch)
	}
	return &service.TaskView{}, nil
}

func (m *MockTasks) SetCompletion(ctx context.Context, actorID, id string, completed bool) (*service.TaskView, error) {
	if m.SetCompletionFunc != nil {
		return m.SetCompletionFunc(ctx, actorID, id, completed)
	}
	return &service.TaskView{}, nil
}

func (m *MockTasks) Delete(context.Context, string, string) error { return nil }

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func setupRouter(authSvc AuthService, projects ProjectService, tasks TaskService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	log := testLogger()
	require := RequireToken(authSvc, log)
	NewAuthHandler(authSvc, require, log).EnrichRoutes(router)
	NewProjectHandler(projects, require, log).EnrichRoutes(router)
	NewTaskHandler(tasks, require, log).EnrichRoutes(router)
	return router
}

func do(router *gin.Engine, method, path, body string, authed bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.Body {
	t.Helper()
	var body response.Body
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestRequireToken(t *testing.T) {
	router := setupRouter(&MockAuth{}, &MockProjects{}, &MockTasks{})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + testToken, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + testToken, http.StatusOK},
		{"scheme is case-insensitive", "bearer " + testToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/project/user", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestCreateProject(t *testing.T) {
	var got service.ProjectInput
	var actor string
	projects := &MockProjects{
		CreateFunc: func(_ context.Context, actorID string, input service.ProjectInput) (*service.ProjectView, error) {
			actor, got = actorID, input
			return &service.ProjectView{ID: "p1", Name: input.Name}, nil
		},
	}
	router := setupRouter(&MockAuth{}, projects, &MockTasks{})

	w := do(router, http.MethodPost, "/project/create", `{"name":" Work ","color":"#fff","favourites":true}`, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	if actor != "user-1" || got.Name != "Work" || got.Color != "#fff" || !got.IsFavourite {
		t.Fatalf("actor = %q input = %+v", actor, got)
	}

	w = do(router, http.MethodPost, "/project/create", `{"color":"#fff"}`, true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing name status = %d", w.Code)
	}
	if body := decodeError(t, w); body.Errors["name"].Code != response.MissedValue {
		t.Fatalf("body = %+v", body)
	}

	w = do(router, http.MethodPost, "/project/create", `{not json`, true)
	if body := decodeError(t, w); w.Code != http.StatusBadRequest || body.Errors[response.GeneralErrorKey].Code != response.InvalidRequestStructure {
		t.Fatalf("status = %d body = %+v", w.Code, body)
	}
}

func TestUpdateProjectRejectsChildLists(t *testing.T) {
	called := false
	projects := &MockProjects{
		UpdateFunc: func(context.Context, string, string, service.ProjectPatch) (*service.ProjectView, error) {
			called = true
			return &service.ProjectView{}, nil
		},
	}
	router := setupRouter(&MockAuth{}, projects, &MockTasks{})

	w := do(router, http.MethodPatch, "/project/p1", `{"name":"x","tasks":["t1"]}`, true)
	if w.Code != http.StatusBadRequest || called {
		t.Fatalf("status = %d called = %v", w.Code, called)
	}
	if body := decodeError(t, w); body.Errors["tasks"].Code != response.ReadOnlyValue {
		t.Fatalf("body = %+v", body)
	}
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		kind   apperr.Kind
		status int
	}{
		{apperr.KindInvalidArgument, http.StatusBadRequest},
		{apperr.KindNotFound, http.StatusNotFound},
		{apperr.KindForbidden, http.StatusForbidden},
		{apperr.KindConflict, http.StatusConflict},
		{apperr.KindUnavailable, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			projects := &MockProjects{
				DeleteFunc: func(context.Context, string, string) error {
					return apperr.New(tt.kind, "boom")
				},
			}
			router := setupRouter(&MockAuth{}, projects, &MockTasks{})
			w := do(router, http.MethodDelete, "/project/p1", "", true)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if body := decodeError(t, w); body.Code != tt.kind || body.Message != "boom" {
				t.Fatalf("body = %+v", body)
			}
		})
	}
}

func TestListTasksPassesFilters(t *testing.T) {
	var gotFilter service.TaskListFilter
	var gotSort string
	tasks := &MockTasks{
		ListFunc: func(_ context.Context, _ string, filter service.TaskListFilter, sortBy string) ([]service.TaskView, error) {
			gotFilter, gotSort = filter, sortBy
			return []service.TaskView{}, nil
		},
	}
	router := setupRouter(&MockAuth{}, &MockProjects{}, tasks)

	w := do(router, http.MethodGet, "/task/?cid=c1&sortBy=priority", "", true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if gotFilter.CategoryID != "c1" || gotFilter.ProjectID != "" || gotSort != "priority" {
		t.Fatalf("filter = %+v sort = %q", gotFilter, gotSort)
	}
}

func TestUpdateTaskForm(t *testing.T) {
	var got service.TaskPatch
	tasks := &MockTasks{
		UpdateFunc: func(_ context.Context, _, _ string, patch service.TaskPatch) (*service.TaskView, error) {
			got = patch
			return &service.TaskView{}, nil
		},
	}
	router := setupRouter(&MockAuth{}, &MockProjects{}, tasks)

	w := do(router, http.MethodPatch, "/task/t1", `{"dueDate":null,"priority":2,"categoryId":"c1","projectId":"p1"}`, true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	if !got.ClearDueDate || got.DueDate != nil || *got.Priority != 2 || *got.CategoryID != "c1" || *got.ProjectID != "p1" {
		t.Fatalf("patch = %+v", got)
	}

	w = do(router, http.MethodPatch, "/task/t1", `{"dueDate":"2026-02-30"}`, true)
	if body := decodeError(t, w); w.Code != http.StatusBadRequest || body.Errors["dueDate"].Code != response.InvalidValue {
		t.Fatalf("status = %d body = %+v", w.Code, body)
	}
	w = do(router, http.MethodPatch, "/task/t1", `{"priority":7}`, true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("priority status = %d", w.Code)
	}

	w = do(router, http.MethodPatch, "/task/t1", `{"dueDate":"2026-03-01"}`, true)
	if w.Code != http.StatusOK || got.DueDate == nil || got.DueDate.Day() != 1 || got.ClearDueDate {
		t.Fatalf("status = %d patch = %+v", w.Code, got)
	}
}

func TestChangeCompletion(t *testing.T) {
	var got *bool
	tasks := &MockTasks{
		SetCompletionFunc: func(_ context.Context, _, _ string, completed bool) (*service.TaskView, error) {
			got = &completed
			return &service.TaskView{}, nil
		},
	}
	router := setupRouter(&MockAuth{}, &MockProjects{}, tasks)

	if w := do(router, http.MethodPatch, "/task/change-completion/t1", `{}`, true); w.Code != http.StatusBadRequest {
		t.Fatalf("missing flag status = %d", w.Code)
	}
	if w := do(router, http.MethodPatch, "/task/change-completion/t1", `{"isCompleted":true}`, true); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got == nil || !*got {
		t.Fatalf("completed = %v", got)
	}
}

func TestSignUpAndTelegram(t *testing.T) {
	var linked int64
	authSvc := &MockAuth{
		SignUpFunc: func(_ context.Context, input auth.SignUpInput) (*auth.Session, error) {
			if input.Email == "taken@example.com" {
				return nil, apperr.New(apperr.KindConflict, "This email already exist. Please login using this email")
			}
			return &auth.Session{Token: "tok", User: model.UserSummary{Email: input.Email}}, nil
		},
		LinkTelegramFunc: func(_ context.Context, _ string, chatID int64) error {
			linked = chatID
			return nil
		},
	}
	router := setupRouter(authSvc, &MockProjects{}, &MockTasks{})

	w := do(router, http.MethodPost, "/auth/sign_up", `{"email":"a@b.c","password":"hunter22"}`, false)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	var session struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &session); err != nil || session.Token != "tok" || session.Message == "" {
		t.Fatalf("body = %s", w.Body.String())
	}

	if w := do(router, http.MethodPost, "/auth/sign_up", `{"email":"taken@example.com","password":"hunter22"}`, false); w.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d", w.Code)
	}
	if w := do(router, http.MethodPost, "/auth/sign_up", `{"email":"a@b.c"}`, false); w.Code != http.StatusBadRequest {
		t.Fatalf("missing password status = %d", w.Code)
	}

	if w := do(router, http.MethodPost, "/auth/user/telegram", `{"chatId":77}`, false); w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated telegram status = %d", w.Code)
	}
	if w := do(router, http.MethodPost, "/auth/user/telegram", `{"chatId":77}`, true); w.Code != http.StatusOK || linked != 77 {
		t.Fatalf("status = %d linked = %d", w.Code, linked)
	}
}
