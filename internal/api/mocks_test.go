package api

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"

	"github.com/google/uuid"

	"github.com/jmilford/taskward/internal/api/shared"
	"github.com/jmilford/taskward/internal/domain"
	"github.com/jmilford/taskward/internal/service"
	"github.com/jmilford/taskward/internal/service/auth"
	"github.com/jmilford/taskward/internal/store"
)

// stubTaskService implements service.TaskService with function fields so
// each test overrides only what it needs.
type stubTaskService struct {
	listTasks      func(ctx context.Context, owner uuid.UUID, params service.ListParams) ([]*domain.Task, error)
	listExpiring   func(ctx context.Context, owner uuid.UUID) ([]*domain.Task, error)
	getTask        func(ctx context.Context, owner, taskID uuid.UUID) (*domain.Task, error)
	createTask     func(ctx context.Context, owner uuid.UUID, params service.CreateTaskParams) (*domain.Task, error)
	completeTask   func(ctx context.Context, owner, taskID uuid.UUID) error
	deleteTask     func(ctx context.Context, owner, taskID uuid.UUID) error
	calendarEvents func(ctx context.Context, owner uuid.UUID) ([]service.CalendarEvent, error)
}

func (s *stubTaskService) ListTasks(
	ctx context.Context,
	owner uuid.UUID,
	params service.ListParams,
) ([]*domain.Task, error) {
	if s.listTasks == nil {
		return []*domain.Task{}, nil
	}
	return s.listTasks(ctx, owner, params)
}

func (s *stubTaskService) ListExpiring(ctx context.Context, owner uuid.UUID) ([]*domain.Task, error) {
	if s.listExpiring == nil {
		return []*domain.Task{}, nil
	}
	return s.listExpiring(ctx, owner)
}

func (s *stubTaskService) GetTask(ctx context.Context, owner, taskID uuid.UUID) (*domain.Task, error) {
	if s.getTask == nil {
		return nil, store.ErrTaskNotFound
	}
	return s.getTask(ctx, owner, taskID)
}

func (s *stubTaskService) CreateTask(
	ctx context.Context,
	owner uuid.UUID,
	params service.CreateTaskParams,
) (*domain.Task, error) {
	if s.createTask == nil {
		return domain.NewTask(owner, params.Title, domain.Priority(params.Priority), params.DueDate)
	}
	return s.createTask(ctx, owner, params)
}

func (s *stubTaskService) CompleteTask(ctx context.Context, owner, taskID uuid.UUID) error {
	if s.completeTask == nil {
		return nil
	}
	return s.completeTask(ctx, owner, taskID)
}

func (s *stubTaskService) DeleteTask(ctx context.Context, owner, taskID uuid.UUID) error {
	if s.deleteTask == nil {
		return nil
	}
	return s.deleteTask(ctx, owner, taskID)
}

func (s *stubTaskService) CalendarEvents(ctx context.Context, owner uuid.UUID) ([]service.CalendarEvent, error) {
	if s.calendarEvents == nil {
		return []service.CalendarEvent{}, nil
	}
	return s.calendarEvents(ctx, owner)
}

// stubUserService implements service.UserService.
type stubUserService struct {
	register      func(ctx context.Context, params service.RegisterParams) (*domain.User, error)
	getProfile    func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	updateProfile func(ctx context.Context, userID uuid.UUID, params service.UpdateProfileParams) (*domain.User, error)
	deleteAccount func(ctx context.Context, userID uuid.UUID) error
}

func (s *stubUserService) Register(ctx context.Context, params service.RegisterParams) (*domain.User, error) {
	if s.register == nil {
		return domain.NewUser(params.Username, params.Email, params.Password, params.Phone, params.Region)
	}
	return s.register(ctx, params)
}

func (s *stubUserService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if s.getProfile == nil {
		return nil, store.ErrUserNotFound
	}
	return s.getProfile(ctx, userID)
}

func (s *stubUserService) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	params service.UpdateProfileParams,
) (*domain.User, error) {
	if s.updateProfile == nil {
		return nil, store.ErrUserNotFound
	}
	return s.updateProfile(ctx, userID, params)
}

func (s *stubUserService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if s.deleteAccount == nil {
		return nil
	}
	return s.deleteAccount(ctx, userID)
}

// stubUserStore implements store.UserStore for login tests.
type stubUserStore struct {
	getByUsername func(ctx context.Context, username string) (*domain.User, error)
}

func (s *stubUserStore) Create(context.Context, *domain.User) error { return nil }

func (s *stubUserStore) GetByID(context.Context, uuid.UUID) (*domain.User, error) {
	return nil, store.ErrUserNotFound
}

func (s *stubUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if s.getByUsername == nil {
		return nil, store.ErrUserNotFound
	}
	return s.getByUsername(ctx, username)
}

func (s *stubUserStore) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, store.ErrUserNotFound
}

func (s *stubUserStore) FindConflicts(
	context.Context,
	string, string, string,
	uuid.UUID,
) ([]string, error) {
	return nil, nil
}

func (s *stubUserStore) Update(context.Context, *domain.User) error { return nil }
func (s *stubUserStore) Delete(context.Context, uuid.UUID) error    { return nil }
func (s *stubUserStore) WithTx(*sql.Tx) store.UserStore             { return s }

// stubJWTService implements auth.JWTService.
type stubJWTService struct {
	token string
	err   error
}

func (s *stubJWTService) GenerateToken(context.Context, uuid.UUID) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.token == "" {
		return "test-token", nil
	}
	return s.token, nil
}

func (s *stubJWTService) ValidateToken(context.Context, string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

// stubVerifier implements auth.PasswordVerifier.
type stubVerifier struct {
	err error
}

func (v *stubVerifier) Compare(string, string) error { return v.err }

// authedRequest returns req with userID injected the way the auth
// middleware does it.
func authedRequest(req *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

// doRequest runs handler against req and returns the recorder.
func doRequest(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}
