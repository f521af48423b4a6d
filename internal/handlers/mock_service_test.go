package handlers

import (
	"context"
	"net/http"

	"studytrack/internal/models"
	"studytrack/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpUser    models.User
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       models.Identity
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (models.User, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpUser, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (models.Identity, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockTasks struct {
	listResp   []models.Task
	listErr    error
	createResp models.Task
	createErr  error
	updateResp models.Task
	updateErr  error
	deleteErr  error

	lastUserID    int64
	lastTaskID    int64
	lastText      string
	lastCompleted bool
	calls         int
}

func (m *mockTasks) List(_ context.Context, userID int64) ([]models.Task, error) {
	m.calls++
	m.lastUserID = userID
	return m.listResp, m.listErr
}
func (m *mockTasks) Create(_ context.Context, userID int64, text string) (models.Task, error) {
	m.calls++
	m.lastUserID = userID
	m.lastText = text
	return m.createResp, m.createErr
}
func (m *mockTasks) SetCompleted(_ context.Context, userID, taskID int64, completed bool) (models.Task, error) {
	m.calls++
	m.lastUserID = userID
	m.lastTaskID = taskID
	m.lastCompleted = completed
	return m.updateResp, m.updateErr
}
func (m *mockTasks) Delete(_ context.Context, userID, taskID int64) error {
	m.calls++
	m.lastUserID = userID
	m.lastTaskID = taskID
	return m.deleteErr
}

type mockHealth struct {
	err error
}

func (m *mockHealth) Ping(context.Context) error { return m.err }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil)
	return h.InitRoutes()
}

// authedService returns a service whose token check always resolves to id.
func authedService(id models.Identity, tasks *mockTasks) *service.Service {
	return &service.Service{
		Authorization: &mockAuth{parseID: id},
		Tasks:         tasks,
	}
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
