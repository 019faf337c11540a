package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Hamzabaloch08/taskApp-backend/internal/domain"
	"github.com/Hamzabaloch08/taskApp-backend/internal/http/handlers"
	"github.com/Hamzabaloch08/taskApp-backend/internal/ids"
	"github.com/Hamzabaloch08/taskApp-backend/internal/repository/memory"
	"github.com/Hamzabaloch08/taskApp-backend/internal/service"
	"github.com/Hamzabaloch08/taskApp-backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T, transport session.Transport) *testServer {
	t.Helper()
	auth := service.NewAuthService(
		memory.NewUserRepository(),
		service.NewPasswordHasher(bcrypt.MinCost),
		service.NewTokenManager("test-secret", time.Hour),
	)
	tasks := service.NewTaskService(memory.NewTaskRepository(), nil)
	h := handlers.NewHandler(auth, tasks, transport)
	health := handlers.NewHealthHandler("test")
	return &testServer{t: t, router: NewRouter(h, health, []string{"http://localhost:5173"})}
}

type call struct {
	method string
	path   string
	body   any
	token  string
	cookie *http.Cookie
}

func (s *testServer) do(c call) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if c.body != nil {
		switch b := c.body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(s.t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(c.method, c.path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func signupBody(first, email string) gin.H {
	return gin.H{"firstName": first, "lastName": "Tester", "email": email, "password": "hunter22"}
}

// bearerLogin signs up and logs in, returning the issued token.
func (s *testServer) bearerLogin(first, email string) string {
	s.t.Helper()
	w, _ := s.do(call{method: http.MethodPost, path: "/api/v1/auth/signup", body: signupBody(first, email)})
	require.Equal(s.t, http.StatusCreated, w.Code)

	w, env := s.do(call{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"email": email, "password": "hunter22"}})
	require.Equal(s.t, http.StatusOK, w.Code)

	var tok session.BearerToken
	require.NoError(s.t, json.Unmarshal(env.Data, &tok))
	require.NotEmpty(s.t, tok.Token)
	return tok.Token
}

func (s *testServer) createTask(token, title string) domain.Task {
	s.t.Helper()
	w, env := s.do(call{method: http.MethodPost, path: "/api/v1/tasks", token: token, body: gin.H{"title": title, "description": "desc"}})
	require.Equal(s.t, http.StatusCreated, w.Code)
	var task domain.Task
	require.NoError(s.t, json.Unmarshal(env.Data, &task))
	return task
}

func TestSignupResponses(t *testing.T) {
	s := newTestServer(t, session.BearerTransport{})

	w, env := s.do(call{method: http.MethodPost, path: "/api/v1/auth/signup", body: signupBody("Ann", "Ann@X.com ")})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "User created", env.Message)
	assert.JSONEq(t, `{"success":true,"message":"User created"}`, w.Body.String())

	w, env = s.do(call{method: http.MethodPost, path: "/api/v1/auth/signup", body: signupBody("Ann", "ann@x.com")})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Email already registered", env.Message)

	w, env = s.do(call{method: http.MethodPost, path: "/api/v1/auth/signup", body: gin.H{"email": "b@x.com"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All fields required", env.Message)

	w, env = s.do(call{method: http.MethodPost, path: "/api/v1/auth/signup", body: signupBody("Bo", "not-an-email")})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid email", env.Message)

	w, _ = s.do(call{method: http.MethodPost, path: "/api/v1/auth/signup", body: "{"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginNormalizedEmailAndCheck(t *testing.T) {
	s := newTestServer(t, session.BearerTransport{})

	w, _ := s.do(call{method: http.MethodPost, path: "/api/v1/auth/signup", body: signupBody("Ann", "Ann@X.com ")})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := s.do(call{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"email": "ann@x.com", "password": "hunter22"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Login successful", env.Message)

	var tok session.BearerToken
	require.NoError(t, json.Unmarshal(env.Data, &tok))

	w, env = s.do(call{method: http.MethodGet, path: "/api/v1/auth/check", token: tok.Token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Authenticated", env.Message)
	assert.JSONEq(t, `{"firstName":"Ann","lastName":"Tester","email":"ann@x.com","isAdmin":false}`, string(env.Data))
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	s := newTestServer(t, session.BearerTransport{})
	s.bearerLogin("Ann", "ann@x.com")

	wrongPw, envPw := s.do(call{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"email": "ann@x.com", "password": "nope"}})
	unknown, envUnknown := s.do(call{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"email": "ghost@x.com", "password": "nope"}})

	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, wrongPw.Code, unknown.Code)
	assert.Equal(t, envPw, envUnknown)
	assert.Equal(t, "Invalid email or password", envPw.Message)

	w, env := s.do(call{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"email": "ann@x.com"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email and password required", env.Message)
}

func TestAuthGate(t *testing.T) {
	s := newTestServer(t, session.BearerTransport{})

	w, env := s.do(call{method: http.MethodGet, path: "/api/v1/tasks"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "No token provided", env.Message)

	w, env = s.do(call{method: http.MethodGet, path: "/api/v1/auth/check", token: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", env.Message)

	w, env = s.do(call{method: http.MethodPost, path: "/api/v1/auth/logout"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out successfully", env.Message)
}

func TestCookieTransportFlow(t *testing.T) {
	s := newTestServer(t, session.NewCookieTransport(time.Hour, false))

	w, _ := s.do(call{method: http.MethodPost, path: "/api/v1/auth/signup", body: signupBody("Ann", "ann@x.com")})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := s.do(call{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"email": "ann@x.com", "password": "hunter22"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.Data)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	tokenCookie := cookies[0]
	assert.Equal(t, session.CookieName, tokenCookie.Name)
	assert.True(t, tokenCookie.HttpOnly)
	assert.Equal(t, 3600, tokenCookie.MaxAge)

	w, env = s.do(call{method: http.MethodGet, path: "/api/v1/auth/check", cookie: tokenCookie})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Authenticated", env.Message)

	w, _ = s.do(call{method: http.MethodPost, path: "/api/v1/auth/logout", cookie: tokenCookie})
	require.Equal(t, http.StatusOK, w.Code)
	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)
	assert.Less(t, cleared[0].MaxAge, 0)
}

func TestTaskCRUD(t *testing.T) {
	s := newTestServer(t, session.BearerTransport{})
	tok := s.bearerLogin("Ann", "ann@x.com")

	w, env := s.do(call{method: http.MethodGet, path: "/api/v1/tasks", token: tok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Tasks fetched successfully", env.Message)
	assert.JSONEq(t, `[]`, string(env.Data))

	w, env = s.do(call{method: http.MethodPost, path: "/api/v1/tasks", token: tok, body: gin.H{"title": "  ", "description": "d"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title and description are required and must be non-empty", env.Message)

	task := s.createTask(tok, " Buy milk ")
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "ann@x.com", task.OwnerEmail)
	assert.True(t, ids.Valid(task.ID))

	w, env = s.do(call{method: http.MethodPut, path: "/api/v1/tasks/" + task.ID, token: tok, body: gin.H{"completed": "true", "important": true}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Task updated successfully", env.Message)

	w, env = s.do(call{method: http.MethodGet, path: "/api/v1/tasks?completed=true&important=true", token: tok})
	require.Equal(t, http.StatusOK, w.Code)
	var listed []domain.Task
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed, 1)
	assert.True(t, listed[0].Completed)
	assert.True(t, listed[0].Important)

	w, env = s.do(call{method: http.MethodGet, path: "/api/v1/tasks?completed=yes", token: tok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	w, env = s.do(call{method: http.MethodPut, path: "/api/v1/tasks/" + task.ID, token: tok, body: gin.H{"title": ""}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title cannot be empty", env.Message)

	w, env = s.do(call{method: http.MethodPut, path: "/api/v1/tasks/not-an-id", token: tok, body: gin.H{"title": "x"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid ID", env.Message)

	w, env = s.do(call{method: http.MethodDelete, path: "/api/v1/tasks/not-an-id", token: tok})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid ID", env.Message)

	w, env = s.do(call{method: http.MethodDelete, path: "/api/v1/tasks/" + task.ID, token: tok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Task deleted successfully", env.Message)

	w, env = s.do(call{method: http.MethodDelete, path: "/api/v1/tasks/" + task.ID, token: tok})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Task not found", env.Message)
}

func TestDeleteAllWithNoTasks(t *testing.T) {
	s := newTestServer(t, session.BearerTransport{})
	tok := s.bearerLogin("Ann", "ann@x.com")

	w, env := s.do(call{method: http.MethodDelete, path: "/api/v1/tasks", token: tok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "All tasks deleted successfully", env.Message)
	assert.JSONEq(t, `{"deletedCount":0}`, string(env.Data))

	s.createTask(tok, "a")
	s.createTask(tok, "b")
	w, env = s.do(call{method: http.MethodDelete, path: "/api/v1/tasks", token: tok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deletedCount":2}`, string(env.Data))
}

func TestCrossOwnerIsolation(t *testing.T) {
	s := newTestServer(t, session.BearerTransport{})
	alice := s.bearerLogin("Alice", "alice@x.com")
	bob := s.bearerLogin("Bob", "bob@x.com")

	bobsTask := s.createTask(bob, "bob's")

	w, env := s.do(call{method: http.MethodGet, path: "/api/v1/tasks", token: alice})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	w, _ = s.do(call{method: http.MethodPut, path: "/api/v1/tasks/" + bobsTask.ID, token: alice, body: gin.H{"title": "mine"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(call{method: http.MethodDelete, path: "/api/v1/tasks/" + bobsTask.ID, token: alice})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = s.do(call{method: http.MethodDelete, path: "/api/v1/tasks", token: alice})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deletedCount":0}`, string(env.Data))

	w, env = s.do(call{method: http.MethodGet, path: "/api/v1/tasks", token: bob})
	require.Equal(t, http.StatusOK, w.Code)
	var tasks []domain.Task
	require.NoError(t, json.Unmarshal(env.Data, &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "bob's", tasks[0].Title)
}

func TestOperationalRoutes(t *testing.T) {
	s := newTestServer(t, session.BearerTransport{})

	for _, p := range []string{"/health", "/healthz", "/readyz", "/metrics"} {
		w, _ := s.do(call{method: http.MethodGet, path: p})
		assert.Equal(t, http.StatusOK, w.Code, p)
	}

	w, _ := s.do(call{method: http.MethodGet, path: "/metrics"})
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, session.BearerTransport{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/tasks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
