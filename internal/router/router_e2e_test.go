package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"task-manager/internal/authz"
	"task-manager/internal/domain"
	"task-manager/internal/dto"
	"task-manager/internal/handler"
	"task-manager/internal/repository"
	"task-manager/internal/request"
	"task-manager/internal/response"
	"task-manager/internal/router"
	"task-manager/internal/service"
	"task-manager/internal/testhelpers"
	"task-manager/pkg/ratelimit"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-secret"
)

type E2ETestSuite struct {
	db     *testhelpers.TestDB
	server *httptest.Server
	token  string
}

func setupE2ETest(t *testing.T, loginLimit int) *E2ETestSuite {
	db := testhelpers.GetTestDB(t)
	db.Reset(t)

	userRepo := repository.NewUserRepository(db.Pool)
	teamRepo := repository.NewTeamRepository(db.Pool)
	memberRepo := repository.NewMembershipRepository(db.Pool)
	taskRepo := repository.NewTaskRepository(db.Pool)

	validate := validator.New()

	authService := service.NewAuthService(userRepo, "e2e-secret", time.Hour)
	userService := service.NewUserService(userRepo, bcrypt.MinCost)
	teamService := service.NewTeamService(teamRepo)
	membershipService := service.NewMembershipService(memberRepo, userRepo, teamRepo)
	taskService := service.NewTaskService(taskRepo, teamRepo)

	r := router.SetupRouter(
		handler.NewAuthHandler(authService, validate),
		handler.NewUserHandler(userService, validate),
		handler.NewTeamHandler(teamService, validate),
		handler.NewMembershipHandler(membershipService, validate),
		handler.NewTaskHandler(taskService, validate),
		handler.NewHealthHandler(db.Pool),
		authService,
		authz.NewResolver(taskRepo),
		ratelimit.NewMemoryLimiter(loginLimit, time.Minute),
	)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	createAdmin(t, userRepo)

	suite := &E2ETestSuite{db: db, server: server}
	suite.token = suite.login(t, adminEmail, adminPassword)
	return suite
}

func createAdmin(t *testing.T, userRepo *repository.UserRepository) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now().UTC()
	err = userRepo.CreateUser(context.Background(), &domain.User{
		ID:           uuid.New(),
		Name:         "Admin",
		Email:        adminEmail,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
}

func (s *E2ETestSuite) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *E2ETestSuite) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/sessions", "", request.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[response.SessionResponse](t, resp).Token
}

func (s *E2ETestSuite) register(t *testing.T, name, email string) dto.UserDTO {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/users", "", request.RegisterUserRequest{Name: name, Email: email, Password: "password"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[response.UserResponse](t, resp).User
}

func (s *E2ETestSuite) createTeam(t *testing.T, name string) dto.TeamDTO {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/teams", s.token, request.CreateTeamRequest{Name: name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[response.TeamResponse](t, resp).Team
}

func (s *E2ETestSuite) addMember(t *testing.T, userID, teamID string) {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/team-members", s.token, request.TeamMemberRequest{UserID: userID, TeamID: teamID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func strPtr(s string) *string {
	return &s
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	suite := setupE2ETest(t, 100)

	var (
		backend     dto.TeamDTO
		alice, bob  dto.UserDTO
		aliceToken  string
		bobToken    string
		task        dto.TaskDTO
		managerTask dto.TaskDTO
	)

	t.Run("1. Create team and register users", func(t *testing.T) {
		backend = suite.createTeam(t, "backend")
		alice = suite.register(t, "Alice", "alice@example.com")
		bob = suite.register(t, "Bob", "bob@example.com")

		assert.Equal(t, string(domain.RoleMember), alice.Role)
		assert.Equal(t, string(domain.RoleMember), bob.Role)

		aliceToken = suite.login(t, "alice@example.com", "password")
		bobToken = suite.login(t, "bob@example.com", "password")
	})

	t.Run("2. Add members", func(t *testing.T) {
		suite.addMember(t, alice.ID, backend.ID)
		suite.addMember(t, bob.ID, backend.ID)

		resp := suite.do(t, http.MethodGet, "/team-members?team_id="+backend.ID, aliceToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		members := decode[response.TeamMembersResponse](t, resp)
		assert.Equal(t, 2, members.Count)
	})

	t.Run("3. Member cannot create tasks", func(t *testing.T) {
		resp := suite.do(t, http.MethodPost, "/tasks", aliceToken, request.CreateTaskRequest{
			Title: "Not allowed", Priority: "low", TeamID: backend.ID,
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("4. Admin creates and assigns task", func(t *testing.T) {
		resp := suite.do(t, http.MethodPost, "/tasks", suite.token, request.CreateTaskRequest{
			Title: "Write migrations", Priority: "high", TeamID: backend.ID,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		task = decode[response.TaskResponse](t, resp).Task

		assert.Equal(t, string(domain.StatusPending), task.Status)
		assert.Nil(t, task.AssignedTo)

		resp = suite.do(t, http.MethodPatch, "/tasks/"+task.ID+"/assign", suite.token, request.AssignTaskRequest{UserID: alice.ID})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		task = decode[response.TaskResponse](t, resp).Task

		require.NotNil(t, task.AssignedTo)
		assert.Equal(t, alice.ID, *task.AssignedTo)
	})

	t.Run("5. Assignee reads and moves the task", func(t *testing.T) {
		resp := suite.do(t, http.MethodGet, "/tasks/"+task.ID, aliceToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = suite.do(t, http.MethodPatch, "/tasks/"+task.ID, aliceToken, request.UpdateTaskRequest{Status: strPtr("in_progress")})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = suite.do(t, http.MethodPatch, "/tasks/"+task.ID, aliceToken, request.UpdateTaskRequest{Status: strPtr("completed")})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "completed", decode[response.TaskResponse](t, resp).Task.Status)
	})

	t.Run("6. Non-assignee member is denied", func(t *testing.T) {
		resp := suite.do(t, http.MethodGet, "/tasks/"+task.ID, bobToken, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)

		errResp := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, "user not authorized to access this task", errResp.Error.Message)

		resp = suite.do(t, http.MethodPatch, "/tasks/"+task.ID, bobToken, request.UpdateTaskRequest{Status: strPtr("pending")})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("7. History is newest first", func(t *testing.T) {
		resp := suite.do(t, http.MethodGet, "/tasks/"+task.ID+"/history", bobToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		history := decode[response.TaskHistoryResponse](t, resp)
		require.Equal(t, 2, history.Count)

		assert.Equal(t, "in_progress", history.History[0].PreviousStatus)
		assert.Equal(t, "completed", history.History[0].NewStatus)
		assert.Equal(t, "pending", history.History[1].PreviousStatus)
		assert.Equal(t, "in_progress", history.History[1].NewStatus)
		assert.Equal(t, alice.ID, history.History[0].User.ID)
		assert.Equal(t, "Alice", history.History[0].User.Name)
	})

	t.Run("8. Promoted manager gets access on the next request", func(t *testing.T) {
		resp := suite.do(t, http.MethodPatch, "/users/"+bob.ID+"/role", suite.token, request.SetRoleRequest{Role: "manager"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = suite.do(t, http.MethodGet, "/tasks/"+task.ID, bobToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp = suite.do(t, http.MethodPost, "/tasks", bobToken, request.CreateTaskRequest{
			Title: "Review schema", Priority: "medium", TeamID: backend.ID,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		managerTask = decode[response.TaskResponse](t, resp).Task
	})

	t.Run("9. Team change clears the assignee", func(t *testing.T) {
		frontend := suite.createTeam(t, "frontend")

		resp := suite.do(t, http.MethodPatch, "/tasks/"+managerTask.ID+"/assign", bobToken, request.AssignTaskRequest{UserID: bob.ID})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = suite.do(t, http.MethodPatch, "/tasks/"+managerTask.ID, suite.token, request.UpdateTaskRequest{TeamID: strPtr(frontend.ID)})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		moved := decode[response.TaskResponse](t, resp).Task
		assert.Equal(t, frontend.ID, moved.TeamID)
		assert.Nil(t, moved.AssignedTo)
	})

	t.Run("10. Filter tasks", func(t *testing.T) {
		resp := suite.do(t, http.MethodGet, "/tasks?team_id="+backend.ID+"&status=completed", aliceToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		tasks := decode[response.TasksResponse](t, resp)
		require.Equal(t, 1, tasks.Count)
		assert.Equal(t, task.ID, tasks.Tasks[0].ID)
	})
}

func TestE2E_AssignRequiresTeamMembership(t *testing.T) {
	suite := setupE2ETest(t, 100)

	team := suite.createTeam(t, "platform")
	outsider := suite.register(t, "Carol", "carol@example.com")

	resp := suite.do(t, http.MethodPost, "/tasks", suite.token, request.CreateTaskRequest{
		Title: "Rotate keys", Priority: "high", TeamID: team.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	task := decode[response.TaskResponse](t, resp).Task

	resp = suite.do(t, http.MethodPatch, "/tasks/"+task.ID+"/assign", suite.token, request.AssignTaskRequest{UserID: outsider.ID})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = suite.do(t, http.MethodPatch, "/tasks/"+uuid.NewString()+"/assign", suite.token, request.AssignTaskRequest{UserID: outsider.ID})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestE2E_DeletedUserTokenIsRejected(t *testing.T) {
	suite := setupE2ETest(t, 100)

	suite.register(t, "Dave", "dave@example.com")
	token := suite.login(t, "dave@example.com", "password")

	resp := suite.do(t, http.MethodDelete, "/users", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = suite.do(t, http.MethodGet, "/tasks", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestE2E_LoginRateLimited(t *testing.T) {
	suite := setupE2ETest(t, 2)

	// setup already used one attempt
	resp := suite.do(t, http.MethodPost, "/sessions", "", request.LoginRequest{Email: adminEmail, Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = suite.do(t, http.MethodPost, "/sessions", "", request.LoginRequest{Email: adminEmail, Password: adminPassword})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestE2E_ConcurrentStatusUpdates(t *testing.T) {
	suite := setupE2ETest(t, 100)

	team := suite.createTeam(t, "ops")
	resp := suite.do(t, http.MethodPost, "/tasks", suite.token, request.CreateTaskRequest{
		Title: "Patch servers", Priority: "medium", TeamID: team.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	task := decode[response.TaskResponse](t, resp).Task

	statuses := []string{"in_progress", "completed", "pending", "in_progress", "completed", "pending"}

	var wg sync.WaitGroup
	for i, status := range statuses {
		wg.Add(1)
		go func(i int, status string) {
			defer wg.Done()
			raw, _ := json.Marshal(request.UpdateTaskRequest{Status: strPtr(status)})
			req, _ := http.NewRequest(http.MethodPatch, suite.server.URL+"/tasks/"+task.ID, bytes.NewReader(raw))
			req.Header.Set("Authorization", "Bearer "+suite.token)
			req.Header.Set("Content-Type", "application/json")
			r, err := http.DefaultClient.Do(req)
			if assert.NoError(t, err, fmt.Sprintf("update %d", i)) {
				r.Body.Close()
			}
		}(i, status)
	}
	wg.Wait()

	resp = suite.do(t, http.MethodGet, "/tasks/"+task.ID, suite.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	final := decode[response.TaskResponse](t, resp).Task

	resp = suite.do(t, http.MethodGet, "/tasks/"+task.ID+"/history", suite.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[response.TaskHistoryResponse](t, resp).History

	// entries chain: each previous status is the new status of the entry before it
	if len(history) > 0 {
		assert.Equal(t, final.Status, history[0].NewStatus)
		assert.Equal(t, "pending", history[len(history)-1].PreviousStatus)
	}
	for i := 0; i+1 < len(history); i++ {
		assert.Equal(t, history[i+1].NewStatus, history[i].PreviousStatus)
	}
}
