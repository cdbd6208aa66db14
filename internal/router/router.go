package router

import (
	"net/http"
	"time"

	middleware2 "task-manager/pkg/middleware"
	"task-manager/pkg/ratelimit"

	"task-manager/internal/domain"
	"task-manager/internal/handler"
	"task-manager/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

var (
	adminOnly      = []domain.Role{domain.RoleAdmin}
	adminOrManager = []domain.Role{domain.RoleAdmin, domain.RoleManager}
	anyRole        = []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleMember}
)

func SetupRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	teamHandler *handler.TeamHandler,
	membershipHandler *handler.MembershipHandler,
	taskHandler *handler.TaskHandler,
	healthHandler *handler.HealthHandler,
	authenticator middleware.Authenticator,
	authorizer middleware.Authorizer,
	loginLimiter ratelimit.Limiter,
) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware2.LoggingMiddleware)
	r.Use(chimiddleware.Timeout(5 * time.Second))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Public endpoints
	r.Head("/health", healthHandler.Health)
	r.Get("/health", healthHandler.Health)
	r.Post("/users", userHandler.Register)
	r.With(ratelimit.Middleware(loginLimiter, "login")).Post("/sessions", authHandler.Login)

	// Protected endpoints (require JWT authentication)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(authenticator))

		r.Patch("/users", userHandler.UpdateSelf)
		r.Delete("/users", userHandler.DeleteSelf)
		r.Get("/team-members", membershipHandler.ListMembers)
		r.Get("/tasks/{id}/history", taskHandler.TaskHistory)

		r.With(middleware.RequireRoles(authorizer, adminOrManager...)).Post("/tasks", taskHandler.CreateTask)
		r.With(middleware.RequireRoles(authorizer, anyRole...)).Get("/tasks", taskHandler.ListTasks)

		// Task endpoints open to the assignee as well as the listed roles
		r.With(middleware.RequireRoleOrAssignment(authorizer, "id", adminOrManager...)).Get("/tasks/{id}", taskHandler.GetTask)
		r.With(middleware.RequireRoleOrAssignment(authorizer, "id", adminOnly...)).Patch("/tasks/{id}", taskHandler.UpdateTask)
		r.With(middleware.RequireRoleOrAssignment(authorizer, "id", adminOrManager...)).Patch("/tasks/{id}/assign", taskHandler.AssignTask)
		r.With(middleware.RequireRoleOrAssignment(authorizer, "id", adminOnly...)).Delete("/tasks/{id}", taskHandler.DeleteTask)
	})

	// Admin-only endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(authenticator))
		r.Use(middleware.RequireRoles(authorizer, adminOnly...))

		r.Patch("/users/{id}/role", userHandler.SetRole)

		r.Post("/teams", teamHandler.CreateTeam)
		r.Get("/teams", teamHandler.ListAllTeams)
		r.Patch("/teams/{id}", teamHandler.UpdateTeam)
		r.Delete("/teams/{id}", teamHandler.DeleteTeam)

		r.Post("/team-members", membershipHandler.AddMember)
		r.Delete("/team-members", membershipHandler.RemoveMember)
	})

	return r
}
