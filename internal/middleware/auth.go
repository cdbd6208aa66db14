package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"task-manager/internal/authz"
	"task-manager/internal/domain"
	"task-manager/internal/dto"
	"task-manager/internal/my_errors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
}

type Authorizer interface {
	Authorize(ctx context.Context, principal *domain.Principal, required []domain.Role, taskID *uuid.UUID) authz.Decision
}

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal stores principal in ctx.
func WithPrincipal(ctx context.Context, principal *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// PrincipalFromContext returns nil for unauthenticated requests.
func PrincipalFromContext(ctx context.Context) *domain.Principal {
	principal, _ := ctx.Value(principalKey).(*domain.Principal)
	return principal
}

// AuthMiddleware resolves the bearer token into a principal.
func AuthMiddleware(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, my_errors.New(my_errors.ErrUnauthenticated, "missing authorization header"))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respondError(w, my_errors.New(my_errors.ErrUnauthenticated, "invalid authorization header format"))
				return
			}

			principal, err := authenticator.Authenticate(r.Context(), parts[1])
			if err != nil {
				respondError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRoles admits principals holding one of roles.
func RequireRoles(authorizer Authorizer, roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := authorizer.Authorize(r.Context(), PrincipalFromContext(r.Context()), roles, nil)
			if !decision.Allowed {
				respondError(w, decision.Err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoleOrAssignment admits principals holding one of roles, or the
// assignee of the task named by the param URL parameter.
func RequireRoleOrAssignment(authorizer Authorizer, param string, roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			taskID, err := uuid.Parse(chi.URLParam(r, param))
			if err != nil {
				writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
					Error: dto.ErrorDetail{Code: dto.ErrCodeValidation, Message: "invalid task id"},
				})
				return
			}

			decision := authorizer.Authorize(r.Context(), PrincipalFromContext(r.Context()), roles, &taskID)
			if !decision.Allowed {
				slog.DebugContext(r.Context(), "access denied",
					"task_id", taskID, "source", decision.Source, "error", decision.Err)
				respondError(w, decision.Err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func respondError(w http.ResponseWriter, err error) {
	status, body := dto.FromError(err)
	if status == http.StatusInternalServerError {
		slog.Error("authorization failed", "error", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body dto.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("failed to encode JSON response", "error", err)
	}
}
