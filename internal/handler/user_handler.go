package handler

import (
	"context"
	"net/http"

	"task-manager/internal/domain"
	"task-manager/internal/mapper"
	"task-manager/internal/middleware"
	"task-manager/internal/request"
	"task-manager/internal/response"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	UpdateSelf(ctx context.Context, principal *domain.Principal, patch domain.UserPatch) (*domain.User, error)
	DeleteSelf(ctx context.Context, principal *domain.Principal) error
	SetRole(ctx context.Context, userID uuid.UUID, role domain.Role) (*domain.User, error)
}

type UserHandler struct {
	userService UserService
	validator   *validator.Validate
}

func NewUserHandler(userService UserService, validator *validator.Validate) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator,
	}
}

// Register godoc
// @Summary Register a user
// @Description Create an account with the member role
// @Tags Users
// @Accept json
// @Produce json
// @Param request body request.RegisterUserRequest true "Registration request"
// @Success 201 {object} response.UserResponse "User created"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 409 {object} dto.ErrorResponse "Email already in use"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterUserRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, response.UserResponse{User: mapper.MapDomainUserToDTO(user)})
}

// UpdateSelf godoc
// @Summary Update own profile
// @Description Change name, email or password of the authenticated user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.UpdateUserRequest true "Profile fields"
// @Success 200 {object} response.UserResponse "User updated"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Email already in use"
// @Failure 422 {object} dto.ErrorResponse "Empty update"
// @Router /users [patch]
func (h *UserHandler) UpdateSelf(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateUserRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.userService.UpdateSelf(r.Context(), middleware.PrincipalFromContext(r.Context()), mapper.MapUpdateUserRequestToDomain(&req))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, response.UserResponse{User: mapper.MapDomainUserToDTO(user)})
}

// DeleteSelf godoc
// @Summary Delete own account
// @Tags Users
// @Security BearerAuth
// @Success 204 "User deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /users [delete]
func (h *UserHandler) DeleteSelf(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.DeleteSelf(r.Context(), middleware.PrincipalFromContext(r.Context())); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetRole godoc
// @Summary Change a user's role (Admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body request.SetRoleRequest true "New role"
// @Success 200 {object} response.UserResponse "Role changed"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin access required"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id}/role [patch]
func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req request.SetRoleRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.userService.SetRole(r.Context(), userID, domain.Role(req.Role))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, response.UserResponse{User: mapper.MapDomainUserToDTO(user)})
}
