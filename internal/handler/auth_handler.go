package handler

import (
	"context"
	"net/http"

	"task-manager/internal/domain"
	"task-manager/internal/mapper"
	"task-manager/internal/request"
	"task-manager/internal/response"

	"github.com/go-playground/validator/v10"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
}

type AuthHandler struct {
	authService AuthService
	validator   *validator.Validate
}

func NewAuthHandler(authService AuthService, validator *validator.Validate) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
	}
}

// Login godoc
// @Summary Open a session
// @Description Exchange email and password for a JWT bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login request"
// @Success 201 {object} response.SessionResponse "Session created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Email or password incorrect"
// @Failure 429 {object} dto.ErrorResponse "Too many login attempts"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	resp := response.SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      mapper.MapDomainUserToDTO(&session.User),
	}

	respondJSON(w, http.StatusCreated, resp)
}
