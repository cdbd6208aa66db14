package handler

import (
	"context"
	"net/http"

	"task-manager/internal/domain"
	"task-manager/internal/mapper"
	"task-manager/internal/request"
	"task-manager/internal/response"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type TeamService interface {
	CreateTeam(ctx context.Context, name string, description *string) (*domain.Team, error)
	GetAllTeams(ctx context.Context) ([]domain.Team, error)
	UpdateTeam(ctx context.Context, teamID uuid.UUID, patch domain.TeamPatch) (*domain.Team, error)
	DeleteTeam(ctx context.Context, teamID uuid.UUID) error
}

type TeamHandler struct {
	service   TeamService
	validator *validator.Validate
}

func NewTeamHandler(service TeamService, validator *validator.Validate) *TeamHandler {
	return &TeamHandler{
		service:   service,
		validator: validator,
	}
}

// CreateTeam godoc
// @Summary Create a new team (Admin only)
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.CreateTeamRequest true "Team creation request"
// @Success 201 {object} response.TeamResponse "Team created successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin access required"
// @Failure 409 {object} dto.ErrorResponse "Team already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams [post]
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTeamRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	team, err := h.service.CreateTeam(r.Context(), req.Name, req.Description)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, response.TeamResponse{Team: mapper.MapDomainTeamToDTO(team)})
}

// ListAllTeams godoc
// @Summary List all teams (Admin only)
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.AllTeamsResponse "Teams retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin access required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams [get]
func (h *TeamHandler) ListAllTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.service.GetAllTeams(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	teamDTOs := mapper.MapDomainTeamsToDTO(teams)
	respondJSON(w, http.StatusOK, response.AllTeamsResponse{
		Teams: teamDTOs,
		Count: len(teamDTOs),
	})
}

// UpdateTeam godoc
// @Summary Edit a team (Admin only)
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param request body request.UpdateTeamRequest true "Team fields"
// @Success 200 {object} response.TeamResponse "Team updated"
// @Failure 404 {object} dto.ErrorResponse "Team not found"
// @Failure 409 {object} dto.ErrorResponse "Team already exists"
// @Failure 422 {object} dto.ErrorResponse "Empty update"
// @Router /teams/{id} [patch]
func (h *TeamHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	teamID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateTeamRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	team, err := h.service.UpdateTeam(r.Context(), teamID, mapper.MapUpdateTeamRequestToDomain(&req))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, response.TeamResponse{Team: mapper.MapDomainTeamToDTO(team)})
}

// DeleteTeam godoc
// @Summary Delete a team with its memberships and tasks (Admin only)
// @Tags Teams
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Success 204 "Team deleted"
// @Failure 404 {object} dto.ErrorResponse "Team not found"
// @Router /teams/{id} [delete]
func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	teamID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTeam(r.Context(), teamID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
