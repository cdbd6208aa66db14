package handler

import (
	"context"
	"net/http"

	"task-manager/internal/domain"
	"task-manager/internal/dto"
	"task-manager/internal/mapper"
	"task-manager/internal/request"
	"task-manager/internal/response"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type MembershipService interface {
	AddMember(ctx context.Context, userID, teamID uuid.UUID) (*domain.TeamMembership, error)
	ListMembers(ctx context.Context, teamID uuid.UUID) ([]domain.TeamMember, error)
	RemoveMember(ctx context.Context, userID, teamID uuid.UUID) error
}

type MembershipHandler struct {
	service   MembershipService
	validator *validator.Validate
}

func NewMembershipHandler(service MembershipService, validator *validator.Validate) *MembershipHandler {
	return &MembershipHandler{
		service:   service,
		validator: validator,
	}
}

// AddMember godoc
// @Summary Add a user to a team (Admin only)
// @Description A user belongs to at most one team
// @Tags Team members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.TeamMemberRequest true "Membership"
// @Success 201 {object} response.MembershipResponse "Member added"
// @Failure 404 {object} dto.ErrorResponse "User or team not found"
// @Failure 409 {object} dto.ErrorResponse "User is already a member of a team"
// @Router /team-members [post]
func (h *MembershipHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req request.TeamMemberRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	membership, err := h.service.AddMember(r.Context(), uuid.MustParse(req.UserID), uuid.MustParse(req.TeamID))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, response.MembershipResponse{Membership: mapper.MapDomainMembershipToDTO(membership)})
}

// ListMembers godoc
// @Summary List the members of a team
// @Tags Team members
// @Produce json
// @Security BearerAuth
// @Param team_id query string true "Team ID"
// @Success 200 {object} response.TeamMembersResponse "Members"
// @Failure 400 {object} dto.ErrorResponse "Invalid team_id"
// @Failure 404 {object} dto.ErrorResponse "Team not found"
// @Router /team-members [get]
func (h *MembershipHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	teamID, err := uuid.Parse(r.URL.Query().Get("team_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, dto.ErrCodeValidation, "team_id query parameter must be a valid id")
		return
	}

	members, err := h.service.ListMembers(r.Context(), teamID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	memberDTOs := mapper.MapDomainMembersToDTO(members)
	respondJSON(w, http.StatusOK, response.TeamMembersResponse{
		TeamID:  teamID.String(),
		Members: memberDTOs,
		Count:   len(memberDTOs),
	})
}

// RemoveMember godoc
// @Summary Remove a user from a team (Admin only)
// @Tags Team members
// @Accept json
// @Security BearerAuth
// @Param request body request.TeamMemberRequest true "Membership"
// @Success 204 "Member removed"
// @Failure 404 {object} dto.ErrorResponse "Member not found in this team"
// @Router /team-members [delete]
func (h *MembershipHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	var req request.TeamMemberRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	if err := h.service.RemoveMember(r.Context(), uuid.MustParse(req.UserID), uuid.MustParse(req.TeamID)); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
