package mapper

import (
	"fmt"

	"task-manager/internal/domain"
	"task-manager/internal/dto"
	"task-manager/internal/request"

	"github.com/google/uuid"
)

// User mappers
func MapDomainUserToDTO(user *domain.User) dto.UserDTO {
	return dto.UserDTO{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func MapUpdateUserRequestToDomain(req *request.UpdateUserRequest) domain.UserPatch {
	return domain.UserPatch{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
}

// Team mappers
func MapDomainTeamToDTO(team *domain.Team) dto.TeamDTO {
	return dto.TeamDTO{
		ID:          team.ID.String(),
		Name:        team.Name,
		Description: team.Description,
		CreatedAt:   team.CreatedAt,
		UpdatedAt:   team.UpdatedAt,
	}
}

func MapDomainTeamsToDTO(teams []domain.Team) []dto.TeamDTO {
	result := make([]dto.TeamDTO, len(teams))
	for i := range teams {
		result[i] = MapDomainTeamToDTO(&teams[i])
	}
	return result
}

func MapUpdateTeamRequestToDomain(req *request.UpdateTeamRequest) domain.TeamPatch {
	return domain.TeamPatch{
		Name:        req.Name,
		Description: req.Description,
	}
}

func MapDomainMembershipToDTO(m *domain.TeamMembership) dto.MembershipDTO {
	return dto.MembershipDTO{
		ID:        m.ID.String(),
		UserID:    m.UserID.String(),
		TeamID:    m.TeamID.String(),
		CreatedAt: m.CreatedAt,
	}
}

func MapDomainMembersToDTO(members []domain.TeamMember) []dto.TeamMemberDTO {
	result := make([]dto.TeamMemberDTO, len(members))
	for i, m := range members {
		result[i] = dto.TeamMemberDTO{
			UserID: m.UserID.String(),
			Name:   m.Name,
			Email:  m.Email,
			Role:   string(m.Role),
		}
	}
	return result
}

// Task mappers
func MapDomainTaskToDTO(task *domain.Task) dto.TaskDTO {
	var assignedTo *string
	if task.AssignedTo != nil {
		s := task.AssignedTo.String()
		assignedTo = &s
	}
	return dto.TaskDTO{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		TeamID:      task.TeamID.String(),
		AssignedTo:  assignedTo,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func MapDomainTasksToDTO(tasks []domain.Task) []dto.TaskDTO {
	result := make([]dto.TaskDTO, len(tasks))
	for i := range tasks {
		result[i] = MapDomainTaskToDTO(&tasks[i])
	}
	return result
}

func MapDomainHistoryToDTO(records []domain.TaskHistoryRecord) []dto.TaskHistoryDTO {
	result := make([]dto.TaskHistoryDTO, len(records))
	for i, r := range records {
		result[i] = dto.TaskHistoryDTO{
			ID:             r.ID.String(),
			TaskID:         r.TaskID.String(),
			PreviousStatus: string(r.PreviousStatus),
			NewStatus:      string(r.NewStatus),
			ChangedAt:      r.ChangedAt,
		}
		if r.Actor != nil {
			result[i].User = &dto.ActorDTO{
				ID:    r.Actor.ID.String(),
				Name:  r.Actor.Name,
				Email: r.Actor.Email,
			}
		}
	}
	return result
}

// Requests are validated before mapping, so parse failures here mean a
// validator tag is missing.
func MapCreateTaskRequestToDomain(req *request.CreateTaskRequest) (domain.CreateTaskInput, error) {
	teamID, err := uuid.Parse(req.TeamID)
	if err != nil {
		return domain.CreateTaskInput{}, fmt.Errorf("invalid team_id: %w", err)
	}
	return domain.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		TeamID:      teamID,
	}, nil
}

func MapUpdateTaskRequestToDomain(req *request.UpdateTaskRequest) (domain.TaskPatch, error) {
	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		patch.Priority = &priority
	}
	if req.TeamID != nil {
		teamID, err := uuid.Parse(*req.TeamID)
		if err != nil {
			return domain.TaskPatch{}, fmt.Errorf("invalid team_id: %w", err)
		}
		patch.TeamID = &teamID
	}
	if req.AssignedTo != nil {
		userID, err := uuid.Parse(*req.AssignedTo)
		if err != nil {
			return domain.TaskPatch{}, fmt.Errorf("invalid assigned_to: %w", err)
		}
		patch.AssignedTo = &userID
	}
	return patch, nil
}

func MapListTasksQueryToDomain(q *request.ListTasksQuery) (domain.TaskFilter, error) {
	var filter domain.TaskFilter
	if q.Status != "" {
		status := domain.TaskStatus(q.Status)
		filter.Status = &status
	}
	if q.Priority != "" {
		priority := domain.TaskPriority(q.Priority)
		filter.Priority = &priority
	}
	if q.TeamID != "" {
		teamID, err := uuid.Parse(q.TeamID)
		if err != nil {
			return domain.TaskFilter{}, fmt.Errorf("invalid team_id: %w", err)
		}
		filter.TeamID = &teamID
	}
	if q.AssignedTo != "" {
		userID, err := uuid.Parse(q.AssignedTo)
		if err != nil {
			return domain.TaskFilter{}, fmt.Errorf("invalid assigned_to: %w", err)
		}
		filter.AssignedTo = &userID
	}
	return filter, nil
}
