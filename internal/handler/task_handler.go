package handler

import (
	"context"
	"net/http"

	"task-manager/internal/domain"
	"task-manager/internal/dto"
	"task-manager/internal/mapper"
	"task-manager/internal/middleware"
	"task-manager/internal/request"
	"task-manager/internal/response"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type TaskService interface {
	CreateTask(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error)
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	GetTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error)
	AssignTask(ctx context.Context, taskID, userID uuid.UUID) (*domain.Task, error)
	UpdateTask(ctx context.Context, principal *domain.Principal, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)
	TaskHistory(ctx context.Context, taskID uuid.UUID) ([]domain.TaskHistoryRecord, error)
	DeleteTask(ctx context.Context, taskID uuid.UUID) error
}

type TaskHandler struct {
	service   TaskService
	validator *validator.Validate
}

func NewTaskHandler(service TaskService, validator *validator.Validate) *TaskHandler {
	return &TaskHandler{
		service:   service,
		validator: validator,
	}
}

// CreateTask godoc
// @Summary Create a task (Admin, Manager)
// @Description Status defaults to pending
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.CreateTaskRequest true "Task creation request"
// @Success 201 {object} response.TaskResponse "Task created"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Team not found"
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTaskRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	input, err := mapper.MapCreateTaskRequestToDomain(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	task, err := h.service.CreateTask(r.Context(), input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, response.TaskResponse{Task: mapper.MapDomainTaskToDTO(task)})
}

// ListTasks godoc
// @Summary List tasks
// @Description All filters are optional and combined with AND
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending | in_progress | completed"
// @Param priority query string false "low | medium | high"
// @Param team_id query string false "Team ID"
// @Param assigned_to query string false "User ID"
// @Success 200 {object} response.TasksResponse "Tasks"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := request.ListTasksQuery{
		Status:     query.Get("status"),
		Priority:   query.Get("priority"),
		TeamID:     query.Get("team_id"),
		AssignedTo: query.Get("assigned_to"),
	}
	if err := h.validator.Struct(&q); err != nil {
		respondError(w, http.StatusBadRequest, dto.ErrCodeValidation, "validation error: "+err.Error())
		return
	}

	filter, err := mapper.MapListTasksQueryToDomain(&q)
	if err != nil {
		respondError(w, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	tasks, err := h.service.ListTasks(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	taskDTOs := mapper.MapDomainTasksToDTO(tasks)
	respondJSON(w, http.StatusOK, response.TasksResponse{Tasks: taskDTOs, Count: len(taskDTOs)})
}

// GetTask godoc
// @Summary Get a task (Admin, Manager or assignee)
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} response.TaskResponse "Task"
// @Failure 403 {object} dto.ErrorResponse "Not authorized to access this task"
// @Failure 404 {object} dto.ErrorResponse "Task not found"
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	task, err := h.service.GetTask(r.Context(), taskID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, response.TaskResponse{Task: mapper.MapDomainTaskToDTO(task)})
}

// UpdateTask godoc
// @Summary Update a task (Admin or assignee)
// @Description A status change is recorded in the task history. Moving the task to another team clears its assignee.
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body request.UpdateTaskRequest true "Task fields"
// @Success 200 {object} response.TaskResponse "Task updated"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Not authorized to access this task"
// @Failure 404 {object} dto.ErrorResponse "Task, team or user not found"
// @Failure 422 {object} dto.ErrorResponse "Empty update"
// @Failure 503 {object} dto.ErrorResponse "Store temporarily unavailable"
// @Router /tasks/{id} [patch]
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateTaskRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	patch, err := mapper.MapUpdateTaskRequestToDomain(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	task, err := h.service.UpdateTask(r.Context(), middleware.PrincipalFromContext(r.Context()), taskID, patch)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, response.TaskResponse{Task: mapper.MapDomainTaskToDTO(task)})
}

// AssignTask godoc
// @Summary Assign a task (Admin, Manager or assignee)
// @Description The assignee must be a member of the task's team
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body request.AssignTaskRequest true "Assignee"
// @Success 200 {object} response.TaskResponse "Task assigned"
// @Failure 404 {object} dto.ErrorResponse "Task or user not found, or user is not a member of the team"
// @Router /tasks/{id}/assign [patch]
func (h *TaskHandler) AssignTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req request.AssignTaskRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	task, err := h.service.AssignTask(r.Context(), taskID, uuid.MustParse(req.UserID))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, response.TaskResponse{Task: mapper.MapDomainTaskToDTO(task)})
}

// TaskHistory godoc
// @Summary Status history of a task
// @Description Newest first, each entry with the user who made the change
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} response.TaskHistoryResponse "History"
// @Failure 404 {object} dto.ErrorResponse "Task not found"
// @Router /tasks/{id}/history [get]
func (h *TaskHandler) TaskHistory(w http.ResponseWriter, r *http.Request) {
	taskID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	history, err := h.service.TaskHistory(r.Context(), taskID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	entries := mapper.MapDomainHistoryToDTO(history)
	respondJSON(w, http.StatusOK, response.TaskHistoryResponse{
		TaskID:  taskID.String(),
		History: entries,
		Count:   len(entries),
	})
}

// DeleteTask godoc
// @Summary Delete a task (Admin or assignee)
// @Tags Tasks
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 204 "Task deleted"
// @Failure 404 {object} dto.ErrorResponse "Task not found"
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTask(r.Context(), taskID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
