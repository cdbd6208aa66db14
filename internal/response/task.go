package response

import "task-manager/internal/dto"

type TaskResponse struct {
	Task dto.TaskDTO `json:"task"`
}

type TasksResponse struct {
	Tasks []dto.TaskDTO `json:"tasks"`
	Count int           `json:"count"`
}

type TaskHistoryResponse struct {
	TaskID  string               `json:"task_id"`
	History []dto.TaskHistoryDTO `json:"history"`
	Count   int                  `json:"count"`
}
