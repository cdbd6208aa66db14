package dto

import (
	"net/http"

	"task-manager/internal/my_errors"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"
)

var kindStatus = map[my_errors.Kind]int{
	my_errors.KindNotFound:        http.StatusNotFound,
	my_errors.KindForbidden:       http.StatusForbidden,
	my_errors.KindUnauthenticated: http.StatusUnauthorized,
	my_errors.KindConflict:        http.StatusConflict,
	my_errors.KindInvalidState:    http.StatusUnprocessableEntity,
	my_errors.KindUnavailable:     http.StatusServiceUnavailable,
	my_errors.KindInternal:        http.StatusInternalServerError,
}

// FromError maps a business error to its HTTP status and body. Internal
// errors get a generic message.
func FromError(err error) (int, ErrorResponse) {
	kind := my_errors.KindOf(err)
	message := my_errors.Message(err)
	if kind == my_errors.KindInternal {
		message = "internal server error"
	}
	return kindStatus[kind], ErrorResponse{
		Error: ErrorDetail{Code: string(kind), Message: message},
	}
}
