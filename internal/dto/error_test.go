package dto

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"task-manager/internal/my_errors"

	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		code    string
		message string
	}{
		{my_errors.ErrTaskNotFound, http.StatusNotFound, "NOT_FOUND", "task not found"},
		{fmt.Errorf("failed to assign task: %w", my_errors.ErrNotTeamMember), http.StatusNotFound, "NOT_FOUND", "user is not a member of the team"},
		{my_errors.ErrNotTaskAssignee, http.StatusForbidden, "FORBIDDEN", "user not authorized to access this task"},
		{my_errors.ErrNotAuthenticated, http.StatusUnauthorized, "UNAUTHENTICATED", "user not authenticated"},
		{my_errors.ErrEmailInUse, http.StatusConflict, "CONFLICT", "email already in use"},
		{my_errors.ErrEmptyPatch, http.StatusUnprocessableEntity, "INVALID_STATE", "at least one field must be provided to update"},
		{my_errors.ErrStoreUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE", "store temporarily unavailable, retry later"},
		{errors.New("pq: connection reset"), http.StatusInternalServerError, "INTERNAL", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.code+"/"+tt.message, func(t *testing.T) {
			status, body := FromError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
		})
	}
}
