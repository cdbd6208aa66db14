package service

import (
	"context"
	"testing"

	"task-manager/internal/domain"
	"task-manager/internal/my_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamService_CRUD(t *testing.T) {
	s := newMemoryStore()
	svc := NewTeamService(s)
	ctx := context.Background()

	desc := "platform work"
	team, err := svc.CreateTeam(ctx, "Platform", &desc)
	require.NoError(t, err)
	assert.Equal(t, "Platform", team.Name)

	_, err = svc.CreateTeam(ctx, "Platform", nil)
	assert.ErrorIs(t, err, my_errors.ErrTeamAlreadyExists)

	name := "Infra"
	updated, err := svc.UpdateTeam(ctx, team.ID, domain.TeamPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Infra", updated.Name)
	assert.Equal(t, desc, *updated.Description)

	_, err = svc.UpdateTeam(ctx, team.ID, domain.TeamPatch{})
	assert.ErrorIs(t, err, my_errors.ErrEmptyPatch)

	_, err = svc.UpdateTeam(ctx, uuid.New(), domain.TeamPatch{Name: &name})
	assert.ErrorIs(t, err, my_errors.ErrTeamNotFound)

	teams, err := svc.GetAllTeams(ctx)
	require.NoError(t, err)
	assert.Len(t, teams, 1)

	require.NoError(t, svc.DeleteTeam(ctx, team.ID))
	assert.ErrorIs(t, svc.DeleteTeam(ctx, team.ID), my_errors.ErrTeamNotFound)
}
