package repository

import (
	"context"

	"task-manager/internal/domain"
	"task-manager/internal/my_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TeamRepository struct {
	pool *pgxpool.Pool
}

func NewTeamRepository(pool *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{pool: pool}
}

func (r *TeamRepository) CreateTeam(ctx context.Context, team *domain.Team) error {
	query := `
        INSERT INTO teams (id, name, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := r.pool.Exec(ctx, query, team.ID, team.Name, team.Description, team.CreatedAt, team.UpdatedAt)
	return mapError(err, "failed to create team", nil)
}

func (r *TeamRepository) TeamExists(ctx context.Context, teamID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM teams WHERE id = $1)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, teamID).Scan(&exists)
	if err != nil {
		return false, mapError(err, "failed to check team existence", nil)
	}
	return exists, nil
}

func (r *TeamRepository) GetTeamByID(ctx context.Context, teamID uuid.UUID) (*domain.Team, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM teams WHERE id = $1`
	var team domain.Team
	err := r.pool.QueryRow(ctx, query, teamID).Scan(
		&team.ID,
		&team.Name,
		&team.Description,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err, "failed to get team", my_errors.ErrTeamNotFound)
	}
	return &team, nil
}

func (r *TeamRepository) ListTeams(ctx context.Context) ([]domain.Team, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM teams ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapError(err, "failed to get all teams", nil)
	}
	defer rows.Close()

	teams := []domain.Team{}
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.Description, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return nil, mapError(err, "failed to scan team", nil)
		}
		teams = append(teams, team)
	}
	return teams, mapError(rows.Err(), "failed to iterate teams", nil)
}

func (r *TeamRepository) UpdateTeam(ctx context.Context, team *domain.Team) error {
	query := `
        UPDATE teams
        SET name = $1, description = $2, updated_at = $3
        WHERE id = $4
    `
	result, err := r.pool.Exec(ctx, query, team.Name, team.Description, team.UpdatedAt, team.ID)
	if err != nil {
		return mapError(err, "failed to update team", nil)
	}
	if result.RowsAffected() == 0 {
		return my_errors.ErrTeamNotFound
	}
	return nil
}

// DeleteTeam cascades to the team's memberships and tasks.
func (r *TeamRepository) DeleteTeam(ctx context.Context, teamID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, teamID)
	if err != nil {
		return mapError(err, "failed to delete team", nil)
	}
	if result.RowsAffected() == 0 {
		return my_errors.ErrTeamNotFound
	}
	return nil
}
