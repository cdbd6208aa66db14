package repository

import (
	"context"
	"errors"

	"task-manager/internal/domain"
	"task-manager/internal/my_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MembershipRepository struct {
	pool *pgxpool.Pool
}

func NewMembershipRepository(pool *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{pool: pool}
}

func (r *MembershipRepository) AddMember(ctx context.Context, membership *domain.TeamMembership) error {
	query := `
        INSERT INTO team_members (id, user_id, team_id, created_at)
        VALUES ($1, $2, $3, $4)
    `
	_, err := r.pool.Exec(ctx, query, membership.ID, membership.UserID, membership.TeamID, membership.CreatedAt)
	return mapError(err, "failed to add team member", nil)
}

func (r *MembershipRepository) GetMembershipByUser(ctx context.Context, userID uuid.UUID) (*domain.TeamMembership, error) {
	return getMembershipByUser(ctx, r.pool, userID, "")
}

func (r *MembershipRepository) ListMembers(ctx context.Context, teamID uuid.UUID) ([]domain.TeamMember, error) {
	query := `
        SELECT u.id, u.name, u.email, u.role
        FROM team_members tm
        INNER JOIN users u ON u.id = tm.user_id
        WHERE tm.team_id = $1
        ORDER BY CASE u.role WHEN 'admin' THEN 0 WHEN 'manager' THEN 1 ELSE 2 END, u.name
    `
	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, mapError(err, "failed to get team members", nil)
	}
	defer rows.Close()

	members := []domain.TeamMember{}
	for rows.Next() {
		var member domain.TeamMember
		if err := rows.Scan(&member.UserID, &member.Name, &member.Email, &member.Role); err != nil {
			return nil, mapError(err, "failed to scan member", nil)
		}
		members = append(members, member)
	}
	return members, mapError(rows.Err(), "failed to iterate members", nil)
}

func (r *MembershipRepository) RemoveMember(ctx context.Context, userID, teamID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM team_members WHERE user_id = $1 AND team_id = $2`, userID, teamID)
	if err != nil {
		return mapError(err, "failed to remove team member", nil)
	}
	if result.RowsAffected() == 0 {
		return my_errors.ErrMemberNotFound
	}
	return nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// getMembershipByUser returns (nil, nil) for a user without a team. lock is
// appended verbatim, e.g. "FOR SHARE" inside a transaction.
func getMembershipByUser(ctx context.Context, q querier, userID uuid.UUID, lock string) (*domain.TeamMembership, error) {
	query := `
        SELECT id, user_id, team_id, created_at
        FROM team_members
        WHERE user_id = $1
    ` + lock
	var membership domain.TeamMembership
	err := q.QueryRow(ctx, query, userID).Scan(
		&membership.ID,
		&membership.UserID,
		&membership.TeamID,
		&membership.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err, "failed to get membership", nil)
	}
	return &membership, nil
}
