package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"genomics-annotation-service/internal/domain"
	"genomics-annotation-service/internal/domain/model"
	"genomics-annotation-service/internal/domain/ports/repository"
)

var _ repository.ProfileRepository = (*PostgresProfileRepo)(nil)

// PostgresProfileRepo reads account profiles from the accounts database.
type PostgresProfileRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresProfileRepo(pool *pgxpool.Pool) *PostgresProfileRepo {
	return &PostgresProfileRepo{pool: pool}
}

func (r *PostgresProfileRepo) Find(ctx context.Context, userID string) (*model.UserProfile, error) {
	const q = `
SELECT id, name, email, institution, role
  FROM profiles WHERE id=$1;
`
	var p model.UserProfile
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&p.ID, &p.Name, &p.Email, &p.Institution, &p.Role); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostgresProfileRepo) SetRole(ctx context.Context, userID string, role model.Role) error {
	const q = `UPDATE profiles SET role=$2 WHERE id=$1;`
	tag, err := r.pool.Exec(ctx, q, userID, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
