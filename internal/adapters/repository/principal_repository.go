package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
)

type PrincipalRepository struct {
	db *sql.DB
}

var _ ports.PrincipalRepository = (*PrincipalRepository)(nil)

func NewPrincipalRepository(db *sql.DB) *PrincipalRepository {
	return &PrincipalRepository{db: db}
}

func (r *PrincipalRepository) FindByID(ctx context.Context, id string) (*domain.Principal, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT id, email, role, access_code, created_at FROM users WHERE id = $1",
		id,
	))
}

func (r *PrincipalRepository) FindByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT id, email, role, access_code, created_at FROM users WHERE email = $1",
		email,
	))
}

func (r *PrincipalRepository) scanOne(row *sql.Row) (*domain.Principal, error) {
	var p domain.Principal
	var rawRole string
	err := row.Scan(&p.ID, &p.Email, &rawRole, &p.AccessCode, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// Reject unknown role strings at the storage boundary.
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return nil, err
	}
	p.Role = role
	return &p, nil
}

func (r *PrincipalRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET role = $1 WHERE id = $2",
		string(role), id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PrincipalRepository) TeacherSubPrograms(ctx context.Context, email string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT sub_program FROM teacher_sub_programs WHERE teacher_email = $1",
		email,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
