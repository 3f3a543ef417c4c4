package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
)

type MemberRepository struct {
	db *sql.DB
}

var _ ports.MemberRepository = (*MemberRepository)(nil)

func NewMemberRepository(db *sql.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) FindPending(ctx context.Context, id string) (*domain.PendingMember, error) {
	var p domain.PendingMember
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, gender, contact, address, income_class, disabled, sub_program, status, submitted_at
		FROM pending_members WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Gender, &p.Contact, &p.Address, &p.IncomeClass, &p.Disabled, &p.SubProgram, &p.Status, &p.SubmittedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MemberRepository) ListPending(ctx context.Context) ([]domain.PendingMember, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, gender, contact, address, income_class, disabled, sub_program, status, submitted_at
		FROM pending_members WHERE status = $1 ORDER BY submitted_at`, string(domain.PendingAwaiting))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []domain.PendingMember
	for rows.Next() {
		var p domain.PendingMember
		if err := rows.Scan(&p.ID, &p.Name, &p.Gender, &p.Contact, &p.Address, &p.IncomeClass, &p.Disabled, &p.SubProgram, &p.Status, &p.SubmittedAt); err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// PromotePending commits the member insert, the pending delete and the
// outbox event as one transaction, then notifies the relay. The delete
// requires the row to still be awaiting, so two racing approvals cannot
// both promote: the loser's delete affects zero rows and the whole
// transaction rolls back as an already-processed no-op.
func (r *MemberRepository) PromotePending(ctx context.Context, pendingID string, m domain.Member, eventType string, payload []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM pending_members WHERE id = $1 AND status = $2",
		pendingID, string(domain.PendingAwaiting),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO members (id, membership_id, name, gender, contact, address, income_class, disabled,
			sub_program, team, unit, function, status, approved_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		m.ID, m.MembershipID, m.Name, m.Gender, m.Contact, m.Address, m.IncomeClass, m.Disabled,
		m.SubProgram, m.Team, m.Unit, m.Function, m.Status, m.ApprovedAt, m.CreatedAt,
	)
	if err != nil {
		return err
	}

	eventID := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		"INSERT INTO outbox_events (id, event_type, payload, created_at) VALUES ($1, $2, $3, NOW())",
		eventID, eventType, payload,
	)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "SELECT pg_notify('outbox_channel', $1)", eventID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *MemberRepository) Create(ctx context.Context, m domain.Member) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO members (id, membership_id, name, gender, contact, address, income_class, disabled,
			sub_program, team, unit, function, status, approved_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		m.ID, m.MembershipID, m.Name, m.Gender, m.Contact, m.Address, m.IncomeClass, m.Disabled,
		m.SubProgram, m.Team, m.Unit, m.Function, m.Status, m.ApprovedAt, m.CreatedAt,
	)
	return err
}

func (r *MemberRepository) Update(ctx context.Context, m domain.Member) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE members SET name = $1, gender = $2, contact = $3, address = $4, income_class = $5,
			disabled = $6, sub_program = $7, team = $8, unit = $9, function = $10
		WHERE id = $11`,
		m.Name, m.Gender, m.Contact, m.Address, m.IncomeClass,
		m.Disabled, m.SubProgram, m.Team, m.Unit, m.Function, m.ID,
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

func (r *MemberRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM members WHERE id = $1", id)
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

func (r *MemberRepository) ListBySubProgram(ctx context.Context, subProgram string) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, membership_id, name, gender, contact, address, income_class, disabled,
			sub_program, team, unit, function, status, approved_at, created_at
		FROM members WHERE sub_program = $1 ORDER BY name`, subProgram)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.MembershipID, &m.Name, &m.Gender, &m.Contact, &m.Address, &m.IncomeClass, &m.Disabled,
			&m.SubProgram, &m.Team, &m.Unit, &m.Function, &m.Status, &m.ApprovedAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
