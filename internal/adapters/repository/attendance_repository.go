package repository

import (
	"context"
	"database/sql"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
)

type AttendanceRepository struct {
	db *sql.DB
}

var _ ports.AttendanceRepository = (*AttendanceRepository)(nil)

func NewAttendanceRepository(db *sql.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Upsert writes one attendance fact keyed by the composite id; a repeat
// save for the same key overwrites the attended flag instead of inserting.
func (r *AttendanceRepository) Upsert(ctx context.Context, rec domain.AttendanceRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_records (id, member_id, member_name, date, sub_program, function, unit, gender, paid_type, attended)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			member_name = EXCLUDED.member_name,
			function = EXCLUDED.function,
			unit = EXCLUDED.unit,
			gender = EXCLUDED.gender,
			paid_type = EXCLUDED.paid_type,
			attended = EXCLUDED.attended`,
		rec.ID, rec.MemberID, rec.MemberName, rec.Date, rec.SubProgram, rec.Function, rec.Unit, rec.Gender, rec.PaidType, rec.Attended,
	)
	return err
}

func (r *AttendanceRepository) FetchByDate(ctx context.Context, date, subProgram string) ([]domain.AttendanceRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, member_id, member_name, date, sub_program, function, unit, gender, paid_type, attended
		FROM attendance_records WHERE date = $1 AND sub_program = $2`,
		date, subProgram,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.AttendanceRecord
	for rows.Next() {
		var rec domain.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.MemberID, &rec.MemberName, &rec.Date, &rec.SubProgram,
			&rec.Function, &rec.Unit, &rec.Gender, &rec.PaidType, &rec.Attended); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *AttendanceRepository) Stats(ctx context.Context, from, to, subProgram string) (domain.AttendanceStats, error) {
	var stats domain.AttendanceStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE attended)
		FROM attendance_records
		WHERE date >= $1 AND date <= $2 AND sub_program = $3`,
		from, to, subProgram,
	).Scan(&stats.Total, &stats.Present)
	return stats, err
}
