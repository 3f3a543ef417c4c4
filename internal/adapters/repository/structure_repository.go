package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
)

type StructureRepository struct {
	db *sql.DB
}

var _ ports.StructureRepository = (*StructureRepository)(nil)

func NewStructureRepository(db *sql.DB) *StructureRepository {
	return &StructureRepository{db: db}
}

func (r *StructureRepository) LookupSubProgram(ctx context.Context, name string) (*domain.ProgramStructure, error) {
	var s domain.ProgramStructure
	err := r.db.QueryRowContext(ctx,
		"SELECT sub_program, unit, function FROM program_structure WHERE sub_program = $1",
		name,
	).Scan(&s.SubProgram, &s.Unit, &s.Function)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StructureRepository) ListStructure(ctx context.Context) ([]domain.ProgramStructure, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT sub_program, unit, function FROM program_structure ORDER BY function, unit, sub_program")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var structures []domain.ProgramStructure
	for rows.Next() {
		var s domain.ProgramStructure
		if err := rows.Scan(&s.SubProgram, &s.Unit, &s.Function); err != nil {
			return nil, err
		}
		structures = append(structures, s)
	}
	return structures, rows.Err()
}

func (r *StructureRepository) CreateStructure(ctx context.Context, s domain.ProgramStructure) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO program_structure (sub_program, unit, function) VALUES ($1, $2, $3)",
		s.SubProgram, s.Unit, s.Function,
	)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
		// A sub-program maps to exactly one (function, unit) pair.
		return errors.New("sub-program already mapped")
	}
	return err
}

func (r *StructureRepository) UpdateStructure(ctx context.Context, s domain.ProgramStructure) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE program_structure SET unit = $1, function = $2 WHERE sub_program = $3",
		s.Unit, s.Function, s.SubProgram,
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

func (r *StructureRepository) DeleteStructure(ctx context.Context, subProgram string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM program_structure WHERE sub_program = $1", subProgram)
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

func (r *StructureRepository) ListTeamMap(ctx context.Context) ([]domain.TeamSubProgramMap, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT sub_program, team, function, unit FROM team_sub_program_map ORDER BY team, sub_program")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var maps []domain.TeamSubProgramMap
	for rows.Next() {
		var m domain.TeamSubProgramMap
		if err := rows.Scan(&m.SubProgram, &m.Team, &m.Function, &m.Unit); err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}
	return maps, rows.Err()
}

func (r *StructureRepository) UpsertTeamMap(ctx context.Context, m domain.TeamSubProgramMap) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO team_sub_program_map (sub_program, team, function, unit)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sub_program) DO UPDATE SET
			team = EXCLUDED.team,
			function = EXCLUDED.function,
			unit = EXCLUDED.unit`,
		m.SubProgram, m.Team, m.Function, m.Unit,
	)
	return err
}
