package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
	"github.com/hanbit-center/attendance-service/internal/metrics"
)

// AttendanceService records one attendance fact per (member, date,
// sub-program), keyed so repeated saves overwrite.
type AttendanceService struct {
	attendance ports.AttendanceRepository
	structures ports.StructureService
}

var _ ports.AttendanceService = (*AttendanceService)(nil)

func NewAttendanceService(attendance ports.AttendanceRepository, structures ports.StructureService) *AttendanceService {
	return &AttendanceService{attendance: attendance, structures: structures}
}

// authorize applies the same role scoping as the membership store: staff
// and admins see every sub-program, teachers only their assigned ones.
func (s *AttendanceService) authorize(actor domain.Identity, subPrograms ...string) error {
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleStaff:
		return nil
	case domain.RoleTeacher:
		for _, sp := range subPrograms {
			if !contains(actor.SubPrograms, sp) {
				return fmt.Errorf("teacher %q not assigned to %q: %w", actor.ID, sp, domain.ErrForbidden)
			}
		}
		return nil
	default:
		return domain.ErrForbidden
	}
}

// Save upserts each record under its composite key. Every record's
// sub-program is resolved against the structure directory before the first
// write; a missing mapping refuses the whole batch so no partially-mapped
// record is ever stored. The upserts themselves are independent: on failure
// the error reports how many records were written.
func (s *AttendanceService) Save(ctx context.Context, actor domain.Identity, records []domain.AttendanceRecord) error {
	resolved := make([]domain.AttendanceRecord, len(records))
	for i, rec := range records {
		if err := s.authorize(actor, rec.SubProgram); err != nil {
			return err
		}
		st, err := s.structures.Lookup(ctx, rec.SubProgram)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("sub-program %q: %w", rec.SubProgram, domain.ErrStructureMissing)
		}
		if err != nil {
			return fmt.Errorf("sub-program %q: %w", rec.SubProgram, err)
		}
		rec.ID = rec.Key()
		rec.Function = st.Function
		rec.Unit = st.Unit
		resolved[i] = rec
	}

	for i, rec := range resolved {
		if err := s.attendance.Upsert(ctx, rec); err != nil {
			return fmt.Errorf("saved %d of %d records: %w", i, len(resolved), err)
		}
		metrics.AttendanceUpserts.Inc()
	}
	return nil
}

// Fetch returns the unordered set of records for (date, subProgram).
// Callers index by member id to reconstruct the attended/absent map.
func (s *AttendanceService) Fetch(ctx context.Context, actor domain.Identity, date, subProgram string) ([]domain.AttendanceRecord, error) {
	if err := s.authorize(actor, subProgram); err != nil {
		return nil, err
	}
	return s.attendance.FetchByDate(ctx, date, subProgram)
}

// Stats aggregates presence over an inclusive date range.
func (s *AttendanceService) Stats(ctx context.Context, actor domain.Identity, from, to, subProgram string) (domain.AttendanceStats, error) {
	if err := s.authorize(actor, subProgram); err != nil {
		return domain.AttendanceStats{}, err
	}
	return s.attendance.Stats(ctx, from, to, subProgram)
}
