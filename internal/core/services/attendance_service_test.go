package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/test/mocks"
)

func newAttendanceFixture() (*AttendanceService, *mocks.MockAttendanceRepository, *mocks.MockStructureRepository) {
	attendance := mocks.NewMockAttendanceRepository()
	structures := mocks.NewMockStructureRepository()
	structures.SeedStructure(domain.ProgramStructure{
		SubProgram: "Yoga",
		Function:   "교육문화",
		Unit:       "평생교육",
	})
	svc := NewAttendanceService(attendance, NewStructureService(structures, mocks.NewMockStructureCache()))
	return svc, attendance, structures
}

func TestSaveAndFetch(t *testing.T) {
	svc, _, _ := newAttendanceFixture()

	err := svc.Save(context.Background(), admin, []domain.AttendanceRecord{
		{MemberID: "U1", Date: "2025-01-10", SubProgram: "Yoga", Attended: true},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	records, err := svc.Fetch(context.Background(), admin, "2025-01-10", "Yoga")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	rec := records[0]
	if rec.ID != "U1_2025-01-10_Yoga" {
		t.Errorf("key = %q", rec.ID)
	}
	if !rec.Attended {
		t.Error("record should be marked attended")
	}
	if rec.Function != "교육문화" || rec.Unit != "평생교육" {
		t.Errorf("structure not denormalized onto record: %+v", rec)
	}
}

func TestSave_RepeatedSaveOverwrites(t *testing.T) {
	svc, attendance, _ := newAttendanceFixture()
	rec := domain.AttendanceRecord{MemberID: "U1", Date: "2025-01-10", SubProgram: "Yoga", Attended: true}

	if err := svc.Save(context.Background(), admin, []domain.AttendanceRecord{rec}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	rec.Attended = false
	if err := svc.Save(context.Background(), admin, []domain.AttendanceRecord{rec}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	if attendance.StoredCount() != 1 {
		t.Fatalf("expected one stored record, got %d", attendance.StoredCount())
	}
	records, err := svc.Fetch(context.Background(), admin, "2025-01-10", "Yoga")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if records[0].Attended {
		t.Error("second save should have overwritten the attended flag")
	}
}

func TestSave_UnknownSubProgramRefusesBatch(t *testing.T) {
	svc, attendance, _ := newAttendanceFixture()

	err := svc.Save(context.Background(), admin, []domain.AttendanceRecord{
		{MemberID: "U1", Date: "2025-01-10", SubProgram: "Yoga", Attended: true},
		{MemberID: "U2", Date: "2025-01-10", SubProgram: "Knitting", Attended: true},
	})
	if !errors.Is(err, domain.ErrStructureMissing) {
		t.Fatalf("expected ErrStructureMissing for unmapped sub-program, got %v", err)
	}
	if !strings.Contains(err.Error(), "Knitting") {
		t.Errorf("error should name the offending sub-program: %v", err)
	}
	if len(attendance.UpsertCalls) != 0 {
		t.Errorf("no record may be written when any mapping is missing, got %d upserts", len(attendance.UpsertCalls))
	}
}

func TestAttendanceRoleScoping(t *testing.T) {
	assigned := domain.Identity{ID: "t-1", Role: domain.RoleTeacher, SubPrograms: []string{"Yoga"}}
	unassigned := domain.Identity{ID: "t-2", Role: domain.RoleTeacher, SubPrograms: []string{"Painting"}}
	records := []domain.AttendanceRecord{
		{MemberID: "U1", Date: "2025-01-10", SubProgram: "Yoga", Attended: true},
	}

	t.Run("assigned_teacher_saves", func(t *testing.T) {
		svc, _, _ := newAttendanceFixture()
		if err := svc.Save(context.Background(), assigned, records); err != nil {
			t.Fatalf("save: %v", err)
		}
	})

	t.Run("unassigned_teacher_forbidden", func(t *testing.T) {
		svc, attendance, _ := newAttendanceFixture()
		if err := svc.Save(context.Background(), unassigned, records); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
		if len(attendance.UpsertCalls) != 0 {
			t.Errorf("forbidden save must not write, got %d upserts", len(attendance.UpsertCalls))
		}
		if _, err := svc.Fetch(context.Background(), unassigned, "2025-01-10", "Yoga"); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("fetch: expected ErrForbidden, got %v", err)
		}
		if _, err := svc.Stats(context.Background(), unassigned, "2025-01-01", "2025-01-31", "Yoga"); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("stats: expected ErrForbidden, got %v", err)
		}
	})

	t.Run("pending_role_forbidden", func(t *testing.T) {
		svc, _, _ := newAttendanceFixture()
		pending := domain.Identity{ID: "p-1", Role: domain.RolePending}
		if err := svc.Save(context.Background(), pending, records); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})
}

func TestSave_PartialFailureReportsProgress(t *testing.T) {
	svc, attendance, _ := newAttendanceFixture()
	attendance.UpsertError = errors.New("connection reset")

	err := svc.Save(context.Background(), admin, []domain.AttendanceRecord{
		{MemberID: "U1", Date: "2025-01-10", SubProgram: "Yoga"},
		{MemberID: "U2", Date: "2025-01-10", SubProgram: "Yoga"},
	})
	if err == nil {
		t.Fatal("expected upsert error to surface")
	}
	if !strings.Contains(err.Error(), "saved 0 of 2") {
		t.Errorf("error should report progress: %v", err)
	}
}

func TestStats(t *testing.T) {
	svc, _, _ := newAttendanceFixture()

	records := []domain.AttendanceRecord{
		{MemberID: "U1", Date: "2025-01-10", SubProgram: "Yoga", Attended: true},
		{MemberID: "U2", Date: "2025-01-10", SubProgram: "Yoga", Attended: false},
		{MemberID: "U1", Date: "2025-01-17", SubProgram: "Yoga", Attended: true},
	}
	if err := svc.Save(context.Background(), admin, records); err != nil {
		t.Fatalf("save: %v", err)
	}

	stats, err := svc.Stats(context.Background(), admin, "2025-01-01", "2025-01-31", "Yoga")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 || stats.Present != 2 {
		t.Errorf("stats = %+v, want total 3 present 2", stats)
	}
}
