package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/services"
	"github.com/hanbit-center/attendance-service/test/mocks"
)

func newAttendanceHandler() (*AttendanceHandler, *mocks.MockAttendanceRepository) {
	attendance := mocks.NewMockAttendanceRepository()
	structures := mocks.NewMockStructureRepository()
	structures.SeedStructure(domain.ProgramStructure{SubProgram: "Yoga", Function: "교육문화", Unit: "평생교육"})
	svc := services.NewAttendanceService(attendance, services.NewStructureService(structures, mocks.NewMockStructureCache()))

	identity := mocks.NewMockIdentityService()
	identity.Seed(domain.Identity{ID: "admin-1", Role: domain.RoleAdmin})
	identity.Seed(domain.Identity{ID: "t-1", Role: domain.RoleTeacher, SubPrograms: []string{"Yoga"}})
	identity.Seed(domain.Identity{ID: "t-2", Role: domain.RoleTeacher, SubPrograms: []string{"Painting"}})
	return NewAttendanceHandler(svc, identity), attendance
}

func TestAttendanceSaveThenFetch(t *testing.T) {
	h, _ := newAttendanceHandler()

	body := `[{"member_id":"U1","date":"2025-01-10","sub_program":"Yoga","attended":true}]`
	req := withActor(httptest.NewRequest(http.MethodPost, "/api/attendance", strings.NewReader(body)), "admin-1", domain.RoleAdmin)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("save: status = %d, body %q", rec.Code, rec.Body.String())
	}

	req = withActor(httptest.NewRequest(http.MethodGet, "/api/attendance?date=2025-01-10&subProgram=Yoga", nil), "admin-1", domain.RoleAdmin)
	rec = httptest.NewRecorder()
	h.Handle(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch: status = %d", rec.Code)
	}

	var records []domain.AttendanceRecord
	if err := json.NewDecoder(rec.Body).Decode(&records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	if records[0].ID != "U1_2025-01-10_Yoga" || !records[0].Attended {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestAttendanceSave_Validation(t *testing.T) {
	h, attendance := newAttendanceHandler()

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "not_json", body: `{"member_id":"U1"}`, want: http.StatusBadRequest},
		{name: "missing_date", body: `[{"member_id":"U1","sub_program":"Yoga"}]`, want: http.StatusBadRequest},
		{name: "unknown_sub_program", body: `[{"member_id":"U1","date":"2025-01-10","sub_program":"Knitting"}]`, want: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withActor(httptest.NewRequest(http.MethodPost, "/api/attendance", strings.NewReader(tt.body)), "admin-1", domain.RoleAdmin)
			rec := httptest.NewRecorder()
			h.Handle(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %q)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
	if len(attendance.UpsertCalls) != 0 {
		t.Errorf("invalid requests must not write, got %d upserts", len(attendance.UpsertCalls))
	}
}

func TestAttendanceTeacherScoping(t *testing.T) {
	h, attendance := newAttendanceHandler()
	body := `[{"member_id":"U1","date":"2025-01-10","sub_program":"Yoga","attended":true}]`

	// Assigned teacher writes and reads freely.
	req := withActor(httptest.NewRequest(http.MethodPost, "/api/attendance", strings.NewReader(body)), "t-1", domain.RoleTeacher)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("assigned teacher save: status = %d, body %q", rec.Code, rec.Body.String())
	}

	// A teacher of another sub-program is refused on both paths.
	req = withActor(httptest.NewRequest(http.MethodPost, "/api/attendance", strings.NewReader(body)), "t-2", domain.RoleTeacher)
	rec = httptest.NewRecorder()
	h.Handle(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("unassigned teacher save: status = %d, want 403", rec.Code)
	}
	if len(attendance.UpsertCalls) != 1 {
		t.Errorf("forbidden save must not write, got %d upserts", len(attendance.UpsertCalls))
	}

	req = withActor(httptest.NewRequest(http.MethodGet, "/api/attendance?date=2025-01-10&subProgram=Yoga", nil), "t-2", domain.RoleTeacher)
	rec = httptest.NewRecorder()
	h.Handle(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("unassigned teacher fetch: status = %d, want 403", rec.Code)
	}
}

func TestAttendanceStatsEndpoint(t *testing.T) {
	h, _ := newAttendanceHandler()

	body := `[
		{"member_id":"U1","date":"2025-01-10","sub_program":"Yoga","attended":true},
		{"member_id":"U2","date":"2025-01-10","sub_program":"Yoga","attended":false}
	]`
	req := withActor(httptest.NewRequest(http.MethodPost, "/api/attendance", strings.NewReader(body)), "admin-1", domain.RoleAdmin)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("save: status = %d", rec.Code)
	}

	req = withActor(httptest.NewRequest(http.MethodGet, "/api/attendance/stats?from=2025-01-01&to=2025-01-31&subProgram=Yoga", nil), "admin-1", domain.RoleAdmin)
	rec = httptest.NewRecorder()
	h.Stats(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: status = %d", rec.Code)
	}

	var stats domain.AttendanceStats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Total != 2 || stats.Present != 1 {
		t.Errorf("stats = %+v, want total 2 present 1", stats)
	}

	req = withActor(httptest.NewRequest(http.MethodGet, "/api/attendance/stats?from=2025-01-01", nil), "admin-1", domain.RoleAdmin)
	rec = httptest.NewRecorder()
	h.Stats(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing params: status = %d, want 400", rec.Code)
	}
}
