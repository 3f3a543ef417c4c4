package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/services"
	"github.com/hanbit-center/attendance-service/test/mocks"
)

func newStructureHandler() (*StructureHandler, *mocks.MockStructureRepository) {
	repo := mocks.NewMockStructureRepository()
	svc := services.NewStructureService(repo, mocks.NewMockStructureCache())
	return NewStructureHandler(svc), repo
}

func TestStructureCollection(t *testing.T) {
	h, repo := newStructureHandler()
	repo.SeedStructure(domain.ProgramStructure{SubProgram: "Yoga", Function: "교육문화", Unit: "평생교육"})

	t.Run("list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/program-structure", nil)
		rec := httptest.NewRecorder()
		h.Collection(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
		}
		var structures []domain.ProgramStructure
		if err := json.NewDecoder(rec.Body).Decode(&structures); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(structures) != 1 || structures[0].SubProgram != "Yoga" {
			t.Errorf("unexpected list: %v", structures)
		}
	})

	t.Run("create", func(t *testing.T) {
		body := `{"sub_program":"Painting","function":"교육문화","unit":"평생교육"}`
		req := httptest.NewRequest(http.MethodPost, "/api/program-structure", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Collection(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
		}
		if _, err := repo.LookupSubProgram(context.Background(), "Painting"); err != nil {
			t.Errorf("created row not stored: %v", err)
		}
	})

	t.Run("create_missing_fields", func(t *testing.T) {
		body := `{"sub_program":"Knitting"}`
		req := httptest.NewRequest(http.MethodPost, "/api/program-structure", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Collection(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestStructureItem(t *testing.T) {
	t.Run("update", func(t *testing.T) {
		h, repo := newStructureHandler()
		repo.SeedStructure(domain.ProgramStructure{SubProgram: "Yoga", Function: "교육문화", Unit: "평생교육"})

		body := `{"function":"교육문화","unit":"문화사업"}`
		req := httptest.NewRequest(http.MethodPut, "/api/program-structure/Yoga", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Item(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
		}
		st, err := repo.LookupSubProgram(context.Background(), "Yoga")
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if st.Unit != "문화사업" {
			t.Errorf("unit not updated: %q", st.Unit)
		}
	})

	t.Run("update_missing_row", func(t *testing.T) {
		h, _ := newStructureHandler()

		body := `{"function":"교육문화","unit":"평생교육"}`
		req := httptest.NewRequest(http.MethodPut, "/api/program-structure/Ghost", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Item(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		h, repo := newStructureHandler()
		repo.SeedStructure(domain.ProgramStructure{SubProgram: "Yoga", Function: "교육문화", Unit: "평생교육"})

		req := httptest.NewRequest(http.MethodDelete, "/api/program-structure/Yoga", nil)
		rec := httptest.NewRecorder()
		h.Item(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("escaped_korean_key", func(t *testing.T) {
		h, repo := newStructureHandler()
		repo.SeedStructure(domain.ProgramStructure{SubProgram: "요가", Function: "교육문화", Unit: "평생교육"})

		req := httptest.NewRequest(http.MethodDelete, "/api/program-structure/%EC%9A%94%EA%B0%80", nil)
		rec := httptest.NewRecorder()
		h.Item(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
		}
	})
}

func TestTeamMapAndReconcile(t *testing.T) {
	h, repo := newStructureHandler()
	repo.SeedStructure(domain.ProgramStructure{SubProgram: "Yoga", Function: "교육문화", Unit: "평생교육"})

	body := `{"sub_program":"Yoga","team":"A팀","function":"교육문화","unit":"문화사업"}`
	req := httptest.NewRequest(http.MethodPost, "/api/team-map", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.TeamMap(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("team map upsert: status = %d, body %q", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/team-map/reconcile", nil)
	rec = httptest.NewRecorder()
	h.Reconcile(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("reconcile: status = %d", rec.Code)
	}
	var mismatches []domain.StructureMismatch
	if err := json.NewDecoder(rec.Body).Decode(&mismatches); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(mismatches) != 1 || mismatches[0].Field != "unit" {
		t.Errorf("expected one unit mismatch, got %v", mismatches)
	}
}
