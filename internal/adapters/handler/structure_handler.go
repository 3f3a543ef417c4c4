package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
)

type StructureHandler struct {
	structures ports.StructureService
}

func NewStructureHandler(structures ports.StructureService) *StructureHandler {
	return &StructureHandler{structures: structures}
}

// Collection handles /api/program-structure (list, create).
func (h *StructureHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		structures, err := h.structures.List(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		if structures == nil {
			structures = []domain.ProgramStructure{}
		}
		respondJSON(w, http.StatusOK, structures)

	case http.MethodPost:
		var s domain.ProgramStructure
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(s.SubProgram) == "" || s.Unit == "" || s.Function == "" {
			http.Error(w, "sub_program, unit and function are required", http.StatusBadRequest)
			return
		}
		if err := h.structures.Create(r.Context(), s); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, s)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item handles /api/program-structure/{key} (update, delete). The key is
// the sub-program name, URL-escaped.
func (h *StructureHandler) Item(w http.ResponseWriter, r *http.Request) {
	rawKey := strings.TrimPrefix(r.URL.Path, "/api/program-structure/")
	key, err := url.PathUnescape(rawKey)
	if err != nil || key == "" {
		http.Error(w, "missing sub-program key", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var s domain.ProgramStructure
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}
		s.SubProgram = key
		if s.Unit == "" || s.Function == "" {
			http.Error(w, "unit and function are required", http.StatusBadRequest)
			return
		}
		if err := h.structures.Update(r.Context(), s); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, s)

	case http.MethodDelete:
		if err := h.structures.Delete(r.Context(), key); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "deleted"})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// TeamMap handles /api/team-map (list, upsert).
func (h *StructureHandler) TeamMap(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		maps, err := h.structures.ListTeamMap(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		if maps == nil {
			maps = []domain.TeamSubProgramMap{}
		}
		respondJSON(w, http.StatusOK, maps)

	case http.MethodPost:
		var m domain.TeamSubProgramMap
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(m.SubProgram) == "" || m.Team == "" {
			http.Error(w, "sub_program and team are required", http.StatusBadRequest)
			return
		}
		if err := h.structures.SaveTeamMap(r.Context(), m); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, m)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Reconcile reports divergence between the structure directory and the
// team map.
func (h *StructureHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	mismatches, err := h.structures.ReconcileTeamMap(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if mismatches == nil {
		mismatches = []domain.StructureMismatch{}
	}
	respondJSON(w, http.StatusOK, mismatches)
}
