package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
)

type AttendanceHandler struct {
	attendance ports.AttendanceService
	identity   ports.IdentityService
}

func NewAttendanceHandler(attendance ports.AttendanceService, identity ports.IdentityService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, identity: identity}
}

// Save accepts a batch of attendance records. Records for sub-programs not
// in the structure directory refuse the whole batch before any write;
// teachers may only write records for their assigned sub-programs.
func (h *AttendanceHandler) Save(w http.ResponseWriter, r *http.Request) {
	actor, err := sessionActor(r, h.identity)
	if err != nil {
		respondError(w, err)
		return
	}

	var records []domain.AttendanceRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	for _, rec := range records {
		if rec.MemberID == "" || rec.Date == "" || rec.SubProgram == "" {
			http.Error(w, "member_id, date and sub_program are required on every record", http.StatusBadRequest)
			return
		}
	}

	if err := h.attendance.Save(r.Context(), actor, records); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "saved", "count": len(records)})
}

func (h *AttendanceHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	actor, err := sessionActor(r, h.identity)
	if err != nil {
		respondError(w, err)
		return
	}

	date := r.URL.Query().Get("date")
	subProgram := r.URL.Query().Get("subProgram")
	if date == "" || subProgram == "" {
		http.Error(w, "date and subProgram are required", http.StatusBadRequest)
		return
	}

	records, err := h.attendance.Fetch(r.Context(), actor, date, subProgram)
	if err != nil {
		respondError(w, err)
		return
	}
	if records == nil {
		records = []domain.AttendanceRecord{}
	}
	respondJSON(w, http.StatusOK, records)
}

// Handle routes GET to Fetch and POST to Save on the same path.
func (h *AttendanceHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.Fetch(w, r)
	case http.MethodPost:
		h.Save(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AttendanceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	actor, err := sessionActor(r, h.identity)
	if err != nil {
		respondError(w, err)
		return
	}

	q := r.URL.Query()
	from, to, subProgram := q.Get("from"), q.Get("to"), q.Get("subProgram")
	if from == "" || to == "" || subProgram == "" {
		http.Error(w, "from, to and subProgram are required", http.StatusBadRequest)
		return
	}

	stats, err := h.attendance.Stats(r.Context(), actor, from, to, subProgram)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
