package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hanbit-center/attendance-service/internal/adapters/middleware"
	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
)

type MemberHandler struct {
	members  ports.MemberService
	identity ports.IdentityService
}

func NewMemberHandler(members ports.MemberService, identity ports.IdentityService) *MemberHandler {
	return &MemberHandler{members: members, identity: identity}
}

// sessionActor resolves the full identity for the session so teacher
// scoping sees the assigned sub-programs, not just the token claims.
func sessionActor(r *http.Request, identity ports.IdentityService) (domain.Identity, error) {
	principal := middleware.Principal(r.Context())
	resolved, err := identity.Resolve(r.Context(), principal.ID)
	if err != nil {
		return domain.Identity{}, err
	}
	return *resolved, nil
}

// Collection handles /api/members (list by sub-program, create).
func (h *MemberHandler) Collection(w http.ResponseWriter, r *http.Request) {
	actor, err := sessionActor(r, h.identity)
	if err != nil {
		respondError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		subProgram := r.URL.Query().Get("subProgram")
		if subProgram == "" {
			http.Error(w, "subProgram is required", http.StatusBadRequest)
			return
		}
		members, err := h.members.ListBySubProgram(r.Context(), actor, subProgram)
		if err != nil {
			respondError(w, err)
			return
		}
		if members == nil {
			members = []domain.Member{}
		}
		respondJSON(w, http.StatusOK, members)

	case http.MethodPost:
		var m domain.Member
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}
		if m.Name == "" || m.SubProgram == "" {
			http.Error(w, "name and sub_program are required", http.StatusBadRequest)
			return
		}
		created, err := h.members.Create(r.Context(), actor, m)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, created)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item handles /api/members/{id} (update, delete).
func (h *MemberHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/members/")
	if id == "" {
		http.Error(w, "missing member id", http.StatusBadRequest)
		return
	}

	actor, err := sessionActor(r, h.identity)
	if err != nil {
		respondError(w, err)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var m domain.Member
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}
		m.ID = id
		if err := h.members.Update(r.Context(), actor, m); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, m)

	case http.MethodDelete:
		if err := h.members.Delete(r.Context(), actor, id); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "deleted"})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
