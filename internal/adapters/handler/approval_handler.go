package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hanbit-center/attendance-service/internal/adapters/middleware"
	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
)

type ApprovalHandler struct {
	approvals ports.ApprovalService
	watcher   ports.PendingWatcher
}

func NewApprovalHandler(approvals ports.ApprovalService, watcher ports.PendingWatcher) *ApprovalHandler {
	return &ApprovalHandler{approvals: approvals, watcher: watcher}
}

type approvalRequest struct {
	PrincipalID string `json:"principal_id"`
	TargetRole  string `json:"target_role,omitempty"`
	IsNewMember bool   `json:"is_new_member,omitempty"`
}

func (h *ApprovalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req approvalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.PrincipalID == "" {
		http.Error(w, "principal_id is required", http.StatusBadRequest)
		return
	}
	targetRole, err := domain.ParseRole(req.TargetRole)
	if err != nil {
		respondError(w, err)
		return
	}

	actor := middleware.Principal(r.Context())
	if err := h.approvals.Approve(r.Context(), actor, req.PrincipalID, targetRole, req.IsNewMember); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "approved"})
}

func (h *ApprovalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "rejected", h.approvals.Reject)
}

func (h *ApprovalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "cancelled", h.approvals.Cancel)
}

func (h *ApprovalHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	fn func(ctx context.Context, actor domain.Identity, principalID string) error,
) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req approvalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.PrincipalID == "" {
		http.Error(w, "principal_id is required", http.StatusBadRequest)
		return
	}

	actor := middleware.Principal(r.Context())
	if err := fn(r.Context(), actor, req.PrincipalID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (h *ApprovalHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	actor := middleware.Principal(r.Context())
	pending, err := h.approvals.ListPending(r.Context(), actor)
	if err != nil {
		respondError(w, err)
		return
	}
	if pending == nil {
		pending = []domain.PendingMember{}
	}
	respondJSON(w, http.StatusOK, pending)
}

// WatchPending streams the ids of added or changed pending submissions as
// server-sent events, so an admin console can refresh its list without
// polling.
func (h *ApprovalHandler) WatchPending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch, err := h.watcher.Watch(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case id, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", id)
			flusher.Flush()
		}
	}
}
