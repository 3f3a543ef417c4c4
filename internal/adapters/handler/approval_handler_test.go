package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hanbit-center/attendance-service/internal/adapters/middleware"
	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/services"
	"github.com/hanbit-center/attendance-service/test/mocks"
)

// withActor injects a session identity the way the auth middleware does.
func withActor(r *http.Request, id string, role domain.Role) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.PrincipalIDKey, id)
	ctx = context.WithValue(ctx, middleware.RoleKey, role)
	return r.WithContext(ctx)
}

func newApprovalHandler() (*ApprovalHandler, *mocks.MockPrincipalRepository, *mocks.MockMemberRepository) {
	principals := mocks.NewMockPrincipalRepository()
	members := mocks.NewMockMemberRepository()
	svc := services.NewApprovalService(principals, members)
	return NewApprovalHandler(svc, &mocks.MockPendingWatcher{}), principals, members
}

func TestApproveEndpoint(t *testing.T) {
	t.Run("role_grant", func(t *testing.T) {
		h, principals, _ := newApprovalHandler()
		principals.SeedPrincipal(domain.Principal{ID: "p-1", Role: domain.RolePending})

		body := `{"principal_id":"p-1","target_role":"teacher"}`
		req := withActor(httptest.NewRequest(http.MethodPost, "/api/approvals/approve", strings.NewReader(body)), "admin-1", domain.RoleAdmin)
		rec := httptest.NewRecorder()
		h.Approve(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
		}
		if got := principals.RoleOf("p-1"); got != domain.RoleTeacher {
			t.Errorf("role = %q", got)
		}
	})

	t.Run("new_member_promotion", func(t *testing.T) {
		h, _, members := newApprovalHandler()
		members.SeedPending(domain.PendingMember{ID: "pend-1", Name: "김영희", SubProgram: "Yoga", Status: domain.PendingAwaiting})

		body := `{"principal_id":"pend-1","target_role":"staff","is_new_member":true}`
		req := withActor(httptest.NewRequest(http.MethodPost, "/api/approvals/approve", strings.NewReader(body)), "admin-1", domain.RoleAdmin)
		rec := httptest.NewRecorder()
		h.Approve(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
		}
		if members.HasPending("pend-1") || members.MemberCount() != 1 {
			t.Error("pending submission should have been promoted")
		}
	})

	t.Run("non_admin_forbidden", func(t *testing.T) {
		h, principals, _ := newApprovalHandler()
		principals.SeedPrincipal(domain.Principal{ID: "p-1", Role: domain.RolePending})

		body := `{"principal_id":"p-1","target_role":"staff"}`
		req := withActor(httptest.NewRequest(http.MethodPost, "/api/approvals/approve", strings.NewReader(body)), "t-1", domain.RoleTeacher)
		rec := httptest.NewRecorder()
		h.Approve(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("unknown_target_role", func(t *testing.T) {
		h, _, _ := newApprovalHandler()

		body := `{"principal_id":"p-1","target_role":"superuser"}`
		req := withActor(httptest.NewRequest(http.MethodPost, "/api/approvals/approve", strings.NewReader(body)), "admin-1", domain.RoleAdmin)
		rec := httptest.NewRecorder()
		h.Approve(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rec.Code)
		}
	})

	t.Run("missing_principal_id", func(t *testing.T) {
		h, _, _ := newApprovalHandler()

		req := withActor(httptest.NewRequest(http.MethodPost, "/api/approvals/approve", strings.NewReader(`{}`)), "admin-1", domain.RoleAdmin)
		rec := httptest.NewRecorder()
		h.Approve(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestRejectAndCancelEndpoints(t *testing.T) {
	h, principals, _ := newApprovalHandler()
	principals.SeedPrincipal(domain.Principal{ID: "p-1", Role: domain.RolePending})

	body := `{"principal_id":"p-1"}`
	req := withActor(httptest.NewRequest(http.MethodPost, "/api/approvals/reject", strings.NewReader(body)), "admin-1", domain.RoleAdmin)
	rec := httptest.NewRecorder()
	h.Reject(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("reject: status = %d, body %q", rec.Code, rec.Body.String())
	}
	if got := principals.RoleOf("p-1"); got != domain.RoleRejected {
		t.Fatalf("role after reject = %q", got)
	}

	req = withActor(httptest.NewRequest(http.MethodPost, "/api/approvals/cancel", strings.NewReader(body)), "admin-1", domain.RoleAdmin)
	rec = httptest.NewRecorder()
	h.Cancel(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel: status = %d, body %q", rec.Code, rec.Body.String())
	}
	if got := principals.RoleOf("p-1"); got != domain.RolePending {
		t.Errorf("role after cancel = %q, want pending", got)
	}
}

func TestWatchPendingEndpoint(t *testing.T) {
	principals := mocks.NewMockPrincipalRepository()
	members := mocks.NewMockMemberRepository()
	svc := services.NewApprovalService(principals, members)
	h := NewApprovalHandler(svc, &mocks.MockPendingWatcher{IDs: []string{"pend-1", "pend-2"}})

	req := withActor(httptest.NewRequest(http.MethodGet, "/api/pending-members/watch", nil), "admin-1", domain.RoleAdmin)
	rec := httptest.NewRecorder()
	h.WatchPending(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "data: pend-1\n\n") || !strings.Contains(body, "data: pend-2\n\n") {
		t.Errorf("stream missing events: %q", body)
	}
}

func TestListPendingEndpoint(t *testing.T) {
	h, _, members := newApprovalHandler()
	members.SeedPending(domain.PendingMember{ID: "pend-1", Name: "김영희", Status: domain.PendingAwaiting})

	req := withActor(httptest.NewRequest(http.MethodGet, "/api/pending-members", nil), "admin-1", domain.RoleAdmin)
	rec := httptest.NewRecorder()
	h.ListPending(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "pend-1") {
		t.Errorf("pending submission missing from response: %s", rec.Body.String())
	}
}
