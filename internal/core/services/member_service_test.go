package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/test/mocks"
)

func newMemberFixture() (*MemberService, *mocks.MockMemberRepository) {
	members := mocks.NewMockMemberRepository()
	svc := NewMemberService(members)
	svc.now = func() time.Time { return time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC) }
	ids := []string{"m-1", "ms-1", "m-2", "ms-2"}
	svc.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	return svc, members
}

func TestListBySubProgram_RoleScoping(t *testing.T) {
	tests := []struct {
		name    string
		actor   domain.Identity
		wantErr error
	}{
		{name: "admin", actor: domain.Identity{ID: "a", Role: domain.RoleAdmin}},
		{name: "staff", actor: domain.Identity{ID: "s", Role: domain.RoleStaff}},
		{name: "assigned_teacher", actor: domain.Identity{ID: "t", Role: domain.RoleTeacher, SubPrograms: []string{"Yoga"}}},
		{
			name:    "unassigned_teacher",
			actor:   domain.Identity{ID: "t", Role: domain.RoleTeacher, SubPrograms: []string{"Painting"}},
			wantErr: domain.ErrForbidden,
		},
		{name: "pending", actor: domain.Identity{ID: "p", Role: domain.RolePending}, wantErr: domain.ErrForbidden},
		{name: "degraded_pending", actor: domain.Identity{ID: "d", Role: domain.RolePending, Degraded: true}, wantErr: domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, members := newMemberFixture()
			members.SeedMember(domain.Member{ID: "m-1", Name: "김영희", SubProgram: "Yoga"})

			got, err := svc.ListBySubProgram(context.Background(), tt.actor, "Yoga")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != 1 {
				t.Errorf("expected one member, got %d", len(got))
			}
		})
	}
}

func TestCreateMember(t *testing.T) {
	svc, members := newMemberFixture()
	actor := domain.Identity{ID: "a", Role: domain.RoleAdmin}

	created, err := svc.Create(context.Background(), actor, domain.Member{Name: "김영희", SubProgram: "Yoga"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.MembershipID == "" || created.ID == created.MembershipID {
		t.Errorf("ids must be fresh and distinct: %+v", created)
	}
	if created.Status != string(domain.PendingApproved) {
		t.Errorf("status = %q", created.Status)
	}
	if created.ApprovedAt != "2025-01-10" {
		t.Errorf("approved at = %q", created.ApprovedAt)
	}
	if members.MemberCount() != 1 {
		t.Errorf("member not persisted")
	}
}

func TestMemberWrites_RequireAdmin(t *testing.T) {
	svc, members := newMemberFixture()
	members.SeedMember(domain.Member{ID: "m-1", Name: "김영희", SubProgram: "Yoga"})
	staff := domain.Identity{ID: "s", Role: domain.RoleStaff}

	if _, err := svc.Create(context.Background(), staff, domain.Member{Name: "x"}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("create: expected ErrForbidden, got %v", err)
	}
	if err := svc.Update(context.Background(), staff, domain.Member{ID: "m-1"}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("update: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), staff, "m-1"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("delete: expected ErrForbidden, got %v", err)
	}
	if members.MemberCount() != 1 {
		t.Error("refused writes must not touch storage")
	}
}

func TestDeleteMember(t *testing.T) {
	svc, members := newMemberFixture()
	members.SeedMember(domain.Member{ID: "m-1", Name: "김영희", SubProgram: "Yoga"})
	admin := domain.Identity{ID: "a", Role: domain.RoleAdmin}

	if err := svc.Delete(context.Background(), admin, "m-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if members.MemberCount() != 0 {
		t.Error("member should be gone")
	}
	if err := svc.Delete(context.Background(), admin, "m-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("double delete: expected ErrNotFound, got %v", err)
	}
}
