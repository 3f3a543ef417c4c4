package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
)

// MemberService exposes the membership store. Reads are scoped by role:
// teachers only see members of their assigned sub-programs, staff and
// admins see everything. Writes are admin only.
type MemberService struct {
	members ports.MemberRepository

	now   func() time.Time
	newID func() string
}

var _ ports.MemberService = (*MemberService)(nil)

func NewMemberService(members ports.MemberRepository) *MemberService {
	return &MemberService{members: members, now: time.Now, newID: uuid.NewString}
}

func (s *MemberService) ListBySubProgram(ctx context.Context, actor domain.Identity, subProgram string) ([]domain.Member, error) {
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleStaff:
	case domain.RoleTeacher:
		if !contains(actor.SubPrograms, subProgram) {
			return nil, fmt.Errorf("teacher %q not assigned to %q: %w", actor.ID, subProgram, domain.ErrForbidden)
		}
	default:
		return nil, domain.ErrForbidden
	}
	return s.members.ListBySubProgram(ctx, subProgram)
}

// Create is the direct administrative entry path; promotion from a pending
// submission goes through the approval workflow instead.
func (s *MemberService) Create(ctx context.Context, actor domain.Identity, m domain.Member) (*domain.Member, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	m.ID = s.newID()
	m.MembershipID = s.newID()
	m.Status = string(domain.PendingApproved)
	m.CreatedAt = s.now()
	if m.ApprovedAt == "" {
		m.ApprovedAt = s.now().Format("2006-01-02")
	}
	if err := s.members.Create(ctx, m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MemberService) Update(ctx context.Context, actor domain.Identity, m domain.Member) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.members.Update(ctx, m)
}

// Delete hard-deletes a member record. Only reachable through explicit
// administrative action.
func (s *MemberService) Delete(ctx context.Context, actor domain.Identity, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.members.Delete(ctx, id)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
