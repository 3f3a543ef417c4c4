package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
	"github.com/hanbit-center/attendance-service/internal/metrics"
)

// ApprovalService is the state machine governing role transitions and the
// promotion of pending member submissions. The admin check here is
// advisory; the store's access rules remain the trust boundary.
type ApprovalService struct {
	principals ports.PrincipalRepository
	members    ports.MemberRepository

	now   func() time.Time
	newID func() string
}

var _ ports.ApprovalService = (*ApprovalService)(nil)

func NewApprovalService(principals ports.PrincipalRepository, members ports.MemberRepository) *ApprovalService {
	return &ApprovalService{
		principals: principals,
		members:    members,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Approve promotes a pending member submission or moves an existing
// principal into an operational role.
//
// The new-member path reads the pending row (absent means an already
// processed or double-submitted approval: no-op), then hands the member
// insert, the pending delete and the outbox event to the repository as one
// transaction. The membership-index fan-out happens in the relay when it
// consumes the event, so a crashed approval either left everything pending
// or committed all of it.
func (s *ApprovalService) Approve(ctx context.Context, actor domain.Identity, principalID string, targetRole domain.Role, isNewMember bool) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if !targetRole.Operational() {
		return fmt.Errorf("approve to %q: %w", targetRole, domain.ErrInvalidTransition)
	}

	if isNewMember {
		// The promoted member's role is implied by the submission itself;
		// targetRole only gates the existing-principal path.
		return s.promote(ctx, principalID)
	}

	p, err := s.principals.FindByID(ctx, principalID)
	if err != nil {
		return err
	}
	if !domain.CanTransition(p.Role, targetRole) {
		return fmt.Errorf("%s -> %s: %w", p.Role, targetRole, domain.ErrInvalidTransition)
	}
	if err := s.principals.UpdateRole(ctx, principalID, targetRole); err != nil {
		return err
	}
	metrics.Approvals.WithLabelValues("approved").Inc()
	return nil
}

func (s *ApprovalService) promote(ctx context.Context, pendingID string) error {
	pending, err := s.members.FindPending(ctx, pendingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	member := domain.Member{
		ID:           s.newID(),
		MembershipID: s.newID(),
		Name:         pending.Name,
		Gender:       pending.Gender,
		Contact:      pending.Contact,
		Address:      pending.Address,
		IncomeClass:  pending.IncomeClass,
		Disabled:     pending.Disabled,
		SubProgram:   pending.SubProgram,
		Status:       string(domain.PendingApproved),
		ApprovedAt:   s.now().Format("2006-01-02"),
		CreatedAt:    s.now(),
	}

	payload, err := json.Marshal(ports.MemberApprovedEvent{
		PendingID:    pending.ID,
		MemberID:     member.ID,
		MembershipID: member.MembershipID,
		Name:         member.Name,
		SubProgram:   member.SubProgram,
		ApprovedAt:   member.ApprovedAt,
	})
	if err != nil {
		return err
	}

	if err := s.members.PromotePending(ctx, pending.ID, member, ports.EventTypeMemberApproved, payload); err != nil {
		return err
	}
	metrics.Approvals.WithLabelValues("promoted").Inc()
	return nil
}

// Reject moves an existing principal to the rejected state. It is not
// defined for new-member submissions.
func (s *ApprovalService) Reject(ctx context.Context, actor domain.Identity, principalID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	p, err := s.principals.FindByID(ctx, principalID)
	if err != nil {
		return err
	}
	if !domain.CanTransition(p.Role, domain.RoleRejected) {
		return fmt.Errorf("%s -> %s: %w", p.Role, domain.RoleRejected, domain.ErrInvalidTransition)
	}
	if err := s.principals.UpdateRole(ctx, principalID, domain.RoleRejected); err != nil {
		return err
	}
	metrics.Approvals.WithLabelValues("rejected").Inc()
	return nil
}

// Cancel returns a principal to the pending state from any approved or
// rejected role. Cancelling an already pending principal is a no-op.
func (s *ApprovalService) Cancel(ctx context.Context, actor domain.Identity, principalID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	p, err := s.principals.FindByID(ctx, principalID)
	if err != nil {
		return err
	}
	if p.Role == domain.RolePending {
		return nil
	}
	if !domain.CanTransition(p.Role, domain.RolePending) {
		return fmt.Errorf("%s -> %s: %w", p.Role, domain.RolePending, domain.ErrInvalidTransition)
	}
	if err := s.principals.UpdateRole(ctx, principalID, domain.RolePending); err != nil {
		return err
	}
	metrics.Approvals.WithLabelValues("cancelled").Inc()
	return nil
}

func (s *ApprovalService) ListPending(ctx context.Context, actor domain.Identity) ([]domain.PendingMember, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.members.ListPending(ctx)
}

func requireAdmin(actor domain.Identity) error {
	if actor.Role != domain.RoleAdmin {
		return fmt.Errorf("actor %q has role %q: %w", actor.ID, actor.Role, domain.ErrForbidden)
	}
	return nil
}
