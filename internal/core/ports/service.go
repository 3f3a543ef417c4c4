package ports

import (
	"context"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
)

type IdentityService interface {
	Login(ctx context.Context, email, accessCode string) (string, error)
	Resolve(ctx context.Context, principalID string) (*domain.Identity, error)
	SignOut(ctx context.Context, token string) error
	Watch(ctx context.Context) (<-chan domain.AuthEvent, error)
}

type ApprovalService interface {
	Approve(ctx context.Context, actor domain.Identity, principalID string, targetRole domain.Role, isNewMember bool) error
	Reject(ctx context.Context, actor domain.Identity, principalID string) error
	Cancel(ctx context.Context, actor domain.Identity, principalID string) error
	ListPending(ctx context.Context, actor domain.Identity) ([]domain.PendingMember, error)
}

type MemberService interface {
	ListBySubProgram(ctx context.Context, actor domain.Identity, subProgram string) ([]domain.Member, error)
	Create(ctx context.Context, actor domain.Identity, m domain.Member) (*domain.Member, error)
	Update(ctx context.Context, actor domain.Identity, m domain.Member) error
	Delete(ctx context.Context, actor domain.Identity, id string) error
}

type AttendanceService interface {
	Save(ctx context.Context, actor domain.Identity, records []domain.AttendanceRecord) error
	Fetch(ctx context.Context, actor domain.Identity, date, subProgram string) ([]domain.AttendanceRecord, error)
	Stats(ctx context.Context, actor domain.Identity, from, to, subProgram string) (domain.AttendanceStats, error)
}

type StructureService interface {
	Lookup(ctx context.Context, subProgram string) (*domain.ProgramStructure, error)
	List(ctx context.Context) ([]domain.ProgramStructure, error)
	Create(ctx context.Context, s domain.ProgramStructure) error
	Update(ctx context.Context, s domain.ProgramStructure) error
	Delete(ctx context.Context, subProgram string) error
	ListTeamMap(ctx context.Context) ([]domain.TeamSubProgramMap, error)
	SaveTeamMap(ctx context.Context, m domain.TeamSubProgramMap) error
	ReconcileTeamMap(ctx context.Context) ([]domain.StructureMismatch, error)
}
